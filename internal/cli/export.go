package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/store"
)

func newExportCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <out>",
		Short: "Write the loaded matrix to a JSON or SQLite file",
		Long:  "Write the matrix selected by --data to a new file. A .db, .sqlite or .sqlite3 extension writes a SQLite snapshot, anything else indented JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			src := o.openStore()
			defer src.Close()

			if p := src.Path(); p != "" && filepath.Clean(p) == filepath.Clean(out) {
				return fmt.Errorf("export: output would overwrite the input %s", out)
			}

			m, err := src.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			res := map[string]any{"ok": true, "path": out, "languages": m.Len(), "pairs": m.Pairs()}
			if store.IsSQLitePath(out) {
				id, err := store.WriteSQLite(cmd.Context(), out, m)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				res["snapshot_id"] = id
			} else if err := store.WriteJSONFile(out, m); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			return o.emit(cmd, res, nil)
		},
	}
	return cmd
}
