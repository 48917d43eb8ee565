package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/store"
)

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the matrix source in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := o.openStore()
			defer src.Close()

			m, err := src.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("info: %w", err)
			}
			res := map[string]any{"source": src.Path(), "languages": m.Len(), "pairs": m.Pairs()}
			if store.IsSQLitePath(src.Path()) {
				meta, err := store.SnapshotInfo(cmd.Context(), src.Path())
				if err != nil {
					return fmt.Errorf("info: %w", err)
				}
				res["snapshot"] = meta
			}
			return o.emit(cmd, res, func(w io.Writer) {
				fmt.Fprintf(w, "source:    %s\n", src.Path())
				fmt.Fprintf(w, "languages: %d\n", m.Len())
				fmt.Fprintf(w, "pairs:     %d\n", m.Pairs())
				if meta, ok := res["snapshot"].(map[string]string); ok {
					keys := make([]string, 0, len(meta))
					for k := range meta {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						fmt.Fprintf(w, "%s: %s\n", k, meta[k])
					}
				}
			})
		},
	}
}
