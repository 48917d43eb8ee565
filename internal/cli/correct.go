package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/correct"
	"github.com/opensubtitles/langcompat/internal/logging"
	"github.com/opensubtitles/langcompat/internal/store"
)

func newCorrectCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct <input.json>",
		Short: "Apply the Scandinavian score corrections to a matrix file",
		Long:  "Read a matrix JSON file, apply the fixed Scandinavian directional overrides and write the corrected matrix to a new file. The input is never modified.",
		Args:  cobra.ExactArgs(1),
		RunE:  o.runCorrect,
	}
	cmd.Flags().StringP("out", "o", "", "Output file (default: <input>-corrected.json)")
	cmd.Flags().String("report", "", "Also write a JSON report of the corrections to this file")
	cmd.Flags().Int("show", 10, "Number of corrections to list")
	return cmd
}

func (o *options) runCorrect(cmd *cobra.Command, args []string) error {
	input := args[0]
	out, _ := cmd.Flags().GetString("out")
	reportPath, _ := cmd.Flags().GetString("report")
	show, _ := cmd.Flags().GetInt("show")
	if out == "" {
		out = correctedPath(input)
	}
	if out == input {
		return fmt.Errorf("correct: output would overwrite the input %s", input)
	}

	table := correct.Scandinavian
	if err := table.Validate(); err != nil {
		return fmt.Errorf("correct: %w", err)
	}

	m, err := store.NewJSONStore(input).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("correct: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Applying Scandinavian language corrections...")
	fixed, corrections := correct.Apply(m, table)
	fmt.Fprintf(w, "\n%s", correct.Summary(corrections, show))

	if err := store.WriteJSONFile(out, fixed); err != nil {
		return fmt.Errorf("correct: write %s: %w", out, err)
	}
	fmt.Fprintf(w, "\nSaved corrected dataset to: %s\n", out)

	report := correct.NewReport(input, out, corrections)
	logging.Info("correction_run", "id", report.ID, "input", input, "output", out, "corrections", len(corrections))
	if reportPath != "" {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(reportPath, append(b, '\n'), 0o644); err != nil {
			return fmt.Errorf("correct: write report: %w", err)
		}
	}

	fmt.Fprintln(w, "\nKey Scandinavian corrections verification:")
	for _, p := range correct.VerificationPairs {
		if score, ok := fixed.Score(p[0], p[1]); ok {
			fmt.Fprintf(w, "  %s->%s: %d/255\n", p[0], p[1], score)
		} else {
			fmt.Fprintf(w, "  %s->%s: not in matrix\n", p[0], p[1])
		}
	}
	return nil
}

func correctedPath(input string) string {
	return strings.TrimSuffix(input, ".json") + "-corrected.json"
}
