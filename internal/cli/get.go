package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/catalog"
	"github.com/opensubtitles/langcompat/internal/compat"
	"github.com/opensubtitles/langcompat/internal/model"
)

type scoreResult struct {
	Source         string     `json:"source"`
	Target         string     `json:"target"`
	Score          *int       `json:"score"`
	Band           model.Band `json:"band,omitempty"`
	Interpretation string     `json:"interpretation,omitempty"`
	SourceFamily   string     `json:"source_family"`
	TargetFamily   string     `json:"target_family"`
}

func newGetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <source> <target>",
		Short: "Show the source→target compatibility score",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runGet(cmd, args[0], args[1])
		},
	}
}

func (o *options) runGet(cmd *cobra.Command, source, target string) error {
	svc, done := o.openService()
	defer done()

	score, ok, err := svc.Compatibility(cmd.Context(), source, target)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	res := scoreResult{
		Source:       source,
		Target:       target,
		SourceFamily: cat.FamilyOf(source),
		TargetFamily: cat.FamilyOf(target),
	}
	if ok {
		res.Score = &score
		res.Band = compat.Band(score)
		res.Interpretation = compat.Interpret(score)
	}

	return o.emit(cmd, res, func(w io.Writer) {
		pair := fmt.Sprintf("%s → %s", cat.Name(source), cat.Name(target))
		if !ok {
			fmt.Fprintf(w, "%s: not found\n", pair)
			return
		}
		fmt.Fprintf(w, "%s: %d/255 (%s)\n", pair, score, res.Interpretation)
	})
}
