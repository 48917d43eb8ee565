package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/compat"
)

func newPathCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path <source> <target>",
		Short: "Compare the direct score with the best pivot route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			p, err := svc.BestPath(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("path: %w", err)
			}
			return o.emit(cmd, p, func(w io.Writer) {
				fmt.Fprintf(w, "direct %s → %s: %d/255\n", p.Source, p.Target, p.Direct)
				if p.Pivot == nil {
					fmt.Fprintln(w, "no suitable pivot found")
					return
				}
				fmt.Fprintf(w, "pivot %s → %s → %s: %g/255 (%+g)\n", p.Source, p.Pivot.Language, p.Target, p.Pivot.Score, p.Improvement)
			})
		},
	}
}

func newRecommendCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend <source> <target>",
		Short: "List pivot languages ranked by their weaker leg",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			recs, err := svc.Recommendations(cmd.Context(), args[0], args[1], limit)
			if err != nil {
				return fmt.Errorf("recommend: %w", err)
			}
			return o.emit(cmd, recs, func(w io.Writer) {
				for _, r := range recs {
					fmt.Fprintf(w, "%s\tmin %d\tavg %g\t%+g\n", r.Language, r.MinScore, r.Score, r.Improvement)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Max results (0 for all)")
	return cmd
}

func newAsymmetricCmd(o *options) *cobra.Command {
	var minDiff, limit int
	cmd := &cobra.Command{
		Use:   "asymmetric",
		Short: "List language pairs whose two directions disagree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			pairs, err := svc.AsymmetricPairs(cmd.Context(), minDiff)
			if err != nil {
				return fmt.Errorf("asymmetric: %w", err)
			}
			if limit > 0 && limit < len(pairs) {
				pairs = pairs[:limit]
			}
			return o.emit(cmd, pairs, func(w io.Writer) {
				for _, p := range pairs {
					fmt.Fprintf(w, "%s→%s %d\t%s→%s %d\tdiff %d\n", p.A, p.B, p.AToB, p.B, p.A, p.BToA, p.Diff)
				}
			})
		},
	}
	cmd.Flags().IntVar(&minDiff, "min-diff", compat.DefaultAsymmetry, "Report gaps larger than this")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Max results (0 for all)")
	return cmd
}
