package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/compat"
	"github.com/opensubtitles/langcompat/internal/model"
)

func newStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [language]",
		Short: "Show matrix statistics, or one language's row statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			if len(args) == 1 {
				st, ok, err := svc.LanguageStats(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("stats: %w", err)
				}
				if !ok {
					st = nil
				}
				return o.emit(cmd, st, func(w io.Writer) {
					if st == nil {
						fmt.Fprintf(w, "%s: not found\n", args[0])
						return
					}
					writeLanguageStats(w, st)
				})
			}

			st, err := svc.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			return o.emit(cmd, st, func(w io.Writer) {
				fmt.Fprintf(w, "languages:\t%d\n", st.Languages)
				fmt.Fprintf(w, "pairs:\t%d\n", st.Pairs)
				fmt.Fprintf(w, "average:\t%d\n", st.AvgScore)
				fmt.Fprintf(w, "highest:\t%d\n", st.MaxScore)
				fmt.Fprintf(w, "lowest:\t%d\n", st.MinScore)
				fmt.Fprintf(w, "high/medium/low:\t%d/%d/%d\n", st.HighPairs, st.MediumPairs, st.LowPairs)
			})
		},
	}
}

func newRankCmd(o *options) *cobra.Command {
	var (
		limit int
		by    string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank languages by connections, average score or high-quality connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			ranked, err := svc.Rankings(cmd.Context(), compat.RankBy(by), limit)
			if err != nil {
				return fmt.Errorf("rank: %w", err)
			}
			return o.emit(cmd, ranked, func(w io.Writer) {
				for i := range ranked {
					fmt.Fprintf(w, "%d. ", i+1)
					writeLanguageStats(w, &ranked[i])
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Max results (0 for all)")
	cmd.Flags().StringVar(&by, "by", string(compat.RankByAvg), "Ordering: connections, avg or high")
	return cmd
}

func writeLanguageStats(w io.Writer, st *model.LanguageStats) {
	fmt.Fprintf(w, "%s: %d connections, avg %.1f, max %d, min %d, high/medium/low %d/%d/%d\n",
		st.Language, st.Connections, st.AvgScore, st.MaxScore, st.MinScore, st.High, st.Medium, st.Low)
}
