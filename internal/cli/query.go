package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/catalog"
	"github.com/opensubtitles/langcompat/internal/compat"
	"github.com/opensubtitles/langcompat/internal/store"
)

func newFallbackCmd(o *options) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "fallback <target> <available>...",
		Short: "Rank available languages as fallbacks for a target",
		Long:  "Rank the available languages (space or comma separated) by their score under the target, keeping those at or above the threshold.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			chain, err := svc.FallbackChain(cmd.Context(), args[0], splitCodes(args[1:]), threshold)
			if err != nil {
				return fmt.Errorf("fallback: %w", err)
			}
			return o.emit(cmd, chain, func(w io.Writer) {
				for _, lang := range chain {
					fmt.Fprintln(w, lang)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&threshold, "threshold", "t", compat.DefaultThreshold, "Minimum score")
	return cmd
}

func newPivotCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pivot <source> <target> <pivot>...",
		Short: "Pick the best pivot language among candidates",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			p, err := svc.BestPivot(cmd.Context(), args[0], args[1], splitCodes(args[2:]))
			if err != nil {
				return fmt.Errorf("pivot: %w", err)
			}
			return o.emit(cmd, p, func(w io.Writer) {
				if p == nil {
					fmt.Fprintln(w, "no viable pivot")
					return
				}
				fmt.Fprintf(w, "%s → %s → %s: %g (%d + %d)\n", args[0], p.Language, args[1], p.Score, p.SourceToPivot, p.PivotToTarget)
			})
		},
	}
}

func newPairsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pairs <language>",
		Short: "List every recorded score from a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			pairs, err := svc.AllPairs(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("pairs: %w", err)
			}
			return o.emit(cmd, pairs, func(w io.Writer) {
				writeScoresByRank(w, pairs)
			})
		},
	}
}

func newLangsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the supported source languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			langs, err := svc.SupportedLanguages(cmd.Context())
			if err != nil {
				return fmt.Errorf("langs: %w", err)
			}
			cat, err := catalog.Load()
			if err != nil {
				return err
			}
			return o.emit(cmd, langs, func(w io.Writer) {
				for _, l := range langs {
					fmt.Fprintf(w, "%s\t%s\t%s\n", l, cat.Name(l), cat.FamilyOf(l))
				}
			})
		},
	}
}

func newFamilyCmd(o *options) *cobra.Command {
	var family string
	cmd := &cobra.Command{
		Use:   "family <language> [codes...]",
		Short: "Score a language against a family of languages",
		Long:  "Score a language against a named family (--family, see --list) or an explicit list of codes. Codes without a score are left out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return err
			}
			if list, _ := cmd.Flags().GetBool("list"); list {
				families := map[string]catalog.Family{}
				for _, k := range cat.FamilyKeys() {
					families[k] = cat.Families[k]
				}
				return o.emit(cmd, families, func(w io.Writer) {
					for _, k := range cat.FamilyKeys() {
						fmt.Fprintf(w, "%s\t%s\t%v\n", k, cat.Families[k].Name, cat.Families[k].Languages)
					}
				})
			}

			if len(args) == 0 {
				return fmt.Errorf("family: a language is required")
			}
			codes := splitCodes(args[1:])
			if family != "" {
				members, ok := cat.Family(family)
				if !ok {
					return fmt.Errorf("family: unknown family %q", family)
				}
				codes = append(members, codes...)
			}

			svc, done := o.openService()
			defer done()

			scores, err := svc.FamilyScore(cmd.Context(), args[0], codes)
			if err != nil {
				return fmt.Errorf("family: %w", err)
			}
			return o.emit(cmd, scores, func(w io.Writer) {
				writeScoresByRank(w, scores)
			})
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "Named family from the catalog")
	cmd.Flags().Bool("list", false, "List the named families")
	return cmd
}

func newDataCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Print the whole matrix as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done := o.openService()
			defer done()

			m, err := svc.Data(cmd.Context())
			if err != nil {
				return fmt.Errorf("data: %w", err)
			}
			return store.WriteJSON(cmd.OutOrStdout(), m)
		},
	}
}

// writeScoresByRank prints code/score lines, highest score first.
func writeScoresByRank(w io.Writer, scores map[string]int) {
	codes := make([]string, 0, len(scores))
	for c := range scores {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if scores[codes[i]] != scores[codes[j]] {
			return scores[codes[i]] > scores[codes[j]]
		}
		return codes[i] < codes[j]
	})
	for _, c := range codes {
		fmt.Fprintf(w, "%s\t%d\n", c, scores[c])
	}
}
