// Package correct rewrites selected directional scores of a matrix from a
// fixed override table.
package correct

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/opensubtitles/langcompat/internal/logging"
	"github.com/opensubtitles/langcompat/internal/model"
)

// Override sets the score of one directed pair.
type Override struct {
	Source string
	Target string
	Score  int
}

// Table is a named override list. Reason and ReverseReason label the
// corrections of the forward and the reverse pass.
type Table struct {
	Name          string
	Reason        string
	ReverseReason string
	Overrides     []Override
}

// Scandinavian follows Gooskens et al. (2017) and ASJP lexical similarity.
var Scandinavian = Table{
	Name:          "scandinavian",
	Reason:        "Scandinavian correction",
	ReverseReason: "Scandinavian reverse correction",
	Overrides: []Override{
		{"sv", "no", 245},
		{"sv", "nb", 242},
		{"sv", "nn", 240},
		{"sv", "da", 245},
		{"no", "da", 252},
		{"nb", "da", 248},
		{"nn", "da", 245},

		{"is", "sv", 135},
		{"is", "no", 140},
		{"is", "da", 130},
		{"is", "nb", 135},
		{"is", "nn", 130},

		{"fo", "sv", 90},
		{"fo", "no", 95},
		{"fo", "da", 85},
	},
}

// VerificationPairs are printed after a Scandinavian run.
var VerificationPairs = [][2]string{
	{"sv", "no"}, {"sv", "da"}, {"is", "sv"}, {"fo", "sv"},
}

// Validate checks every override score is in range.
func (t Table) Validate() error {
	for _, o := range t.Overrides {
		if !model.ValidScore(o.Score) {
			return fmt.Errorf("override %s->%s: %d outside [%d, %d]", o.Source, o.Target, o.Score, model.MinScore, model.MaxScore)
		}
	}
	return nil
}

type pair struct{ source, target string }

// Apply returns a corrected copy of m and the corrections made; m itself is
// left untouched. The forward pass sets every recorded pair listed in the
// table. The reverse pass then sets every recorded pair whose reverse is
// listed. Pairs missing from m are never added, and values already equal
// to the table are not reported.
func Apply(m *model.Matrix, t Table) (*model.Matrix, []model.Correction) {
	want := make(map[pair]int, len(t.Overrides))
	for _, o := range t.Overrides {
		want[pair{o.Source, o.Target}] = o.Score
	}

	current := m.Map()
	b := model.Clone(m)
	corrections := []model.Correction{}

	set := func(source, target string, score int, reason string) {
		old := current[source][target]
		if old == score {
			return
		}
		corrections = append(corrections, model.Correction{
			Source: source, Target: target, Old: old, New: score, Reason: reason,
		})
		current[source][target] = score
		b.Set(source, target, score)
		logging.Debug("score_corrected", "source", source, "target", target, "old", old, "new", score)
	}

	m.Each(func(source, target string, _ int) {
		if score, ok := want[pair{source, target}]; ok {
			set(source, target, score, t.Reason)
		}
	})
	m.Each(func(source, target string, _ int) {
		if score, ok := want[pair{target, source}]; ok {
			set(source, target, score, t.ReverseReason)
		}
	})

	return b.Build(), corrections
}

// NewReport wraps corrections in a Report with a fresh ULID.
func NewReport(input, output string, corrections []model.Correction) *model.Report {
	now := time.Now().UTC()
	entropy := rand.New(rand.NewSource(now.UnixNano()))
	return &model.Report{
		ID:          ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		CreatedAt:   now,
		Input:       input,
		Output:      output,
		Corrections: corrections,
	}
}

// Summary lists the first limit corrections, one per line, followed by a
// count of the rest.
func Summary(corrections []model.Correction, limit int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Applied %d corrections:\n", len(corrections))
	for i, c := range corrections {
		if i == limit {
			break
		}
		fmt.Fprintf(&sb, "%d. %s->%s: %d → %d (%s)\n", i+1, c.Source, c.Target, c.Old, c.New, c.Reason)
	}
	if len(corrections) > limit {
		fmt.Fprintf(&sb, "... and %d more corrections\n", len(corrections)-limit)
	}
	return sb.String()
}
