package compat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/opensubtitles/langcompat/internal/model"
)

// ErrSamePair is returned when a route is requested from a language to itself.
var ErrSamePair = errors.New("source and target languages cannot be the same")

// RankBy selects the ordering used by Rankings.
type RankBy string

const (
	RankByConnections RankBy = "connections"
	RankByAvg         RankBy = "avg"
	RankByHigh        RankBy = "high"
)

// DefaultAsymmetry is the score gap above which a pair counts as asymmetric.
const DefaultAsymmetry = 10

const (
	highBand   = 200
	mediumBand = 150
)

// Band classifies a score as high (>= 200), medium (>= 150) or low.
func Band(score int) model.Band {
	switch {
	case score >= highBand:
		return model.BandHigh
	case score >= mediumBand:
		return model.BandMedium
	}
	return model.BandLow
}

// Interpret describes a score in words.
func Interpret(score int) string {
	switch {
	case score >= 240:
		return "Very High - Near perfect mutual intelligibility"
	case score >= 200:
		return "High - Strong mutual intelligibility"
	case score >= 150:
		return "Medium - Moderate mutual intelligibility"
	case score >= 100:
		return "Low - Limited mutual intelligibility"
	}
	return "Very Low - Minimal mutual intelligibility"
}

// Stats summarises every directed pair except a language with itself.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	st := &model.Stats{Languages: m.Len()}
	sum := 0
	m.Each(func(source, target string, score int) {
		if source == target {
			return
		}
		if st.Pairs == 0 || score < st.MinScore {
			st.MinScore = score
		}
		if score > st.MaxScore {
			st.MaxScore = score
		}
		st.Pairs++
		sum += score
		switch Band(score) {
		case model.BandHigh:
			st.HighPairs++
		case model.BandMedium:
			st.MediumPairs++
		default:
			st.LowPairs++
		}
	})
	if st.Pairs > 0 {
		st.AvgScore = int(math.Floor(float64(sum)/float64(st.Pairs) + 0.5))
	}
	return st, nil
}

// LanguageStats summarises the row of language, the self pair included.
func (s *Service) LanguageStats(ctx context.Context, language string) (*model.LanguageStats, bool, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if !m.HasSource(language) {
		return nil, false, nil
	}
	st := rowStats(m, language)
	return &st, true, nil
}

func rowStats(m *model.Matrix, language string) model.LanguageStats {
	st := model.LanguageStats{Language: language}
	sum := 0
	for _, target := range m.Targets(language) {
		score, _ := m.Score(language, target)
		if st.Connections == 0 || score < st.MinScore {
			st.MinScore = score
		}
		if score > st.MaxScore {
			st.MaxScore = score
		}
		st.Connections++
		sum += score
		switch Band(score) {
		case model.BandHigh:
			st.High++
		case model.BandMedium:
			st.Medium++
		default:
			st.Low++
		}
	}
	if st.Connections > 0 {
		st.AvgScore = float64(sum) / float64(st.Connections)
	}
	return st
}

// Rankings returns per-language stats ordered by connection count, average
// score or high-band connection count, highest first. Ties keep file order.
// limit <= 0 returns every language.
func (s *Service) Rankings(ctx context.Context, by RankBy, limit int) ([]model.LanguageStats, error) {
	var less func(a, b model.LanguageStats) bool
	switch by {
	case RankByConnections:
		less = func(a, b model.LanguageStats) bool { return a.Connections > b.Connections }
	case RankByAvg:
		less = func(a, b model.LanguageStats) bool { return a.AvgScore > b.AvgScore }
	case RankByHigh:
		less = func(a, b model.LanguageStats) bool { return a.High > b.High }
	default:
		return nil, fmt.Errorf("unknown ranking %q (use connections, avg or high)", by)
	}

	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]model.LanguageStats, 0, m.Len())
	for _, lang := range m.Sources() {
		ranked = append(ranked, rowStats(m, lang))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// BestPath compares the direct score with the best pivot among every other
// language in the matrix.
func (s *Service) BestPath(ctx context.Context, source, target string) (*model.Path, error) {
	if source == target {
		return nil, ErrSamePair
	}
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	direct, _ := m.Score(source, target)
	path := &model.Path{Source: source, Target: target, Direct: direct}
	path.Pivot = bestPivot(m, source, target, otherLanguages(m, source, target))
	if path.Pivot != nil {
		path.Improvement = path.Pivot.Score - float64(direct)
	}
	return path, nil
}

// Recommendations lists every viable pivot ordered by its weaker leg,
// strongest first. Ties keep matrix order. limit <= 0 returns all.
func (s *Service) Recommendations(ctx context.Context, source, target string, limit int) ([]model.PivotOption, error) {
	if source == target {
		return nil, ErrSamePair
	}
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	direct, _ := m.Score(source, target)
	opts := []model.PivotOption{}
	for _, p := range otherLanguages(m, source, target) {
		leg, ok := pivotLegs(m, source, p, target)
		if !ok {
			continue
		}
		opts = append(opts, model.PivotOption{
			Pivot:       leg,
			MinScore:    min(leg.SourceToPivot, leg.PivotToTarget),
			Improvement: leg.Score - float64(direct),
		})
	}
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].MinScore > opts[j].MinScore
	})
	if limit > 0 && limit < len(opts) {
		opts = opts[:limit]
	}
	return opts, nil
}

func otherLanguages(m *model.Matrix, source, target string) []string {
	var out []string
	for _, lang := range m.Sources() {
		if lang != source && lang != target {
			out = append(out, lang)
		}
	}
	return out
}

// AsymmetricPairs returns the unordered pairs whose two recorded directions
// differ by more than minDiff. Both directions must be above zero. Pairs are
// ordered by gap, largest first, then by code.
func (s *Service) AsymmetricPairs(ctx context.Context, minDiff int) ([]model.Asymmetry, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	pairs := []model.Asymmetry{}
	for _, a := range m.Sources() {
		for _, b := range m.Targets(a) {
			if a >= b {
				continue
			}
			ab, _ := m.Score(a, b)
			ba, ok := m.Score(b, a)
			if !ok || ab <= 0 || ba <= 0 {
				continue
			}
			diff := ab - ba
			if diff < 0 {
				diff = -diff
			}
			if diff <= minDiff {
				continue
			}
			pairs = append(pairs, model.Asymmetry{
				A: a, B: b, AToB: ab, BToA: ba, Diff: diff,
				Average: float64(ab+ba) / 2,
			})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Diff != pairs[j].Diff {
			return pairs[i].Diff > pairs[j].Diff
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}
