// Package compat answers compatibility queries over a loaded matrix.
//
// Every method loads the matrix through the store on first use. The only
// error a query returns is the store's load failure, which matches
// store.ErrDataUnavailable. An unknown language or a missing pair is an
// empty result, never an error.
package compat

import (
	"context"
	"sort"

	"github.com/opensubtitles/langcompat/internal/model"
	"github.com/opensubtitles/langcompat/internal/store"
)

// DefaultThreshold is the minimum score for a fallback language.
const DefaultThreshold = 150

// Service runs queries against one store.
type Service struct {
	store store.Store
}

// New returns a Service reading from s.
func New(s store.Store) *Service {
	return &Service{store: s}
}

// Data returns the read-only matrix snapshot.
func (s *Service) Data(ctx context.Context) (*model.Matrix, error) {
	return s.store.Load(ctx)
}

// Compatibility returns the source→target score. The reverse direction is
// never consulted.
func (s *Service) Compatibility(ctx context.Context, source, target string) (int, bool, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return 0, false, err
	}
	score, ok := m.Score(source, target)
	return score, ok, nil
}

// FallbackChain returns the languages of available scored under target at
// or above threshold, highest score first. Equal scores keep the order of
// available, and a code repeated in available is returned once.
func (s *Service) FallbackChain(ctx context.Context, target string, available []string, threshold int) ([]string, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		lang  string
		score int
	}
	var candidates []candidate
	seen := make(map[string]bool, len(available))
	for _, lang := range available {
		if seen[lang] {
			continue
		}
		seen[lang] = true
		if score, ok := m.Score(target, lang); ok && score >= threshold {
			candidates = append(candidates, candidate{lang, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	chain := make([]string, len(candidates))
	for i, c := range candidates {
		chain[i] = c.lang
	}
	return chain, nil
}

// BestPivot picks the pivot with the highest mean of source→pivot and
// pivot→target. Both legs must be recorded and above zero. The first pivot
// wins a tie. It returns nil when source or target is not a top-level
// language or no pivot is viable.
func (s *Service) BestPivot(ctx context.Context, source, target string, pivots []string) (*model.Pivot, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !m.HasSource(source) || !m.HasSource(target) {
		return nil, nil
	}
	return bestPivot(m, source, target, pivots), nil
}

func bestPivot(m *model.Matrix, source, target string, pivots []string) *model.Pivot {
	var best *model.Pivot
	for _, p := range pivots {
		leg, ok := pivotLegs(m, source, p, target)
		if !ok {
			continue
		}
		if best == nil || leg.Score > best.Score {
			best = &leg
		}
	}
	return best
}

func pivotLegs(m *model.Matrix, source, pivot, target string) (model.Pivot, bool) {
	sp, ok := m.Score(source, pivot)
	if !ok || sp <= 0 {
		return model.Pivot{}, false
	}
	pt, ok := m.Score(pivot, target)
	if !ok || pt <= 0 {
		return model.Pivot{}, false
	}
	return model.Pivot{
		Language:      pivot,
		Score:         float64(sp+pt) / 2,
		SourceToPivot: sp,
		PivotToTarget: pt,
	}, true
}

// AllPairs returns a copy of every target→score recorded for language.
func (s *Service) AllPairs(ctx context.Context, language string) (map[string]int, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Row(language), nil
}

// SupportedLanguages returns every source language in file order.
func (s *Service) SupportedLanguages(ctx context.Context) ([]string, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Sources(), nil
}

// FamilyScore returns the scores from language to each member of family.
// Members without a score are left out.
func (s *Service) FamilyScore(ctx context.Context, language string, family []string) (map[string]int, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, code := range family {
		if score, ok := m.Score(language, code); ok {
			out[code] = score
		}
	}
	return out, nil
}
