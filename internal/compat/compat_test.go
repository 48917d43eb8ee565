package compat

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opensubtitles/langcompat/internal/model"
	"github.com/opensubtitles/langcompat/internal/store"
)

const fixture = `{
  "sk": {"sk": 255, "cs": 248, "pl": 210, "en": 165, "de": 145, "ru": 165},
  "cs": {"cs": 255, "sk": 250, "en": 170},
  "en": {"en": 255, "de": 240, "sk": 160, "fr": 200},
  "de": {"de": 255, "en": 235, "sk": 0},
  "gl": {"gl": 255, "pt": 250, "es": 245, "fr": 200, "en": 150},
  "pt": {"pt": 255, "ro": 221, "gl": 248},
  "es": {"es": 255, "pt": 245, "ro": 220, "gl": 240},
  "fr": {"fr": 255, "ro": 215},
  "ro": {"ro": 255},
  "xx": {}
}`

func newFixtureService(t *testing.T) *Service {
	t.Helper()
	return New(store.NewBytesStore("fixture", []byte(fixture)))
}

func TestCompatibility(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	score, ok, err := s.Compatibility(ctx, "es", "pt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 245, score)

	// Directional: pt->es is not recorded and es->pt is not used for it.
	_, ok, err = s.Compatibility(ctx, "pt", "es")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = s.Compatibility(ctx, "xx", "en")
	assert.False(t, ok)
	_, ok, _ = s.Compatibility(ctx, "en", "xx")
	assert.False(t, ok)

	// A stored zero is a score, not an absence.
	score, ok, _ = s.Compatibility(ctx, "de", "sk")
	assert.True(t, ok)
	assert.Equal(t, 0, score)
}

func TestFallbackChain(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	chain, err := s.FallbackChain(ctx, "sk", []string{"en", "cs", "pl", "de"}, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs", "pl", "en"}, chain)
}

func TestFallbackChainThreshold(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	chain, err := s.FallbackChain(ctx, "sk", []string{"en", "cs", "pl", "de"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs", "pl", "en", "de"}, chain)

	chain, err = s.FallbackChain(ctx, "sk", []string{"en", "cs", "pl", "de"}, 248)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs"}, chain, "threshold is inclusive")

	chain, err = s.FallbackChain(ctx, "sk", []string{"en", "cs"}, 256)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestFallbackChainTiesKeepInputOrder(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	// sk->en and sk->ru are both 165.
	chain, err := s.FallbackChain(ctx, "sk", []string{"ru", "en"}, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"ru", "en"}, chain)

	chain, err = s.FallbackChain(ctx, "sk", []string{"en", "ru"}, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "ru"}, chain)
}

func TestFallbackChainDedupesAndIgnoresUnknown(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	chain, err := s.FallbackChain(ctx, "sk", []string{"cs", "zz", "cs", "pl"}, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs", "pl"}, chain)
}

func TestFallbackChainUnknownTarget(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	chain, err := s.FallbackChain(ctx, "zz", []string{"en"}, DefaultThreshold)
	require.NoError(t, err)
	require.NotNil(t, chain)
	assert.Empty(t, chain)
}

func TestFallbackChainProperties(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)
	m, err := s.Data(ctx)
	require.NoError(t, err)

	avail := m.Sources()
	for _, target := range m.Sources() {
		for _, threshold := range []int{0, 100, 150, 200, 250} {
			chain, err := s.FallbackChain(ctx, target, avail, threshold)
			require.NoError(t, err)

			prev := model.MaxScore + 1
			for _, lang := range chain {
				assert.Contains(t, avail, lang)
				score, ok := m.Score(target, lang)
				require.True(t, ok)
				assert.GreaterOrEqual(t, score, threshold)
				assert.LessOrEqual(t, score, prev, "chain for %s must not increase", target)
				prev = score
			}
		}
	}
}

func TestBestPivot(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	p, err := s.BestPivot(ctx, "gl", "ro", []string{"en", "es", "pt", "fr"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "pt", p.Language)
	assert.Equal(t, 235.5, p.Score)
	assert.Equal(t, 250, p.SourceToPivot)
	assert.Equal(t, 221, p.PivotToTarget)
}

func TestBestPivotUsesPivotToTargetDirection(t *testing.T) {
	ctx := context.Background()
	// Only a->p and p->b are recorded; b->p must not be consulted.
	s := New(store.NewBytesStore("t", []byte(`{
		"a": {"p": 200, "q": 200},
		"p": {"b": 100},
		"q": {},
		"b": {"q": 250}
	}`)))

	p, err := s.BestPivot(ctx, "a", "b", []string{"q", "p"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p", p.Language)
	assert.Equal(t, 150.0, p.Score)
}

func TestBestPivotFirstSeenWinsTie(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewBytesStore("t", []byte(`{
		"a": {"p": 200, "q": 180},
		"p": {"b": 180},
		"q": {"b": 200},
		"b": {}
	}`)))

	p, err := s.BestPivot(ctx, "a", "b", []string{"q", "p"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "q", p.Language)

	p, err = s.BestPivot(ctx, "a", "b", []string{"p", "q"})
	require.NoError(t, err)
	assert.Equal(t, "p", p.Language)
}

func TestBestPivotNotFound(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	tests := []struct {
		name           string
		source, target string
		pivots         []string
	}{
		{"unknown source", "zz", "ro", []string{"pt"}},
		{"unknown target", "gl", "zz", []string{"pt"}},
		{"no pivots", "gl", "ro", nil},
		{"pivot missing leg", "gl", "ro", []string{"en"}},
		{"zero leg", "en", "sk", []string{"de"}},
		{"unknown pivot", "gl", "ro", []string{"qq"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.BestPivot(ctx, tt.source, tt.target, tt.pivots)
			require.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestBestPivotIsMaximal(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)
	m, _ := s.Data(ctx)

	pivots := m.Sources()
	for _, src := range m.Sources() {
		for _, tgt := range m.Sources() {
			p, err := s.BestPivot(ctx, src, tgt, pivots)
			require.NoError(t, err)
			if p == nil {
				continue
			}
			sp, _ := m.Score(src, p.Language)
			pt, _ := m.Score(p.Language, tgt)
			assert.Equal(t, float64(sp+pt)/2, p.Score)
			for _, other := range pivots {
				a, ok1 := m.Score(src, other)
				b, ok2 := m.Score(other, tgt)
				if ok1 && ok2 && a > 0 && b > 0 {
					assert.LessOrEqual(t, float64(a+b)/2, p.Score)
				}
			}
		}
	}
}

func TestAllPairs(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	pairs, err := s.AllPairs(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"fr": 255, "ro": 215}, pairs)

	pairs["ro"] = 1
	again, _ := s.AllPairs(ctx, "fr")
	assert.Equal(t, 215, again["ro"], "AllPairs must return a copy")

	unknown, err := s.AllPairs(ctx, "zz")
	require.NoError(t, err)
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestSupportedLanguages(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	langs, err := s.SupportedLanguages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sk", "cs", "en", "de", "gl", "pt", "es", "fr", "ro", "xx"}, langs)
}

func TestFamilyScore(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	scores, err := s.FamilyScore(ctx, "es", []string{"xx", "pt"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pt": 245}, scores)
	_, present := scores["xx"]
	assert.False(t, present)

	scores, err = s.FamilyScore(ctx, "zz", []string{"pt"})
	require.NoError(t, err)
	assert.Empty(t, scores)

	scores, err = s.FamilyScore(ctx, "es", nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestDataIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newFixtureService(t)

	first, err := s.Data(ctx)
	require.NoError(t, err)
	second, err := s.Data(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, first.Map(), second.Map())
}

func TestDataUnavailablePropagates(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewJSONStore(filepath.Join(t.TempDir(), "missing.json")))

	_, _, err := s.Compatibility(ctx, "es", "pt")
	assert.True(t, errors.Is(err, store.ErrDataUnavailable))

	_, err = s.FallbackChain(ctx, "sk", []string{"cs"}, DefaultThreshold)
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
	_, err = s.BestPivot(ctx, "gl", "ro", []string{"pt"})
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
	_, err = s.AllPairs(ctx, "es")
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
	_, err = s.SupportedLanguages(ctx)
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
	_, err = s.FamilyScore(ctx, "es", []string{"pt"})
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
	_, err = s.Data(ctx)
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
	_, err = s.Stats(ctx)
	assert.ErrorIs(t, err, store.ErrDataUnavailable)
}

func TestBundledDataset(t *testing.T) {
	ctx := context.Background()
	s := New(store.NewEmbeddedStore())

	score, ok, err := s.Compatibility(ctx, "es", "pt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 245, score)

	score, _, _ = s.Compatibility(ctx, "en", "de")
	assert.Equal(t, 240, score)

	chain, err := s.FallbackChain(ctx, "sk", []string{"en", "cs", "pl", "de"}, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs", "pl", "en"}, chain)

	p, err := s.BestPivot(ctx, "gl", "ro", []string{"en", "es", "pt", "fr"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "pt", p.Language)
	assert.Equal(t, 235.5, p.Score)

	m, err := s.Data(ctx)
	require.NoError(t, err)
	langs, _ := s.SupportedLanguages(ctx)
	assert.Len(t, langs, m.Len())
	m.Each(func(_, _ string, score int) {
		assert.True(t, model.ValidScore(score))
	})
}
