// Package model defines the compatibility matrix and the result types of
// the query layer.
package model

const (
	// MinScore means no practical transferability.
	MinScore = 0
	// MaxScore means perfect mutual intelligibility.
	MaxScore = 255
)

// Matrix is a sparse, directional source→target score table. Source order
// and per-row target order are the order the pairs were first added.
// A Matrix has no mutators; every accessor returns a copy.
type Matrix struct {
	sources []string
	rows    map[string]*row
	pairs   int
}

type row struct {
	targets []string
	scores  map[string]int
}

// Score returns the stored source→target score.
func (m *Matrix) Score(source, target string) (int, bool) {
	r, ok := m.rows[source]
	if !ok {
		return 0, false
	}
	s, ok := r.scores[target]
	return s, ok
}

// HasSource reports whether source is a top-level key.
func (m *Matrix) HasSource(source string) bool {
	_, ok := m.rows[source]
	return ok
}

// Sources returns the top-level language codes in file order.
func (m *Matrix) Sources() []string {
	out := make([]string, len(m.sources))
	copy(out, m.sources)
	return out
}

// Targets returns the target codes recorded under source, in file order.
func (m *Matrix) Targets(source string) []string {
	r, ok := m.rows[source]
	if !ok {
		return []string{}
	}
	out := make([]string, len(r.targets))
	copy(out, r.targets)
	return out
}

// Row returns a copy of the target→score mapping for source. Unknown
// sources yield an empty map.
func (m *Matrix) Row(source string) map[string]int {
	r, ok := m.rows[source]
	if !ok {
		return map[string]int{}
	}
	out := make(map[string]int, len(r.scores))
	for k, v := range r.scores {
		out[k] = v
	}
	return out
}

// Len returns the number of source languages.
func (m *Matrix) Len() int { return len(m.sources) }

// Pairs returns the number of stored directed pairs.
func (m *Matrix) Pairs() int { return m.pairs }

// Map returns the whole matrix as a nested map copy.
func (m *Matrix) Map() map[string]map[string]int {
	out := make(map[string]map[string]int, len(m.sources))
	for _, src := range m.sources {
		out[src] = m.Row(src)
	}
	return out
}

// Each calls fn for every stored pair, sources in order and targets in
// row order.
func (m *Matrix) Each(fn func(source, target string, score int)) {
	for _, src := range m.sources {
		r := m.rows[src]
		for _, tgt := range r.targets {
			fn(src, tgt, r.scores[tgt])
		}
	}
}

// Builder accumulates pairs into a Matrix.
type Builder struct {
	m *Matrix
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{m: &Matrix{rows: make(map[string]*row)}}
}

// AddSource records source as a top-level key even if it has no targets.
func (b *Builder) AddSource(source string) *Builder {
	b.row(source)
	return b
}

// Set stores a score. Setting an existing pair replaces its value and keeps
// its position.
func (b *Builder) Set(source, target string, score int) *Builder {
	r := b.row(source)
	if _, ok := r.scores[target]; !ok {
		r.targets = append(r.targets, target)
		b.m.pairs++
	}
	r.scores[target] = score
	return b
}

// Build returns the Matrix. The Builder must not be used afterwards.
func (b *Builder) Build() *Matrix {
	m := b.m
	b.m = nil
	return m
}

func (b *Builder) row(source string) *row {
	r, ok := b.m.rows[source]
	if !ok {
		r = &row{scores: make(map[string]int)}
		b.m.rows[source] = r
		b.m.sources = append(b.m.sources, source)
	}
	return r
}

// Clone returns a Builder seeded with a copy of m, for transformations that
// derive a new matrix.
func Clone(m *Matrix) *Builder {
	b := NewBuilder()
	for _, src := range m.sources {
		b.AddSource(src)
	}
	m.Each(func(s, t string, v int) { b.Set(s, t, v) })
	return b
}

// ValidScore reports whether s is within [MinScore, MaxScore].
func ValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}
