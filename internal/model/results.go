package model

import "time"

// Pivot is the best intermediate language found for a source→target pair.
type Pivot struct {
	Language      string  `json:"pivot"`
	Score         float64 `json:"score"`
	SourceToPivot int     `json:"source_to_pivot"`
	PivotToTarget int     `json:"pivot_to_target"`
}

// PivotOption is one viable pivot in a recommendation list.
type PivotOption struct {
	Pivot
	MinScore    int     `json:"min_score"`
	Improvement float64 `json:"improvement"`
}

// Path compares a direct translation with the best pivot route.
type Path struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Direct      int     `json:"direct"`
	Pivot       *Pivot  `json:"pivot,omitempty"`
	Improvement float64 `json:"improvement"`
}

// Asymmetry is an unordered pair whose two directions disagree.
type Asymmetry struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	AToB    int     `json:"a_to_b"`
	BToA    int     `json:"b_to_a"`
	Diff    int     `json:"diff"`
	Average float64 `json:"average"`
}

// Band is a coarse score class.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Stats summarises the whole matrix.
type Stats struct {
	Languages   int `json:"languages"`
	Pairs       int `json:"pairs"`
	AvgScore    int `json:"avg_score"`
	MaxScore    int `json:"max_score"`
	MinScore    int `json:"min_score"`
	HighPairs   int `json:"high_pairs"`
	MediumPairs int `json:"medium_pairs"`
	LowPairs    int `json:"low_pairs"`
}

// LanguageStats summarises one source row.
type LanguageStats struct {
	Language    string  `json:"language"`
	Connections int     `json:"connections"`
	AvgScore    float64 `json:"avg_score"`
	MaxScore    int     `json:"max_score"`
	MinScore    int     `json:"min_score"`
	High        int     `json:"high"`
	Medium      int     `json:"medium"`
	Low         int     `json:"low"`
}

// Correction records one score rewritten by a correction pass.
type Correction struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Old    int    `json:"old"`
	New    int    `json:"new"`
	Reason string `json:"reason"`
}

// Report is the outcome of one correction run.
type Report struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	Input       string       `json:"input,omitempty"`
	Output      string       `json:"output,omitempty"`
	Corrections []Correction `json:"corrections"`
}
