package model

import (
	"reflect"
	"testing"
)

func TestBuilderPreservesOrder(t *testing.T) {
	m := NewBuilder().
		Set("sk", "cs", 245).
		Set("sk", "pl", 200).
		Set("en", "de", 240).
		Set("sk", "en", 160).
		Build()

	if got, want := m.Sources(), []string{"sk", "en"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sources() = %v, want %v", got, want)
	}
	if got, want := m.Targets("sk"), []string{"cs", "pl", "en"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Targets(sk) = %v, want %v", got, want)
	}
	if m.Pairs() != 4 {
		t.Errorf("expected 4 pairs, got %d", m.Pairs())
	}
}

func TestSetReplacesInPlace(t *testing.T) {
	m := NewBuilder().
		Set("sv", "no", 200).
		Set("sv", "da", 230).
		Set("sv", "no", 245).
		Build()

	if got, want := m.Targets("sv"), []string{"no", "da"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Targets(sv) = %v, want %v", got, want)
	}
	if s, _ := m.Score("sv", "no"); s != 245 {
		t.Errorf("expected 245, got %d", s)
	}
	if m.Pairs() != 2 {
		t.Errorf("expected 2 pairs, got %d", m.Pairs())
	}
}

func TestScoreMissing(t *testing.T) {
	m := NewBuilder().Set("es", "pt", 245).Build()

	if _, ok := m.Score("pt", "es"); ok {
		t.Error("reverse direction must not be found")
	}
	if _, ok := m.Score("xx", "pt"); ok {
		t.Error("unknown source must not be found")
	}
	if s, ok := m.Score("es", "pt"); !ok || s != 245 {
		t.Errorf("Score(es, pt) = %d, %v", s, ok)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := NewBuilder().Set("es", "pt", 245).Build()

	m.Row("es")["pt"] = 1
	m.Sources()[0] = "zz"
	m.Map()["es"]["pt"] = 2

	if s, _ := m.Score("es", "pt"); s != 245 {
		t.Errorf("matrix mutated through accessor: %d", s)
	}
	if m.Sources()[0] != "es" {
		t.Error("sources mutated through accessor")
	}
}

func TestAddSourceWithoutTargets(t *testing.T) {
	m := NewBuilder().AddSource("xx").Build()
	if !m.HasSource("xx") {
		t.Fatal("expected xx as source")
	}
	if len(m.Row("xx")) != 0 {
		t.Error("expected empty row")
	}
	if len(m.Row("yy")) != 0 {
		t.Error("expected empty row for unknown source")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewBuilder().Set("is", "sv", 180).Set("is", "da", 175).Build()
	c := Clone(m).Set("is", "sv", 135).Build()

	if s, _ := m.Score("is", "sv"); s != 180 {
		t.Errorf("original changed: %d", s)
	}
	if s, _ := c.Score("is", "sv"); s != 135 {
		t.Errorf("clone not updated: %d", s)
	}
	if !reflect.DeepEqual(c.Targets("is"), m.Targets("is")) {
		t.Error("clone lost target order")
	}
}

func TestValidScore(t *testing.T) {
	for _, s := range []int{0, 1, 150, 255} {
		if !ValidScore(s) {
			t.Errorf("%d should be valid", s)
		}
	}
	for _, s := range []int{-1, 256, 1000} {
		if ValidScore(s) {
			t.Errorf("%d should be invalid", s)
		}
	}
}
