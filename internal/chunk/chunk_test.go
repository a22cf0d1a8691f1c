package chunk

import (
	"errors"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"typical", Params{Size: 1000, Overlap: 200}, false},
		{"zero overlap", Params{Size: 100, Overlap: 0}, false},
		{"overlap equals size", Params{Size: 200, Overlap: 200}, true},
		{"overlap exceeds size", Params{Size: 200, Overlap: 300}, true},
		{"negative overlap", Params{Size: 200, Overlap: -1}, true},
		{"zero size", Params{Size: 0, Overlap: 0}, true},
		{"negative size", Params{Size: -5, Overlap: 0}, true},
	}

	for _, tt := range tests {
		err := tt.params.Validate()
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
			}
		} else if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
	}
}

func TestStableID_Deterministic(t *testing.T) {
	a := Chunk{Source: "R/filter.R", Index: 2}
	b := Chunk{Source: "R/filter.R", Index: 2, Text: "different text, same identity"}

	if a.StableID() != b.StableID() {
		t.Errorf("IDs for the same (source, index) differ: %s vs %s", a.StableID(), b.StableID())
	}
}

func TestStableID_Unique(t *testing.T) {
	seen := map[string]string{}
	chunks := []Chunk{
		{Source: "R/filter.R", Index: 0},
		{Source: "R/filter.R", Index: 1},
		{Source: "R/filter.R", Index: 10},
		{Source: "R/mutate.R", Index: 0},
		{Source: "docs/filter.md", Index: 0},
	}

	for _, c := range chunks {
		id := c.StableID()
		if prev, dup := seen[id]; dup {
			t.Errorf("ID collision between %s#%d and %s", c.Source, c.Index, prev)
		}
		seen[id] = c.Source
	}
}

func TestSplit_InvalidParams(t *testing.T) {
	s := NewSplitter()
	_, _, err := s.Split(proseFile("# Title\n\nBody.\n"), Params{Size: 100, Overlap: 100})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
