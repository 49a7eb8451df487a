package cli

import (
	"slices"
	"testing"

	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/errors"
)

func TestParseValues(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "Simple", input: "5,3,8,1", want: []int{5, 3, 8, 1}},
		{name: "Whitespace", input: " 5 , 3 ,8, 1 ", want: []int{5, 3, 8, 1}},
		{name: "Single", input: "42", want: []int{42}},
		{name: "TrailingComma", input: "1,2,", want: []int{1, 2}},
		{name: "Empty", input: "", wantErr: true},
		{name: "NotANumber", input: "1,two,3", wantErr: true},
		{name: "OutOfRange", input: "1,0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValues(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Fatalf("parseValues(%q) error = %v, want INVALID_INPUT", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseValues: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseValues(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDatasetFlags(t *testing.T) {
	t.Run("ExplicitValuesWin", func(t *testing.T) {
		f := datasetFlags{values: "3,1,2", size: 10, maxValue: 100, seed: 1}
		seq, err := f.sequence()
		if err != nil {
			t.Fatalf("sequence: %v", err)
		}
		if got := seq.Values(); !slices.Equal(got, []int{3, 1, 2}) {
			t.Errorf("Values() = %v, want [3 1 2]", got)
		}
	})

	t.Run("GeneratedWithSeed", func(t *testing.T) {
		f := datasetFlags{size: 8, maxValue: 50, seed: 11}
		a, err := f.sequence()
		if err != nil {
			t.Fatalf("sequence: %v", err)
		}
		b, err := f.sequence()
		if err != nil {
			t.Fatalf("sequence: %v", err)
		}
		if !slices.Equal(a.Values(), b.Values()) {
			t.Error("same seed generated different datasets")
		}
		if a.Len() != 8 {
			t.Errorf("Len() = %d, want 8", a.Len())
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		f := datasetFlags{values: "1,oops"}
		if _, err := f.sequence(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("sequence error = %v, want INVALID_INPUT", err)
		}
	})
}

func TestParseAlgorithmFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    engine.Algorithm
		wantErr bool
	}{
		{input: "bubble", want: engine.AlgorithmBubble},
		{input: " Quick ", want: engine.AlgorithmQuick},
		{input: "MERGE", want: engine.AlgorithmMerge},
		{input: "bogo", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseAlgorithmFlag(tt.input)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidAlgorithm) {
				t.Errorf("parseAlgorithmFlag(%q) error = %v, want INVALID_ALGORITHM", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAlgorithmFlag(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAlgorithmFlag(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
