package cli

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/errors"
	"github.com/matzehuels/sortstage/pkg/sequence"
)

// parseValues parses a comma-separated list of integers ("5,3,8,1").
// Whitespace around values is tolerated.
func parseValues(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid value %q", p)
		}
		values = append(values, v)
	}
	if err := errors.ValidateValues(values); err != nil {
		return nil, err
	}
	return values, nil
}

// datasetFlags holds the shared dataset selection flags of run and trace.
type datasetFlags struct {
	values   string
	size     int
	maxValue int
	seed     uint64
}

// sequenceFromFlags builds the dataset: explicit --values wins, otherwise
// a dataset is generated from --size/--max-value/--seed. A zero seed picks
// a fresh random dataset.
func (f *datasetFlags) sequence() (*sequence.Sequence, error) {
	if f.values != "" {
		values, err := parseValues(f.values)
		if err != nil {
			return nil, err
		}
		return sequence.New(values)
	}
	seed := f.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return sequence.Generate(f.size, f.maxValue, seed)
}

// parseAlgorithmFlag validates an algorithm flag value.
func parseAlgorithmFlag(name string) (engine.Algorithm, error) {
	return engine.ParseAlgorithm(strings.ToLower(strings.TrimSpace(name)))
}
