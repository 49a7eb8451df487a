package sequence

import (
	"math/rand/v2"

	"github.com/matzehuels/sortstage/pkg/errors"
)

// Generate builds a sequence of n random values in [1, maxValue] with fresh
// identities. The same seed always produces the same values, which keeps
// runs reproducible across renderers and across the trace cache.
//
// Duplicate values are possible and safe; the engine tracks items by
// identity.
func Generate(n, maxValue int, seed uint64) (*Sequence, error) {
	if err := errors.ValidateSize(n); err != nil {
		return nil, err
	}
	if maxValue < errors.MinValue || maxValue > errors.MaxValue {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"max value must be in [%d, %d], got %d", errors.MinValue, errors.MaxValue, maxValue)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	values := make([]int, n)
	for i := range values {
		values[i] = rng.IntN(maxValue) + 1
	}
	return New(values)
}
