package errors

// Dataset bounds shared by CLI, API, and the generator. The upper bound
// keeps animated runs tractable: the swap-only realization of a merge is
// O(n² log n) physical exchanges in the worst case.
const (
	MinDatasetSize = 1
	MaxDatasetSize = 512

	MinValue = 1
	MaxValue = 1_000_000
)

// ValidateSize validates a requested dataset size.
func ValidateSize(n int) error {
	if n < MinDatasetSize {
		return New(ErrCodeInvalidInput, "dataset size must be at least %d, got %d", MinDatasetSize, n)
	}
	if n > MaxDatasetSize {
		return New(ErrCodeInvalidInput, "dataset size too large (max %d), got %d", MaxDatasetSize, n)
	}
	return nil
}

// ValidateValues validates an explicit dataset.
// Duplicate values are allowed; items carry their own identities.
func ValidateValues(values []int) error {
	if len(values) == 0 {
		return New(ErrCodeInvalidInput, "dataset is empty")
	}
	if len(values) > MaxDatasetSize {
		return New(ErrCodeInvalidInput, "dataset too large (max %d values), got %d", MaxDatasetSize, len(values))
	}
	for i, v := range values {
		if v < MinValue || v > MaxValue {
			return New(ErrCodeInvalidInput, "value %d at position %d out of range [%d, %d]", v, i, MinValue, MaxValue)
		}
	}
	return nil
}
