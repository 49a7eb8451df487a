package engine

import (
	"cmp"
	"context"

	"github.com/google/uuid"

	"github.com/matzehuels/sortstage/pkg/errors"
	"github.com/matzehuels/sortstage/pkg/sequence"
)

// exec threads one run's sequence, hooks, and counters through an
// algorithm. All four algorithms observe values only through compare and
// mutate positions only through the sequence.
type exec struct {
	seq      *sequence.Sequence
	hooks    Hooks
	steps    uint64
	compares uint64
	swaps    uint64
}

// compare awaits the compare hook, then returns the three-way comparison
// of the values at positions i and j.
func (e *exec) compare(ctx context.Context, i, j int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.steps++
	e.compares++
	if err := e.hooks.OnCompare(ctx, i, j); err != nil {
		return 0, errors.Wrap(errors.ErrCodeHookFailure, err, "compare hook (%d, %d)", i, j)
	}
	return cmp.Compare(e.seq.At(i).Value, e.seq.At(j).Value), nil
}

// run dispatches to the requested algorithm over the full range.
func (e *exec) run(ctx context.Context, alg Algorithm) error {
	n := e.seq.Len()
	switch alg {
	case AlgorithmBubble:
		return e.bubble(ctx)
	case AlgorithmSelection:
		return e.selection(ctx)
	case AlgorithmQuick:
		return e.quick(ctx, 0, n-1)
	case AlgorithmMerge:
		return e.mergeSort(ctx, 0, n-1)
	}
	return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm %q", alg)
}

// bubble sorts by repeatedly swapping adjacent out-of-order pairs. The
// already-sorted suffix above n-i-1 is never re-scanned, and equal values
// never trigger a swap, so bubble sort is stable.
func (e *exec) bubble(ctx context.Context) error {
	n := e.seq.Len()
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			c, err := e.compare(ctx, j, j+1)
			if err != nil {
				return err
			}
			if c > 0 {
				if err := e.seq.Swap(ctx, j, j+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// selection scans for the minimum of the unsorted suffix and exchanges it
// into place. A single exchange can carry an item past equal-valued ones,
// so selection sort is not stable.
func (e *exec) selection(ctx context.Context) error {
	n := e.seq.Len()
	for i := 0; i < n-1; i++ {
		min := i
		for j := i + 1; j < n; j++ {
			c, err := e.compare(ctx, min, j)
			if err != nil {
				return err
			}
			if c > 0 {
				min = j
			}
		}
		if min != i {
			if err := e.seq.Exchange(ctx, i, min); err != nil {
				return err
			}
		}
	}
	return nil
}

// quick sorts [low, high] with Lomuto partitioning, pivot fixed as the
// value at high. Worst case O(n²) compares on adversarial input.
func (e *exec) quick(ctx context.Context, low, high int) error {
	if low >= high {
		return nil
	}
	p, err := e.partition(ctx, low, high)
	if err != nil {
		return err
	}
	if err := e.quick(ctx, low, p-1); err != nil {
		return err
	}
	return e.quick(ctx, p+1, high)
}

// partition moves every item not greater than the pivot below the boundary,
// then places the pivot at the boundary. Returns the pivot's final position.
func (e *exec) partition(ctx context.Context, low, high int) (int, error) {
	i := low - 1
	for j := low; j < high; j++ {
		c, err := e.compare(ctx, j, high)
		if err != nil {
			return 0, err
		}
		if c <= 0 {
			i++
			if err := e.seq.Exchange(ctx, i, j); err != nil {
				return 0, err
			}
		}
	}
	if err := e.seq.Exchange(ctx, i+1, high); err != nil {
		return 0, err
	}
	return i + 1, nil
}

// mergeSort recursively splits [low, high] and merges the sorted halves.
func (e *exec) mergeSort(ctx context.Context, low, high int) error {
	if low >= high {
		return nil
	}
	mid := (low + high) / 2
	if err := e.mergeSort(ctx, low, mid); err != nil {
		return err
	}
	if err := e.mergeSort(ctx, mid+1, high); err != nil {
		return err
	}
	return e.merge(ctx, low, mid, high)
}

// merge interleaves the sorted halves [low, mid] and [mid+1, high] using
// only relocations, i.e. chains of adjacent swaps.
//
// The halves are snapshotted by item identity, not by value: each candidate
// is re-located through its ID after earlier relocations shifted it, which
// stays unambiguous under duplicate values. Ties prefer the left candidate,
// which makes the merge stable. Once one half is consumed, the remainder
// already sits contiguously at the output position in sorted order, so
// draining needs no further movement.
func (e *exec) merge(ctx context.Context, low, mid, high int) error {
	left := make([]uuid.UUID, 0, mid-low+1)
	for p := low; p <= mid; p++ {
		left = append(left, e.seq.At(p).ID)
	}
	right := make([]uuid.UUID, 0, high-mid)
	for p := mid + 1; p <= high; p++ {
		right = append(right, e.seq.At(p).ID)
	}

	k := low
	li, ri := 0, 0
	for li < len(left) && ri < len(right) {
		i := e.seq.IndexOf(left[li])
		j := e.seq.IndexOf(right[ri])
		c, err := e.compare(ctx, i, j)
		if err != nil {
			return err
		}
		if c <= 0 {
			if err := e.seq.Relocate(ctx, i, k); err != nil {
				return err
			}
			li++
		} else {
			if err := e.seq.Relocate(ctx, j, k); err != nil {
				return err
			}
			ri++
		}
		k++
	}
	return nil
}
