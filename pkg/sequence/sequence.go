// Package sequence provides the ordered collection mutated by sorting runs.
//
// A Sequence holds Items, each with a stable identity and an immutable
// value. Position is the only thing that changes during a run, and the only
// mutation primitive is the adjacent transposition: Swap exchanges two
// neighboring positions and awaits an external hook before returning, which
// is what lets a renderer animate every physical movement.
//
// Non-adjacent movement is derived, never primitive:
//
//   - Relocate moves an item across multiple positions as a deterministic
//     chain of adjacent swaps, preserving the relative order of all other
//     items (the move decomposer).
//   - Exchange swaps two arbitrary positions, expressed through two
//     relocations.
//
// # Hooks
//
// The swap hook is registered once with SetSwapHook. Swap exchanges the
// items first, then invokes the hook and blocks until it returns; a hook
// error propagates to the caller and aborts whatever run issued the swap.
// A nil hook makes swaps instantaneous, which is what headless tracing and
// tests use.
package sequence

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/sortstage/pkg/errors"
)

// Item is a value plus a stable identity. The ID is assigned once at
// creation and never changes; the value is immutable. Sorting reorders
// items, it never rewrites them.
type Item struct {
	ID    uuid.UUID `json:"id"`
	Value int       `json:"value"`
}

// SwapHook is invoked after every adjacent transposition. The sequence
// blocks until the hook returns; animation timing lives on the hook side.
type SwapHook func(ctx context.Context, i, j int) error

// Sequence is an ordered list of items, indices 0..n-1. Every item's ID
// appears exactly once. A Sequence is owned by at most one run at a time
// and is not safe for concurrent use.
type Sequence struct {
	items  []Item
	onSwap SwapHook
}

// New builds a sequence from the given values, assigning fresh identities.
// Duplicate values are fine; identity disambiguates them.
func New(values []int) (*Sequence, error) {
	if err := errors.ValidateValues(values); err != nil {
		return nil, err
	}
	items := make([]Item, len(values))
	for i, v := range values {
		items[i] = Item{ID: uuid.New(), Value: v}
	}
	return &Sequence{items: items}, nil
}

// SetSwapHook registers the hook awaited by every adjacent transposition.
// Passing nil removes the hook.
func (s *Sequence) SetSwapHook(fn SwapHook) {
	s.onSwap = fn
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	return len(s.items)
}

// At returns the item at position i.
func (s *Sequence) At(i int) Item {
	return s.items[i]
}

// Values returns the current values in position order.
func (s *Sequence) Values() []int {
	values := make([]int, len(s.items))
	for i, it := range s.items {
		values[i] = it.Value
	}
	return values
}

// IDs returns the current item identities in position order.
func (s *Sequence) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// IndexOf returns the current physical position of the item with the given
// identity, or -1 if no such item exists. This is how a merge re-locates
// "the same" logical element after earlier relocations moved it.
func (s *Sequence) IndexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
}

// Sorted reports whether values are currently non-decreasing.
func (s *Sequence) Sorted() bool {
	return slices.IsSortedFunc(s.items, func(a, b Item) int { return a.Value - b.Value })
}

// Clone returns a deep copy sharing no state with the original.
// The clone has no swap hook.
func (s *Sequence) Clone() *Sequence {
	return &Sequence{items: slices.Clone(s.items)}
}

// Swap exchanges the items at positions i and j, then awaits the swap hook.
// It is the sole physical mutation primitive: i and j must be in range and
// adjacent (|i-j| = 1), otherwise it fails with INVALID_OPERATION before
// touching any state. After the hook resolves the new positions are final;
// there is no partial state visible to the hook or anyone else.
func (s *Sequence) Swap(ctx context.Context, i, j int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if err := s.checkIndex(j); err != nil {
		return err
	}
	if d := i - j; d != 1 && d != -1 {
		return errors.New(errors.ErrCodeInvalidOperation,
			"swap(%d, %d) is not an adjacent transposition", i, j)
	}

	s.items[i], s.items[j] = s.items[j], s.items[i]

	if s.onSwap != nil {
		if err := s.onSwap(ctx, i, j); err != nil {
			return err
		}
	}
	return nil
}

// Relocate moves the item at from to position to, shifting every item
// strictly between them by one position and leaving all other items'
// relative order unchanged. The move is realized as a deterministic chain
// of adjacent swaps: ascending swap(k, k+1) when moving right, descending
// swap(k, k-1) when moving left. No-op when from == to.
func (s *Sequence) Relocate(ctx context.Context, from, to int) error {
	if err := s.checkIndex(from); err != nil {
		return err
	}
	if err := s.checkIndex(to); err != nil {
		return err
	}

	switch {
	case from < to:
		for k := from; k < to; k++ {
			if err := s.Swap(ctx, k, k+1); err != nil {
				return err
			}
		}
	case from > to:
		for k := from; k > to; k-- {
			if err := s.Swap(ctx, k, k-1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Exchange swaps the items at positions i and j. Adjacent positions use the
// primitive directly; distant positions go through the move decomposer:
// relocate i to j (which leaves the old occupant of j at j-1), then move it
// back to i. Everything between ends up where it started. No-op when i == j.
func (s *Sequence) Exchange(ctx context.Context, i, j int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if err := s.checkIndex(j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	if j-i == 1 {
		return s.Swap(ctx, i, j)
	}
	if err := s.Relocate(ctx, i, j); err != nil {
		return err
	}
	return s.Relocate(ctx, j-1, i)
}

func (s *Sequence) checkIndex(i int) error {
	if i < 0 || i >= len(s.items) {
		return errors.New(errors.ErrCodeInvalidOperation,
			"index %d out of range [0, %d)", i, len(s.items))
	}
	return nil
}
