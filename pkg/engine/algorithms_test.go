package engine

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/sortstage/pkg/sequence"
)

// event is one observed compare or swap, in emission order.
type event struct {
	kind string
	i, j int
}

// recordingHooks captures every emitted event for trace assertions.
type recordingHooks struct {
	events   []event
	complete int
}

func (h *recordingHooks) OnCompare(_ context.Context, i, j int) error {
	h.events = append(h.events, event{"compare", i, j})
	return nil
}

func (h *recordingHooks) OnSwap(_ context.Context, i, j int) error {
	h.events = append(h.events, event{"swap", i, j})
	return nil
}

func (h *recordingHooks) OnComplete(context.Context) {
	h.complete++
}

func TestExecuteSorts(t *testing.T) {
	inputs := map[string][]int{
		"Random":     {5, 3, 8, 1, 9, 2, 7},
		"Sorted":     {1, 2, 3, 4, 5},
		"Reversed":   {9, 7, 5, 3, 1},
		"Duplicates": {4, 2, 4, 1, 2, 4, 1},
		"AllEqual":   {6, 6, 6, 6},
		"Single":     {42},
		"Pair":       {2, 1},
	}

	for _, alg := range Algorithms() {
		for name, values := range inputs {
			t.Run(fmt.Sprintf("%s/%s", alg, name), func(t *testing.T) {
				seq, err := sequence.New(values)
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				hooks := &recordingHooks{}

				run, err := NewRunner(nil).Execute(context.Background(), seq, alg, hooks)
				if err != nil {
					t.Fatalf("Execute: %v", err)
				}

				if run.Outcome != OutcomeCompleted {
					t.Errorf("Outcome = %s, want completed", run.Outcome)
				}
				if !seq.Sorted() {
					t.Errorf("sequence not sorted: %v", seq.Values())
				}
				want := slices.Clone(values)
				slices.Sort(want)
				if got := seq.Values(); !slices.Equal(got, want) {
					t.Errorf("Values() = %v, want %v", got, want)
				}
				if hooks.complete != 1 {
					t.Errorf("OnComplete fired %d times, want 1", hooks.complete)
				}
				if run.Steps != run.Comparisons+run.Swaps {
					t.Errorf("Steps = %d, want Comparisons+Swaps = %d",
						run.Steps, run.Comparisons+run.Swaps)
				}
				if got := uint64(len(hooks.events)); got != run.Steps {
					t.Errorf("observed %d events, run counted %d steps", got, run.Steps)
				}
			})
		}
	}
}

// Bubble and selection scan unconditionally, so their comparison count is a
// function of n alone.
func TestFixedComparisonCounts(t *testing.T) {
	inputs := [][]int{
		{1, 2, 3, 4, 5, 6},
		{6, 5, 4, 3, 2, 1},
		{3, 3, 3, 3, 3, 3},
		{2, 6, 1, 5, 3, 4},
	}

	for _, alg := range []Algorithm{AlgorithmBubble, AlgorithmSelection} {
		for _, values := range inputs {
			t.Run(fmt.Sprintf("%s/%v", alg, values), func(t *testing.T) {
				seq, err := sequence.New(values)
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				run, err := NewRunner(nil).Execute(context.Background(), seq, alg, nil)
				if err != nil {
					t.Fatalf("Execute: %v", err)
				}
				n := uint64(len(values))
				if want := n * (n - 1) / 2; run.Comparisons != want {
					t.Errorf("Comparisons = %d, want %d", run.Comparisons, want)
				}
			})
		}
	}
}

// Stable algorithms must keep equal-valued items in input order, checked by
// identity since values cannot distinguish duplicates.
func TestStability(t *testing.T) {
	values := []int{2, 1, 2, 1, 3, 1}

	for _, alg := range []Algorithm{AlgorithmBubble, AlgorithmMerge} {
		t.Run(string(alg), func(t *testing.T) {
			seq, err := sequence.New(values)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			ids := seq.IDs()

			if _, err := NewRunner(nil).Execute(context.Background(), seq, alg, nil); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if !seq.Sorted() {
				t.Fatalf("sequence not sorted: %v", seq.Values())
			}

			// For each value, the surviving ID order must match input order.
			inputOrder := map[int][]uuid.UUID{}
			for k, v := range values {
				inputOrder[v] = append(inputOrder[v], ids[k])
			}
			outputOrder := map[int][]uuid.UUID{}
			for k := 0; k < seq.Len(); k++ {
				it := seq.At(k)
				outputOrder[it.Value] = append(outputOrder[it.Value], it.ID)
			}
			for v, want := range inputOrder {
				if !slices.Equal(outputOrder[v], want) {
					t.Errorf("value %d: equal items reordered", v)
				}
			}
		})
	}
}

// The quicksort event stream for a fixed input is part of the engine's
// contract: deterministic pivot choice plus deterministic decomposition of
// non-adjacent exchanges into adjacent swap chains.
func TestQuickEventStream(t *testing.T) {
	seq, err := sequence.New([]int{5, 3, 8, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hooks := &recordingHooks{}

	run, err := NewRunner(nil).Execute(context.Background(), seq, AlgorithmQuick, hooks)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []event{
		{"compare", 0, 3},
		{"compare", 1, 3},
		{"compare", 2, 3},
		{"swap", 0, 1},
		{"swap", 1, 2},
		{"swap", 2, 3},
		{"swap", 2, 1},
		{"swap", 1, 0},
		{"compare", 1, 3},
		{"compare", 2, 3},
		{"swap", 2, 3},
	}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("event stream mismatch:\n got %v\nwant %v", hooks.events, want)
	}
	if got := seq.Values(); !slices.Equal(got, []int{1, 3, 5, 8}) {
		t.Errorf("Values() = %v, want [1 3 5 8]", got)
	}
	if run.Comparisons != 5 || run.Swaps != 6 {
		t.Errorf("counters = (%d, %d), want (5, 6)", run.Comparisons, run.Swaps)
	}
}

// Every physical mutation must be an adjacent transposition, for all
// algorithms including the ones that think in terms of distant exchanges.
func TestOnlyAdjacentSwaps(t *testing.T) {
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			seq, err := sequence.Generate(24, 50, 99)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			hooks := &recordingHooks{}
			if _, err := NewRunner(nil).Execute(context.Background(), seq, alg, hooks); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			for _, ev := range hooks.events {
				if ev.kind != "swap" {
					continue
				}
				if d := ev.i - ev.j; d != 1 && d != -1 {
					t.Fatalf("non-adjacent swap(%d, %d) emitted", ev.i, ev.j)
				}
			}
		})
	}
}
