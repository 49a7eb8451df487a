// Package engine implements the instrumented sorting engine.
//
// The engine runs one of four canonical sorting algorithms (bubble,
// selection, quick, merge) over a [sequence.Sequence] while emitting
// comparison and exchange events through a [Hooks] implementation. Every
// emitted event blocks the algorithm until the hook returns, which is what
// lets an external renderer animate each step at its own pace; the engine
// itself knows nothing about timing.
//
// # Architecture
//
// Algorithms are pure control flow over index ranges. They observe values
// only through instrumented comparisons and mutate positions only through
// the sequence's adjacent transposition primitive (directly, or via the
// derived Relocate/Exchange operations). The [Runner] serializes
// executions: exactly one run may be active at a time, and a second
// attempt fails fast with ALREADY_RUNNING.
//
// # Usage
//
//	seq, err := sequence.Generate(32, 100, 42)
//	if err != nil {
//	    return err
//	}
//	runner := engine.NewRunner(logger)
//	run, err := runner.Execute(ctx, seq, engine.AlgorithmQuick, hooks)
package engine

import (
	"time"

	"github.com/matzehuels/sortstage/pkg/errors"
)

// =============================================================================
// Algorithms
// =============================================================================

// Algorithm identifies one of the supported sorting algorithms.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmBubble    Algorithm = "bubble"
	AlgorithmSelection Algorithm = "selection"
	AlgorithmQuick     Algorithm = "quick"
	AlgorithmMerge     Algorithm = "merge"
)

// Algorithms returns all supported algorithms in display order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmBubble, AlgorithmSelection, AlgorithmQuick, AlgorithmMerge}
}

// ParseAlgorithm validates a user-supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AlgorithmBubble, AlgorithmSelection, AlgorithmQuick, AlgorithmMerge:
		return Algorithm(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidAlgorithm,
		"unknown algorithm %q (must be one of: bubble, selection, quick, merge)", name)
}

// Stable reports whether the algorithm preserves the relative order of
// equal-valued items.
func (a Algorithm) Stable() bool {
	return a == AlgorithmBubble || a == AlgorithmMerge
}

// =============================================================================
// Speed
// =============================================================================

// Speed is the enumerated animation speed. The engine never sleeps; the
// per-step delay is consumed by hook implementations (the TUI renderer and
// the plain logger renderer).
type Speed string

// Supported speeds.
const (
	SpeedSlow   Speed = "slow"
	SpeedMedium Speed = "medium"
	SpeedFast   Speed = "fast"
)

// ParseSpeed validates a user-supplied speed name.
func ParseSpeed(name string) (Speed, error) {
	switch Speed(name) {
	case SpeedSlow, SpeedMedium, SpeedFast:
		return Speed(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidSpeed,
		"unknown speed %q (must be one of: slow, medium, fast)", name)
}

// Delay returns the per-step delay a renderer should apply.
func (s Speed) Delay() time.Duration {
	switch s {
	case SpeedSlow:
		return 250 * time.Millisecond
	case SpeedFast:
		return 15 * time.Millisecond
	default:
		return 80 * time.Millisecond
	}
}
