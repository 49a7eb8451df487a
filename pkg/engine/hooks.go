package engine

import "context"

// Hooks receives step events from a run. The engine blocks on OnCompare and
// OnSwap until they return; returning an error aborts the run with
// HOOK_FAILURE. Hooks resolve in the exact order events are issued because
// the engine is a single logical task that suspends at every call.
type Hooks interface {
	// OnCompare is awaited before the values at i and j are compared.
	OnCompare(ctx context.Context, i, j int) error

	// OnSwap is awaited after the items at adjacent positions i and j have
	// been exchanged. The sequence already reflects the new positions.
	OnSwap(ctx context.Context, i, j int) error

	// OnComplete is a fire-and-forget notification after the algorithm
	// finished. It is not called for failed runs.
	OnComplete(ctx context.Context)
}

// NoopHooks is a no-op implementation of Hooks. Headless runs (tracing,
// tests, the HTTP API) use it to execute at full speed.
type NoopHooks struct{}

func (NoopHooks) OnCompare(context.Context, int, int) error { return nil }
func (NoopHooks) OnSwap(context.Context, int, int) error    { return nil }
func (NoopHooks) OnComplete(context.Context)                {}

// Ensure NoopHooks implements Hooks.
var _ Hooks = NoopHooks{}
