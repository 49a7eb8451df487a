package engine

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sortstage/pkg/errors"
	"github.com/matzehuels/sortstage/pkg/sequence"
)

// Outcome is the terminal state of a run.
type Outcome string

// Run outcomes. A run is Completed when the algorithm finished and the
// sequence is sorted, Failed when a hook rejected or the context was
// cancelled. There is no partial or resumable state for failed runs.
const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Run describes one algorithm execution. It is ephemeral: produced by
// Execute, never persisted.
type Run struct {
	ID          uuid.UUID     `json:"id"`
	Algorithm   Algorithm     `json:"algorithm"`
	Size        int           `json:"size"`
	Steps       uint64        `json:"steps"`
	Comparisons uint64        `json:"comparisons"`
	Swaps       uint64        `json:"swaps"`
	Outcome     Outcome       `json:"outcome"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// Runner serializes algorithm executions over sequences. Exactly one run
// may be active at a time; the mutual exclusion is a single running flag,
// not a reentrant lock, so a second Execute fails fast instead of queuing.
//
// The Runner is stateless between runs and safe for concurrent use; it is
// the sequences that must not be shared between concurrent callers.
type Runner struct {
	logger  *log.Logger
	running atomic.Bool
}

// NewRunner creates a runner. A nil logger discards engine logs.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{logger: logger}
}

// Running reports whether a run is currently active.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Execute runs the algorithm over the sequence, awaiting hooks at every
// comparison and adjacent exchange.
//
// It fails synchronously, before any state mutation, with:
//   - ALREADY_RUNNING when a prior run has not finished
//   - EMPTY_SEQUENCE when seq is nil or empty
//   - INVALID_ALGORITHM when alg is not a supported algorithm
//
// A hook error aborts the run mid-flight: the returned Run carries
// OutcomeFailed and the HOOK_FAILURE error, the running flag is reset, and
// the sequence is left exactly as the last resolved step put it. Passing
// nil hooks executes at full speed with no notifications except counters.
func (r *Runner) Execute(ctx context.Context, seq *sequence.Sequence, alg Algorithm, hooks Hooks) (*Run, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrCodeAlreadyRunning, "a run is already in progress")
	}
	defer r.running.Store(false)

	if seq == nil || seq.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptySequence, "no sequence has been initialized")
	}
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	if hooks == nil {
		hooks = NoopHooks{}
	}

	run := &Run{
		ID:        uuid.New(),
		Algorithm: alg,
		Size:      seq.Len(),
	}
	r.logger.Debug("starting run", "id", run.ID, "algorithm", alg, "size", run.Size)

	ex := &exec{seq: seq, hooks: hooks}
	seq.SetSwapHook(func(ctx context.Context, i, j int) error {
		ex.steps++
		ex.swaps++
		if err := hooks.OnSwap(ctx, i, j); err != nil {
			return errors.Wrap(errors.ErrCodeHookFailure, err, "swap hook (%d, %d)", i, j)
		}
		return nil
	})
	defer seq.SetSwapHook(nil)

	start := time.Now()
	err := ex.run(ctx, alg)
	run.Duration = time.Since(start)
	run.Steps = ex.steps
	run.Comparisons = ex.compares
	run.Swaps = ex.swaps

	if err != nil {
		run.Outcome = OutcomeFailed
		run.Err = err
		r.logger.Error("run failed",
			"id", run.ID,
			"algorithm", alg,
			"steps", run.Steps,
			"err", err)
		return run, err
	}

	run.Outcome = OutcomeCompleted
	hooks.OnComplete(ctx)
	r.logger.Info("run completed",
		"id", run.ID,
		"algorithm", alg,
		"size", run.Size,
		"comparisons", run.Comparisons,
		"swaps", run.Swaps,
		"duration", run.Duration.Round(time.Millisecond))
	return run, nil
}
