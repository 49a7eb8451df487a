// Package trace records and serializes the step events of a sorting run.
//
// A [Recorder] implements engine.Hooks and captures every comparison and
// adjacent exchange in issue order. The resulting [Trace] is the canonical
// serialization of a run: deterministic in (algorithm, input values), so it
// is cacheable, diffable, and replayable by any renderer.
//
// The format is human-readable JSON designed for round-trip fidelity:
// compute → export → re-import produces identical results.
package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/sequence"
)

// Kind discriminates step events.
type Kind string

// Step kinds.
const (
	KindCompare Kind = "compare"
	KindSwap    Kind = "swap"
)

// Step is one recorded engine event. Seq is the 1-based position in issue
// order; swap steps always reference adjacent indices.
type Step struct {
	Seq  uint64 `json:"seq"`
	Kind Kind   `json:"kind"`
	I    int    `json:"i"`
	J    int    `json:"j"`
}

// Trace is the full record of one run.
type Trace struct {
	Algorithm   string `json:"algorithm"`
	Input       []int  `json:"input"`
	Output      []int  `json:"output"`
	Comparisons int    `json:"comparisons"`
	Swaps       int    `json:"swaps"`
	Steps       []Step `json:"steps"`
}

// =============================================================================
// Recorder
// =============================================================================

// Recorder captures step events as engine hooks. It is not safe for
// concurrent use, matching the engine's single-task execution model.
type Recorder struct {
	steps []Step
	seq   uint64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnCompare records a comparison event.
func (r *Recorder) OnCompare(_ context.Context, i, j int) error {
	r.record(KindCompare, i, j)
	return nil
}

// OnSwap records an adjacent exchange event.
func (r *Recorder) OnSwap(_ context.Context, i, j int) error {
	r.record(KindSwap, i, j)
	return nil
}

// OnComplete is a no-op; completion is implied by the end of the step list.
func (r *Recorder) OnComplete(context.Context) {}

func (r *Recorder) record(kind Kind, i, j int) {
	r.seq++
	r.steps = append(r.steps, Step{Seq: r.seq, Kind: kind, I: i, J: j})
}

// Steps returns the recorded steps in issue order.
func (r *Recorder) Steps() []Step {
	return r.steps
}

// Ensure Recorder implements engine.Hooks.
var _ engine.Hooks = (*Recorder)(nil)

// =============================================================================
// Computation
// =============================================================================

// Compute executes the algorithm headlessly over the given values and
// returns the full trace. The input values are left untouched; the run
// operates on a fresh sequence.
func Compute(ctx context.Context, values []int, alg engine.Algorithm) (*Trace, error) {
	return ComputeWith(ctx, engine.NewRunner(nil), values, alg)
}

// ComputeWith is Compute against a caller-owned runner, so the caller's
// mutual exclusion applies: a concurrent computation on the same runner
// fails with ALREADY_RUNNING instead of interleaving.
func ComputeWith(ctx context.Context, runner *engine.Runner, values []int, alg engine.Algorithm) (*Trace, error) {
	seq, err := sequence.New(values)
	if err != nil {
		return nil, err
	}

	rec := NewRecorder()
	run, err := runner.Execute(ctx, seq, alg, rec)
	if err != nil {
		return nil, err
	}

	return &Trace{
		Algorithm:   string(alg),
		Input:       append([]int(nil), values...),
		Output:      seq.Values(),
		Comparisons: int(run.Comparisons),
		Swaps:       int(run.Swaps),
		Steps:       rec.Steps(),
	}, nil
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal encodes a trace as indented JSON.
func Marshal(t *Trace) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Unmarshal decodes a trace from JSON.
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &t, nil
}

// Write encodes a trace as JSON and writes it to w.
func Write(t *Trace, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return nil
}

// Read decodes a trace from r.
func Read(r io.Reader) (*Trace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile decodes a trace from a JSON file.
func ReadFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
