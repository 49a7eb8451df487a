package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/sequence"
)

// barHeight is the bar chart height in terminal rows.
const barHeight = 16

// =============================================================================
// Hooks - engine side of the driver loop
// =============================================================================

// stepEvent is one animated step delivered from the engine to the TUI.
type stepEvent struct {
	kind string // "compare" or "swap"
	i, j int
}

// doneMsg carries the run outcome back into the TUI.
type doneMsg struct {
	run *engine.Run
	err error
}

// tickMsg releases the engine after the per-step delay elapsed.
type tickMsg struct{}

// tuiHooks is the engine side of the animation driver loop: each hook call
// sends its event to the TUI and blocks until the TUI acknowledges it after
// the speed-derived delay. Events are acknowledged strictly in issue order
// because the engine is a single task suspended at every step.
type tuiHooks struct {
	steps chan stepEvent
	ack   chan struct{}
}

func newTUIHooks() *tuiHooks {
	return &tuiHooks{
		steps: make(chan stepEvent),
		// Buffered so the renderer's acknowledgment never blocks, even if
		// the engine already gave up on a cancelled context.
		ack: make(chan struct{}, 1),
	}
}

func (h *tuiHooks) OnCompare(ctx context.Context, i, j int) error {
	return h.deliver(ctx, stepEvent{kind: "compare", i: i, j: j})
}

func (h *tuiHooks) OnSwap(ctx context.Context, i, j int) error {
	return h.deliver(ctx, stepEvent{kind: "swap", i: i, j: j})
}

func (h *tuiHooks) OnComplete(context.Context) {}

func (h *tuiHooks) deliver(ctx context.Context, ev stepEvent) error {
	select {
	case h.steps <- ev:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-h.ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure tuiHooks implements engine.Hooks.
var _ engine.Hooks = (*tuiHooks)(nil)

// =============================================================================
// Model - renderer side of the driver loop
// =============================================================================

// runModel animates a run as a bar chart. It keeps its own copy of the
// values and replays each swap event on it, so the view never reads the
// sequence the engine is mutating.
type runModel struct {
	algorithm engine.Algorithm
	values    []int
	maxValue  int
	delay     time.Duration

	hooks  *tuiHooks
	cancel context.CancelFunc

	active      [2]int
	activeKind  string
	comparisons uint64
	swaps       uint64

	done bool
	run  *engine.Run
	err  error
}

func newRunModel(values []int, alg engine.Algorithm, delay time.Duration, hooks *tuiHooks, cancel context.CancelFunc) runModel {
	maxValue := 1
	for _, v := range values {
		if v > maxValue {
			maxValue = v
		}
	}
	return runModel{
		algorithm: alg,
		values:    values,
		maxValue:  maxValue,
		delay:     delay,
		hooks:     hooks,
		cancel:    cancel,
		active:    [2]int{-1, -1},
	}
}

// waitForStep blocks until the engine delivers the next step event.
func (m runModel) waitForStep() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.hooks.steps
		if !ok {
			return nil
		}
		return ev
	}
}

func (m runModel) Init() tea.Cmd {
	return m.waitForStep()
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepEvent:
		m.active = [2]int{msg.i, msg.j}
		m.activeKind = msg.kind
		switch msg.kind {
		case "compare":
			m.comparisons++
		case "swap":
			m.swaps++
			m.values[msg.i], m.values[msg.j] = m.values[msg.j], m.values[msg.i]
		}
		return m, tea.Tick(m.delay, func(time.Time) tea.Msg { return tickMsg{} })

	case tickMsg:
		// The engine is parked on the ack; release it and wait for the
		// next step.
		m.hooks.ack <- struct{}{}
		return m, m.waitForStep()

	case doneMsg:
		m.done = true
		m.run = msg.run
		m.err = msg.err
		m.active = [2]int{-1, -1}
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, nil
		}
	}
	return m, nil
}

func (m runModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s sort", m.algorithm)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q abort"))
	b.WriteString("\n\n")

	b.WriteString(m.renderBars())
	b.WriteString("\n")

	status := fmt.Sprintf("comparisons %d  swaps %d", m.comparisons, m.swaps)
	if m.done {
		if m.err != nil {
			status += "  aborted"
		} else {
			status = StyleSuccess.Render(status + "  sorted " + iconSuccess)
		}
	}
	b.WriteString(StyleValue.Render(status))
	b.WriteString("\n")

	return b.String()
}

// renderBars draws the values as vertical bars, one column per item.
// The pair under comparison is amber; a just-exchanged pair is red; a
// finished run turns everything green.
func (m runModel) renderBars() string {
	heights := make([]int, len(m.values))
	for i, v := range m.values {
		h := v * barHeight / m.maxValue
		if h == 0 && v > 0 {
			h = 1
		}
		heights[i] = h
	}

	var b strings.Builder
	for row := barHeight; row >= 1; row-- {
		for i, h := range heights {
			cell := " "
			if h >= row {
				cell = "█"
			}
			b.WriteString(m.barStyle(i).Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m runModel) barStyle(i int) lipgloss.Style {
	switch {
	case m.done && m.err == nil:
		return styleBarDone
	case i == m.active[0] || i == m.active[1]:
		if m.activeKind == "swap" {
			return styleBarSwap
		}
		return styleBarCompare
	default:
		return styleBar
	}
}

// =============================================================================
// Entry point
// =============================================================================

// runTUI animates the run with bubbletea. The engine executes on its own
// goroutine and communicates exclusively through the hooks channels; the
// model consumes the lazy stream of step events and acknowledges each one
// after the configured delay.
func (c *CLI) runTUI(ctx context.Context, seq *sequence.Sequence, alg engine.Algorithm, speed engine.Speed) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	hooks := newTUIHooks()
	model := newRunModel(seq.Values(), alg, speed.Delay(), hooks, cancel)
	program := tea.NewProgram(model)

	go func() {
		run, err := engine.NewRunner(c.Logger).Execute(runCtx, seq, alg, hooks)
		program.Send(doneMsg{run: run, err: err})
	}()

	final, err := program.Run()
	cancel()
	if err != nil {
		return err
	}
	return reportRun(final)
}

// reportRun interprets the final TUI model and prints the run outcome.
// A renderer that exits with anything but a finished runModel is an error,
// never a silent success.
func reportRun(final tea.Model) error {
	m, ok := final.(runModel)
	if !ok {
		return fmt.Errorf("renderer returned unexpected model %T", final)
	}
	if m.err != nil {
		printError("run aborted: %v", m.err)
		return m.err
	}
	if m.run == nil {
		return fmt.Errorf("renderer exited before the run finished")
	}
	printSuccess("sorted %d items with %s sort: %d comparisons, %d swaps",
		m.run.Size, m.run.Algorithm, m.run.Comparisons, m.run.Swaps)
	return nil
}
