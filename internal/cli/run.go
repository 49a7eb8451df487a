package cli

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/sequence"
)

// runCommand creates the run command for animating a sorting run.
func (c *CLI) runCommand() *cobra.Command {
	var (
		algorithmStr string
		speedStr     string
		plain        bool
		data         datasetFlags
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate a sorting run in the terminal",
		Long: `Animate a sorting run in the terminal.

The dataset is either generated (--size, --max-value, --seed) or given
explicitly (--values "5,3,8,1"). Every comparison and adjacent exchange is
animated at the configured speed; merge sort realizes its insertions as
chains of adjacent exchanges, so every physical movement stays visible.

Outside a TTY (or with --plain) steps are logged instead of drawn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := parseAlgorithmFlag(algorithmStr)
			if err != nil {
				return err
			}
			speed, err := engine.ParseSpeed(speedStr)
			if err != nil {
				return err
			}
			seq, err := data.sequence()
			if err != nil {
				return err
			}
			return c.runAnimated(cmd.Context(), seq, alg, speed, plain)
		},
	}

	cmd.Flags().StringVarP(&algorithmStr, "algorithm", "a", "bubble", "algorithm: bubble, selection, quick, merge")
	cmd.Flags().StringVarP(&speedStr, "speed", "s", c.Config.Speed, "animation speed: slow, medium, fast")
	cmd.Flags().BoolVar(&plain, "plain", false, "log steps instead of drawing the TUI")
	cmd.Flags().StringVar(&data.values, "values", "", "explicit dataset, comma-separated (overrides --size)")
	cmd.Flags().IntVarP(&data.size, "size", "n", c.Config.Size, "generated dataset size")
	cmd.Flags().IntVar(&data.maxValue, "max-value", c.Config.MaxValue, "upper bound for generated values")
	cmd.Flags().Uint64Var(&data.seed, "seed", c.Config.Seed, "generation seed (0 = random)")

	return cmd
}

// runAnimated dispatches to the TUI renderer or the plain log renderer.
func (c *CLI) runAnimated(ctx context.Context, seq *sequence.Sequence, alg engine.Algorithm, speed engine.Speed, plain bool) error {
	if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return c.runPlain(ctx, seq, alg, speed)
	}
	return c.runTUI(ctx, seq, alg, speed)
}

// runPlain logs every step with the speed-derived delay.
func (c *CLI) runPlain(ctx context.Context, seq *sequence.Sequence, alg engine.Algorithm, speed engine.Speed) error {
	c.Logger.Info("starting", "algorithm", alg, "size", seq.Len(), "values", seq.Values())

	hooks := &plainHooks{logger: c.Logger, seq: seq, delay: speed.Delay()}
	run, err := engine.NewRunner(c.Logger).Execute(ctx, seq, alg, hooks)
	if err != nil {
		printError("run failed: %v", err)
		return err
	}

	printSuccess("sorted %d items with %s sort: %d comparisons, %d swaps in %s",
		run.Size, run.Algorithm, run.Comparisons, run.Swaps, run.Duration.Round(time.Millisecond))
	return nil
}

// plainHooks logs step events and paces them with a context-aware sleep.
type plainHooks struct {
	logger *log.Logger
	seq    *sequence.Sequence
	delay  time.Duration
}

func (h *plainHooks) OnCompare(ctx context.Context, i, j int) error {
	h.logger.Debug("compare", "i", i, "j", j)
	return sleep(ctx, h.delay)
}

func (h *plainHooks) OnSwap(ctx context.Context, i, j int) error {
	h.logger.Info("swap", "i", i, "j", j, "values", h.seq.Values())
	return sleep(ctx, h.delay)
}

func (h *plainHooks) OnComplete(context.Context) {
	h.logger.Info("done", "values", h.seq.Values())
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
