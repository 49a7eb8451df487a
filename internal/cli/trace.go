package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortstage/pkg/cache"
	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/errors"
	"github.com/matzehuels/sortstage/pkg/trace"
)

// Output format constants for the trace command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

// traceCommand creates the trace command for headless step traces.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		algorithmStr string
		format       string
		output       string
		noCache      bool
		data         datasetFlags
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Compute a step trace without animating it",
		Long: `Compute a step trace without animating it.

The trace is the full ordered record of every comparison and adjacent
exchange a run performs, deterministic in (algorithm, dataset). Output
formats:

  json   machine-readable trace (default)
  dot    Graphviz source of the step chain
  svg    rendered step-chain diagram
  png    rendered step-chain diagram

Computed traces are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := parseAlgorithmFlag(algorithmStr)
			if err != nil {
				return err
			}
			if err := validateFormat(format); err != nil {
				return err
			}
			return c.runTrace(cmd.Context(), alg, data, format, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&algorithmStr, "algorithm", "a", "bubble", "algorithm: bubble, selection, quick, merge")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json (default), dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout; binary formats require it)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&data.values, "values", "", "explicit dataset, comma-separated (overrides --size)")
	cmd.Flags().IntVarP(&data.size, "size", "n", c.Config.Size, "generated dataset size")
	cmd.Flags().IntVar(&data.maxValue, "max-value", c.Config.MaxValue, "upper bound for generated values")
	cmd.Flags().Uint64Var(&data.seed, "seed", c.Config.Seed, "generation seed (0 = random)")

	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatDOT, formatSVG, formatPNG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"invalid format %q (must be one of: json, dot, svg, png)", format)
}

// runTrace computes (or loads from cache) the trace and writes it in the
// requested format.
func (c *CLI) runTrace(ctx context.Context, alg engine.Algorithm, data datasetFlags, format, output string, noCache bool) error {
	seq, err := data.sequence()
	if err != nil {
		return err
	}
	values := seq.Values()

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	t, cached, err := c.computeTrace(ctx, store, values, alg)
	if err != nil {
		return err
	}
	c.Logger.Debug("trace ready",
		"algorithm", alg,
		"size", len(values),
		"comparisons", t.Comparisons,
		"swaps", t.Swaps,
		"cached", cached)

	switch format {
	case formatJSON:
		return writeOutput(output, nil, func(w *os.File) error { return trace.Write(t, w) })
	case formatDOT:
		return writeOutput(output, []byte(trace.ToDOT(t)), nil)
	case formatSVG, formatPNG:
		if output == "" {
			output = defaultArtifactName(alg, format)
		}
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()
		var rendered []byte
		if format == formatSVG {
			rendered, err = trace.RenderSVG(trace.ToDOT(t))
		} else {
			rendered, err = trace.RenderPNG(trace.ToDOT(t))
		}
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		spinner.Stop()
		if err := writeOutput(output, rendered, nil); err != nil {
			return err
		}
		printSuccess("wrote %s", output)
		return nil
	}
	return nil
}

// computeTrace checks the cache before executing the run.
func (c *CLI) computeTrace(ctx context.Context, store cache.Cache, values []int, alg engine.Algorithm) (*trace.Trace, bool, error) {
	key := cache.TraceKey(string(alg), values)
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		if t, err := trace.Unmarshal(data); err == nil {
			return t, true, nil
		}
	}

	p := newProgress(c.Logger)
	t, err := trace.Compute(ctx, values, alg)
	if err != nil {
		return nil, false, err
	}
	p.done(fmt.Sprintf("Computed %s trace: %d steps", alg, len(t.Steps)))

	if data, err := trace.Marshal(t); err == nil {
		_ = store.Set(ctx, key, data, cache.TTLTrace)
	}
	return t, false, nil
}

// writeOutput writes data (or streams via fn) to the output path, or to
// stdout when path is empty.
func writeOutput(path string, data []byte, fn func(*os.File) error) error {
	f := os.Stdout
	if path != "" {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
	}
	if fn != nil {
		return fn(f)
	}
	_, err := f.Write(data)
	return err
}

func defaultArtifactName(alg engine.Algorithm, format string) string {
	return filepath.Clean(strings.ToLower(fmt.Sprintf("%s-trace.%s", alg, format)))
}
