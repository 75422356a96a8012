package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/gitrdm/acmatch/internal/config"
	"github.com/gitrdm/acmatch/internal/metrics"
	"github.com/gitrdm/acmatch/pkg/acmatch"
)

type rootFlags struct {
	configPath string
	strategy   string
	metrics    bool
	workers    int
}

// runtime is what every subcommand needs after flags are resolved.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	matcher *acmatch.Matcher
	reg     *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{workers: -1}

	rootCmd := &cobra.Command{
		Use:           "acmatch",
		Short:         "Run AC-aware structural pattern matching scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.strategy, "strategy", "", "AC search strategy: greedy or exhaustive")
	rootCmd.PersistentFlags().BoolVar(&flags.metrics, "metrics", false, "print Prometheus metrics after the run")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Match every scenario sequentially and print the bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			return runDemo(cmd.OutOrStdout(), rt)
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Match every scenario concurrently with MatchBatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), cmd.OutOrStdout(), rt)
		},
	}
	batchCmd.Flags().IntVar(&flags.workers, "workers", -1, "worker count (0 = one per CPU, default from config)")

	rootCmd.AddCommand(demoCmd, batchCmd)
	return rootCmd
}

func setup(cmd *cobra.Command, flags *rootFlags) (*runtime, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flags.strategy != "" {
		cfg.Matcher.Strategy = flags.strategy
	}
	if flags.metrics {
		cfg.Metrics.Enabled = true
	}
	if flags.workers >= 0 {
		cfg.Batch.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: cfg.Logger(cmd.ErrOrStderr())}

	var observer acmatch.Observer
	if cfg.Metrics.Enabled {
		rt.reg = prometheus.NewRegistry()
		observer = metrics.New(rt.reg, cfg.Metrics.Namespace)
	}
	opts, err := cfg.MatcherOptions(rt.logger, observer)
	if err != nil {
		return nil, err
	}
	rt.matcher = acmatch.NewMatcher(opts...)

	rt.logger.Debug("acmatch: configured",
		slog.String("strategy", cfg.Matcher.Strategy),
		slog.String("candidate_order", cfg.Matcher.CandidateOrder),
		slog.String("pattern_order", cfg.Matcher.PatternOrder),
		slog.Bool("metrics", cfg.Metrics.Enabled))
	return rt, nil
}

func runDemo(out io.Writer, rt *runtime) error {
	for _, sc := range scenarios {
		arena := acmatch.NewArena()
		expr, pat := sc.Build(arena)

		fmt.Fprintf(out, "== %s: %s\n", sc.Name, sc.Description)
		if err := arena.Display(out); err != nil {
			return err
		}
		fmt.Fprintf(out, "pattern: %s\n", pat)

		subst := acmatch.NewSubstitution()
		matched, err := safeMatch(rt.matcher, arena, expr, pat, subst)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "matched: %t\n", matched)
		if err := subst.Display(out, arena); err != nil {
			return err
		}
	}
	return dumpMetrics(out, rt)
}

// runBatch builds every scenario into one shared arena so the jobs run
// against the same read-only node store.
func runBatch(ctx context.Context, out io.Writer, rt *runtime) error {
	if ctx == nil {
		ctx = context.Background()
	}
	arena := acmatch.NewArena()
	jobs := make([]acmatch.Job, len(scenarios))
	for i, sc := range scenarios {
		expr, pat := sc.Build(arena)
		jobs[i] = acmatch.Job{Expr: expr, Pattern: pat}
	}

	results, err := rt.matcher.MatchBatch(ctx, arena, jobs, rt.cfg.Batch.Workers)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	for i, res := range results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "%s: error: %v\n", scenarios[i].Name, res.Err)
		case res.Matched:
			fmt.Fprintf(out, "%s: matched %s\n", scenarios[i].Name, res.Subst)
		default:
			fmt.Fprintf(out, "%s: no match\n", scenarios[i].Name)
		}
	}
	return dumpMetrics(out, rt)
}

func dumpMetrics(out io.Writer, rt *runtime) error {
	if rt.reg == nil {
		return nil
	}
	families, err := rt.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintln(out, "== metrics")
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
