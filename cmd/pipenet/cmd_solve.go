package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-pipenet/pkg/calc"
	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/metrics"
	"github.com/dd0wney/cluso-pipenet/pkg/netfile"
	"github.com/dd0wney/cluso-pipenet/pkg/pipeflow"
	"github.com/dd0wney/cluso-pipenet/pkg/validation"
)

type solveOptions struct {
	output     string
	metricsOut string
	workers    int
	serial     bool
	tgfDir     string
	seeds      []int
}

func newSolveCmd(root *rootOptions) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve <network-file>",
		Short: "Solve all subnets and write one result record per pipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, root, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "-", "Results file (JSON), - for stdout")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "Write a Prometheus text snapshot of the run metrics")
	f.IntVar(&opts.workers, "workers", 0, "Parallel subnet solves (overrides solver.workers)")
	f.BoolVar(&opts.serial, "serial", false, "Solve subnets one at a time")
	f.StringVar(&opts.tgfDir, "tgf-dir", "", "Write one annotated .tgf file per subnet")
	f.IntSliceVar(&opts.seeds, "seed", nil, "Only solve the subnets holding these pipe indices")
	return cmd
}

func runSolve(cmd *cobra.Command, root *rootOptions, opts *solveOptions, path string) error {
	start := time.Now()

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Solver.Workers = opts.workers
	}
	if opts.serial {
		cfg.Debug.Serial = true
	}
	if opts.tgfDir != "" {
		cfg.Debug.TGFDir = opts.tgfDir
	}
	if err := validation.ValidateConfig(cfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := newLogger(cmd, cfg).With(logging.RunID(runID))

	net, err := netfile.Load(path, logger)
	if err != nil {
		return err
	}

	if cfg.Debug.TGFDir != "" {
		if err := os.MkdirAll(cfg.Debug.TGFDir, 0o755); err != nil {
			return fmt.Errorf("create tgf dir: %w", err)
		}
	}

	model, err := pipeflow.New(cfg.PipeflowConfig())
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	rc := cfg.RunnerConfig()
	rc.Seeds = opts.seeds
	runner := calc.NewRunner(net.Network, net.Wells, model, rc,
		calc.WithLogger(logger.With(logging.Component("calc"))),
		calc.WithMetrics(reg))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, runErr := runner.Run(ctx)
	if res != nil {
		if err := writeOutput(cmd, opts.output, func(w io.Writer) error {
			return netfile.WriteResults(w, netfile.NewResults(runID, net, res))
		}); err != nil {
			return err
		}
		logSummary(logger, res)
	}

	if opts.metricsOut != "" {
		reg.UpdateProcessMetrics(start)
		if err := writeMetrics(opts.metricsOut, reg); err != nil {
			return err
		}
	}
	return runErr
}

func logSummary(logger logging.Logger, res *calc.Result) {
	fields := []logging.Field{logging.Int("subnets", len(res.Subnets)), logging.Count(len(res.Records))}
	for status, n := range res.StatusCounts() {
		fields = append(fields, logging.Int(status.String(), n))
	}
	logger.Info("solve finished", fields...)
}

// writeOutput writes to the named file, or to the command output for "-"
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMetrics(path string, reg *metrics.Registry) error {
	families, err := reg.GetPrometheusRegistry().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return f.Close()
}
