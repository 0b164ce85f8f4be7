package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bgricker/unitkit/internal/config"
	"github.com/bgricker/unitkit/internal/metrics"
	"github.com/bgricker/unitkit/internal/output"
	"github.com/bgricker/unitkit/pkg/discovery"
	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// ErrTestsFailed is returned by run when the assembly fails or errs.
var ErrTestsFailed = errors.New("one or more tests failed")

func newRunCmd(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run discovered tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, app)
		},
	}
}

func runExecute(cmd *cobra.Command, app App) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := loadPipeline(cmd, app, root, cfg)
	if err != nil {
		return err
	}

	if discovery.CountTests(data.suite) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching tests")
		return nil
	}

	runID := uuid.NewString()
	format := strings.ToLower(cfg.Format)

	var observers []runner.Observer
	var stream *output.StreamingRenderer
	if cfg.Verbose && format == config.FormatPretty {
		stream = output.NewStreaming(cmd.OutOrStdout())
		observers = append(observers, stream)
	}
	var collector *metrics.Collector
	if cfg.MetricsPath != "" {
		collector = metrics.NewCollector()
		observers = append(observers, collector)
	}

	data.logger.Debug("starting run", "run_id", runID, "assembly", data.suite.Name(), "tests", discovery.CountTests(data.suite))
	res, err := runner.New(runner.Options{Logger: data.logger, Observers: observers}).Run(data.suite, nil)
	if err != nil {
		return err
	}
	summary := report.Summarize(res)
	warnings := collapseWarnings(data.warnings)

	switch format {
	case config.FormatPretty:
		if stream != nil {
			if err := stream.RenderSummary(summary); err != nil {
				return err
			}
		} else if err := output.NewPretty(cmd.OutOrStdout(), cfg.Verbose).RenderResults(res, summary); err != nil {
			return err
		}
		printWarnings(cmd, warnings)
	case config.FormatJSON:
		rep := output.Report{
			RunID:    runID,
			Assembly: res.Name(),
			Results:  output.ResultTree(res),
			Summary:  &summary,
			Warnings: warnings,
		}
		if err := output.NewJSON(cmd.OutOrStdout()).Render(rep); err != nil {
			return err
		}
	case config.FormatJUnit:
		if err := output.NewJUnit(cmd.OutOrStdout()).Render(runID, res); err != nil {
			return err
		}
		printWarnings(cmd, warnings)
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if collector != nil {
		collector.ObserveRun(runID, res.Name(), res.Status())
		if err := collector.Write(cfg.MetricsPath); err != nil {
			return fmt.Errorf("write metrics %q: %w", cfg.MetricsPath, err)
		}
	}

	if summary.ExitCode != 0 {
		return ErrTestsFailed
	}
	return nil
}
