package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/unitkit/internal/config"
	"github.com/bgricker/unitkit/internal/output"
	"github.com/bgricker/unitkit/pkg/discovery"
)

func newListCmd(app App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered suites and tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app)
		},
	}
}

func runList(cmd *cobra.Command, app App) error {
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

	warnings := collapseWarnings(data.warnings)

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		if err := output.NewPretty(cmd.OutOrStdout(), cfg.Verbose).RenderList(data.suite); err != nil {
			return err
		}
		printWarnings(cmd, warnings)
	case config.FormatJSON:
		rep := output.Report{
			Assembly: data.suite.Name(),
			Units:    output.UnitTree(data.suite),
			Warnings: warnings,
		}
		if err := output.NewJSON(cmd.OutOrStdout()).Render(rep); err != nil {
			return err
		}
	default:
		return fmt.Errorf("format %q is not supported by list", cfg.Format)
	}
	return nil
}
