package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/unitkit/internal/config"
	"github.com/bgricker/unitkit/pkg/discovery"
	"github.com/bgricker/unitkit/pkg/discovery/filter"
	"github.com/bgricker/unitkit/pkg/logging"
	"github.com/bgricker/unitkit/pkg/mock"
	"github.com/bgricker/unitkit/pkg/provider"
	"github.com/bgricker/unitkit/pkg/provider/manifest"
	"github.com/bgricker/unitkit/pkg/runner"
)

// pipelineData bundles the accumulated assembly with warnings and the
// run-wide logger.
type pipelineData struct {
	suite    *runner.Suite
	warnings []manifest.Warning
	logger   logging.Logger
}

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}
	return cfg, root, nil
}

func newLogger(cfg config.Config, out io.Writer) (logging.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: strings.ToLower(cfg.LogFormat),
		Output: out,
	})
}

func loadPipeline(cmd *cobra.Command, app App, root string, cfg config.Config) (pipelineData, error) {
	if app.Assembly == nil {
		return pipelineData{}, fmt.Errorf("no assembly to discover tests from")
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return pipelineData{}, err
	}

	var warnings []manifest.Warning
	if catalog, ok := app.Assembly.(*provider.Catalog); ok {
		warnings, err = manifest.LoadAll(root, cfg.Manifests, func(m *manifest.Manifest) []manifest.Warning {
			logger.Debug("applying manifest", "path", m.Path, "types", len(m.Types))
			return m.Apply(catalog)
		})
		if err != nil {
			return pipelineData{}, err
		}
	} else if len(cfg.Manifests) > 0 {
		return pipelineData{}, fmt.Errorf("manifests need a catalog assembly, got %T", app.Assembly)
	}

	filters, err := filter.Build(cfg.Names, cfg.Categories, cfg.Exclude)
	if err != nil {
		return pipelineData{}, err
	}

	var configurator discovery.Configurator = discovery.DefaultConfigurator{}
	if app.Configurator != nil {
		configurator = app.Configurator
	}
	if app.Mocks != nil {
		app.Mocks.Configure(mock.Strict(cfg.StrictMocks), mock.WithLogger(logger))
		configurator = mockConfigurator{Configurator: configurator, registry: app.Mocks}
	}

	suite, err := discovery.AssemblyAccumulator{Introspector: app.Assembly}.Suite(filters, configurator)
	if err != nil {
		return pipelineData{}, err
	}
	return pipelineData{suite: suite, warnings: warnings, logger: logger}, nil
}

// mockConfigurator scopes a mock registry to every test it configures.
type mockConfigurator struct {
	discovery.Configurator
	registry *mock.Registry
}

func (c mockConfigurator) ConfigureTest(test *runner.Test, m *provider.Method, intro provider.Introspector) error {
	if err := c.Configurator.ConfigureTest(test, m, intro); err != nil {
		return err
	}
	for _, f := range mock.SessionFilters(c.registry) {
		if err := test.AddFilter(f); err != nil {
			return err
		}
	}
	return nil
}

func collapseWarnings(warnings []manifest.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, fmt.Sprintf("%s: %s: %s", w.Path, w.Target, w.Message))
	}
	return out
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
	}
}
