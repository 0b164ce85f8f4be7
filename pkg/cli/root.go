// Package cli is the unitkit command line. Test binaries embed it by
// passing their catalog to Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgricker/unitkit/pkg/discovery"
	"github.com/bgricker/unitkit/pkg/mock"
	"github.com/bgricker/unitkit/pkg/provider"
)

// App is what the commands operate on.
type App struct {
	// Assembly is the code surface to discover tests from. Manifests are
	// only applied when it is a *provider.Catalog.
	Assembly provider.Introspector
	// Configurator maps markers to filters. Nil means the default one.
	Configurator discovery.Configurator
	// Mocks, when set, is reset before and verified after every test.
	Mocks *mock.Registry
}

// Execute runs the command line against app and exits non-zero on failure.
func Execute(app App) {
	cmd := NewRootCmd(app)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree for app.
func NewRootCmd(app App) *cobra.Command {
	name := "unitkit"
	if app.Assembly != nil && app.Assembly.Name() != "" {
		name = app.Assembly.Name()
	}
	cmd := &cobra.Command{
		Use:           name,
		Short:         "Discover and run unitkit tests",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringArray("name", nil, "test name pattern (repeatable)")
	persistent.StringArray("category", nil, "test category pattern (repeatable)")
	persistent.StringArray("exclude", nil, "exclude tests whose name matches (repeatable)")
	persistent.StringArray("manifest", nil, "marker manifest file to apply (repeatable)")
	persistent.BoolP("verbose", "v", false, "stream results and print stacks")
	persistent.String("format", "pretty", "output format (pretty|json|junit)")
	persistent.String("log-level", "warn", "log level (debug|info|warn|error)")
	persistent.String("log-format", "console", "log format (console|json)")
	persistent.String("metrics", "", "write Prometheus metrics to this file")
	persistent.Bool("strict-mocks", false, "fail on mock calls no expectation matches")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newRunCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
