package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/unitkit/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	lists := []struct {
		name   string
		target *config.SliceFlag
	}{
		{"name", &values.Names},
		{"category", &values.Categories},
		{"exclude", &values.Exclude},
		{"manifest", &values.Manifests},
	}
	for _, s := range lists {
		if !flags.Changed(s.name) {
			continue
		}
		v, err := flags.GetStringArray(s.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", s.name, err)
		}
		*s.target = config.SliceFlag{Values: append([]string{}, v...)}
	}

	strs := []struct {
		name   string
		target *config.StringFlag
	}{
		{"format", &values.Format},
		{"log-level", &values.LogLevel},
		{"log-format", &values.LogFormat},
		{"metrics", &values.MetricsPath},
	}
	for _, s := range strs {
		if !flags.Changed(s.name) {
			continue
		}
		v, err := flags.GetString(s.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", s.name, err)
		}
		*s.target = config.StringFlag{Value: v, Set: true}
	}

	bools := []struct {
		name   string
		target *config.BoolFlag
	}{
		{"verbose", &values.Verbose},
		{"strict-mocks", &values.StrictMocks},
	}
	for _, b := range bools {
		if !flags.Changed(b.name) {
			continue
		}
		v, err := flags.GetBool(b.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", b.name, err)
		}
		*b.target = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
