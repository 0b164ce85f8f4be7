package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/unitkit/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the unitkit and Go versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			goInfo, err := version.Runtime()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", version.Tool(), goInfo)
			return err
		},
	}
}
