package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compatCmd = &cobra.Command{
	Use:   "compat <component-version> <gate-version>",
	Short: "Check whether a feature is available for a pair of component versions",
	Long: `Below or at the gate threshold the feature is always available. Past it,
the component version must be newer than the component threshold.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		compatible := cfg.Gate.Compatible(args[0], args[1])
		_, err := fmt.Fprintln(cmd.OutOrStdout(), compatible)
		return err
	},
}

func init() {
	RootCmd.AddCommand(compatCmd)
}
