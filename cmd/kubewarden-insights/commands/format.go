package commands

import (
	"fmt"
	"strconv"

	"github.com/rancher/kubewarden-ui-sub002/pkg/format"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format durations and scan intervals the way the UI shows them",
}

var formatDurationCmd = &cobra.Command{
	Use:   "duration <microseconds>",
	Short: "Format a duration given in microseconds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		us, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[0], err)
		}
		formatted, err := format.FormatDuration(us)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), formatted)
		return err
	},
}

var formatIntervalCmd = &cobra.Command{
	Use:   "interval <code>",
	Short: "Format a scan interval such as 1h30m",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), format.ParseScanInterval(args[0]))
		return err
	},
}

func init() {
	formatCmd.AddCommand(formatDurationCmd, formatIntervalCmd)
	RootCmd.AddCommand(formatCmd)
}
