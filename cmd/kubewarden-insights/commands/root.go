package commands

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rancher/kubewarden-ui-sub002/pkg/config"
	"github.com/rancher/kubewarden-ui-sub002/pkg/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	//go:embed version.txt
	version string

	configPath   string
	logLevel     string
	outputFormat string

	cfg *config.Config
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "kubewarden-insights",
	Short: "Summarize Kubewarden policy reports, vulnerability reports and cluster state",
	Long: `kubewarden-insights derives the figures the Kubewarden UI shows:

- policy report results per resource and per policy
- vulnerability counts per severity for scanned images
- the policy server image deployed through Fleet
- whether the cluster looks airgapped

Records are read from the current cluster, or from kubectl YAML exports.`,
	Version:       strings.TrimSpace(version),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("output") {
			loaded.OutputFormat = outputFormat
		}
		level, err := logrus.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		if _, err := output.ParseFormat(loaded.OutputFormat); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	logrus.SetOutput(os.Stderr)
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Location of configuration file.")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "Logrus log level to be output (trace, debug, info, warning, error, fatal, panic).")
	RootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(output.FormatJSON), "Output format (json, table).")
}

func currentFormat() output.Format {
	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return output.FormatJSON
	}
	return format
}
