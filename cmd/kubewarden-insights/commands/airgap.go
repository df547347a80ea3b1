package commands

import (
	"time"

	"github.com/rancher/kubewarden-ui-sub002/pkg/airgap"
	"github.com/rancher/kubewarden-ui-sub002/pkg/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	probeCount    int
	probeInterval time.Duration
)

var airgapCmd = &cobra.Command{
	Use:   "airgap",
	Short: "Check whether the first whitelisted domain is reachable",
	Long: `Requests the first entry of the whitelisted domains. A 200 or 302 answer
means the cluster is connected, any other answer means it is airgapped. When the
request fails the last answer is kept if it was airgapped.

With --count the probe is repeated, remembering answers for the configured
state TTL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := airgap.NewCacheState(cmd.Context(), cfg.StateTTL)
		if err != nil {
			return err
		}
		defer func() {
			if err := state.Close(); err != nil {
				logrus.Warnf("closing airgap state: %v", err)
			}
		}()

		prober := airgap.NewProber(cfg.ProbeTimeout, state)
		settings := cfg.AirgapSettings()
		var airgapped bool
		for i := 0; i < max(probeCount, 1); i++ {
			if i > 0 {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(probeInterval):
				}
			}
			airgapped = prober.Probe(cmd.Context(), settings)
			logrus.Debugf("probe %d: airgapped=%t", i+1, airgapped)
		}

		report := output.NewReport()
		report.Airgapped = &airgapped
		return output.Write(cmd.OutOrStdout(), currentFormat(), report)
	},
}

func init() {
	airgapCmd.Flags().IntVar(&probeCount, "count", 1, "Number of probes to run.")
	airgapCmd.Flags().DurationVar(&probeInterval, "interval", 10*time.Second, "Time between probes.")
	RootCmd.AddCommand(airgapCmd)
}
