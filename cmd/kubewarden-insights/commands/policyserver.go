package commands

import (
	"context"

	"github.com/rancher/kubewarden-ui-sub002/pkg/kube"
	"github.com/rancher/kubewarden-ui-sub002/pkg/output"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

var policyServerCmd = &cobra.Command{
	Use:   "policy-server [name]",
	Short: "Find the pod and deployment of a policy server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.PolicyServer
		if len(args) == 1 {
			name = args[0]
		}
		client, err := kube.GetClient()
		if err != nil {
			return err
		}
		ps, err := findPolicyServer(cmd.Context(), client, cfg.Namespace, name)
		if err != nil {
			return err
		}
		report := output.NewReport()
		report.PolicyServer = ps
		return output.Write(cmd.OutOrStdout(), currentFormat(), report)
	},
}

func init() {
	RootCmd.AddCommand(policyServerCmd)
}

func findPolicyServer(ctx context.Context, client *kube.Client, namespace, name string) (*output.PolicyServer, error) {
	ps := &output.PolicyServer{Name: name, Namespace: namespace}

	pod, found, err := client.FindPolicyServerPod(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	if found {
		ps.Pod = pod.Name
		ps.Images = append(ps.Images, lo.Map(pod.Spec.Containers, containerImage)...)
	}

	deployment, found, err := client.FindPolicyServerDeployment(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	if found {
		ps.Deployment = deployment.Name
		ps.Images = append(ps.Images, deploymentImages(deployment)...)
	}
	ps.Images = lo.Uniq(ps.Images)
	return ps, nil
}

func containerImage(c corev1.Container, _ int) string {
	return c.Image
}

func deploymentImages(d appsv1.Deployment) []string {
	return lo.Map(d.Spec.Template.Spec.Containers, containerImage)
}
