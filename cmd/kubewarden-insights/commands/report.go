package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rancher/kubewarden-ui-sub002/pkg/fleet"
	"github.com/rancher/kubewarden-ui-sub002/pkg/kube"
	"github.com/rancher/kubewarden-ui-sub002/pkg/output"
	"github.com/rancher/kubewarden-ui-sub002/pkg/reports"
	"github.com/rancher/kubewarden-ui-sub002/pkg/vulnerability"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	fromFiles  []string
	resource   string
	strictKind bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize policy reports, vulnerability reports and the Fleet policy server image",
	RunE: func(cmd *cobra.Command, args []string) error {
		var id *reports.ResourceID
		if resource != "" {
			parsed, err := parseResourceID(resource)
			if err != nil {
				return err
			}
			id = &parsed
		}

		source, err := newSource(fromFiles)
		if err != nil {
			return err
		}

		var matcher fleet.KindMatcher = fleet.SubstringMatcher{}
		if strictKind {
			matcher = fleet.YAMLMatcher{}
		}

		report := buildReport(cmd.Context(), source, fleet.NewLocator(matcher), id)
		return output.Write(cmd.OutOrStdout(), currentFormat(), report)
	},
}

func init() {
	reportCmd.Flags().StringSliceVarP(&fromFiles, "from-file", "f", nil, "Read resources from kubectl YAML exports instead of the cluster.")
	reportCmd.Flags().StringVar(&resource, "resource", "", "Only summarize results for one resource, as kind/name or kind/namespace/name.")
	reportCmd.Flags().BoolVar(&strictKind, "strict-kind", false, "Decode bundle manifests to match the PolicyServer kind instead of searching their text.")
	RootCmd.AddCommand(reportCmd)
}

func newSource(files []string) (kube.Source, error) {
	if len(files) > 0 {
		return kube.NewFileSource(files...)
	}
	return kube.GetClient()
}

// parseResourceID reads kind/name or kind/namespace/name.
func parseResourceID(s string) (reports.ResourceID, error) {
	parts := strings.Split(s, "/")
	for _, p := range parts {
		if p == "" {
			return reports.ResourceID{}, fmt.Errorf("invalid resource %q", s)
		}
	}
	switch len(parts) {
	case 2:
		return reports.ResourceID{Kind: parts[0], Name: parts[1]}, nil
	case 3:
		return reports.ResourceID{Kind: parts[0], Namespace: parts[1], Name: parts[2]}, nil
	default:
		return reports.ResourceID{}, fmt.Errorf("invalid resource %q, expected kind/name or kind/namespace/name", s)
	}
}

func buildReport(ctx context.Context, source kube.Source, locator *fleet.Locator, id *reports.ResourceID) output.Report {
	report := output.NewReport()

	objects, err := kube.ListAll(ctx, source, kube.PolicyReport, kube.ClusterPolicyReport, kube.VulnerabilityReport, kube.FleetBundle)
	if err != nil {
		report.Errors = append(report.Errors, errorStrings(err)...)
	}

	var policyReports []reports.Report
	for _, kind := range []kube.Kind{kube.PolicyReport, kube.ClusterPolicyReport} {
		for _, obj := range objects[kind] {
			r, err := reports.FromUnstructured(obj)
			if err != nil {
				logrus.Warn(err)
				continue
			}
			policyReports = append(policyReports, r)
		}
	}
	if id != nil {
		report.Resources = []reports.ResourceSummary{{
			Resource: *id,
			Summary:  reports.SummarizeReports(policyReports, *id),
		}}
	} else {
		report.Resources = reports.SummarizeByResource(policyReports)
	}
	report.Policies = reports.SummarizeByPolicy(policyReports)

	var images []vulnerability.ImageReport
	for _, obj := range objects[kube.VulnerabilityReport] {
		image, err := vulnerability.FromUnstructured(obj)
		if err != nil {
			logrus.Warn(err)
			continue
		}
		images = append(images, image)
	}
	if len(images) > 0 {
		report.Vulnerabilities = output.NewVulnerabilities(images)
	}

	var bundles []fleet.Bundle
	for _, obj := range objects[kube.FleetBundle] {
		bundle, err := fleet.FromUnstructured(obj)
		if err != nil {
			logrus.Warn(err)
			continue
		}
		bundles = append(bundles, bundle)
	}
	if image, found := locator.GetPolicyServerModule(bundles); found {
		report.PolicyServerImage = image
	}
	return report
}

func errorStrings(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
