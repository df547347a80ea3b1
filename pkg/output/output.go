// Package output renders the derived aggregates for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rancher/kubewarden-ui-sub002/pkg/reports"
	"github.com/rancher/kubewarden-ui-sub002/pkg/vulnerability"
	"github.com/samber/lo"
	prettytable "github.com/tatsushid/go-prettytable"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat accepts "json" and "table"; empty means json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// BarWidth is the number of ticks in a severity bar.
const BarWidth = 20

// Vulnerabilities is the severity breakdown for a set of images.
type Vulnerabilities struct {
	Images  int                           `json:"images"`
	Counts  vulnerability.SeverityCounts  `json:"counts"`
	Bars    []vulnerability.Bar           `json:"bars"`
	Fixable int                           `json:"fixable"`
	Entries []vulnerability.Vulnerability `json:"entries,omitempty"`
}

// NewVulnerabilities merges the image reports and computes the breakdown.
func NewVulnerabilities(images []vulnerability.ImageReport) *Vulnerabilities {
	entries := vulnerability.Collect(images)
	counts := vulnerability.AggregateBySeverity(entries)
	return &Vulnerabilities{
		Images: len(lo.UniqBy(images, func(r vulnerability.ImageReport) string {
			return r.Image
		})),
		Counts:  counts,
		Bars:    vulnerability.Bars(counts, BarWidth),
		Fixable: vulnerability.CountFixable(entries),
		Entries: entries,
	}
}

// PolicyServer describes the workloads found for one policy server.
type PolicyServer struct {
	Name       string   `json:"name"`
	Namespace  string   `json:"namespace"`
	Pod        string   `json:"pod,omitempty"`
	Deployment string   `json:"deployment,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// Report is what a single command run prints.
type Report struct {
	RunID             string                    `json:"runId"`
	GeneratedAt       time.Time                 `json:"generatedAt"`
	Resources         []reports.ResourceSummary `json:"resources,omitempty"`
	Policies          []reports.PolicySummary   `json:"policies,omitempty"`
	Vulnerabilities   *Vulnerabilities          `json:"vulnerabilities,omitempty"`
	PolicyServerImage string                    `json:"policyServerImage,omitempty"`
	PolicyServer      *PolicyServer             `json:"policyServer,omitempty"`
	Airgapped         *bool                     `json:"airgapped,omitempty"`
	Errors            []string                  `json:"errors,omitempty"`
}

// NewReport stamps a fresh run id and the current time.
func NewReport() Report {
	return Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
}

// Write renders report to w in the given format.
func Write(w io.Writer, format Format, report Report) error {
	switch format {
	case FormatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case FormatTable:
		return writeTables(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeTables(w io.Writer, report Report) error {
	if report.PolicyServerImage != "" {
		if _, err := fmt.Fprintf(w, "Policy server image: %s\n\n", report.PolicyServerImage); err != nil {
			return err
		}
	}
	if report.PolicyServer != nil {
		if err := writePolicyServerTable(w, report.PolicyServer); err != nil {
			return err
		}
	}
	if report.Airgapped != nil {
		if _, err := fmt.Fprintf(w, "Airgapped: %t\n\n", *report.Airgapped); err != nil {
			return err
		}
	}
	if len(report.Resources) > 0 {
		if err := writeResourceTable(w, report.Resources); err != nil {
			return err
		}
	}
	if len(report.Policies) > 0 {
		if err := writePolicyTable(w, report.Policies); err != nil {
			return err
		}
	}
	if report.Vulnerabilities != nil {
		if err := writeVulnerabilityTable(w, report.Vulnerabilities); err != nil {
			return err
		}
	}
	for _, e := range report.Errors {
		if _, err := fmt.Fprintf(w, "warning: %s\n", e); err != nil {
			return err
		}
	}
	return nil
}

func writePolicyServerTable(w io.Writer, ps *PolicyServer) error {
	table, err := prettytable.NewTable(
		prettytable.Column{Header: "Policy Server"},
		prettytable.Column{Header: "Namespace"},
		prettytable.Column{Header: "Pod"},
		prettytable.Column{Header: "Deployment"},
		prettytable.Column{Header: "Images"},
	)
	if err != nil {
		return err
	}
	table.Separator = " | "
	if err := table.AddRow(ps.Name, ps.Namespace, orNone(ps.Pod), orNone(ps.Deployment), orNone(strings.Join(ps.Images, ","))); err != nil {
		return err
	}
	return writeTable(w, table)
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func summaryColumns(first string) []prettytable.Column {
	return []prettytable.Column{
		{Header: first},
		{Header: "Pass", AlignRight: true},
		{Header: "Fail", AlignRight: true},
		{Header: "Warn", AlignRight: true},
		{Header: "Error", AlignRight: true},
		{Header: "Skip", AlignRight: true},
	}
}

func writeResourceTable(w io.Writer, rows []reports.ResourceSummary) error {
	table, err := prettytable.NewTable(summaryColumns("Resource")...)
	if err != nil {
		return err
	}
	table.Separator = " | "
	for _, r := range rows {
		s := r.Summary
		if err := table.AddRow(r.Resource.String(), s.Pass, s.Fail, s.Warn, s.Error, s.Skip); err != nil {
			return err
		}
	}
	return writeTable(w, table)
}

func writePolicyTable(w io.Writer, rows []reports.PolicySummary) error {
	table, err := prettytable.NewTable(summaryColumns("Policy")...)
	if err != nil {
		return err
	}
	table.Separator = " | "
	for _, p := range rows {
		s := p.Summary
		if err := table.AddRow(p.Policy, s.Pass, s.Fail, s.Warn, s.Error, s.Skip); err != nil {
			return err
		}
	}
	return writeTable(w, table)
}

func writeVulnerabilityTable(w io.Writer, v *Vulnerabilities) error {
	table, err := prettytable.NewTable(
		prettytable.Column{Header: "Severity"},
		prettytable.Column{Header: "Count", AlignRight: true},
		prettytable.Column{Header: "%", AlignRight: true},
		prettytable.Column{Header: "Bar"},
	)
	if err != nil {
		return err
	}
	table.Separator = " | "
	for _, bar := range v.Bars {
		if err := table.AddRow(string(bar.Severity), bar.Count, strconv.Itoa(bar.Percentage)+"%", RenderBar(bar.Ticks, BarWidth)); err != nil {
			return err
		}
	}
	if err := writeTable(w, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d of %d vulnerabilities across %d images have a fix available\n\n", v.Fixable, v.Counts.Total(), v.Images)
	return err
}

// RenderBar draws ticks filled cells out of width.
func RenderBar(ticks, width int) string {
	ticks = max(0, min(ticks, width))
	return strings.Repeat("#", ticks) + strings.Repeat(".", width-ticks)
}

func writeTable(w io.Writer, table *prettytable.Table) error {
	if _, err := w.Write(table.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
