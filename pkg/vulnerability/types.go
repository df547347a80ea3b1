// Package vulnerability models scanner findings and derives the severity
// breakdown shown for a set of images.
package vulnerability

import "strings"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityNone     Severity = "none"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNone}

// ParseSeverity folds anything that is not a known level, "unknown"
// included, into SeverityNone.
func ParseSeverity(s string) Severity {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return sev
	default:
		return SeverityNone
	}
}

// Score is the CVSS v3 rating a single scanner gave a vulnerability.
type Score struct {
	V3Vector string  `json:"v3vector,omitempty"`
	V3Score  float64 `json:"v3score"`
}

// Vulnerability is one CVE as reported for one or more images.
type Vulnerability struct {
	CVE            string           `json:"cve"`
	Package        string           `json:"package,omitempty"`
	CVSS           map[string]Score `json:"cvss,omitempty"`
	Severity       Severity         `json:"severity"`
	FixAvailable   bool             `json:"fixAvailable"`
	FixedVersions  []string         `json:"fixedVersions,omitempty"`
	ImpactedImages int              `json:"impactedImages"`
	TotalImages    int              `json:"totalImages"`
	// Suppressed is set when a VEX statement marks the CVE as not affecting
	// the image.
	Suppressed bool `json:"suppressed,omitempty"`
}

// MaxScore returns the highest v3 score any scanner reported.
func (v Vulnerability) MaxScore() float64 {
	var highest float64
	for _, s := range v.CVSS {
		if s.V3Score > highest {
			highest = s.V3Score
		}
	}
	return highest
}

// ImageReport holds the findings for a single image.
type ImageReport struct {
	Image           string
	Vulnerabilities []Vulnerability
}
