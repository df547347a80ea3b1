package vulnerability

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// SeverityCounts is the number of vulnerabilities per severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none"`
}

func (c *SeverityCounts) add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	default:
		c.None++
	}
}

// Get returns the count for s.
func (c SeverityCounts) Get(s Severity) int {
	switch s {
	case SeverityCritical:
		return c.Critical
	case SeverityHigh:
		return c.High
	case SeverityMedium:
		return c.Medium
	case SeverityLow:
		return c.Low
	default:
		return c.None
	}
}

func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.None
}

// AggregateBySeverity counts vulnerabilities per severity, leaving out
// suppressed ones.
func AggregateBySeverity(vulns []Vulnerability) SeverityCounts {
	var counts SeverityCounts
	for _, v := range vulns {
		if v.Suppressed {
			continue
		}
		counts.add(v.Severity)
	}
	return counts
}

// CountFixable returns how many unsuppressed vulnerabilities have a fix.
func CountFixable(vulns []Vulnerability) int {
	return lo.CountBy(vulns, func(v Vulnerability) bool {
		return !v.Suppressed && v.FixAvailable
	})
}

// Percentage is count as a rounded percentage of total, or 0 when total is
// not positive.
func Percentage(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Ticks is the number of filled ticks out of width for count. Any non-zero
// count fills at least one tick.
func Ticks(count, total, width int) int {
	if total <= 0 || width <= 0 || count <= 0 {
		return 0
	}
	filled := int(math.Floor(float64(count) / float64(total) * float64(width)))
	if filled == 0 {
		filled = 1
	}
	return min(filled, width)
}

// Bar is the presentation data for one severity.
type Bar struct {
	Severity   Severity `json:"severity"`
	Count      int      `json:"count"`
	Percentage int      `json:"percentage"`
	Ticks      int      `json:"ticks"`
}

// Bars returns one bar per severity, most severe first.
func Bars(counts SeverityCounts, width int) []Bar {
	total := counts.Total()
	return lo.Map(Severities, func(s Severity, _ int) Bar {
		count := counts.Get(s)
		return Bar{
			Severity:   s,
			Count:      count,
			Percentage: Percentage(count, total),
			Ticks:      Ticks(count, total, width),
		}
	})
}

// Collect merges per-image findings into one entry per CVE. ImpactedImages
// is the number of images reporting the CVE and TotalImages the number of
// distinct images looked at. Entries are sorted by severity, then by CVE.
func Collect(reports []ImageReport) []Vulnerability {
	byCVE := map[string]*Vulnerability{}
	impacted := map[string]map[string]struct{}{}
	images := map[string]struct{}{}

	for _, report := range reports {
		images[report.Image] = struct{}{}
		for _, v := range report.Vulnerabilities {
			merged, ok := byCVE[v.CVE]
			if !ok {
				copied := v
				copied.CVSS = map[string]Score{}
				copied.FixedVersions = nil
				copied.Suppressed = true
				merged = &copied
				byCVE[v.CVE] = merged
				impacted[v.CVE] = map[string]struct{}{}
			}
			for scanner, score := range v.CVSS {
				merged.CVSS[scanner] = score
			}
			merged.FixedVersions = lo.Uniq(append(merged.FixedVersions, v.FixedVersions...))
			merged.FixAvailable = merged.FixAvailable || v.FixAvailable
			// only suppressed when every image says so
			merged.Suppressed = merged.Suppressed && v.Suppressed
			impacted[v.CVE][report.Image] = struct{}{}
		}
	}

	out := make([]Vulnerability, 0, len(byCVE))
	for cve, v := range byCVE {
		v.ImpactedImages = len(impacted[cve])
		v.TotalImages = len(images)
		out = append(out, *v)
	}

	rank := lo.Associate(Severities, func(s Severity) (Severity, int) {
		return s, lo.IndexOf(Severities, s)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return rank[out[i].Severity] < rank[out[j].Severity]
		}
		return out[i].CVE < out[j].CVE
	})
	return out
}
