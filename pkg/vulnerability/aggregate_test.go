package vulnerability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateBySeverity(t *testing.T) {
	vulns := []Vulnerability{
		{CVE: "CVE-1", Severity: SeverityCritical},
		{CVE: "CVE-2", Severity: SeverityHigh},
		{CVE: "CVE-3", Severity: SeverityHigh},
		{CVE: "CVE-4", Severity: SeverityLow},
		{CVE: "CVE-5", Severity: ParseSeverity("unknown")},
		{CVE: "CVE-6", Severity: SeverityMedium, Suppressed: true},
	}

	counts := AggregateBySeverity(vulns)
	assert.Equal(t, SeverityCounts{Critical: 1, High: 2, Low: 1, None: 1}, counts)
	assert.Equal(t, 5, counts.Total())
	assert.Equal(t, SeverityCounts{}, AggregateBySeverity(nil))
}

func TestCountFixable(t *testing.T) {
	vulns := []Vulnerability{
		{CVE: "CVE-1", FixAvailable: true},
		{CVE: "CVE-2"},
		{CVE: "CVE-3", FixAvailable: true, Suppressed: true},
	}
	assert.Equal(t, 1, CountFixable(vulns))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(5, 0))
	assert.Equal(t, 0, Percentage(0, 10))
	assert.Equal(t, 0, Percentage(1, 1000))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(7, 7))
	assert.Equal(t, 0, Percentage(3, -1))
}

func TestTicks(t *testing.T) {
	assert.Equal(t, 1, Ticks(1, 1000, 10))
	assert.Equal(t, 0, Ticks(0, 1000, 10))
	assert.Equal(t, 0, Ticks(5, 0, 10))
	assert.Equal(t, 0, Ticks(5, 10, 0))
	assert.Equal(t, 5, Ticks(5, 10, 10))
	assert.Equal(t, 3, Ticks(1, 3, 10))
	assert.Equal(t, 10, Ticks(10, 10, 10))
}

func TestBars(t *testing.T) {
	bars := Bars(SeverityCounts{Critical: 1, High: 999}, 20)
	require.Len(t, bars, 5)
	assert.Equal(t, Bar{Severity: SeverityCritical, Count: 1, Percentage: 0, Ticks: 1}, bars[0])
	assert.Equal(t, Bar{Severity: SeverityHigh, Count: 999, Percentage: 100, Ticks: 19}, bars[1])
	assert.Equal(t, Bar{Severity: SeverityNone}, bars[4])

	for _, bar := range Bars(SeverityCounts{}, 20) {
		assert.Zero(t, bar.Percentage)
		assert.Zero(t, bar.Ticks)
	}
}

func TestMaxScore(t *testing.T) {
	v := Vulnerability{CVSS: map[string]Score{
		"nvd":    {V3Score: 7.5},
		"redhat": {V3Score: 8.1},
		"ghsa":   {V3Score: 5.0},
	}}
	assert.Equal(t, 8.1, v.MaxScore())
	assert.Equal(t, 0.0, Vulnerability{}.MaxScore())
}

func TestCollect(t *testing.T) {
	reports := []ImageReport{
		{Image: "nginx:1.25", Vulnerabilities: []Vulnerability{
			{CVE: "CVE-2", Severity: SeverityLow, CVSS: map[string]Score{"nvd": {V3Score: 3.1}}},
			{CVE: "CVE-1", Severity: SeverityCritical, FixedVersions: []string{"1.2.3"}, FixAvailable: true},
		}},
		{Image: "redis:7", Vulnerabilities: []Vulnerability{
			{CVE: "CVE-1", Severity: SeverityCritical, FixedVersions: []string{"1.2.3", "1.3.0"}, FixAvailable: true, CVSS: map[string]Score{"ghsa": {V3Score: 9.8}}},
			{CVE: "CVE-3", Severity: SeverityHigh, Suppressed: true},
		}},
		{Image: "busybox:1.36"},
	}

	vulns := Collect(reports)
	require.Len(t, vulns, 3)

	assert.Equal(t, "CVE-1", vulns[0].CVE)
	assert.Equal(t, 2, vulns[0].ImpactedImages)
	assert.Equal(t, 3, vulns[0].TotalImages)
	assert.Equal(t, []string{"1.2.3", "1.3.0"}, vulns[0].FixedVersions)
	assert.False(t, vulns[0].Suppressed)
	assert.Equal(t, 9.8, vulns[0].MaxScore())

	assert.Equal(t, "CVE-3", vulns[1].CVE)
	assert.True(t, vulns[1].Suppressed)

	assert.Equal(t, "CVE-2", vulns[2].CVE)
	assert.Equal(t, 1, vulns[2].ImpactedImages)

	assert.Equal(t, SeverityCounts{Critical: 1, Low: 1}, AggregateBySeverity(vulns))
	assert.Empty(t, Collect(nil))
}

func TestCollectCountsDistinctImages(t *testing.T) {
	reports := []ImageReport{
		{Image: "nginx:1.25", Vulnerabilities: []Vulnerability{{CVE: "CVE-1", Severity: SeverityHigh}}},
		{Image: "nginx:1.25", Vulnerabilities: []Vulnerability{{CVE: "CVE-1", Severity: SeverityHigh}}},
		{Image: "redis:7"},
	}

	vulns := Collect(reports)
	require.Len(t, vulns, 1)
	assert.Equal(t, 1, vulns[0].ImpactedImages)
	assert.Equal(t, 2, vulns[0].TotalImages)
}
