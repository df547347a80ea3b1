package vulnerability

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

type rawCVSS struct {
	V3Vector string  `json:"v3vector"`
	V3Score  float64 `json:"v3score"`
}

type rawVulnerability struct {
	CVE           string             `json:"cve"`
	PackageName   string             `json:"packageName"`
	FixedVersions []string           `json:"fixedVersions"`
	Severity      string             `json:"severity"`
	Suppressed    bool               `json:"suppressed"`
	CVSS          map[string]rawCVSS `json:"cvss"`
}

type rawVulnerabilityReport struct {
	Metadata struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	} `json:"metadata"`
	ImageMetadata struct {
		RegistryURI string `json:"registryURI"`
		Repository  string `json:"repository"`
		Tag         string `json:"tag"`
		Digest      string `json:"digest"`
	} `json:"imageMetadata"`
	Report struct {
		Results []struct {
			Target          string             `json:"target"`
			Vulnerabilities []rawVulnerability `json:"vulnerabilities"`
		} `json:"results"`
	} `json:"report"`
}

func imageName(raw rawVulnerabilityReport) string {
	m := raw.ImageMetadata
	if m.Repository == "" {
		return raw.Metadata.Namespace + "/" + raw.Metadata.Name
	}
	name := m.Repository
	if m.RegistryURI != "" {
		name = strings.TrimSuffix(m.RegistryURI, "/") + "/" + name
	}
	switch {
	case m.Tag != "":
		name += ":" + m.Tag
	case m.Digest != "":
		name += "@" + m.Digest
	}
	return name
}

// FromUnstructured converts an SBOMscanner VulnerabilityReport into the
// findings for its image.
func FromUnstructured(u unstructured.Unstructured) (ImageReport, error) {
	var raw rawVulnerabilityReport
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, &raw); err != nil {
		return ImageReport{}, fmt.Errorf("converting vulnerability report %s/%s: %w", u.GetNamespace(), u.GetName(), err)
	}

	report := ImageReport{Image: imageName(raw)}
	for _, result := range raw.Report.Results {
		for _, v := range result.Vulnerabilities {
			vuln := Vulnerability{
				CVE:            v.CVE,
				Package:        v.PackageName,
				Severity:       ParseSeverity(v.Severity),
				FixAvailable:   len(v.FixedVersions) > 0,
				FixedVersions:  v.FixedVersions,
				ImpactedImages: 1,
				TotalImages:    1,
				Suppressed:     v.Suppressed,
			}
			if len(v.CVSS) > 0 {
				vuln.CVSS = make(map[string]Score, len(v.CVSS))
				for scanner, s := range v.CVSS {
					vuln.CVSS[scanner] = Score{V3Vector: s.V3Vector, V3Score: s.V3Score}
				}
			}
			report.Vulnerabilities = append(report.Vulnerabilities, vuln)
		}
	}
	return report, nil
}
