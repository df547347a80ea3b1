package reports

import (
	"sort"

	"github.com/samber/lo"
)

// SummarizeReports counts the results of every report scoped to id. Reports
// without a scope contribute the results that list id among their resources.
func SummarizeReports(reports []Report, id ResourceID) Summary {
	var summary Summary
	for _, report := range reports {
		if report.Scope != nil {
			if !report.Scope.Matches(id) {
				continue
			}
			for _, r := range report.Results {
				summary.Add(r.Result)
			}
			continue
		}
		for _, r := range report.Results {
			if lo.ContainsBy(r.Resources, id.Matches) {
				summary.Add(r.Result)
			}
		}
	}
	return summary
}

// ResourceSummary is the result count for one resource.
type ResourceSummary struct {
	Resource ResourceID `json:"resource"`
	Summary  Summary    `json:"summary"`
}

// SummarizeByResource counts results per resource, in order of first
// appearance. Resources are grouped with ResourceID.Matches, so a reference
// without a UID joins the row of the same kind, namespace and name.
func SummarizeByResource(reports []Report) []ResourceSummary {
	var out []ResourceSummary

	add := func(id ResourceID, o Outcome) {
		_, i, ok := lo.FindIndexOf(out, func(rs ResourceSummary) bool {
			return rs.Resource.Matches(id)
		})
		if !ok {
			i = len(out)
			out = append(out, ResourceSummary{Resource: id})
		}
		if out[i].Resource.UID == "" {
			out[i].Resource.UID = id.UID
		}
		out[i].Summary.Add(o)
	}

	for _, report := range reports {
		for _, r := range report.Results {
			if report.Scope != nil {
				add(*report.Scope, r.Result)
				continue
			}
			for _, id := range r.Resources {
				add(id, r.Result)
			}
		}
	}
	return out
}

// PolicySummary is the result count for one policy.
type PolicySummary struct {
	Policy  string  `json:"policy"`
	Summary Summary `json:"summary"`
}

// SummarizeByPolicy counts results per policy name, sorted by name.
func SummarizeByPolicy(reports []Report) []PolicySummary {
	byPolicy := map[string]*Summary{}
	for _, report := range reports {
		for _, r := range report.Results {
			s, ok := byPolicy[r.Policy]
			if !ok {
				s = &Summary{}
				byPolicy[r.Policy] = s
			}
			s.Add(r.Result)
		}
	}

	out := make([]PolicySummary, 0, len(byPolicy))
	for policy, s := range byPolicy {
		out = append(out, PolicySummary{Policy: policy, Summary: *s})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Policy < out[j].Policy
	})
	return out
}
