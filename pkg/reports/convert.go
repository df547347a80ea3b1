package reports

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

type rawTimestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

type rawResult struct {
	Category  string                   `json:"category"`
	Message   string                   `json:"message"`
	Policy    string                   `json:"policy"`
	Rule      string                   `json:"rule"`
	Result    string                   `json:"result"`
	Severity  string                   `json:"severity"`
	Source    string                   `json:"source"`
	Timestamp *rawTimestamp            `json:"timestamp"`
	Resources []corev1.ObjectReference `json:"resources"`
}

type rawReport struct {
	Metadata struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	} `json:"metadata"`
	Scope   *corev1.ObjectReference `json:"scope"`
	Summary Summary                 `json:"summary"`
	Results []rawResult             `json:"results"`
}

func idFromReference(ref corev1.ObjectReference) ResourceID {
	return ResourceID{
		APIVersion: ref.APIVersion,
		Kind:       ref.Kind,
		Namespace:  ref.Namespace,
		Name:       ref.Name,
		UID:        string(ref.UID),
	}
}

// FromUnstructured converts a wgpolicyk8s.io PolicyReport or
// ClusterPolicyReport. Results with an unknown outcome are dropped.
func FromUnstructured(u unstructured.Unstructured) (Report, error) {
	var raw rawReport
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, &raw); err != nil {
		return Report{}, fmt.Errorf("converting %s %s: %w", u.GetKind(), u.GetName(), err)
	}

	report := Report{
		Name:      raw.Metadata.Name,
		Namespace: raw.Metadata.Namespace,
		Summary:   raw.Summary,
	}
	if raw.Scope != nil {
		scope := idFromReference(*raw.Scope)
		report.Scope = &scope
	}

	for _, r := range raw.Results {
		outcome, err := ParseOutcome(r.Result)
		if err != nil {
			logrus.Warnf("dropping result of policy %s in report %s: %v", r.Policy, report.Name, err)
			continue
		}
		result := Result{
			Category: r.Category,
			Message:  r.Message,
			Policy:   r.Policy,
			Rule:     r.Rule,
			Result:   outcome,
			Severity: ParseSeverity(r.Severity),
			Source:   r.Source,
		}
		if r.Timestamp != nil {
			result.Timestamp = time.Unix(r.Timestamp.Seconds, int64(r.Timestamp.Nanos)).UTC()
		}
		for _, ref := range r.Resources {
			result.Resources = append(result.Resources, idFromReference(ref))
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}
