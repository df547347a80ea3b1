// Package labels identifies policy-server workloads from the labels the
// Kubewarden controller puts on them.
package labels

import "github.com/samber/lo"

const (
	legacyAppLabel  = "app"
	legacyAppPrefix = "kubewarden-policy-server-"
	instanceLabel   = "app.kubernetes.io/instance"
	instancePrefix  = "policy-server-"
	componentLabel  = "app.kubernetes.io/component"
	componentValue  = "policy-server"
	partOfLabel     = "app.kubernetes.io/part-of"
	partOfValue     = "kubewarden"
	managedByLabel  = "app.kubernetes.io/managed-by"
	managedByValue  = "kubewarden-controller"
)

// IsPolicyServerResource reports whether labels mark a resource as part of
// the policy server called name. Both the legacy "app" label and the
// app.kubernetes.io label set are accepted.
func IsPolicyServerResource(labels map[string]string, name string) bool {
	if len(labels) == 0 {
		return false
	}
	return matchesLegacy(labels, name) || matchesStrict(labels, name)
}

func matchesLegacy(labels map[string]string, name string) bool {
	return labels[legacyAppLabel] == legacyAppPrefix+name
}

func matchesStrict(labels map[string]string, name string) bool {
	return labels[instanceLabel] == instancePrefix+name &&
		labels[componentLabel] == componentValue &&
		labels[partOfLabel] == partOfValue &&
		labels[managedByLabel] == managedByValue
}

// FindMatchingResource returns the first resource, in input order, whose
// labels identify it as part of the policy server called name.
func FindMatchingResource[T any](resources []T, name string, labelsOf func(T) map[string]string) (T, bool) {
	return lo.Find(resources, func(r T) bool {
		return IsPolicyServerResource(labelsOf(r), name)
	})
}
