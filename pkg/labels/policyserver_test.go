package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func strictLabels(name string) map[string]string {
	return map[string]string{
		"app.kubernetes.io/instance":   "policy-server-" + name,
		"app.kubernetes.io/component":  "policy-server",
		"app.kubernetes.io/part-of":    "kubewarden",
		"app.kubernetes.io/managed-by": "kubewarden-controller",
	}
}

func TestIsPolicyServerResource(t *testing.T) {
	assert.True(t, IsPolicyServerResource(map[string]string{"app": "kubewarden-policy-server-default"}, "default"))
	assert.True(t, IsPolicyServerResource(strictLabels("default"), "default"))
	assert.False(t, IsPolicyServerResource(strictLabels("other"), "default"))
	assert.False(t, IsPolicyServerResource(map[string]string{"app": "kubewarden-policy-server-other"}, "default"))
	assert.False(t, IsPolicyServerResource(nil, "default"))
	assert.False(t, IsPolicyServerResource(map[string]string{}, "default"))
}

func TestIsPolicyServerResourceMissingStrictKey(t *testing.T) {
	for key := range strictLabels("default") {
		t.Run(key, func(t *testing.T) {
			labels := strictLabels("default")
			delete(labels, key)
			assert.False(t, IsPolicyServerResource(labels, "default"))

			labels["app"] = "kubewarden-policy-server-default"
			assert.True(t, IsPolicyServerResource(labels, "default"))
		})
	}
}

func TestFindMatchingResource(t *testing.T) {
	pods := []corev1.Pod{
		{ObjectMeta: metav1.ObjectMeta{Name: "unrelated", Labels: map[string]string{"app": "nginx"}}},
		{ObjectMeta: metav1.ObjectMeta{Name: "no-labels"}},
		{ObjectMeta: metav1.ObjectMeta{Name: "strict", Labels: strictLabels("default")}},
		{ObjectMeta: metav1.ObjectMeta{Name: "legacy", Labels: map[string]string{"app": "kubewarden-policy-server-default"}}},
	}
	labelsOf := func(p corev1.Pod) map[string]string { return p.Labels }

	pod, found := FindMatchingResource(pods, "default", labelsOf)
	assert.True(t, found)
	assert.Equal(t, "strict", pod.Name)

	_, found = FindMatchingResource(pods, "missing", labelsOf)
	assert.False(t, found)

	_, found = FindMatchingResource([]corev1.Pod{}, "default", labelsOf)
	assert.False(t, found)
}
