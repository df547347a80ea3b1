package fleet

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const policyServerManifest = `apiVersion: policies.kubewarden.io/v1
kind: PolicyServer
metadata:
  name: default
spec:
  image: ghcr.io/kubewarden/policy-server:v1.10.0
`

const deploymentManifest = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: kubewarden-controller
`

func gzipBase64(t *testing.T, s string) string {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestFindFleetContent(t *testing.T) {
	bundles := []Bundle{
		{Name: "controller", Chart: "kubewarden-controller", Resources: []Resource{{Name: "deployment.yaml", Content: deploymentManifest}}},
		{Name: "defaults", Chart: "kubewarden-defaults", Resources: []Resource{{Name: "policyserver.yaml", Content: policyServerManifest}}},
		{Name: "defaults-copy", Chart: "kubewarden-defaults-copy", Resources: []Resource{{Name: "policyserver.yaml", Content: policyServerManifest}}},
	}

	bundle, found := FindFleetContent("PolicyServer", bundles, "")
	require.True(t, found)
	assert.Equal(t, "defaults", bundle.Name)

	bundle, found = FindFleetContent("Deployment", bundles, "")
	require.True(t, found)
	assert.Equal(t, "controller", bundle.Name)

	_, found = FindFleetContent("ClusterAdmissionPolicy", bundles, "")
	assert.False(t, found)

	_, found = FindFleetContent("PolicyServer", nil, "")
	assert.False(t, found)
}

func TestFindFleetContentSkipWins(t *testing.T) {
	bundles := []Bundle{
		{Name: "a", Chart: "chart-a", Resources: []Resource{{Name: "ps.yaml", Content: policyServerManifest}}},
		{Name: "b", Chart: "chart-b", Resources: []Resource{{Name: "ps.yaml", Content: policyServerManifest}}},
	}

	bundle, found := FindFleetContent("PolicyServer", bundles, "chart-a")
	require.True(t, found)
	assert.Equal(t, "b", bundle.Name)

	_, found = FindFleetContent("PolicyServer", bundles[:1], "chart-a")
	assert.False(t, found)
}

func TestFindFleetContentEncoded(t *testing.T) {
	bundles := []Bundle{
		{Name: "broken", Resources: []Resource{{Name: "ps.yaml", Content: "%%%", Encoding: EncodingBase64Gz}}},
		{Name: "plain64", Resources: []Resource{{Name: "ps.yaml", Content: base64.StdEncoding.EncodeToString([]byte(deploymentManifest)), Encoding: EncodingBase64}}},
		{Name: "gz", Resources: []Resource{{Name: "ps.yaml", Content: gzipBase64(t, policyServerManifest), Encoding: EncodingBase64Gz}}},
	}

	bundle, found := FindFleetContent("PolicyServer", bundles, "")
	require.True(t, found)
	assert.Equal(t, "gz", bundle.Name)

	bundle, found = FindFleetContent("Deployment", bundles, "")
	require.True(t, found)
	assert.Equal(t, "plain64", bundle.Name)
}

func TestMatchers(t *testing.T) {
	commented := "# kind: PolicyServer is deployed elsewhere\n" + deploymentManifest
	multiDoc := deploymentManifest + "---\n" + policyServerManifest

	assert.True(t, SubstringMatcher{}.Matches(commented, "PolicyServer"))
	assert.False(t, YAMLMatcher{}.Matches(commented, "PolicyServer"))

	assert.True(t, YAMLMatcher{}.Matches(multiDoc, "PolicyServer"))
	assert.True(t, YAMLMatcher{}.Matches(multiDoc, "Deployment"))
	assert.False(t, YAMLMatcher{}.Matches("kind: [unterminated", "PolicyServer"))
	assert.False(t, YAMLMatcher{}.Matches("", "PolicyServer"))
}

func TestLocatorWithYAMLMatcher(t *testing.T) {
	bundles := []Bundle{
		{Name: "commented", Resources: []Resource{{Name: "notes.yaml", Content: "# kind: PolicyServer\nfoo: bar\n"}}},
		{Name: "real", Resources: []Resource{{Name: "ps.yaml", Content: policyServerManifest}}},
	}

	bundle, found := NewLocator(YAMLMatcher{}).FindFleetContent("PolicyServer", bundles, "")
	require.True(t, found)
	assert.Equal(t, "real", bundle.Name)

	bundle, found = NewLocator(nil).FindFleetContent("PolicyServer", bundles, "")
	require.True(t, found)
	assert.Equal(t, "commented", bundle.Name)
}
