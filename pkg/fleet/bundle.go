// Package fleet looks through Fleet bundles for the rendered manifests and
// chart values of a deployed component.
package fleet

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	EncodingBase64   = "base64"
	EncodingBase64Gz = "base64+gz"
)

// Bundle is a Fleet deployment unit: a chart plus its rendered resources.
type Bundle struct {
	Name      string
	Namespace string
	Chart     string
	Resources []Resource
}

// Resource is one named manifest inside a bundle.
type Resource struct {
	Name     string
	Content  string
	Encoding string
}

// Text returns the manifest text, decoding it if Fleet stored it encoded.
func (r Resource) Text() (string, error) {
	switch r.Encoding {
	case "":
		return r.Content, nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(r.Content)
		if err != nil {
			return "", fmt.Errorf("decoding resource %s: %w", r.Name, err)
		}
		return string(b), nil
	case EncodingBase64Gz:
		b, err := base64.StdEncoding.DecodeString(r.Content)
		if err != nil {
			return "", fmt.Errorf("decoding resource %s: %w", r.Name, err)
		}
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return "", fmt.Errorf("decompressing resource %s: %w", r.Name, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("decompressing resource %s: %w", r.Name, err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("resource %s has unsupported encoding %q", r.Name, r.Encoding)
	}
}

type rawBundle struct {
	Metadata struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	} `json:"metadata"`
	Spec struct {
		Helm *struct {
			Chart string `json:"chart"`
		} `json:"helm"`
		Resources []struct {
			Name     string `json:"name"`
			Content  string `json:"content"`
			Encoding string `json:"encoding"`
		} `json:"resources"`
	} `json:"spec"`
}

// FromUnstructured converts a fleet.cattle.io Bundle object.
func FromUnstructured(u unstructured.Unstructured) (Bundle, error) {
	var raw rawBundle
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, &raw); err != nil {
		return Bundle{}, fmt.Errorf("converting bundle %s/%s: %w", u.GetNamespace(), u.GetName(), err)
	}

	bundle := Bundle{
		Name:      raw.Metadata.Name,
		Namespace: raw.Metadata.Namespace,
	}
	if raw.Spec.Helm != nil {
		bundle.Chart = raw.Spec.Helm.Chart
	}
	for _, r := range raw.Spec.Resources {
		bundle.Resources = append(bundle.Resources, Resource{
			Name:     r.Name,
			Content:  r.Content,
			Encoding: r.Encoding,
		})
	}
	return bundle, nil
}
