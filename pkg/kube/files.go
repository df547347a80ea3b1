package kube

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ghodss/yaml"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

var documentSeparator = regexp.MustCompile(`(?m)^---\s*$`)

// FileSource serves objects read from YAML exports, such as the output of
// `kubectl get <kind> -A -o yaml`.
type FileSource struct {
	objects []unstructured.Unstructured
}

// NewFileSource reads every file in paths. Files may hold several documents
// and List objects.
func NewFileSource(paths ...string) (*FileSource, error) {
	source := &FileSource{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		objects, err := decodeObjects(content)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		source.objects = append(source.objects, objects...)
	}
	return source, nil
}

func decodeObjects(content []byte) ([]unstructured.Unstructured, error) {
	var objects []unstructured.Unstructured
	for i, doc := range documentSeparator.Split(string(content), -1) {
		if strings.TrimSpace(doc) == "" {
			continue
		}
		data, err := yaml.YAMLToJSON([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if string(data) == "null" {
			continue
		}
		obj, err := runtime.Decode(unstructured.UnstructuredJSONScheme, data)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		switch o := obj.(type) {
		case *unstructured.UnstructuredList:
			objects = append(objects, o.Items...)
		case *unstructured.Unstructured:
			objects = append(objects, *o)
		}
	}
	return objects, nil
}

func (s *FileSource) List(_ context.Context, kind Kind) ([]unstructured.Unstructured, error) {
	var out []unstructured.Unstructured
	for _, obj := range s.objects {
		gvk := obj.GroupVersionKind()
		if gvk.Group == kind.Group && gvk.Kind == kind.Kind {
			out = append(out, obj)
		}
	}
	return out, nil
}
