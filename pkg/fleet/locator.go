package fleet

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// KindMatcher decides whether a manifest declares a resource of a kind.
type KindMatcher interface {
	Matches(manifest, kind string) bool
}

// SubstringMatcher looks for the literal text "kind: <Kind>" in the
// manifest. A comment or unrelated field carrying that text also matches.
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(manifest, kind string) bool {
	return strings.Contains(manifest, "kind: "+kind)
}

// YAMLMatcher decodes every document of the manifest and compares its
// top-level kind.
type YAMLMatcher struct{}

func (YAMLMatcher) Matches(manifest, kind string) bool {
	dec := yaml.NewDecoder(strings.NewReader(manifest))
	for {
		var doc struct {
			Kind string `yaml:"kind"`
		}
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			logrus.Debugf("could not decode manifest while looking for kind %s: %v", kind, err)
			return false
		}
		if doc.Kind == kind {
			return true
		}
	}
}

// Locator finds bundles by the kinds of the resources they render.
type Locator struct {
	matcher KindMatcher
}

// NewLocator returns a Locator using matcher, or SubstringMatcher when nil.
func NewLocator(matcher KindMatcher) *Locator {
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	return &Locator{matcher: matcher}
}

var defaultLocator = NewLocator(SubstringMatcher{})

// FindFleetContent returns the first bundle rendering a resource of kind,
// ignoring bundles built from skipChart when it is set.
func FindFleetContent(kind string, bundles []Bundle, skipChart string) (*Bundle, bool) {
	return defaultLocator.FindFleetContent(kind, bundles, skipChart)
}

func (l *Locator) FindFleetContent(kind string, bundles []Bundle, skipChart string) (*Bundle, bool) {
	for i := range bundles {
		bundle := &bundles[i]
		if skipChart != "" && bundle.Chart == skipChart {
			continue
		}
		for _, r := range bundle.Resources {
			text, err := r.Text()
			if err != nil {
				logrus.Debugf("skipping resource in bundle %s: %v", bundle.Name, err)
				continue
			}
			if l.matcher.Matches(text, kind) {
				return bundle, true
			}
		}
	}
	return nil, false
}
