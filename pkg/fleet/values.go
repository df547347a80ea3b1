package fleet

import (
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	PolicyServerKind = "PolicyServer"
	ValuesFileName   = "values.yaml"
)

type chartValues struct {
	Global struct {
		Cattle struct {
			SystemDefaultRegistry string `yaml:"systemDefaultRegistry"`
		} `yaml:"cattle"`
	} `yaml:"global"`
	PolicyServer struct {
		Image struct {
			Repository string `yaml:"repository"`
			Tag        string `yaml:"tag"`
		} `yaml:"image"`
	} `yaml:"policyServer"`
}

// GetPolicyServerModule returns the policy-server image configured in the
// values of the bundle that deploys PolicyServer resources.
func GetPolicyServerModule(bundles []Bundle) (string, bool) {
	return defaultLocator.GetPolicyServerModule(bundles)
}

func (l *Locator) GetPolicyServerModule(bundles []Bundle) (string, bool) {
	bundle, found := l.FindFleetContent(PolicyServerKind, bundles, "")
	if !found {
		return "", false
	}

	values, found := lo.Find(bundle.Resources, func(r Resource) bool {
		return r.Name == ValuesFileName
	})
	if !found {
		return "", false
	}

	text, err := values.Text()
	if err != nil {
		logrus.Debugf("could not read %s of bundle %s: %v", ValuesFileName, bundle.Name, err)
		return "", false
	}

	var parsed chartValues
	if err := yaml.Unmarshal([]byte(text), &parsed); err != nil {
		logrus.Debugf("could not parse %s of bundle %s: %v", ValuesFileName, bundle.Name, err)
		return "", false
	}

	image := parsed.PolicyServer.Image
	if image.Repository == "" || image.Tag == "" {
		return "", false
	}

	ref := image.Repository + ":" + image.Tag
	if registry := parsed.Global.Cattle.SystemDefaultRegistry; registry != "" {
		ref = registry + "/" + ref
	}

	if _, err := name.ParseReference(ref); err != nil {
		logrus.Debugf("policy server image %q in bundle %s is not a valid reference: %v", ref, bundle.Name, err)
		return "", false
	}
	return ref, true
}
