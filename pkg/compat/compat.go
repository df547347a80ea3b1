// Package compat decides whether a feature can be offered given the versions
// of two independently released components.
package compat

import (
	semver "github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultGateThreshold      = "1.4.1"
	DefaultComponentThreshold = "1.9.0"
)

// Gate enables a feature unconditionally while the gating version is at or
// below GateThreshold. Past it, the component must be newer than
// ComponentThreshold. Both comparisons are strict.
type Gate struct {
	GateThreshold      string `mapstructure:"gateThreshold"`
	ComponentThreshold string `mapstructure:"componentThreshold"`
}

// DefaultGate returns the gate with the built-in thresholds.
func DefaultGate() Gate {
	return Gate{
		GateThreshold:      DefaultGateThreshold,
		ComponentThreshold: DefaultComponentThreshold,
	}
}

// IsFeatureCompatible evaluates the default gate.
func IsFeatureCompatible(componentVersion, gateVersion string) bool {
	return DefaultGate().Compatible(componentVersion, gateVersion)
}

// Compatible reports whether the feature is enabled. Versions that cannot be
// parsed disable it. Pre-releases order below their release.
func (g Gate) Compatible(componentVersion, gateVersion string) bool {
	gate, err := semver.NewVersion(gateVersion)
	if err != nil {
		logrus.Warnf("could not parse gate version %q: %v", gateVersion, err)
		return false
	}
	gateThreshold, err := semver.NewVersion(g.GateThreshold)
	if err != nil {
		logrus.Warnf("could not parse gate threshold %q: %v", g.GateThreshold, err)
		return false
	}
	if !gate.GreaterThan(gateThreshold) {
		return true
	}

	component, err := semver.NewVersion(componentVersion)
	if err != nil {
		logrus.Warnf("could not parse component version %q: %v", componentVersion, err)
		return false
	}
	componentThreshold, err := semver.NewVersion(g.ComponentThreshold)
	if err != nil {
		logrus.Warnf("could not parse component threshold %q: %v", g.ComponentThreshold, err)
		return false
	}
	return component.GreaterThan(componentThreshold)
}
