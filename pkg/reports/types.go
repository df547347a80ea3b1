// Package reports models policy reports and derives per-resource and
// per-policy result counts from them.
package reports

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the result of evaluating one policy rule against a resource.
type Outcome string

const (
	OutcomePass  Outcome = "pass"
	OutcomeFail  Outcome = "fail"
	OutcomeWarn  Outcome = "warn"
	OutcomeError Outcome = "error"
	OutcomeSkip  Outcome = "skip"
)

// ParseOutcome accepts the five report result values, case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(strings.ToLower(strings.TrimSpace(s))); o {
	case OutcomePass, OutcomeFail, OutcomeWarn, OutcomeError, OutcomeSkip:
		return o, nil
	default:
		return "", fmt.Errorf("unknown report result %q", s)
	}
}

type Severity string

const (
	SeverityUnspecified Severity = ""
	SeverityCritical    Severity = "critical"
	SeverityHigh        Severity = "high"
	SeverityMedium      Severity = "medium"
	SeverityLow         Severity = "low"
	SeverityInfo        Severity = "info"
)

// ParseSeverity maps unknown values to SeverityUnspecified.
func ParseSeverity(s string) Severity {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return sev
	default:
		return SeverityUnspecified
	}
}

// ResourceID identifies the resource a report or result refers to.
type ResourceID struct {
	APIVersion string `json:"apiVersion,omitempty"`
	Kind       string `json:"kind"`
	Namespace  string `json:"namespace,omitempty"`
	Name       string `json:"name"`
	UID        string `json:"uid,omitempty"`
}

// Matches compares by UID when both sides have one. Otherwise kind,
// namespace and name must be equal, and apiVersion too when both are set.
func (id ResourceID) Matches(other ResourceID) bool {
	if id.UID != "" && other.UID != "" {
		return id.UID == other.UID
	}
	if id.APIVersion != "" && other.APIVersion != "" && id.APIVersion != other.APIVersion {
		return false
	}
	return id.Kind == other.Kind && id.Namespace == other.Namespace && id.Name == other.Name
}

func (id ResourceID) String() string {
	if id.Namespace == "" {
		return id.Kind + "/" + id.Name
	}
	return id.Kind + "/" + id.Namespace + "/" + id.Name
}

// Summary holds the number of results per outcome.
type Summary struct {
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
	Warn  int `json:"warn"`
	Error int `json:"error"`
	Skip  int `json:"skip"`
}

// Add counts one result. Unknown outcomes are not counted.
func (s *Summary) Add(o Outcome) {
	switch o {
	case OutcomePass:
		s.Pass++
	case OutcomeFail:
		s.Fail++
	case OutcomeWarn:
		s.Warn++
	case OutcomeError:
		s.Error++
	case OutcomeSkip:
		s.Skip++
	}
}

func (s Summary) Total() int {
	return s.Pass + s.Fail + s.Warn + s.Error + s.Skip
}

// Result is a single finding of a report.
type Result struct {
	Category  string
	Message   string
	Policy    string
	Rule      string
	Result    Outcome
	Severity  Severity
	Source    string
	Timestamp time.Time
	Resources []ResourceID
}

// Report is a PolicyReport, or a ClusterPolicyReport when Namespace is empty.
type Report struct {
	Name      string
	Namespace string
	Scope     *ResourceID
	Summary   Summary
	Results   []Result
}
