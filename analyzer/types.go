package analyzer

import (
	"github.com/baselinescan/baselinescan/baseline"
	"github.com/baselinescan/baselinescan/parser"
)

// Severity of a detected feature, derived from its Baseline status.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// FeatureType names the analyzer family that produced a detection. Embedded
// regions keep their own family: CSS found inside a JS template literal is
// FeatureCSS.
type FeatureType string

const (
	FeatureCSS        FeatureType = "css"
	FeatureJavaScript FeatureType = "javascript"
	FeatureHTML       FeatureType = "html"
)

// DetectedFeature is one occurrence of a web platform feature in source
// text. Status is copied at detection time and immutable thereafter.
type DetectedFeature struct {
	ID       string
	Name     string
	Type     FeatureType
	Range    parser.Range
	Status   baseline.Status
	Context  string
	Severity Severity
}

// Document carries the metadata of the text under analysis.
type Document struct {
	LanguageID string
	FileName   string
}

// severityFor maps a Baseline tier to the default indicator severity.
func severityFor(status string) Severity {
	switch status {
	case baseline.StatusWidelyAvailable:
		return SeverityInfo
	case baseline.StatusNewlyAvailable:
		return SeverityWarning
	default:
		return SeverityError
	}
}
