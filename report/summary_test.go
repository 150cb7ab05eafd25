package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/baselinescan/baselinescan/diagnostics"
)

func TestWriteSummaryTotals(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	WriteSummary(sampleResults(), &buf, false)
	out := buf.String()

	assert.Contains(t, out, "styles/cards.css")
	assert.Contains(t, out, "widely: 1")
	assert.Contains(t, out, "newly: 0")
	assert.Contains(t, out, "limited: 1")
	// Non-verbose output lists only newly/limited findings.
	assert.Contains(t, out, "has")
	assert.NotContains(t, out, "flexbox")
}

func TestWriteSummaryVerbose(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	WriteSummary(sampleResults(), &buf, true)
	assert.Contains(t, buf.String(), "flexbox")
}

func TestWriteSummaryErrors(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	results := []FileResult{{
		Path: "broken.css",
		Errors: []diagnostics.AnalysisError{{
			File: "broken.css", Message: "parsing failed: malformed stylesheet", Kind: diagnostics.KindParsing,
		}},
	}}
	WriteSummary(results, &buf, false)
	out := buf.String()

	assert.Contains(t, out, "broken.css")
	assert.Contains(t, out, "parsing failed")
	assert.Contains(t, out, "errors: 1")
}
