package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/baselinescan/baselinescan/analyzer"
	"github.com/baselinescan/baselinescan/diagnostics"
)

// FileResult is the per-file output of a scan.
type FileResult struct {
	Path     string
	Features []analyzer.DetectedFeature
	Errors   []diagnostics.AnalysisError
}

// WriteSARIF renders scan results as a SARIF 2.1.0 report, one rule per
// dataset feature id and one result per detected occurrence.
func WriteSARIF(results []FileResult, w io.Writer) error {
	reportSarif, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("baselinescan", "https://github.com/baselinescan/baselinescan")
	for _, file := range results {
		for _, feature := range file.Features {
			rule := run.AddRule(feature.ID).
				WithDescription(fmt.Sprintf("Baseline status of %s: %s", feature.Name, feature.Status.Status)).
				WithDefaultConfiguration(&sarif.ReportingConfiguration{
					Level: toSarifLevel(feature.Severity),
				})

			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file.Path)).
					WithRegion(sarif.NewRegion().
						WithStartLine(feature.Range.Start.Line + 1).
						WithStartColumn(feature.Range.Start.Column + 1).
						WithEndLine(feature.Range.End.Line + 1).
						WithEndColumn(feature.Range.End.Column + 1)),
			)

			message := fmt.Sprintf("%s (%s) is %s", feature.Name, feature.Context, statusLabel(feature.Status.Status))
			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(message)).
				WithLevel(toSarifLevel(feature.Severity)).
				WithLocations([]*sarif.Location{location})
			run.AddResult(result)
		}
	}
	reportSarif.AddRun(run)

	return reportSarif.PrettyWrite(w)
}

func toSarifLevel(severity analyzer.Severity) string {
	switch severity {
	case analyzer.SeverityError:
		return "error"
	case analyzer.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func statusLabel(status string) string {
	switch status {
	case "widely_available":
		return "widely available"
	case "newly_available":
		return "newly available"
	default:
		return "of limited availability"
	}
}
