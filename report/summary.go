package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/baselinescan/baselinescan/analyzer"
)

var (
	infoColor    = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	fileColor    = color.New(color.Bold)
)

// WriteSummary prints a per-file listing of detections followed by totals.
func WriteSummary(results []FileResult, w io.Writer, verbose bool) {
	var info, warning, errs, failures int

	for _, file := range results {
		failures += len(file.Errors)
		if len(file.Features) == 0 && len(file.Errors) == 0 {
			continue
		}

		fileColor.Fprintln(w, file.Path)
		for _, f := range file.Features {
			switch f.Severity {
			case analyzer.SeverityError:
				errs++
			case analyzer.SeverityWarning:
				warning++
			default:
				info++
			}
			if verbose || f.Severity != analyzer.SeverityInfo {
				fmt.Fprintf(w, "  %s:%d:%d  %s  %s [%s]\n",
					severityTag(f.Severity),
					f.Range.Start.Line+1, f.Range.Start.Column+1,
					f.ID, f.Context, statusLabel(f.Status.Status))
			}
		}
		for _, e := range file.Errors {
			fmt.Fprintf(w, "  %s  %s (%s)\n", errorColor.Sprint("!"), e.Message, e.Kind)
		}
	}

	fmt.Fprintf(w, "\n%s %d  %s %d  %s %d",
		infoColor.Sprint("widely:"), info,
		warningColor.Sprint("newly:"), warning,
		errorColor.Sprint("limited:"), errs)
	if failures > 0 {
		fmt.Fprintf(w, "  errors: %d", failures)
	}
	fmt.Fprintln(w)
}

func severityTag(s analyzer.Severity) string {
	switch s {
	case analyzer.SeverityError:
		return errorColor.Sprint("limited")
	case analyzer.SeverityWarning:
		return warningColor.Sprint("newly")
	default:
		return infoColor.Sprint("widely")
	}
}
