package diagnostics

import "errors"

// Kind categorizes an analysis failure.
type Kind string

const (
	KindParsing       Kind = "parsing"
	KindTimeout       Kind = "timeout"
	KindFileSize      Kind = "file_size"
	KindDataLoad      Kind = "data_load"
	KindConfiguration Kind = "configuration"
)

// Sentinel errors used across the engine. Wrapped errors are categorized
// with errors.Is.
var (
	ErrParse         = errors.New("parsing failed")
	ErrTimeout       = errors.New("analysis timed out")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
	ErrDataLoad      = errors.New("compatibility dataset failed to load")
	ErrConfiguration = errors.New("invalid analyzer configuration")
)

// AnalysisError is the data form of a recovered failure. It is returned to
// callers alongside (possibly partial) results and never thrown past the
// engine boundary.
type AnalysisError struct {
	File      string
	Message   string
	Kind      Kind
	Language  string
	Operation string
	Size      int
	// Line and Column are 1-based; zero means unknown.
	Line   int
	Column int
}

// KindOf maps an error value onto its diagnostic kind. Unrecognized errors
// categorize as parsing failures, the only kind produced by arbitrary
// analyzer internals.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrFileTooLarge):
		return KindFileSize
	case errors.Is(err, ErrDataLoad):
		return KindDataLoad
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindParsing
	}
}
