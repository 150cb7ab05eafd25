package diagnostics

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Reporter converts failures into AnalysisError records and keeps running
// per-kind counters for diagnostics tooling. Process-wide state, cleared
// explicitly with Reset.
type Reporter struct {
	logger hclog.Logger

	mu     sync.Mutex
	counts map[Kind]int
}

func NewReporter(logger hclog.Logger) *Reporter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reporter{
		logger: logger.Named("diagnostics"),
		counts: make(map[Kind]int),
	}
}

// Normalize builds an AnalysisError from a failure, attaching file and
// operation context, records it in the counters and logs it.
func (r *Reporter) Normalize(err error, file, language, operation string, size int) AnalysisError {
	kind := KindOf(err)
	record := AnalysisError{
		File:      file,
		Message:   err.Error(),
		Kind:      kind,
		Language:  language,
		Operation: operation,
		Size:      size,
	}
	r.Record(record)
	return record
}

// Record counts an already-built AnalysisError and logs it.
func (r *Reporter) Record(e AnalysisError) {
	r.mu.Lock()
	r.counts[e.Kind]++
	r.mu.Unlock()

	r.logger.Warn("analysis error",
		"kind", e.Kind,
		"file", e.File,
		"language", e.Language,
		"operation", e.Operation,
		"error", e.Message,
	)
}

// Snapshot returns a copy of the per-kind counters.
func (r *Reporter) Snapshot() map[Kind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Kind]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Reset clears all counters.
func (r *Reporter) Reset() {
	r.mu.Lock()
	r.counts = make(map[Kind]int)
	r.mu.Unlock()
}
