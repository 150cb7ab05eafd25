package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/baselinescan/baselinescan/baseline"
	"github.com/baselinescan/baselinescan/diagnostics"
	"github.com/baselinescan/baselinescan/guard"
)

// Options configures the engine. Zero values enable every analyzer with
// the default size ceiling.
type Options struct {
	MaxFileSize int
	DisableCSS  bool
	DisableJS   bool
	DisableHTML bool
}

const defaultMaxFileSize = 1024 * 1024

type family int

const (
	familyUnknown family = iota
	familyCSS
	familyJS
	familyHTML
)

// Engine dispatches documents to language analyzers by language id, runs
// each analysis under the timeout guard and assembles the merged, ordered,
// de-duplicated feature list.
type Engine struct {
	service  *baseline.Service
	guard    *guard.Guard
	reporter *diagnostics.Reporter
	logger   hclog.Logger
	opts     Options

	css  *cssAnalyzer
	js   *jsAnalyzer
	html *htmlAnalyzer
}

// NewEngine wires the analyzers. The service must be initialized before
// Analyze is called; the guard and reporter are shared with the caller for
// cancellation and diagnostics.
func NewEngine(service *baseline.Service, g *guard.Guard, reporter *diagnostics.Reporter, logger hclog.Logger, opts Options) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaultMaxFileSize
	}

	resolver := NewResolver(service)
	fallback := NewFallbackAnalyzer(resolver)
	css := newCSSAnalyzer(resolver, reporter, fallback, logger, opts.MaxFileSize)
	js := newJSAnalyzer(resolver, reporter, fallback, css, logger, opts.MaxFileSize)
	html := newHTMLAnalyzer(resolver, reporter, fallback, css, js, logger, opts.MaxFileSize)

	return &Engine{
		service:  service,
		guard:    g,
		reporter: reporter,
		logger:   logger.Named("engine"),
		opts:     opts,
		css:      css,
		js:       js,
		html:     html,
	}
}

// languageFamilies maps editor language ids onto analyzer families.
var languageFamilies = map[string]family{
	"css":             familyCSS,
	"scss":            familyCSS,
	"less":            familyCSS,
	"javascript":      familyJS,
	"javascriptreact": familyJS,
	"typescript":      familyJS,
	"typescriptreact": familyJS,
	"html":            familyHTML,
	"vue":             familyHTML,
	"svelte":          familyHTML,
}

// Analyze runs the matching analyzer over one document. Per-document
// failures are returned as AnalysisError records alongside whatever
// features were found; Analyze itself never fails.
func (e *Engine) Analyze(ctx context.Context, content string, doc Document) ([]DetectedFeature, []diagnostics.AnalysisError) {
	fam := languageFamilies[doc.LanguageID]
	if fam == familyUnknown || e.disabled(fam) {
		err := fmt.Errorf("%w: no analyzer for language %q", diagnostics.ErrConfiguration, doc.LanguageID)
		return nil, []diagnostics.AnalysisError{
			e.reporter.Normalize(err, doc.FileName, doc.LanguageID, "dispatch", len(content)),
		}
	}

	var (
		features []DetectedFeature
		errs     []diagnostics.AnalysisError
	)
	err := e.guard.Execute(ctx, doc.FileName, "analyze", len(content), func(taskCtx context.Context) error {
		if taskCtx.Err() != nil {
			return taskCtx.Err()
		}
		switch fam {
		case familyCSS:
			features, errs = e.css.Analyze(content, doc)
		case familyJS:
			features, errs = e.js.Analyze(content, doc)
		case familyHTML:
			features, errs = e.html.Analyze(content, doc)
		}
		return nil
	})
	if err != nil {
		// Timed-out or cancelled work is discarded, including any partial
		// result the abandoned goroutine may still produce.
		return nil, []diagnostics.AnalysisError{
			e.reporter.Normalize(err, doc.FileName, doc.LanguageID, "analyze", len(content)),
		}
	}

	return assemble(features), errs
}

func (e *Engine) disabled(fam family) bool {
	switch fam {
	case familyCSS:
		return e.opts.DisableCSS
	case familyJS:
		return e.opts.DisableJS
	case familyHTML:
		return e.opts.DisableHTML
	}
	return true
}

// assemble orders features by source position and suppresses exact
// (id, range) duplicates. Duplicate suppression is a contract: the same
// span can surface from both a primary walk and an embedded-region
// re-scan.
func assemble(features []DetectedFeature) []DetectedFeature {
	sort.SliceStable(features, func(i, j int) bool {
		if features[i].Range.Start != features[j].Range.Start {
			return features[i].Range.Start.Before(features[j].Range.Start)
		}
		return features[i].ID < features[j].ID
	})

	type dedupeKey struct {
		id  string
		rng [4]int
	}
	seen := make(map[dedupeKey]struct{}, len(features))
	out := features[:0]
	for _, f := range features {
		key := dedupeKey{
			id: f.ID,
			rng: [4]int{
				f.Range.Start.Line, f.Range.Start.Column,
				f.Range.End.Line, f.Range.End.Column,
			},
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
