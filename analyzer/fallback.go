package analyzer

import (
	"regexp"

	"github.com/baselinescan/baselinescan/baseline"
	"github.com/baselinescan/baselinescan/parser"
)

// FallbackAnalyzer is the degraded-mode detector used when structural
// parsing fails. It scans raw text with regular expressions for a reduced,
// high-confidence subset of signatures per language family. It never
// returns an error; an unresolvable match is simply skipped.
type FallbackAnalyzer struct {
	resolver *Resolver
}

func NewFallbackAnalyzer(resolver *Resolver) *FallbackAnalyzer {
	return &FallbackAnalyzer{resolver: resolver}
}

var (
	cssPropertyPattern = regexp.MustCompile(`(?m)(?:^|[{;])\s*([a-zA-Z-]{2,})\s*:`)
	cssPseudoPattern   = regexp.MustCompile(`::?([a-z-]+)(?:\(|\b)`)
	cssAtRulePattern   = regexp.MustCompile(`@([a-z-]+)\b`)

	jsCallPattern        = regexp.MustCompile(`\b(fetch|structuredClone|requestIdleCallback)\s*\(`)
	jsConstructorPattern = regexp.MustCompile(`\bnew\s+([A-Z][A-Za-z]+)\b`)
	jsMemberPattern      = regexp.MustCompile(`\b(navigator|Promise|Object)\.([a-zA-Z]+)\b`)
	jsGlobalPattern      = regexp.MustCompile(`\b(localStorage|sessionStorage)\b`)
	jsOptionalChain      = regexp.MustCompile(`\?\.`)
	jsNullishCoalesce    = regexp.MustCompile(`\?\?[^=]`)

	htmlTagPattern     = regexp.MustCompile(`<([a-z][a-z-]*)\b`)
	htmlLoadingPattern = regexp.MustCompile(`\b(loading)\s*=\s*["']lazy["']`)
	htmlTypePattern    = regexp.MustCompile(`\btype\s*=\s*["']([a-z-]+)["']`)

	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// CSS scans stylesheet text for property, pseudo-selector and at-rule
// signatures.
func (f *FallbackAnalyzer) CSS(content string, doc Document, origin embedOrigin) []DetectedFeature {
	source := blankComments(content)
	var features []DetectedFeature

	for _, m := range cssPropertyPattern.FindAllStringSubmatchIndex(source, -1) {
		property := source[m[2]:m[3]]
		if id, status, ok := f.resolver.Property(property); ok {
			features = append(features, f.feature(id, property, status, FeatureCSS,
				tokenRange(source, m[2], m[3]), origin, "CSS property: "+property))
		}
	}
	for _, m := range cssPseudoPattern.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		if id, status, ok := f.resolver.Selector(name); ok {
			features = append(features, f.feature(id, ":"+name, status, FeatureCSS,
				tokenRange(source, m[0], m[3]), origin, "CSS selector: :"+name))
		}
	}
	for _, m := range cssAtRulePattern.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		if id, status, ok := f.resolver.AtRule(name); ok {
			features = append(features, f.feature(id, "@"+name, status, FeatureCSS,
				tokenRange(source, m[0], m[3]), origin, "CSS at-rule: @"+name))
		}
	}

	return features
}

// JavaScript scans script text for a reduced set of Web API and syntax
// signatures.
func (f *FallbackAnalyzer) JavaScript(content string, doc Document, origin embedOrigin) []DetectedFeature {
	source := blankComments(content)
	var features []DetectedFeature

	for _, m := range jsCallPattern.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		if id, status, ok := f.resolver.API(name); ok {
			features = append(features, f.feature(id, name, status, FeatureJavaScript,
				tokenRange(source, m[2], m[3]), origin, "Web API: "+name))
		}
	}
	for _, m := range jsConstructorPattern.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		if id, status, ok := f.resolver.API(name); ok {
			features = append(features, f.feature(id, name, status, FeatureJavaScript,
				tokenRange(source, m[2], m[3]), origin, "Web API: "+name))
		}
	}
	for _, m := range jsMemberPattern.FindAllStringSubmatchIndex(source, -1) {
		object, property := source[m[2]:m[3]], source[m[4]:m[5]]
		if id, status, ok := f.resolver.APIMember(object, property); ok {
			features = append(features, f.feature(id, object+"."+property, status, FeatureJavaScript,
				tokenRange(source, m[0], m[5]), origin, "Web API: "+object+"."+property))
		}
	}
	for _, m := range jsGlobalPattern.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		if id, status, ok := f.resolver.API(name); ok {
			features = append(features, f.feature(id, name, status, FeatureJavaScript,
				tokenRange(source, m[2], m[3]), origin, "Web API: "+name))
		}
	}
	for _, m := range jsOptionalChain.FindAllStringIndex(source, -1) {
		if id, status, ok := f.resolver.Syntax("javascript.operators.optional_chaining"); ok {
			features = append(features, f.feature(id, "?.", status, FeatureJavaScript,
				tokenRange(source, m[0], m[1]), origin, "JS syntax: optional chaining"))
		}
	}
	for _, m := range jsNullishCoalesce.FindAllStringIndex(source, -1) {
		if id, status, ok := f.resolver.Syntax("javascript.operators.nullish_coalescing"); ok {
			features = append(features, f.feature(id, "??", status, FeatureJavaScript,
				tokenRange(source, m[0], m[0]+2), origin, "JS syntax: nullish coalescing"))
		}
	}

	return features
}

// HTML scans markup text for modern tags and attribute signatures.
func (f *FallbackAnalyzer) HTML(content string, doc Document) []DetectedFeature {
	var features []DetectedFeature
	origin := embedOrigin{}

	for _, m := range htmlTagPattern.FindAllStringSubmatchIndex(content, -1) {
		tag := content[m[2]:m[3]]
		if id, status, ok := f.resolver.Element(tag); ok {
			features = append(features, f.feature(id, tag, status, FeatureHTML,
				tokenRange(content, m[2], m[3]), origin, "HTML element: <"+tag+">"))
		}
	}
	for _, m := range htmlLoadingPattern.FindAllStringSubmatchIndex(content, -1) {
		if id, status, ok := f.resolver.Attribute("img", "loading", "lazy"); ok {
			features = append(features, f.feature(id, "loading", status, FeatureHTML,
				tokenRange(content, m[2], m[3]), origin, "HTML attribute: loading"))
		}
	}
	for _, m := range htmlTypePattern.FindAllStringSubmatchIndex(content, -1) {
		value := content[m[2]:m[3]]
		if id, status, ok := f.resolver.Attribute("input", "type", value); ok {
			features = append(features, f.feature(id, "type="+value, status, FeatureHTML,
				tokenRange(content, m[0], m[3]), origin, "HTML attribute: type="+value))
		}
	}

	return features
}

func (f *FallbackAnalyzer) feature(id, name string, status baseline.Status, ftype FeatureType, rng parser.Range, origin embedOrigin, context string) DetectedFeature {
	if origin.embedded {
		rng = parser.RemapEmbedded(rng, origin.base, origin.firstLineShift)
	}
	if origin.context != "" {
		context = origin.context
	}
	return DetectedFeature{
		ID:       id,
		Name:     name,
		Type:     ftype,
		Range:    rng,
		Status:   status,
		Context:  context,
		Severity: severityFor(status.Status),
	}
}

func tokenRange(source string, start, end int) parser.Range {
	return parser.Range{
		Start: parser.PositionAt([]byte(source), start),
		End:   parser.PositionAt([]byte(source), end),
	}
}

// blankComments overwrites comment spans with spaces so match offsets keep
// their original line and column.
func blankComments(content string) string {
	blank := func(s string) string {
		out := []byte(s)
		for i := range out {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
		return string(out)
	}
	content = blockCommentPattern.ReplaceAllStringFunc(content, blank)
	return lineCommentPattern.ReplaceAllStringFunc(content, blank)
}
