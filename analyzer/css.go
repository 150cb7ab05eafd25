package analyzer

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/baselinescan/baselinescan/baseline"
	"github.com/baselinescan/baselinescan/diagnostics"
	"github.com/baselinescan/baselinescan/parser"
)

// errorRatioThreshold is the fraction of ERROR/MISSING nodes above which a
// structural parse is considered failed and the degraded-mode scanner runs
// instead.
const errorRatioThreshold = 0.4

// embedOrigin carries the coordinate-space context of the text being walked:
// the parent-document position of an embedded fragment and the width of any
// synthetic prefix added before parsing.
type embedOrigin struct {
	context        string
	base           parser.Position
	firstLineShift int
	embedded       bool
}

type cssAnalyzer struct {
	resolver    *Resolver
	reporter    *diagnostics.Reporter
	fallback    *FallbackAnalyzer
	logger      hclog.Logger
	maxFileSize int
}

func newCSSAnalyzer(resolver *Resolver, reporter *diagnostics.Reporter, fallback *FallbackAnalyzer, logger hclog.Logger, maxFileSize int) *cssAnalyzer {
	return &cssAnalyzer{
		resolver:    resolver,
		reporter:    reporter,
		fallback:    fallback,
		logger:      logger.Named("css"),
		maxFileSize: maxFileSize,
	}
}

// Analyze scans a stylesheet for feature usage. It never returns a Go
// error: parse failures run the fallback scanner and surface as
// AnalysisError records.
func (a *cssAnalyzer) Analyze(content string, doc Document) ([]DetectedFeature, []diagnostics.AnalysisError) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	if len(content) > a.maxFileSize {
		e := a.reporter.Normalize(
			fmt.Errorf("%w: %d bytes", diagnostics.ErrFileTooLarge, len(content)),
			doc.FileName, doc.LanguageID, "css-analyze", len(content))
		return nil, []diagnostics.AnalysisError{e}
	}

	source := []byte(content)
	result, err := parser.NewCSSParser().Parse(source)
	if err != nil {
		e := a.reporter.Normalize(fmt.Errorf("%w: %v", diagnostics.ErrParse, err),
			doc.FileName, doc.LanguageID, "css-parse", len(content))
		return a.fallback.CSS(content, doc, embedOrigin{}), []diagnostics.AnalysisError{e}
	}
	defer result.Close()

	root := result.Root()
	ratio := parser.ErrorRatio(root)
	if ratio > errorRatioThreshold {
		e := a.reporter.Normalize(fmt.Errorf("%w: malformed stylesheet", diagnostics.ErrParse),
			doc.FileName, doc.LanguageID, "css-parse", len(content))
		return a.fallback.CSS(content, doc, embedOrigin{}), []diagnostics.AnalysisError{e}
	}

	return a.walk(root, source, embedOrigin{}), recoveredParseError(a.reporter, ratio, doc, "css-parse", len(content))
}

// recoveredParseError records the single parsing error for a tree that
// contains ERROR or MISSING nodes but stayed walkable. The error-ratio
// threshold decides structural walk vs degraded mode; any recovered error
// still surfaces as one AnalysisError for the document.
func recoveredParseError(reporter *diagnostics.Reporter, ratio float64, doc Document, operation string, size int) []diagnostics.AnalysisError {
	if ratio == 0 {
		return nil
	}
	e := reporter.Normalize(fmt.Errorf("%w: source contains syntax errors", diagnostics.ErrParse),
		doc.FileName, doc.LanguageID, operation, size)
	return []diagnostics.AnalysisError{e}
}

// AnalyzeFragment scans an embedded CSS region: a <style> block or the body
// of a CSS-in-JS template literal. Declaration-only fragments are wrapped in
// a synthetic rule before parsing; origin.firstLineShift compensates in the
// range remapping. Fragment parse failures degrade to an empty result;
// the parent document's own analysis already succeeded.
func (a *cssAnalyzer) AnalyzeFragment(fragment string, doc Document, origin embedOrigin) []DetectedFeature {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	text := fragment
	if !strings.Contains(fragment, "{") {
		const prefix = ".x{"
		text = prefix + fragment + "}"
		origin.firstLineShift = len(prefix)
	}

	result, err := parser.NewCSSParser().Parse([]byte(text))
	if err != nil {
		a.logger.Debug("embedded css fragment failed to parse", "file", doc.FileName, "error", err)
		return nil
	}
	defer result.Close()

	return a.walk(result.Root(), []byte(text), origin)
}

func (a *cssAnalyzer) walk(root *sitter.Node, source []byte, origin embedOrigin) []DetectedFeature {
	var features []DetectedFeature

	parser.WalkAST(root, func(n *sitter.Node) {
		switch n.Type() {
		case "declaration":
			features = append(features, a.declarationFeatures(n, source, origin)...)
		case "pseudo_class_selector":
			if f, ok := a.selectorFeature(n, "class_name", source, origin); ok {
				features = append(features, f)
			}
		case "pseudo_element_selector":
			if f, ok := a.selectorFeature(n, "tag_name", source, origin); ok {
				features = append(features, f)
			}
		case "media_statement", "keyframes_statement", "supports_statement",
			"import_statement", "charset_statement", "namespace_statement", "at_rule":
			if f, ok := a.atRuleFeature(n, source, origin); ok {
				features = append(features, f)
			}
		}
	})

	return features
}

// declarationFeatures matches the property name and any value-level
// function calls of one declaration. Property-level resolution takes
// precedence; the first value token refines the lookup only for properties
// the dataset discriminates by value (display, position).
func (a *cssAnalyzer) declarationFeatures(n *sitter.Node, source []byte, origin embedOrigin) []DetectedFeature {
	var features []DetectedFeature

	propNode := childOfType(n, "property_name")
	if propNode == nil {
		return nil
	}
	property := parser.NodeText(propNode, source)

	if id, status, ok := a.resolver.PropertyValue(property, firstValueToken(n, source)); ok {
		features = append(features, a.feature(id, property, status,
			parser.NodeRange(propNode), origin, "CSS property: "+property))
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "call_expression" {
			continue
		}
		fnNode := childOfType(child, "function_name")
		if fnNode == nil {
			continue
		}
		fn := parser.NodeText(fnNode, source)
		if id, status, ok := a.resolver.CSSFunction(fn); ok {
			features = append(features, a.feature(id, fn, status,
				parser.NodeRange(child), origin, "CSS function: "+fn+"()"))
		}
	}

	return features
}

func (a *cssAnalyzer) selectorFeature(n *sitter.Node, nameType string, source []byte, origin embedOrigin) (DetectedFeature, bool) {
	nameNode := childOfType(n, nameType)
	if nameNode == nil {
		return DetectedFeature{}, false
	}
	name := parser.NodeText(nameNode, source)

	id, status, ok := a.resolver.Selector(name)
	if !ok {
		return DetectedFeature{}, false
	}

	// The selector node spans any compound selector it is attached to
	// (".c:has(.x)" is one pseudo_class_selector). The reported range covers
	// only the colon token through the pseudo name.
	rng := parser.Range{
		Start: parser.NodeRange(nameNode).Start,
		End:   parser.NodeRange(nameNode).End,
	}
	if colon := childOfType(n, ":"); colon != nil {
		rng.Start = parser.NodeRange(colon).Start
	} else if colons := childOfType(n, "::"); colons != nil {
		rng.Start = parser.NodeRange(colons).Start
	}

	label := ":" + name
	return a.feature(id, label, status, rng, origin, "CSS selector: "+label), true
}

func (a *cssAnalyzer) atRuleFeature(n *sitter.Node, source []byte, origin embedOrigin) (DetectedFeature, bool) {
	text := parser.NodeText(n, source)
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "@") {
		return DetectedFeature{}, false
	}
	keyword := fields[0]

	id, status, ok := a.resolver.AtRule(keyword)
	if !ok {
		return DetectedFeature{}, false
	}

	start := parser.NodeRange(n).Start
	rng := parser.Range{
		Start: start,
		End:   parser.Position{Line: start.Line, Column: start.Column + len(keyword)},
	}
	return a.feature(id, keyword, status, rng, origin, "CSS at-rule: "+keyword), true
}

func (a *cssAnalyzer) feature(id, name string, status baseline.Status, rng parser.Range, origin embedOrigin, context string) DetectedFeature {
	if origin.embedded {
		rng = parser.RemapEmbedded(rng, origin.base, origin.firstLineShift)
	}
	if origin.context != "" {
		context = origin.context
	}
	return DetectedFeature{
		ID:       id,
		Name:     name,
		Type:     FeatureCSS,
		Range:    rng,
		Status:   status,
		Context:  context,
		Severity: severityFor(status.Status),
	}
}

// firstValueToken returns the first plain value token of a declaration,
// used to refine property lookups for value-discriminated properties.
func firstValueToken(n *sitter.Node, source []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "plain_value", "identifier":
			return parser.NodeText(child, source)
		}
	}
	return ""
}

func childOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}
