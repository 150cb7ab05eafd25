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

type htmlAnalyzer struct {
	resolver    *Resolver
	reporter    *diagnostics.Reporter
	fallback    *FallbackAnalyzer
	css         *cssAnalyzer
	js          *jsAnalyzer
	logger      hclog.Logger
	maxFileSize int
}

func newHTMLAnalyzer(resolver *Resolver, reporter *diagnostics.Reporter, fallback *FallbackAnalyzer, css *cssAnalyzer, js *jsAnalyzer, logger hclog.Logger, maxFileSize int) *htmlAnalyzer {
	return &htmlAnalyzer{
		resolver:    resolver,
		reporter:    reporter,
		fallback:    fallback,
		css:         css,
		js:          js,
		logger:      logger.Named("html"),
		maxFileSize: maxFileSize,
	}
}

// Analyze scans an HTML document or framework template for modern elements
// and attributes, and re-dispatches embedded <style> and <script> blocks to
// the CSS and JavaScript analyzers with ranges remapped into this document.
func (a *htmlAnalyzer) Analyze(content string, doc Document) ([]DetectedFeature, []diagnostics.AnalysisError) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	if len(content) > a.maxFileSize {
		e := a.reporter.Normalize(
			fmt.Errorf("%w: %d bytes", diagnostics.ErrFileTooLarge, len(content)),
			doc.FileName, doc.LanguageID, "html-analyze", len(content))
		return nil, []diagnostics.AnalysisError{e}
	}

	source := []byte(content)
	result, err := parser.NewHTMLParser().Parse(source)
	if err != nil {
		e := a.reporter.Normalize(fmt.Errorf("%w: %v", diagnostics.ErrParse, err),
			doc.FileName, doc.LanguageID, "html-parse", len(content))
		return a.fallback.HTML(content, doc), []diagnostics.AnalysisError{e}
	}
	defer result.Close()

	root := result.Root()
	ratio := parser.ErrorRatio(root)
	if ratio > errorRatioThreshold {
		e := a.reporter.Normalize(fmt.Errorf("%w: malformed document", diagnostics.ErrParse),
			doc.FileName, doc.LanguageID, "html-parse", len(content))
		return a.fallback.HTML(content, doc), []diagnostics.AnalysisError{e}
	}

	var features []DetectedFeature
	parser.WalkAST(root, func(n *sitter.Node) {
		switch n.Type() {
		case "start_tag", "self_closing_tag":
			features = append(features, a.tagFeatures(n, source)...)
		case "style_element":
			features = append(features, a.embeddedStyle(n, source, doc)...)
		case "script_element":
			features = append(features, a.embeddedScript(n, source, doc)...)
		}
	})
	return features, recoveredParseError(a.reporter, ratio, doc, "html-parse", len(content))
}

func (a *htmlAnalyzer) tagFeatures(tag *sitter.Node, source []byte) []DetectedFeature {
	nameNode := childOfType(tag, "tag_name")
	if nameNode == nil {
		return nil
	}
	tagName := parser.NodeText(nameNode, source)

	var features []DetectedFeature
	if id, status, ok := a.resolver.Element(tagName); ok {
		features = append(features, a.feature(id, tagName, status,
			parser.NodeRange(nameNode), "HTML element: <"+tagName+">"))
	}

	for i := 0; i < int(tag.ChildCount()); i++ {
		attr := tag.Child(i)
		if attr.Type() != "attribute" {
			continue
		}
		if f, ok := a.attributeFeature(tagName, attr, source); ok {
			features = append(features, f)
		}
	}
	return features
}

func (a *htmlAnalyzer) attributeFeature(tagName string, attr *sitter.Node, source []byte) (DetectedFeature, bool) {
	nameNode := childOfType(attr, "attribute_name")
	if nameNode == nil {
		return DetectedFeature{}, false
	}
	name := parser.NodeText(nameNode, source)
	if isFrameworkAttribute(name) {
		return DetectedFeature{}, false
	}

	id, status, ok := a.resolver.Attribute(tagName, name, attributeValue(attr, source))
	if !ok {
		return DetectedFeature{}, false
	}
	return a.feature(id, name, status, parser.NodeRange(nameNode),
		fmt.Sprintf("HTML attribute: %s on <%s>", name, tagName)), true
}

func (a *htmlAnalyzer) embeddedStyle(n *sitter.Node, source []byte, doc Document) []DetectedFeature {
	raw := childOfType(n, "raw_text")
	if raw == nil {
		return nil
	}
	return a.css.AnalyzeFragment(parser.NodeText(raw, source), doc, embedOrigin{
		base:     parser.NodeRange(raw).Start,
		embedded: true,
	})
}

func (a *htmlAnalyzer) embeddedScript(n *sitter.Node, source []byte, doc Document) []DetectedFeature {
	raw := childOfType(n, "raw_text")
	if raw == nil {
		return nil
	}
	return a.js.AnalyzeFragment(parser.NodeText(raw, source), doc, embedOrigin{
		base:     parser.NodeRange(raw).Start,
		embedded: true,
	})
}

func (a *htmlAnalyzer) feature(id, name string, status baseline.Status, rng parser.Range, context string) DetectedFeature {
	return DetectedFeature{
		ID:       id,
		Name:     name,
		Type:     FeatureHTML,
		Range:    rng,
		Status:   status,
		Context:  context,
		Severity: severityFor(status.Status),
	}
}

// isFrameworkAttribute recognizes Vue/Angular/Svelte directive and binding
// syntax so template sugar is not resolved as a platform attribute.
func isFrameworkAttribute(name string) bool {
	if name == "" {
		return true
	}
	switch name[0] {
	case '@', ':', '#', '(', '[', '*':
		return true
	}
	return strings.HasPrefix(name, "v-") ||
		strings.HasPrefix(name, "on:") ||
		strings.HasPrefix(name, "bind:") ||
		strings.HasPrefix(name, "use:") ||
		strings.HasPrefix(name, "transition:") ||
		strings.HasPrefix(name, "ng-")
}

func attributeValue(attr *sitter.Node, source []byte) string {
	if quoted := childOfType(attr, "quoted_attribute_value"); quoted != nil {
		if v := childOfType(quoted, "attribute_value"); v != nil {
			return parser.NodeText(v, source)
		}
		return strings.Trim(parser.NodeText(quoted, source), `"'`)
	}
	if v := childOfType(attr, "attribute_value"); v != nil {
		return parser.NodeText(v, source)
	}
	return ""
}
