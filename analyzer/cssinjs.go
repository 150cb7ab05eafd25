package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/baselinescan/baselinescan/parser"
)

// ScanJS walks a parsed JavaScript tree for CSS-in-JS regions: tagged
// template literals of the styled.* / css form and css props in JSX. The
// extracted text runs through the regular CSS walkers; ranges map back to
// the outer file's coordinate space.
func (a *cssAnalyzer) ScanJS(root *sitter.Node, source []byte, doc Document) []DetectedFeature {
	var features []DetectedFeature

	parser.WalkAST(root, func(n *sitter.Node) {
		switch n.Type() {
		case "call_expression":
			fn := n.ChildByFieldName("function")
			tpl := childOfType(n, "template_string")
			if fn != nil && tpl != nil && isStyledTag(fn, source) {
				features = append(features, a.analyzeTemplate(tpl, source, doc)...)
			}
		case "jsx_attribute":
			if isCSSProp(n, source) {
				if tpl := findDescendant(n, "template_string"); tpl != nil {
					features = append(features, a.analyzeTemplate(tpl, source, doc)...)
				}
			}
		}
	})

	return features
}

// analyzeTemplate extracts the body of a template literal and analyzes it
// as a CSS fragment. Interpolation slots are blanked with spaces so that
// every remaining byte keeps its original line and column.
func (a *cssAnalyzer) analyzeTemplate(tpl *sitter.Node, source []byte, doc Document) []DetectedFeature {
	start := int(tpl.StartByte())
	end := int(tpl.EndByte())
	if end-start < 2 {
		return nil
	}

	body := make([]byte, end-start-2)
	copy(body, source[start+1:end-1])

	for i := 0; i < int(tpl.ChildCount()); i++ {
		child := tpl.Child(i)
		if child.Type() != "template_substitution" {
			continue
		}
		from := int(child.StartByte()) - (start + 1)
		to := int(child.EndByte()) - (start + 1)
		for j := from; j < to && j < len(body); j++ {
			if j >= 0 && body[j] != '\n' {
				body[j] = ' '
			}
		}
	}

	base := parser.NodeRange(tpl).Start
	base.Column++ // content begins after the opening backtick

	return a.AnalyzeFragment(string(body), doc, embedOrigin{
		context:  "CSS-in-JS",
		base:     base,
		embedded: true,
	})
}

// isStyledTag reports whether a tagged-template function expression is a
// CSS-in-JS tag: css`...`, styled.div`...` or styled(Component)`...`.
func isStyledTag(fn *sitter.Node, source []byte) bool {
	switch fn.Type() {
	case "identifier":
		text := parser.NodeText(fn, source)
		return text == "css" || text == "styled" || text == "keyframes" || text == "createGlobalStyle"
	case "member_expression":
		obj := fn.ChildByFieldName("object")
		return obj != nil && obj.Type() == "identifier" && parser.NodeText(obj, source) == "styled"
	case "call_expression":
		inner := fn.ChildByFieldName("function")
		return inner != nil && inner.Type() == "identifier" && parser.NodeText(inner, source) == "styled"
	}
	return false
}

func isCSSProp(attr *sitter.Node, source []byte) bool {
	name := childOfType(attr, "property_identifier")
	return name != nil && parser.NodeText(name, source) == "css"
}

func findDescendant(n *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	parser.WalkAST(n, func(c *sitter.Node) {
		if found == nil && c.Type() == nodeType {
			found = c
		}
	})
	return found
}
