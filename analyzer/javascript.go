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

type jsAnalyzer struct {
	resolver    *Resolver
	reporter    *diagnostics.Reporter
	fallback    *FallbackAnalyzer
	css         *cssAnalyzer
	logger      hclog.Logger
	maxFileSize int
}

func newJSAnalyzer(resolver *Resolver, reporter *diagnostics.Reporter, fallback *FallbackAnalyzer, css *cssAnalyzer, logger hclog.Logger, maxFileSize int) *jsAnalyzer {
	return &jsAnalyzer{
		resolver:    resolver,
		reporter:    reporter,
		fallback:    fallback,
		css:         css,
		logger:      logger.Named("javascript"),
		maxFileSize: maxFileSize,
	}
}

// Analyze scans JavaScript or TypeScript source for Web API references,
// modern builtin methods and syntax-level constructs, plus any CSS-in-JS
// regions. Parse failures fall back to regex detection of a reduced
// feature set.
func (a *jsAnalyzer) Analyze(content string, doc Document) ([]DetectedFeature, []diagnostics.AnalysisError) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	if len(content) > a.maxFileSize {
		e := a.reporter.Normalize(
			fmt.Errorf("%w: %d bytes", diagnostics.ErrFileTooLarge, len(content)),
			doc.FileName, doc.LanguageID, "js-analyze", len(content))
		return nil, []diagnostics.AnalysisError{e}
	}

	source := []byte(content)
	result, err := parser.NewJavaScriptParser(doc.LanguageID).Parse(source)
	if err != nil {
		e := a.reporter.Normalize(fmt.Errorf("%w: %v", diagnostics.ErrParse, err),
			doc.FileName, doc.LanguageID, "js-parse", len(content))
		return a.fallback.JavaScript(content, doc, embedOrigin{}), []diagnostics.AnalysisError{e}
	}
	defer result.Close()

	root := result.Root()
	ratio := parser.ErrorRatio(root)
	if ratio > errorRatioThreshold {
		e := a.reporter.Normalize(fmt.Errorf("%w: unsupported syntax", diagnostics.ErrParse),
			doc.FileName, doc.LanguageID, "js-parse", len(content))
		return a.fallback.JavaScript(content, doc, embedOrigin{}), []diagnostics.AnalysisError{e}
	}

	features := a.walk(root, source, embedOrigin{})
	features = append(features, a.css.ScanJS(root, source, doc)...)
	return features, recoveredParseError(a.reporter, ratio, doc, "js-parse", len(content))
}

// AnalyzeFragment scans an embedded <script> block, remapping ranges into
// the parent document.
func (a *jsAnalyzer) AnalyzeFragment(fragment string, doc Document, origin embedOrigin) []DetectedFeature {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	result, err := parser.NewJavaScriptParser("javascript").Parse([]byte(fragment))
	if err != nil {
		a.logger.Debug("embedded script failed to parse", "file", doc.FileName, "error", err)
		return nil
	}
	defer result.Close()

	return a.walk(result.Root(), []byte(fragment), origin)
}

func (a *jsAnalyzer) walk(root *sitter.Node, source []byte, origin embedOrigin) []DetectedFeature {
	var features []DetectedFeature
	add := func(f DetectedFeature, ok bool) {
		if ok {
			features = append(features, f)
		}
	}

	parser.WalkAST(root, func(n *sitter.Node) {
		switch n.Type() {
		case "call_expression":
			add(a.callFeature(n, source, origin))
		case "new_expression":
			add(a.constructorFeature(n, source, origin))
		case "member_expression":
			add(a.memberFeature(n, source, origin))
		case "optional_chain":
			add(a.syntaxFeature(n, origin, "javascript.operators.optional_chaining", "?.", "optional chaining"))
		case "binary_expression":
			if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "??" {
				add(a.syntaxFeature(op, origin, "javascript.operators.nullish_coalescing", "??", "nullish coalescing"))
			}
		case "augmented_assignment_expression":
			add(a.logicalAssignmentFeature(n, origin))
		case "field_definition":
			add(a.classFieldFeature(n, source, origin))
		case "await_expression":
			if !insideFunction(n) {
				add(a.syntaxFeature(n, origin, "javascript.operators.await.top_level", "await", "top-level await"))
			}
		}
	})

	return features
}

// callFeature matches direct calls naming Web APIs (fetch(...)) and dynamic
// import(). Method calls resolve through memberFeature on the nested
// member_expression; the builtin-prototype path here covers only the method
// name itself.
func (a *jsAnalyzer) callFeature(n *sitter.Node, source []byte, origin embedOrigin) (DetectedFeature, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return DetectedFeature{}, false
	}

	switch fn.Type() {
	case "identifier":
		name := parser.NodeText(fn, source)
		if id, status, ok := a.resolver.API(name); ok {
			return a.feature(id, name, status, parser.NodeRange(fn), origin, "Web API: "+name), true
		}
	case "import":
		if id, status, ok := a.resolver.Syntax("javascript.operators.import"); ok {
			return a.feature(id, "import()", status, parser.NodeRange(fn), origin, "JS syntax: dynamic import"), true
		}
	case "member_expression":
		prop := fn.ChildByFieldName("property")
		if prop == nil {
			break
		}
		method := parser.NodeText(prop, source)
		obj := fn.ChildByFieldName("object")
		// Static namespace calls (Promise.any) resolve in memberFeature;
		// instance calls on unknown receivers resolve by method name.
		if obj != nil && obj.Type() != "identifier" || !a.memberResolves(fn, source) {
			if id, status, ok := a.resolver.BuiltinMethod(method); ok {
				return a.feature(id, method, status, parser.NodeRange(prop), origin, "JS builtin: "+method+"()"), true
			}
		}
	}
	return DetectedFeature{}, false
}

func (a *jsAnalyzer) memberResolves(member *sitter.Node, source []byte) bool {
	obj := member.ChildByFieldName("object")
	prop := member.ChildByFieldName("property")
	if obj == nil || prop == nil || obj.Type() != "identifier" {
		return false
	}
	_, _, ok := a.resolver.APIMember(parser.NodeText(obj, source), parser.NodeText(prop, source))
	return ok
}

func (a *jsAnalyzer) constructorFeature(n *sitter.Node, source []byte, origin embedOrigin) (DetectedFeature, bool) {
	ctor := n.ChildByFieldName("constructor")
	if ctor == nil || ctor.Type() != "identifier" {
		return DetectedFeature{}, false
	}
	name := parser.NodeText(ctor, source)
	if id, status, ok := a.resolver.API(name); ok {
		return a.feature(id, name, status, parser.NodeRange(ctor), origin, "Web API: "+name), true
	}
	return DetectedFeature{}, false
}

// memberFeature matches object.property references: navigator.clipboard,
// Promise.allSettled, bare globals like localStorage used as a receiver.
func (a *jsAnalyzer) memberFeature(n *sitter.Node, source []byte, origin embedOrigin) (DetectedFeature, bool) {
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	if obj == nil || prop == nil || obj.Type() != "identifier" {
		return DetectedFeature{}, false
	}

	object := parser.NodeText(obj, source)
	property := parser.NodeText(prop, source)

	if id, status, ok := a.resolver.APIMember(object, property); ok {
		name := object + "." + property
		return a.feature(id, name, status, parser.NodeRange(n), origin, "Web API: "+name), true
	}
	if id, status, ok := a.resolver.API(object); ok {
		return a.feature(id, object, status, parser.NodeRange(obj), origin, "Web API: "+object), true
	}
	return DetectedFeature{}, false
}

var logicalAssignmentKeys = map[string]string{
	"||=": "javascript.operators.logical_or_assignment",
	"&&=": "javascript.operators.logical_and_assignment",
	"??=": "javascript.operators.nullish_coalescing_assignment",
}

func (a *jsAnalyzer) logicalAssignmentFeature(n *sitter.Node, origin embedOrigin) (DetectedFeature, bool) {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return DetectedFeature{}, false
	}
	key, ok := logicalAssignmentKeys[op.Type()]
	if !ok {
		return DetectedFeature{}, false
	}
	return a.syntaxFeature(op, origin, key, op.Type(), "logical assignment")
}

func (a *jsAnalyzer) classFieldFeature(n *sitter.Node, source []byte, origin embedOrigin) (DetectedFeature, bool) {
	key := "javascript.classes.public_class_fields"
	label := "class field"
	if name := childOfType(n, "private_property_identifier"); name != nil {
		key = "javascript.classes.private_class_fields"
		label = parser.NodeText(name, source)
	}
	return a.syntaxFeature(n, origin, key, label, "class fields")
}

func (a *jsAnalyzer) syntaxFeature(n *sitter.Node, origin embedOrigin, key, name, context string) (DetectedFeature, bool) {
	id, status, ok := a.resolver.Syntax(key)
	if !ok {
		return DetectedFeature{}, false
	}
	return a.feature(id, name, status, parser.NodeRange(n), origin, "JS syntax: "+context), true
}

func (a *jsAnalyzer) feature(id, name string, status baseline.Status, rng parser.Range, origin embedOrigin, context string) DetectedFeature {
	if origin.embedded {
		rng = parser.RemapEmbedded(rng, origin.base, origin.firstLineShift)
	}
	if origin.context != "" {
		context = origin.context
	}
	return DetectedFeature{
		ID:       id,
		Name:     name,
		Type:     FeatureJavaScript,
		Range:    rng,
		Status:   status,
		Context:  context,
		Severity: severityFor(status.Status),
	}
}

// insideFunction reports whether a node is lexically inside any function
// body, distinguishing top-level await from ordinary await.
func insideFunction(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "function_declaration", "function_expression", "function",
			"arrow_function", "method_definition", "generator_function",
			"generator_function_declaration":
			return true
		}
	}
	return false
}
