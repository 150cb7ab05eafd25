package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parse runs the tree-sitter parser over source. Tree-sitter itself
// tolerates malformed input by emitting ERROR nodes; callers decide whether
// the error density makes the tree unusable (see ErrorRatio).
func (bp *BaseParser) Parse(source []byte) (*ParseResult, error) {
	tree, err := bp.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s source: %w", bp.langName, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", bp.langName)
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: bp.langName,
	}, nil
}

// Language returns the language name for this parser.
func (bp *BaseParser) Language() string {
	return bp.langName
}

// WalkAST recursively traverses an AST and applies a visitor function to
// each node.
func WalkAST(node *sitter.Node, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkAST(node.Child(i), visitor)
	}
}

// NodeText returns the source text covered by a node.
func NodeText(node *sitter.Node, source []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if int(start) > len(source) || int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// ErrorRatio returns the fraction of named nodes that are ERROR or MISSING.
// A ratio above a caller-chosen threshold indicates the structural parse is
// not trustworthy and the degraded-mode scanner should run instead.
func ErrorRatio(root *sitter.Node) float64 {
	var total, bad int
	WalkAST(root, func(n *sitter.Node) {
		total++
		if n.IsError() || n.IsMissing() {
			bad++
		}
	})
	if total == 0 {
		return 0
	}
	return float64(bad) / float64(total)
}
