package parser

import sitter "github.com/smacker/go-tree-sitter"

// Parser wraps a tree-sitter grammar for one language family.
type Parser interface {
	Language() string
	Parse(source []byte) (*ParseResult, error)
}

// BaseParser provides common functionality for all language parsers.
type BaseParser struct {
	parser   *sitter.Parser
	langName string
}

// ParseResult contains the parsed tree and its source text.
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
}

// Root returns the root node of the parse tree.
func (r *ParseResult) Root() *sitter.Node {
	return r.Tree.RootNode()
}

// Close releases the underlying tree. Safe to call once per result.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}
