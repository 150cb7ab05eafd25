package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
)

type CSSParser struct {
	BaseParser
}

// NewCSSParser creates a parser for stylesheets. Each analyzer invocation
// creates its own instance; tree-sitter parsers are not safe for concurrent
// use.
func NewCSSParser() *CSSParser {
	parser := sitter.NewParser()
	parser.SetLanguage(css.GetLanguage())

	return &CSSParser{
		BaseParser: BaseParser{
			parser:   parser,
			langName: "css",
		},
	}
}
