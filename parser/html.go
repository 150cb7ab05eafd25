package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
)

type HTMLParser struct {
	BaseParser
}

// NewHTMLParser creates a parser for HTML documents and framework templates.
// The HTML grammar is lenient enough to treat Vue/Angular/Svelte directive
// syntax as ordinary attributes and text rather than parse errors.
func NewHTMLParser() *HTMLParser {
	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())

	return &HTMLParser{
		BaseParser: BaseParser{
			parser:   parser,
			langName: "html",
		},
	}
}
