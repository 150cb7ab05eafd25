package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

type JavaScriptParser struct {
	BaseParser
}

// NewJavaScriptParser creates a parser for the JavaScript family. The
// languageID selects the grammar: plain JavaScript handles JSX as well,
// TypeScript and TSX need their own grammars.
func NewJavaScriptParser(languageID string) *JavaScriptParser {
	parser := sitter.NewParser()

	var lang *sitter.Language
	switch languageID {
	case "typescript":
		lang = typescript.GetLanguage()
	case "typescriptreact", "tsx":
		lang = tsx.GetLanguage()
	default:
		lang = javascript.GetLanguage()
	}
	parser.SetLanguage(lang)

	return &JavaScriptParser{
		BaseParser: BaseParser{
			parser:   parser,
			langName: "javascript",
		},
	}
}
