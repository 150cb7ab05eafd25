package parser

import sitter "github.com/smacker/go-tree-sitter"

// Position is a zero-based line/column location in a document.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// NodeRange returns the document range covered by a tree-sitter node.
func NodeRange(node *sitter.Node) Range {
	start := node.StartPoint()
	end := node.EndPoint()
	return Range{
		Start: Position{Line: int(start.Row), Column: int(start.Column)},
		End:   Position{Line: int(end.Row), Column: int(end.Column)},
	}
}

// PositionAt converts a byte offset into a line/column position. Offsets
// beyond the end of source clamp to the final position.
func PositionAt(source []byte, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}

	pos := Position{}
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			pos.Line++
			pos.Column = 0
		} else {
			pos.Column++
		}
	}
	return pos
}

// RemapEmbedded translates a range produced inside an embedded fragment
// (a <style>/<script> block or a template literal) back into the parent
// document's coordinate space. base is the parent-document position of the
// fragment's first byte. firstLineShift is subtracted from columns on the
// fragment's first line; it accounts for a synthetic prefix prepended to the
// fragment before parsing and is zero otherwise.
func RemapEmbedded(r Range, base Position, firstLineShift int) Range {
	return Range{
		Start: remapPosition(r.Start, base, firstLineShift),
		End:   remapPosition(r.End, base, firstLineShift),
	}
}

func remapPosition(p Position, base Position, firstLineShift int) Position {
	if p.Line == 0 {
		col := p.Column - firstLineShift
		if col < 0 {
			col = 0
		}
		return Position{Line: base.Line, Column: base.Column + col}
	}
	return Position{Line: base.Line + p.Line, Column: p.Column}
}

// Before reports whether a sorts strictly before b in document order.
func (a Position) Before(b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
