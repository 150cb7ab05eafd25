package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionAt(t *testing.T) {
	source := []byte("abc\ndef\nghi")

	var tests = []struct {
		name   string
		offset int
		want   Position
	}{
		{"start", 0, Position{0, 0}},
		{"mid first line", 2, Position{0, 2}},
		{"after newline", 4, Position{1, 0}},
		{"second line", 6, Position{1, 2}},
		{"last line", 9, Position{2, 1}},
		{"clamped past end", 100, Position{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PositionAt(source, tt.offset))
		})
	}
}

func TestRemapEmbedded(t *testing.T) {
	base := Position{Line: 4, Column: 10}

	var tests = []struct {
		name  string
		in    Range
		shift int
		want  Range
	}{
		{
			name: "first line offsets by base column",
			in:   Range{Position{0, 2}, Position{0, 6}},
			want: Range{Position{4, 12}, Position{4, 16}},
		},
		{
			name: "later lines keep their own column",
			in:   Range{Position{2, 0}, Position{2, 7}},
			want: Range{Position{6, 0}, Position{6, 7}},
		},
		{
			name:  "synthetic prefix subtracted on first line only",
			in:    Range{Position{0, 3}, Position{1, 5}},
			shift: 3,
			want:  Range{Position{4, 10}, Position{5, 5}},
		},
		{
			name:  "shift never produces a negative column",
			in:    Range{Position{0, 1}, Position{0, 2}},
			shift: 3,
			want:  Range{Position{4, 10}, Position{4, 10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemapEmbedded(tt.in, base, tt.shift))
		})
	}
}

func TestPositionBefore(t *testing.T) {
	assert.True(t, Position{0, 5}.Before(Position{1, 0}))
	assert.True(t, Position{2, 3}.Before(Position{2, 4}))
	assert.False(t, Position{2, 4}.Before(Position{2, 4}))
	assert.False(t, Position{3, 0}.Before(Position{2, 9}))
}
