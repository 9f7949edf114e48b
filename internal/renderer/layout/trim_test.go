package layout

import (
	"testing"

	"github.com/dshills/chatterm/internal/renderer/glyph"
)

func TestShiftLine(t *testing.T) {
	span := Span(2, 0, 2)
	tests := []struct {
		name   string
		line   Line
		amount int
		want   string
	}{
		{"no shift", Line{span}, 0, "[(2,0:2)]"},
		{"right", Line{span}, 3, "[(3,-) (2,0:2)]"},
		{"left", Line{span}, -1, "[(-1,-) (2,0:2)]"},
		{"merge", Line{Blank(2), span}, 1, "[(3,-) (2,0:2)]"},
		{"cancel", Line{Blank(2), span}, -2, "[(2,0:2)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShiftLine(tt.line, tt.amount).String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTrimLine(t *testing.T) {
	text := "ab中cd"
	full := Line{Span(6, 0, 7), Anchor(0, 7)}

	tests := []struct {
		name       string
		line       Line
		start, end int
		want       string
	}{
		{"whole", full, 0, 6, "[(6,0:7) (0,@7)]"},
		{"wider window", full, 0, 10, "[(6,0:7) (0,@7)]"},
		{"right cut through wide", full, 0, 3, "[(2,0:2) (1,@2)]"},
		{"left cut through wide", full, 3, 6, "[(1,@2) (2,5:7) (0,@7)]"},
		{"clean cut", full, 0, 4, "[(4,0:5)]"},
		{"blank", Line{Blank(4), Span(2, 0, 2)}, 0, 3, "[(3,-)]"},
		{"negative shift", Line{Blank(-1), Span(2, 0, 2)}, 0, 4, "[(1,1:2)]"},
		{"anchor pad", Line{Span(2, 0, 2), Anchor(3, 2)}, 0, 4, "[(2,0:2) (2,@2)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimLine(glyph.DefaultTable, text, tt.line, tt.start, tt.end)
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			if w := got.Width(); w > tt.end-tt.start {
				t.Errorf("trimmed width %d exceeds window %d", w, tt.end-tt.start)
			}
		})
	}
}

func TestTrimLineLiteral(t *testing.T) {
	line := Line{Span(4, 0, 4), Literal(1, 4, Ellipsis), Anchor(0, 4)}

	if got := TrimLine(glyph.DefaultTable, "abcdef", line, 0, 4).String(); got != "[(4,0:4)]" {
		t.Errorf("literal past window should be dropped, got %s", got)
	}

	wide := Line{Literal(2, 0, "中")}
	if got := TrimLine(glyph.DefaultTable, "x", wide, 0, 1).String(); got != `[(1,@0," ")]` {
		t.Errorf("half a wide literal should become a pad, got %s", got)
	}
}

func TestPack(t *testing.T) {
	l := Layout{
		Line{Span(3, 0, 3)},
		Line{Blank(4), Span(2, 4, 6)},
		Line{Span(5, 7, 12)},
	}
	if got := Pack(10, l); got != 5 {
		t.Errorf("Pack(10) = %d, want 5", got)
	}
	if got := Pack(4, l); got != 4 {
		t.Errorf("Pack(4) = %d, want 4", got)
	}
	if got := Pack(10, nil); got != 0 {
		t.Errorf("Pack of empty layout = %d, want 0", got)
	}
}

func TestLineWidths(t *testing.T) {
	line := Line{Blank(3), Span(2, 0, 2), Literal(1, 2, Ellipsis), Anchor(1, 2)}
	if line.Width() != 7 {
		t.Errorf("Width = %d, want 7", line.Width())
	}
	if line.ContentWidth() != 4 {
		t.Errorf("ContentWidth = %d, want 4", line.ContentWidth())
	}
}

func TestKindString(t *testing.T) {
	if KindLiteral.String() != "literal" || Kind(9).String() != "Kind(9)" {
		t.Error("unexpected kind names")
	}
}
