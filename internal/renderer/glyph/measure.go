package glyph

import (
	"github.com/dshills/chatterm/internal/renderer/core"
)

// StringWidth returns the display width of text[start:end].
func StringWidth(cls Classifier, text string, start, end core.Offset) int {
	if isPrintableASCII(text[start:end]) {
		return int(end - start)
	}
	sc := 0
	for i := start; i < end; {
		r, next := Decode(text, i)
		sc += cls.Width(r)
		i = next
	}
	return sc
}

// TextPos returns the furthest scalar boundary in text[start:end] whose
// cumulative width does not exceed prefCol, and the width reached there.
// start is treated as column 0.
func TextPos(cls Classifier, text string, start, end core.Offset, prefCol int) (core.Offset, int) {
	i := start
	sc := 0
	for i < end {
		r, next := Decode(text, i)
		w := cls.Width(r)
		if sc+w > prefCol {
			return i, sc
		}
		i = next
		sc += w
	}
	return i, sc
}

// Trim describes the result of cutting text to a column window.
type Trim struct {
	Start    core.Offset // first byte kept
	End      core.Offset // end of the kept bytes
	PadLeft  int         // 1 if a blank column replaces a cut wide character on the left
	PadRight int         // 1 if a blank column is owed on the right
}

// TrimText cuts text[startOff:endOff] to the screen columns
// [startCol, endCol), where startOff is column 0. A wide character that
// straddles either edge is dropped and replaced by a one-column pad.
func TrimText(cls Classifier, text string, startOff, endOff core.Offset, startCol, endCol int) Trim {
	t := Trim{Start: startOff}
	if startCol > 0 {
		var sc int
		t.Start, sc = TextPos(cls, text, startOff, endOff, startCol)
		if sc < startCol {
			t.PadLeft = 1
			t.Start, _ = TextPos(cls, text, startOff, endOff, startCol+1)
		}
	}
	run := endCol - startCol - t.PadLeft
	var sc int
	t.End, sc = TextPos(cls, text, t.Start, endOff, run)
	if sc < run {
		t.PadRight = 1
	}
	return t
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
