package glyph

import (
	"unicode/utf8"

	"github.com/dshills/chatterm/internal/renderer/core"
)

// Placeholder is the scalar reported for malformed byte sequences.
const Placeholder = '?'

// Decode returns the scalar at off and the offset of the next scalar.
// Malformed, overlong or truncated sequences yield Placeholder and off+1.
// off must be inside text.
func Decode(text string, off core.Offset) (rune, core.Offset) {
	b := text[off]
	if b < utf8.RuneSelf {
		return rune(b), off + 1
	}
	r, size := utf8.DecodeRuneInString(text[off:])
	if r == utf8.RuneError && size <= 1 {
		return Placeholder, off + 1
	}
	return r, off + core.Offset(size)
}

// IsWide reports whether the scalar at off is two columns wide.
func IsWide(cls Classifier, text string, off core.Offset) bool {
	if off < 0 || int(off) >= len(text) {
		return false
	}
	r, _ := Decode(text, off)
	return cls.Width(r) == 2
}

// PrevBoundary returns the offset of the scalar that ends at upper.
// It never returns less than lower and never lands inside a sequence that
// Decode would treat as one scalar.
func PrevBoundary(text string, lower, upper core.Offset) core.Offset {
	if upper <= lower {
		return lower
	}
	o := upper - 1
	for o > lower && upper-o < utf8.UTFMax && isContinuation(text[o]) {
		o--
	}
	if _, next := Decode(text, o); next != upper {
		// Stray continuation bytes decode one at a time.
		return upper - 1
	}
	return o
}

// NextBoundary returns the offset just past the scalar at lower.
// It never returns more than upper.
func NextBoundary(text string, lower, upper core.Offset) core.Offset {
	if lower >= upper {
		return upper
	}
	_, next := Decode(text, lower)
	if next > upper {
		return upper
	}
	return next
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}
