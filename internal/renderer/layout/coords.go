package layout

import (
	"math"

	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
)

// Sentinel columns for CoordToOffset and CoordToLineOffset.
const (
	ColLeft  = math.MinInt // first addressable offset on the line
	ColRight = math.MaxInt // last addressable offset on the line
)

// OffsetToCoord returns the screen position of off in a layout of text.
// Offsets consumed as separators map to the nearest segment.
func OffsetToCoord(cls glyph.Classifier, text string, l Layout, off core.Offset) core.ScreenPos {
	var closest core.ScreenPos
	best := -1
	for y, line := range l {
		x := 0
		for _, s := range line {
			if !s.HasOffset() {
				x += s.Width
				continue
			}
			if s.Start == off {
				return core.ScreenPos{Col: x, Row: y}
			}
			if s.Kind == KindSpan && s.Start <= off && off < s.End {
				x += glyph.StringWidth(cls, text, s.Start, off)
				return core.ScreenPos{Col: x, Row: y}
			}
			distance := s.Start.Distance(off)
			if s.Kind == KindSpan && s.End < off {
				distance = int(off - (s.End - 1))
			}
			if best < 0 || distance < best {
				best = distance
				closest = core.ScreenPos{Col: x, Row: y}
			}
			x += s.Width
		}
	}
	return closest
}

// CoordToOffset returns the offset closest to column col of row. Rows with
// nothing addressable defer to the nearest row that has something,
// looking above first.
func CoordToOffset(cls glyph.Classifier, text string, l Layout, col, row int) (core.Offset, error) {
	if row < 0 || row >= len(l) {
		return 0, ErrRowOutOfRange
	}
	if off, ok := CoordToLineOffset(cls, text, l[row], col); ok {
		return off, nil
	}
	above, below := row-1, row+1
	for above >= 0 || below < len(l) {
		if above >= 0 {
			if off, ok := CoordToLineOffset(cls, text, l[above], col); ok {
				return off, nil
			}
			above--
		}
		if below < len(l) {
			if off, ok := CoordToLineOffset(cls, text, l[below], col); ok {
				return off, nil
			}
			below++
		}
	}
	return 0, nil
}

// CoordToLineOffset returns the offset closest to column col within a
// single line, or false if the line has no addressable offset.
func CoordToLineOffset(cls glyph.Classifier, text string, line Line, col int) (core.Offset, bool) {
	switch col {
	case ColLeft:
		for _, s := range line {
			if s.HasOffset() {
				return s.Start, true
			}
		}
		return 0, false
	case ColRight:
		last := -1
		for i, s := range line {
			if s.HasOffset() {
				last = i
			}
		}
		if last < 0 {
			return 0, false
		}
		return lastOffset(cls, text, line[last]), true
	}

	var (
		found      bool
		closestCol int
		closestOff core.Offset
		closestSeg *Segment
	)
	x := 0
	for i := range line {
		s := &line[i]
		if s.HasOffset() {
			if s.Kind == KindSpan {
				if x <= col && col < x+s.Width {
					pos, _ := glyph.TextPos(cls, text, s.Start, s.End, col-x)
					return pos, true
				} else if x <= col {
					found = true
					closestCol = x + s.Width - 1
					closestSeg = s
				}
			}
			if !found || abs(col-x) < abs(col-closestCol) {
				found = true
				closestCol = x
				closestOff = s.Start
				closestSeg = nil
			}
			if x > closestCol {
				break
			}
		}
		x += s.Width
	}
	if !found {
		return 0, false
	}
	if closestSeg != nil {
		return lastOffset(cls, text, *closestSeg), true
	}
	return closestOff, true
}

// lastOffset returns the offset of the last column of s.
func lastOffset(cls glyph.Classifier, text string, s Segment) core.Offset {
	if s.Kind != KindSpan {
		return s.Start
	}
	pos, _ := glyph.TextPos(cls, text, s.Start, s.End, s.Width-1)
	return pos
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
