// Package glyph classifies and measures Unicode scalars in byte-encoded text.
//
// All positions are byte offsets (core.Offset). Decoding never fails: a
// malformed sequence decodes to '?' and advances exactly one byte, so a
// corrupt byte never stalls a scan.
package glyph

import (
	"sort"

	runewidth "github.com/mattn/go-runewidth"
)

// Classifier reports the display width of a scalar: 0, 1 or 2 columns.
type Classifier interface {
	Width(r rune) int
}

// Range is one entry of a width table: every scalar up to and including
// Max (and above the previous entry's Max) has Width columns.
type Range struct {
	Max   rune
	Width int
}

// Table is an ascending width table. It is read-only after construction.
type Table []Range

// DefaultTable is derived from EastAsianWidth-4.0.0 with emoji ranges
// widened to two columns. It is sorted by Max.
var DefaultTable = Table{
	{126, 1},
	{159, 0},
	{687, 1},
	{710, 0},
	{711, 1},
	{727, 0},
	{733, 1},
	{879, 0},
	{1154, 1},
	{1161, 0},
	{4347, 1},
	{4447, 2},
	{7467, 1},
	{7521, 0},
	{8369, 1},
	{8426, 0},
	{9996, 2}, // dingbats up to U+270C (victory hand)
	{11021, 1},
	{12350, 2},
	{12351, 1},
	{12438, 2},
	{12442, 0},
	{19893, 2},
	{19967, 1},
	{55203, 2},
	{63743, 1},
	{64106, 2},
	{65039, 1},
	{65059, 0},
	{65131, 2},
	{65279, 1},
	{65376, 2},
	{65500, 1},
	{65510, 2},
	{120831, 1},
	{130047, 2}, // emoji blocks render two columns wide
	{262141, 2},
	{1114109, 1},
}

// Width implements Classifier.
func (t Table) Width(r rune) int {
	// SO and SI shift codes occupy no column.
	if r == 0x0E || r == 0x0F {
		return 0
	}
	i := sort.Search(len(t), func(i int) bool { return t[i].Max >= r })
	if i == len(t) {
		return 1
	}
	return t[i].Width
}

// Sorted reports whether the table is strictly ascending by Max.
func (t Table) Sorted() bool {
	for i := 1; i < len(t); i++ {
		if t[i].Max <= t[i-1].Max {
			return false
		}
	}
	return true
}

// RuneWidthClassifier measures scalars with go-runewidth's tables.
type RuneWidthClassifier struct {
	cond *runewidth.Condition
}

// NewRuneWidthClassifier creates a classifier; eastAsian selects the
// ambiguous-width-is-wide convention.
func NewRuneWidthClassifier(eastAsian bool) *RuneWidthClassifier {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return &RuneWidthClassifier{cond: cond}
}

// Width implements Classifier.
func (c *RuneWidthClassifier) Width(r rune) int {
	if r == 0x0E || r == 0x0F {
		return 0
	}
	w := c.cond.RuneWidth(r)
	if w > 2 {
		w = 2
	}
	return w
}
