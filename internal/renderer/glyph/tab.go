package glyph

import "strings"

// TabExpander replaces tabs with spaces up to the next tab stop, measuring
// columns with a classifier.
type TabExpander struct {
	tabWidth int
	widths   Classifier
}

// NewTabExpander creates a tab expander with the given tab width.
// A nil classifier selects DefaultTable.
func NewTabExpander(tabWidth int, widths Classifier) *TabExpander {
	if tabWidth < 1 {
		tabWidth = 4
	}
	if widths == nil {
		widths = DefaultTable
	}
	return &TabExpander{tabWidth: tabWidth, widths: widths}
}

// NextTabStop returns the next tab stop column after the given column.
func (t *TabExpander) NextTabStop(col int) int {
	return col + t.tabWidth - (col % t.tabWidth)
}

// ExpandTabs returns s with every tab replaced by spaces. Columns restart
// after each newline.
func (t *TabExpander) ExpandTabs(s string) string {
	if strings.IndexByte(s, '\t') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			next := t.NextTabStop(col)
			b.WriteString(strings.Repeat(" ", next-col))
			col = next
		case '\n':
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteRune(r)
			col += t.widths.Width(r)
		}
	}
	return b.String()
}
