package widget

import (
	"strings"

	"github.com/dshills/chatterm/internal/renderer/core"
)

// Chunk is a piece of text carrying one attribute tag.
type Chunk struct {
	Tag  core.Tag
	Text string
}

// Markup is a sequence of tagged chunks.
type Markup []Chunk

// Plain returns untagged markup for text.
func Plain(text string) Markup {
	return Markup{{Text: text}}
}

// Tagged returns markup with all of text under tag.
func Tagged(tag core.Tag, text string) Markup {
	return Markup{{Tag: tag, Text: text}}
}

// Flatten returns the concatenated text and its attribute runs.
func (m Markup) Flatten() (string, core.Runs) {
	var sb strings.Builder
	var runs core.Runs
	for _, c := range m {
		sb.WriteString(c.Text)
		runs = runs.Append(core.Run{Tag: c.Tag, Len: len(c.Text)})
	}
	return sb.String(), runs
}

// Len returns the byte length of the markup text.
func (m Markup) Len() int {
	n := 0
	for _, c := range m {
		n += len(c.Text)
	}
	return n
}
