package canvas

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
	"github.com/dshills/chatterm/internal/renderer/layout"
)

var cls = glyph.DefaultTable

func TestNewPadsRows(t *testing.T) {
	c, err := New(cls, []string{"ab", "中"}, nil, nil, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Cols() != 4 || c.Rows() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", c.Cols(), c.Rows())
	}
	if c.Text(0) != "ab  " || c.Text(1) != "中  " {
		t.Errorf("rows = %q, %q", c.Text(0), c.Text(1))
	}
	if !reflect.DeepEqual(c.Attrs(1), core.Runs{{Tag: core.NoTag, Len: 5}}) {
		t.Errorf("attrs should cover the padded bytes, got %v", c.Attrs(1))
	}
	if c.Charsets(0).Len() != 4 {
		t.Errorf("charsets cover %d bytes, want 4", c.Charsets(0).Len())
	}
}

func TestNewAutoWidth(t *testing.T) {
	c, err := New(cls, []string{"a", "abc", ""}, nil, nil, AutoWidth)
	if err != nil {
		t.Fatal(err)
	}
	if c.Cols() != 3 {
		t.Errorf("Cols = %d, want 3", c.Cols())
	}
	if c.Text(2) != "   " {
		t.Errorf("empty row = %q", c.Text(2))
	}
}

func TestNewContract(t *testing.T) {
	_, err := New(cls, []string{"ok", "too wide"}, nil, nil, 4)
	var ce *ContractError
	if !errors.As(err, &ce) || ce.Row != 1 {
		t.Fatalf("expected contract error on row 1, got %v", err)
	}
	if !errors.Is(err, ErrContract) {
		t.Error("should match ErrContract")
	}

	_, err = New(cls, []string{"ab"}, []core.Runs{{{Tag: "x", Len: 5}}}, nil, 4)
	if !errors.Is(err, ErrContract) {
		t.Errorf("attributes past the padded row should fail, got %v", err)
	}

	_, err = New(cls, []string{"ab"}, nil, []core.Runs{{{Len: 9}}}, 2)
	if !errors.Is(err, ErrContract) {
		t.Errorf("charsets past the row should fail, got %v", err)
	}
}

func TestNewExtendsShortRuns(t *testing.T) {
	c, err := New(cls, []string{"ab"}, []core.Runs{{{Tag: "a", Len: 1}}}, nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := core.Runs{{Tag: "a", Len: 1}, {Tag: core.NoTag, Len: 2}}
	if !reflect.DeepEqual(c.Attrs(0), want) {
		t.Errorf("attrs = %v, want %v", c.Attrs(0), want)
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		attr   core.Runs
		width  int
		align  layout.Align
		wrap   layout.WrapMode
		rows   []string
		attrs  []core.Runs
		padded bool
	}{
		{
			name:  "wrap keeps attributes",
			text:  "hello world",
			attr:  core.Runs{{Tag: "x", Len: 5}, {Tag: "y", Len: 6}},
			width: 5,
			wrap:  layout.WrapSpace,
			rows:  []string{"hello", "world"},
			attrs: []core.Runs{{{Tag: "x", Len: 5}}, {{Tag: "y", Len: 5}}},
		},
		{
			name:  "run split across lines",
			text:  "abcdef",
			attr:  core.Runs{{Tag: "a", Len: 4}, {Tag: "b", Len: 2}},
			width: 3,
			wrap:  layout.WrapAny,
			rows:  []string{"abc", "def"},
			attrs: []core.Runs{{{Tag: "a", Len: 3}}, {{Tag: "a", Len: 1}, {Tag: "b", Len: 2}}},
		},
		{
			name:  "short attributes are extended",
			text:  "abc",
			attr:  core.Runs{{Tag: "a", Len: 1}},
			width: 5,
			wrap:  layout.WrapSpace,
			rows:  []string{"abc  "},
			attrs: []core.Runs{{{Tag: "a", Len: 1}, {Tag: core.NoTag, Len: 4}}},
		},
		{
			name:  "ellipsis takes the tag at the cut",
			text:  "hello world",
			attr:  core.Runs{{Tag: "x", Len: 11}},
			width: 5,
			wrap:  layout.WrapEllipsis,
			rows:  []string{"hell…"},
			attrs: []core.Runs{{{Tag: "x", Len: 7}}},
		},
		{
			name:  "wide character pad takes the tag at the cut",
			text:  "a中b",
			attr:  core.Runs{{Tag: "p", Len: 1}, {Tag: "q", Len: 4}},
			width: 2,
			wrap:  layout.WrapClip,
			rows:  []string{"a "},
			attrs: []core.Runs{{{Tag: "p", Len: 1}, {Tag: "q", Len: 1}}},
		},
		{
			name:  "alignment blank is untagged",
			text:  "hi",
			attr:  core.Runs{{Tag: "m", Len: 2}},
			width: 4,
			align: layout.AlignRight,
			wrap:  layout.WrapSpace,
			rows:  []string{"  hi"},
			attrs: []core.Runs{{{Tag: core.NoTag, Len: 2}, {Tag: "m", Len: 2}}},
		},
	}

	e := layout.NewEngine(cls)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := e.Layout(tt.text, tt.width, tt.align, tt.wrap)
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			c, err := Compose(cls, tt.text, tt.attr, l, tt.width, Options{})
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			if c.Rows() != len(tt.rows) {
				t.Fatalf("rows = %d, want %d", c.Rows(), len(tt.rows))
			}
			for i := range tt.rows {
				if c.Text(i) != tt.rows[i] {
					t.Errorf("row %d = %q, want %q", i, c.Text(i), tt.rows[i])
				}
				if !reflect.DeepEqual(c.Attrs(i), tt.attrs[i]) {
					t.Errorf("row %d attrs = %v, want %v", i, c.Attrs(i), tt.attrs[i])
				}
				if c.Charsets(i).Len() != len(c.Text(i)) {
					t.Errorf("row %d charsets cover %d of %d bytes", i, c.Charsets(i).Len(), len(c.Text(i)))
				}
			}
		})
	}
}

func TestComposeAttributesTooLong(t *testing.T) {
	l, _ := layout.NewEngine(cls).Layout("abc", 5, layout.AlignLeft, layout.WrapSpace)
	_, err := Compose(cls, "abc", core.Runs{{Tag: "a", Len: 4}}, l, 5, Options{})
	if !errors.Is(err, ErrContract) {
		t.Fatalf("expected ErrContract, got %v", err)
	}
}

func TestComposeSidePadding(t *testing.T) {
	e := layout.NewEngine(cls)
	attr := core.Runs{{Tag: "m", Len: 2}}

	tests := []struct {
		align layout.Align
		row   string
		attrs core.Runs
	}{
		{layout.AlignLeft, " hi  ", core.Runs{{Tag: "m", Len: 4}, {Tag: core.NoTag, Len: 1}}},
		{layout.AlignRight, "  hi ", core.Runs{{Tag: core.NoTag, Len: 1}, {Tag: "m", Len: 4}}},
	}
	for _, tt := range tests {
		// Two columns are reserved for the frame.
		l, err := e.Layout("hi", 3, tt.align, layout.WrapSpace)
		if err != nil {
			t.Fatal(err)
		}
		c, err := Compose(cls, "hi", attr, l, 5, Options{SidePadding: true})
		if err != nil {
			t.Fatalf("%s: %v", tt.align, err)
		}
		if c.Text(0) != tt.row {
			t.Errorf("%s: row = %q, want %q", tt.align, c.Text(0), tt.row)
		}
		if !reflect.DeepEqual(c.Attrs(0), tt.attrs) {
			t.Errorf("%s: attrs = %v, want %v", tt.align, c.Attrs(0), tt.attrs)
		}
	}
}

func TestComposeSidePaddingEllipsisLine(t *testing.T) {
	const text = "hello world"
	l, err := layout.NewEngine(cls).Layout(text, 6, layout.AlignLeft, layout.WrapEllipsis)
	if err != nil {
		t.Fatal(err)
	}
	// The span and the ellipsis share one frame.
	c, err := Compose(cls, text, core.Runs{{Tag: "m", Len: len(text)}}, l, 8, Options{SidePadding: true})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if c.Text(0) != " hello… " {
		t.Errorf("row = %q", c.Text(0))
	}
	if !reflect.DeepEqual(c.Attrs(0), core.Runs{{Tag: "m", Len: len(" hello… ")}}) {
		t.Errorf("attrs = %v", c.Attrs(0))
	}
}

func TestComposeSidePaddingSkipsBlankLines(t *testing.T) {
	l, _ := layout.NewEngine(cls).Layout("a\n\nb", 3, layout.AlignLeft, layout.WrapSpace)
	c, err := Compose(cls, "a\n\nb", nil, l, 5, Options{SidePadding: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{" a   ", "     ", " b   "}
	for i, w := range want {
		if c.Text(i) != w {
			t.Errorf("row %d = %q, want %q", i, c.Text(i), w)
		}
	}
}

func TestChunks(t *testing.T) {
	c, err := New(cls, []string{"abcd"},
		[]core.Runs{{{Tag: "a", Len: 1}, {Tag: "b", Len: 3}}},
		[]core.Runs{{{Tag: "x", Len: 2}, {Tag: "y", Len: 2}}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Chunk{
		{Tag: "a", Charset: "x", Text: "a"},
		{Tag: "b", Charset: "x", Text: "b"},
		{Tag: "b", Charset: "y", Text: "cd"},
	}
	if got := c.Chunks(0); !reflect.DeepEqual(got, want) {
		t.Errorf("Chunks = %v, want %v", got, want)
	}
}

func TestCursor(t *testing.T) {
	c := Blank(3, 2)
	if _, ok := c.Cursor(); ok {
		t.Error("blank canvas has no cursor")
	}
	withCursor := c.WithCursor(core.ScreenPos{Row: 1, Col: 2})
	if pos, ok := withCursor.Cursor(); !ok || pos != (core.ScreenPos{Row: 1, Col: 2}) {
		t.Errorf("cursor = %v, %v", pos, ok)
	}
	if _, ok := c.Cursor(); ok {
		t.Error("WithCursor must not modify the original")
	}
}

func TestStack(t *testing.T) {
	a, _ := New(cls, []string{"ab"}, nil, nil, 2)
	b, _ := New(cls, []string{"wxyz", "1234"}, nil, nil, 4)
	b = b.WithCursor(core.ScreenPos{Row: 1, Col: 3})

	s := Stack(a, b)
	if s.Cols() != 4 || s.Rows() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", s.Cols(), s.Rows())
	}
	if s.Text(0) != "ab  " {
		t.Errorf("narrow row = %q", s.Text(0))
	}
	if s.Attrs(0).Len() != 4 {
		t.Errorf("padded attrs cover %d bytes", s.Attrs(0).Len())
	}
	if pos, ok := s.Cursor(); !ok || pos != (core.ScreenPos{Row: 2, Col: 3}) {
		t.Errorf("cursor = %v, %v", pos, ok)
	}
}

func TestJoinColumns(t *testing.T) {
	left, _ := New(cls, []string{"ab"}, []core.Runs{{{Tag: "l", Len: 2}}}, nil, 2)
	right, _ := New(cls, []string{"x", "y"}, []core.Runs{{{Tag: "r", Len: 1}}, {{Tag: "r", Len: 1}}}, nil, 1)
	right = right.WithCursor(core.ScreenPos{Row: 1, Col: 0})

	c, err := JoinColumns(Column{Canvas: left, Width: 3}, Column{Canvas: right, Width: 1})
	if err != nil {
		t.Fatal(err)
	}
	if c.Cols() != 4 || c.Rows() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", c.Cols(), c.Rows())
	}
	if c.Text(0) != "ab x" || c.Text(1) != "   y" {
		t.Errorf("rows = %q, %q", c.Text(0), c.Text(1))
	}
	want := core.Runs{{Tag: "l", Len: 2}, {Tag: core.NoTag, Len: 1}, {Tag: "r", Len: 1}}
	if !reflect.DeepEqual(c.Attrs(0), want) {
		t.Errorf("attrs = %v, want %v", c.Attrs(0), want)
	}
	if pos, ok := c.Cursor(); !ok || pos != (core.ScreenPos{Row: 1, Col: 3}) {
		t.Errorf("cursor = %v, %v", pos, ok)
	}

	if _, err := JoinColumns(Column{Canvas: left, Width: 1}); !errors.Is(err, ErrContract) {
		t.Errorf("too narrow column should fail, got %v", err)
	}

	spacer, err := JoinColumns(Column{Width: 2}, Column{Canvas: left, Width: 2})
	if err != nil || spacer.Text(0) != "  ab" {
		t.Errorf("nil canvas column should be blank, got %q, %v", spacer.Text(0), err)
	}
}

func TestAttrWalkerRestarts(t *testing.T) {
	w := &attrWalker{runs: core.Runs{{Tag: "a", Len: 2}, {Tag: "b", Len: 2}}}
	if got := w.between(2, 4); !reflect.DeepEqual(got, core.Runs{{Tag: "b", Len: 2}}) {
		t.Errorf("between(2,4) = %v", got)
	}
	if got := w.between(0, 1); !reflect.DeepEqual(got, core.Runs{{Tag: "a", Len: 1}}) {
		t.Errorf("between(0,1) after a later query = %v", got)
	}
	if w.at(2) != "b" || w.at(4) != core.NoTag {
		t.Error("at should return the tag covering the offset")
	}
}

func TestRetag(t *testing.T) {
	c, err := New(glyph.DefaultTable, []string{"ab"}, []core.Runs{{{Tag: "x", Len: 1}}}, nil, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := c.Retag(core.NoTag, "x").Attrs(0)
	if len(got) != 1 || got[0] != (core.Run{Tag: "x", Len: 4}) {
		t.Errorf("retagged attrs = %v", got)
	}
	if len(c.Attrs(0)) != 2 {
		t.Error("Retag should not modify the receiver")
	}
}
