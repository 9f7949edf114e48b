package loader

import (
	"errors"
	"io/fs"
	"testing"
)

type mapFS map[string]string

func (m mapFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

type settings struct {
	Name  string `toml:"name" yaml:"name"`
	Count int    `toml:"count" yaml:"count"`
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"a.TOML", FormatTOML},
		{"dir/a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.json", FormatUnknown},
		{"noext", FormatUnknown},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadFileKeepsUnsetFields(t *testing.T) {
	fsys := mapFS{
		"a.toml": "name = \"x\"\n",
		"b.yaml": "count: 3\n",
	}

	s := settings{Name: "default", Count: 7}
	found, err := LoadFile(fsys, "a.toml", &s)
	if err != nil || !found {
		t.Fatalf("LoadFile(a.toml) = %v, %v", found, err)
	}
	if s.Name != "x" || s.Count != 7 {
		t.Errorf("after toml = %+v", s)
	}

	found, err = LoadFile(fsys, "b.yaml", &s)
	if err != nil || !found {
		t.Fatalf("LoadFile(b.yaml) = %v, %v", found, err)
	}
	if s.Name != "x" || s.Count != 3 {
		t.Errorf("after yaml = %+v", s)
	}
}

func TestLoadFileMissing(t *testing.T) {
	s := settings{Name: "keep"}
	found, err := LoadFile(mapFS{}, "none.toml", &s)
	if err != nil || found {
		t.Errorf("missing file = %v, %v", found, err)
	}
	if s.Name != "keep" {
		t.Error("missing file should not touch the target")
	}
}

func TestLoadFileParseError(t *testing.T) {
	fsys := mapFS{"bad.toml": "name = \"x\"\ncount = \n"}

	_, err := LoadFile(fsys, "bad.toml", &settings{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 2 || pe.Path != "bad.toml" {
		t.Errorf("ParseError = %+v", pe)
	}
}

func TestEnvLoader(t *testing.T) {
	env := map[string]string{"APP_NAME": "", "APP_COUNT": "4"}
	l := NewEnvLoader("APP_", "name", "count", "missing").WithLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	got := l.Load()
	if len(got) != 2 || got["name"] != "" || got["count"] != "4" {
		t.Errorf("Load() = %v", got)
	}

	vars := l.Vars()
	if len(vars) != 3 || vars[0] != "APP_COUNT" {
		t.Errorf("Vars() = %v", vars)
	}
}
