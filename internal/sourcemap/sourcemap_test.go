package sourcemap

import (
	"errors"
	"testing"
)

func TestParse_WebpackMap(t *testing.T) {
	raw := `{
		"version": 3,
		"file": "main.min.js",
		"sources": ["webpack:///./src/a.js", "webpack:///./src/b.js", "webpack:///./src/a.js"],
		"sourcesContent": ["const a = 1;\n", null],
		"mappings": ""
	}`

	set, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if set.File() != "main.min.js" {
		t.Fatalf("File = %q", set.File())
	}
	sources := set.Sources()
	if len(sources) != 2 || sources[0] != "webpack:///./src/a.js" || sources[1] != "webpack:///./src/b.js" {
		t.Fatalf("Sources = %v", sources)
	}
	if text, ok := set.ContentFor("webpack:///./src/a.js").Text(); !ok || text != "const a = 1;\n" {
		t.Fatalf("content a = %q/%v", text, ok)
	}
	if set.ContentFor("webpack:///./src/b.js").IsAvailable() {
		t.Fatal("null sourcesContent entry should be unavailable")
	}
	if set.ContentFor("webpack:///./nope.js").IsAvailable() {
		t.Fatal("unknown source should be unavailable")
	}
}

func TestParse_RejectsForeignOrigin(t *testing.T) {
	raw := `{"version":3,"sources":["webpack:///./src/a.js","../src/b.ts"],"mappings":""}`
	_, err := Parse([]byte(raw))
	if !errors.Is(err, ErrUnsupportedSourceMap) {
		t.Fatalf("err = %v, want ErrUnsupportedSourceMap", err)
	}
}

func TestParse_AppliesSourceRoot(t *testing.T) {
	raw := `{"version":3,"sourceRoot":"webpack:///","sources":["./src/a.js"],"sourcesContent":["x"],"mappings":""}`
	set, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := set.Sources(); len(got) != 1 || got[0] != "webpack:///./src/a.js" {
		t.Fatalf("Sources = %v", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `not json`},
		{"no version", `{"sources":[]}`},
		{"string version", `{"version":"3"}`},
		{"version 2", `{"version":2,"sources":["webpack:///./src/a.js"]}`},
		{"no sources", `{"version":3,"mappings":""}`},
		{"null sources", `{"version":3,"sources":null}`},
		{"index map", `{"version":3,"sections":[{"offset":{"line":0,"column":0},"map":{"version":3,"sources":["webpack:///./src/a.js"],"sourcesContent":["a"],"mappings":""}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidSourceMap) {
				t.Fatalf("err = %v, want ErrInvalidSourceMap", err)
			}
			if set != nil {
				t.Fatalf("got a source set with %d sources", set.Len())
			}
		})
	}
}

func TestParse_DuplicateSourceKeepsFirstContent(t *testing.T) {
	raw := `{
		"version": 3,
		"sources": ["webpack:///./src/a.js", "webpack:///./src/b.js", "webpack:///./src/a.js"],
		"sourcesContent": ["first", "b", "second"],
		"mappings": ""
	}`
	set, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}
	if text, _ := set.ContentFor("webpack:///./src/a.js").Text(); text != "first" {
		t.Fatalf("content a = %q, want first occurrence", text)
	}

	single, err := Parse([]byte(`{"version":3,"sources":["webpack:///./x.js","webpack:///./x.js"],"sourcesContent":[null,"late"]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if single.Len() != 1 {
		t.Fatalf("Len = %d, want 1", single.Len())
	}
	if single.ContentFor("webpack:///./x.js").IsAvailable() {
		t.Fatal("a later duplicate must not supply content for the first occurrence")
	}
}

func TestParse_EmptySources(t *testing.T) {
	set, err := Parse([]byte(`{"version":3,"sources":[],"mappings":""}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("Len = %d, want 0", set.Len())
	}
}

func TestIsSourceMap(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"version":3,"sources":[]}`, true},
		{`{"version":0,"sources":[]}`, false},
		{`{"version":2,"sources":[]}`, false},
		{`{"sources":[]}`, false},
		{`{"version":3,"sources":"x"}`, false},
		{`<html>not found</html>`, false},
	}
	for _, tt := range tests {
		if got := IsSourceMap([]byte(tt.raw)); got != tt.want {
			t.Errorf("IsSourceMap(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
