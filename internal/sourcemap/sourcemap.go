package sourcemap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/JSH-Team/unpack/internal/extract"
)

var (
	// ErrInvalidSourceMap is returned when the content cannot be decoded as a source map.
	ErrInvalidSourceMap = errors.New("invalid sourcemap")

	// ErrUnsupportedSourceMap is returned when a source does not carry the webpack origin marker.
	ErrUnsupportedSourceMap = errors.New("not a supported sourcemap")
)

// SupportedVersion is the only source map revision Parse accepts.
const SupportedVersion = 3

// SourceMap represents the structure of a JavaScript source map
type SourceMap struct {
	Version        int               `json:"version"`
	File           string            `json:"file"`
	SourceRoot     string            `json:"sourceRoot"`
	Sources        []string          `json:"sources"`
	SourcesContent []*string         `json:"sourcesContent"`
	Sections       []json.RawMessage `json:"sections"`
}

// SourceSet is a validated list of webpack sources plus their inlined content.
type SourceSet struct {
	file    string
	sources []string
	content map[string]extract.Content
}

// Parse decodes a source map and checks that every source comes from webpack.
// Duplicate sources are listed once, keeping the first occurrence.
func Parse(content []byte) (*SourceSet, error) {
	var sm SourceMap
	if err := json.Unmarshal(content, &sm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSourceMap, err)
	}
	if sm.Version != SupportedVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSourceMap, sm.Version)
	}
	// Index maps nest their sources under sections.
	if len(sm.Sections) > 0 {
		return nil, fmt.Errorf("%w: index maps with sections are not supported", ErrInvalidSourceMap)
	}
	if sm.Sources == nil {
		return nil, fmt.Errorf("%w: missing sources", ErrInvalidSourceMap)
	}

	set := &SourceSet{
		file:    sm.File,
		sources: make([]string, 0, len(sm.Sources)),
		content: make(map[string]extract.Content, len(sm.Sources)),
	}

	for i, raw := range sm.Sources {
		source := withSourceRoot(sm.SourceRoot, raw)
		if !strings.HasPrefix(source, extract.OriginMarker) {
			return nil, fmt.Errorf("%w: source %q is not webpack generated", ErrUnsupportedSourceMap, source)
		}
		if _, seen := set.content[source]; seen {
			continue
		}

		c := extract.Unavailable()
		if i < len(sm.SourcesContent) && sm.SourcesContent[i] != nil {
			c = extract.Available(*sm.SourcesContent[i])
		}
		set.sources = append(set.sources, source)
		set.content[source] = c
	}

	return set, nil
}

// withSourceRoot prefixes relative sources with the map's sourceRoot.
func withSourceRoot(root, source string) string {
	if root == "" || strings.Contains(source, "://") {
		return source
	}
	return strings.TrimSuffix(root, "/") + "/" + source
}

// Sources returns the source identifiers in map order.
func (s *SourceSet) Sources() []string {
	out := make([]string, len(s.sources))
	copy(out, s.sources)
	return out
}

// ContentFor returns the inlined content of a source, or Unavailable when the
// map does not carry it.
func (s *SourceSet) ContentFor(sourceID string) extract.Content {
	if c, ok := s.content[sourceID]; ok {
		return c
	}
	return extract.Unavailable()
}

// File is the generated file the map describes, if the map names one.
func (s *SourceSet) File() string {
	return s.file
}

// Len returns the number of distinct sources.
func (s *SourceSet) Len() int {
	return len(s.sources)
}

// IsSourceMap checks if the content looks like a valid sourcemap
func IsSourceMap(content []byte) bool {
	// Must be valid JSON
	var temp map[string]interface{}
	if err := json.Unmarshal(content, &temp); err != nil {
		return false
	}

	// Must have required sourcemap fields
	version, hasVersion := temp["version"]
	sources, hasSources := temp["sources"]

	if !hasVersion {
		return false
	}
	if versionNum, ok := version.(float64); !ok || versionNum != SupportedVersion {
		return false
	}

	if !hasSources {
		return false
	}
	if _, ok := sources.([]interface{}); !ok {
		return false
	}

	return true
}
