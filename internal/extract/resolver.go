package extract

import (
	"path/filepath"

	"github.com/JSH-Team/unpack/internal/utils/filesystem"
)

const (
	// OriginMarker is the prefix every source of a supported map starts with.
	OriginMarker = "webpack"

	// WebpackSubstringIndex is the length of the "webpack:///" origin prefix
	// stripped from each source identifier.
	WebpackSubstringIndex = 11
)

// ResolvePath maps a source identifier to its destination below
// <cwd>/<projectName>. The same inputs always produce the same path.
// It returns "" when nothing of the identifier is left to name a file,
// since that would otherwise resolve to the project directory itself.
func ResolvePath(cwd, projectName, sourceID string) string {
	rel := ""
	if len(sourceID) > WebpackSubstringIndex {
		rel = sourceID[WebpackSubstringIndex:]
	}

	cleaned := filesystem.CleanSourcePath(rel)
	if cleaned == "" {
		return ""
	}
	return filepath.Join(filesystem.ResolveBase(cwd, projectName), cleaned)
}

// ContentLookup is the part of a loaded source set the unit builder needs.
type ContentLookup interface {
	Sources() []string
	ContentFor(sourceID string) Content
}

// NewUnits builds one unit per source, preserving the lookup's order.
func NewUnits(cwd, projectName string, lookup ContentLookup) []ExtractionUnit {
	sources := lookup.Sources()
	units := make([]ExtractionUnit, 0, len(sources))
	for i, source := range sources {
		units = append(units, ExtractionUnit{
			Seq:             i,
			Source:          source,
			DestinationPath: ResolvePath(cwd, projectName, source),
			Content:         lookup.ContentFor(source),
		})
	}
	return units
}
