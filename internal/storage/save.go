package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/JSH-Team/unpack/internal/config"
	"github.com/JSH-Team/unpack/internal/extract"

	"github.com/spf13/afero"
)

// ErrNoDestination is returned for a unit whose source identifier does not
// name a file below the project directory.
var ErrNoDestination = errors.New("source does not name a file")

// UnavailablePlaceholder is written for sources without inlined content
// under the placeholder policy.
const UnavailablePlaceholder = "/* source content unavailable in sourcemap */\n"

// SaveSourceFile creates the unit's parent directories and writes its content,
// overwriting any existing file. It returns the number of bytes written and
// whether the unit was skipped by the missing-content policy.
func SaveSourceFile(fs afero.Fs, unit extract.ExtractionUnit, policy config.MissingContentPolicy) (int64, bool, error) {
	if unit.DestinationPath == "" {
		return 0, false, fmt.Errorf("%w: %q", ErrNoDestination, unit.Source)
	}

	content, ok := unit.Content.Text()
	if !ok {
		switch policy {
		case config.MissingContentSkip:
			return 0, true, nil
		case config.MissingContentPlaceholder:
			content = UnavailablePlaceholder
		default:
			content = ""
		}
	}

	dir := filepath.Dir(unit.DestinationPath)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return 0, false, fmt.Errorf("failed to create source directory %s: %w", dir, err)
	}

	if err := afero.WriteFile(fs, unit.DestinationPath, []byte(content), 0644); err != nil {
		return 0, false, fmt.Errorf("failed to write source file %s: %w", unit.DestinationPath, err)
	}

	return int64(len(content)), false, nil
}
