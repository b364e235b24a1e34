package filesystem

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

var windowsIllegalChars = regexp.MustCompile(`[?%*|:"<>]`)

// CleanSourcePath turns the relative part of a source identifier into a
// filesystem path that stays below the directory it is joined onto.
// Leading "./" and any ".." segments are clamped at the root.
func CleanSourcePath(sourcePath string) string {
	cleaned := strings.TrimPrefix(path.Clean("/"+sourcePath), "/")

	if runtime.GOOS == "windows" {
		cleaned = sanitizeWindowsPath(cleaned)
	}

	return filepath.FromSlash(cleaned)
}

// sanitizeWindowsPath removes illegal characters from Windows file paths
func sanitizeWindowsPath(p string) string {
	return windowsIllegalChars.ReplaceAllString(p, "-")
}

// ResolveBase returns dir unchanged when absolute, otherwise joined onto cwd.
func ResolveBase(cwd, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(cwd, dir)
}

// Exists reports whether anything (file or directory) is present at p.
func Exists(fs afero.Fs, p string) (bool, error) {
	_, err := fs.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", p, err)
}
