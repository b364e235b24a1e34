package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/JSH-Team/unpack/internal/sourcemap"
	"github.com/JSH-Team/unpack/internal/utils/fetch"
	"github.com/JSH-Team/unpack/internal/utils/filesystem"
	urlutils "github.com/JSH-Team/unpack/internal/utils/url"

	"github.com/spf13/afero"
)

// MapReader loads raw sourcemap content from a local path, an http(s) URL or
// a data: URI.
type MapReader struct {
	Fs      afero.Fs
	Fetcher fetch.AssetFetcher
	Timeout time.Duration
}

// ReadSourceMap returns the raw bytes behind location. Relative local paths
// are resolved against cwd.
func (r MapReader) ReadSourceMap(ctx context.Context, cwd, location string) ([]byte, error) {
	switch {
	case urlutils.IsDataURI(location):
		content, err := urlutils.DecodeDataURI(location)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline sourcemap: %w", err)
		}
		return content, nil

	case urlutils.IsRemote(location):
		return r.fetch(ctx, location)

	default:
		path := filesystem.ResolveBase(cwd, location)
		content, err := afero.ReadFile(r.Fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sourcemap %s: %w", path, err)
		}
		return content, nil
	}
}

func (r MapReader) fetch(ctx context.Context, mapURL string) ([]byte, error) {
	if r.Fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", mapURL)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	content, err := r.Fetcher.RateLimitedGet(ctx, mapURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download sourcemap from %s: %w", mapURL, err)
	}

	// Validate that the content is actually a sourcemap before returning
	if !sourcemap.IsSourceMap(content) {
		return nil, fmt.Errorf("%w: content downloaded from %s is not a sourcemap", sourcemap.ErrInvalidSourceMap, mapURL)
	}

	return content, nil
}
