package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36"

type AssetFetcher interface {
	RateLimitedGet(ctx context.Context, url string) ([]byte, error)
}

type assetFetcherImpl struct {
	client      *http.Client
	rateLimiter ratelimit.Limiter
}

// NewAssetFetcher returns a fetcher allowing perMinute requests per minute.
func NewAssetFetcher(perMinute int) *assetFetcherImpl {
	if perMinute < 1 {
		perMinute = 1
	}

	c := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			ForceAttemptHTTP2:   true,
			TLSHandshakeTimeout: 30 * time.Second,
		},
	}

	return &assetFetcherImpl{
		client:      c,
		rateLimiter: ratelimit.New(perMinute, ratelimit.Per(time.Minute)),
	}
}

func (s *assetFetcherImpl) RateLimitedGet(ctx context.Context, url string) ([]byte, error) {
	s.rateLimiter.Take()

	return s.Request(ctx, url, http.MethodGet)
}

// Request performs the HTTP call and transparently decompresses gzip bodies.
// Any status other than 200 is an error.
func (s *assetFetcherImpl) Request(ctx context.Context, url string, method string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("accept", "*/*")
	req.Header.Set("accept-language", "en-GB,en-US;q=0.9,en;q=0.8")
	req.Header.Set("user-agent", userAgent)
	req.Header.Set("accept-encoding", "gzip")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	// Check if the response is gzipped
	isGzipped := strings.Contains(resp.Header.Get("Content-Encoding"), "gzip")

	// If not marked as gzipped, check for gzip magic number
	if !isGzipped {
		isGzipped = len(body) > 2 && body[0] == 0x1f && body[1] == 0x8b
	}

	if isGzipped {
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("open gzip body of %s: %w", url, err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("decompress body of %s: %w", url, err)
		}
		body = decompressed
	}

	return body, nil
}
