package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/encoding/htmlindex"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/metrics"
)

// DefaultUserAgent is sent with every fetch unless overridden. Some IPTV
// providers refuse requests that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrUnsupportedScheme is returned for URLs that are not http or https.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Timeout   time.Duration
	CacheTTL  time.Duration // 0 disables caching
	UserAgent string
	MaxBytes  int64 // 0 means unlimited
}

// DefaultFetcherConfig returns the defaults used when no environment
// overrides are set.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   30 * time.Second,
		CacheTTL:  5 * time.Minute,
		UserAgent: DefaultUserAgent,
	}
}

// Fetcher downloads remote playlists.
type Fetcher struct {
	client    *http.Client
	cache     *gocache.Cache
	ttl       time.Duration
	userAgent string
	maxBytes  int64
}

// NewFetcher creates a fetcher using config.
func NewFetcher(config FetcherConfig) *Fetcher {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	f := &Fetcher{
		client:    &http.Client{Timeout: config.Timeout},
		ttl:       config.CacheTTL,
		userAgent: config.UserAgent,
		maxBytes:  config.MaxBytes,
	}
	if config.CacheTTL > 0 {
		f.cache = gocache.New(config.CacheTTL, 2*config.CacheTTL)
	}
	return f
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// cacheKey returns the normalized form of rawURL under which its body is
// cached and requested.
func cacheKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return u.String(), nil
}

// Fetch downloads rawURL and returns its body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key, err := cacheKey(rawURL)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		if cached, found := f.cache.Get(key); found {
			if body, ok := cached.([]byte); ok {
				logging.Debug("Fetch cache hit for %s", key)
				metrics.FetchRequestsTotal.WithLabelValues("cache_hit").Inc()
				return body, nil
			}
		}
	}

	start := time.Now()
	body, err := f.download(ctx, key)
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.FetchRequestsTotal.WithLabelValues("success").Inc()
	metrics.FetchBytesTotal.Add(float64(len(body)))

	if f.cache != nil {
		f.cache.Set(key, body, f.ttl)
	}
	return body, nil
}

// Open is Fetch returning a reader.
func (f *Fetcher) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// Forget removes rawURL from the cache.
func (f *Fetcher) Forget(rawURL string) {
	if f.cache == nil {
		return
	}
	if key, err := cacheKey(rawURL); err == nil {
		f.cache.Delete(key)
	}
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "audio/x-mpegurl, application/vnd.apple.mpegurl, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	var r io.Reader = resp.Body
	if f.maxBytes > 0 {
		r = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", rawURL, f.maxBytes)
	}

	return decodeCharset(body, resp.Header.Get("Content-Type"))
}

// decodeCharset converts body to UTF-8 when contentType names another
// charset. Unknown charsets are an error rather than silently mangled text.
func decodeCharset(body []byte, contentType string) ([]byte, error) {
	if contentType == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	name := strings.ToLower(strings.TrimSpace(params["charset"]))
	if name == "" || name == "utf-8" || name == "utf8" || name == "us-ascii" {
		return body, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", name, err)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return decoded, nil
}
