// Package fetch downloads, verifies and stages package sources.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"zombiezen.com/go/nix"
)

var (
	// ErrNotFound indicates the server has no such file
	ErrNotFound = errors.New("download not found")

	// ErrChecksumMismatch indicates a downloaded file failed verification
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// StatusError is returned for unexpected HTTP responses
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.URL)
}

// Fetcher downloads files into a cache directory
type Fetcher struct {
	client     *http.Client
	cacheDir   string
	userAgent  string
	maxRetries uint64
	baseDelay  time.Duration
	progress   io.Writer
	logger     *zap.SugaredLogger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxRetries sets the maximum number of retries after the first attempt
func WithMaxRetries(n uint64) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBaseDelay sets the initial backoff interval
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithProgress renders a progress bar for each download to w
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = w
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher creates a Fetcher that caches downloads under cacheDir
func NewFetcher(cacheDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: 10 * time.Minute,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cacheDir:   cacheDir,
		userAgent:  "ubrew/0.1",
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CachePath returns where a download for name from rawURL is cached:
// downloads/<name>--<url hash>--<basename>
func (f *Fetcher) CachePath(name, rawURL string) string {
	base := path.Base(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		base = path.Base(u.Path)
	}
	return filepath.Join(f.cacheDir, "downloads", name+"--"+urlKey(rawURL)+"--"+base)
}

// urlKey is a short nix32 digest of a URL
func urlKey(rawURL string) string {
	h := nix.NewHasher(nix.SHA256)
	_, _ = io.WriteString(h, rawURL)
	return h.SumHash().RawBase32()[:12]
}

// Fetch returns a local, verified copy of rawURL. A cached copy is reused
// when it still matches checksum; an empty checksum skips verification.
func (f *Fetcher) Fetch(ctx context.Context, name, rawURL, checksum string) (string, error) {
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "file" {
		if err := f.verify(u.Path, checksum); err != nil {
			return "", err
		}
		return u.Path, nil
	}

	dest := f.CachePath(name, rawURL)

	if _, err := os.Stat(dest); err == nil {
		if err := f.verify(dest, checksum); err == nil {
			f.logger.Debugf("Already downloaded: %s", dest)
			return dest, nil
		}
		f.logger.Warnf("Cached %s failed verification, downloading again", dest)
		if err := os.Remove(dest); err != nil {
			return "", fmt.Errorf("removing stale download: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	tmp := dest + ".incomplete"
	defer os.Remove(tmp)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.baseDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(b, f.maxRetries), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		f.logger.Debugf("Downloading %s (attempt %d)", rawURL, attempt)
		err := f.download(ctx, rawURL, tmp)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}

	if err := f.verify(tmp, checksum); err != nil {
		return "", err
	}

	if err := os.Rename(tmp, dest); err != nil {
		return "", fmt.Errorf("moving download into cache: %w", err)
	}

	f.logger.Debugf("Downloaded %s -> %s", rawURL, dest)
	return dest, nil
}

func (f *Fetcher) verify(file, checksum string) error {
	if checksum == "" {
		f.logger.Warnf("No checksum for %s, skipping verification", file)
		return nil
	}
	return Verify(file, checksum)
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", rawURL, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer out.Close()

	var w io.Writer = out
	if f.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionSetDescription("downloading "+path.Base(req.URL.Path)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		w = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return out.Close()
}

// retryable reports whether a download error is worth another attempt:
// rate limiting, server errors and transport failures are; 4xx are not.
func retryable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}
