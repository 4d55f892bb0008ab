package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/snklog/snklog-install/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent prefixes the User-Agent header.
	DefaultUserAgent = "snklog-install"
	// MaxArtifactSize caps how much of a response body is read.
	MaxArtifactSize = 64 << 20
	// maxRedirects matches curl's default with -L.
	maxRedirects = 10
	maxBackoff   = 2 * time.Minute
)

// Downloader performs GET requests with optional retries.
type Downloader struct {
	client     *http.Client
	userAgent  string
	retries    int
	backoff    time.Duration
	permissive bool
	maxSize    int64
	progress   io.Writer
	logger     logging.Logger
}

// download is one fetched body.
type download struct {
	Body       []byte
	StatusCode int
}

// NewDownloader creates a downloader. A nil client gets a default one with
// the given timeout and a redirect cap.
func NewDownloader(client *http.Client, timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	}
	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
		backoff:   time.Second,
		maxSize:   MaxArtifactSize,
		logger:    logging.Nop(),
	}
}

// Get downloads url, retrying transient failures up to d.retries times with
// exponential backoff (1s, 2s, 4s, ... up to 2m). Client errors (4xx) are not retried.
func (d *Downloader) Get(ctx context.Context, url string) (*download, error) {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			wait := backoffDelay(d.backoff, attempt)
			d.logger.Debug("retrying download", "url", url, "attempt", attempt+1, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		dl, err := d.getOnce(ctx, url, d.progress)
		if err == nil {
			return dl, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable(err) {
			return nil, err
		}
	}

	if d.retries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// getAux fetches a small side file (checksums, signatures). These are always
// strict, never drive the progress bar and are never retried on 4xx.
func (d *Downloader) getAux(ctx context.Context, url string) ([]byte, error) {
	strict := *d
	strict.permissive = false
	strict.progress = nil
	dl, err := strict.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return dl.Body, nil
}

func (d *Downloader) getOnce(ctx context.Context, url string, progress io.Writer) (*download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		statusErr := &HTTPStatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
		if !d.permissive {
			return nil, statusErr
		}
		d.logger.Warn("writing response body despite HTTP error (permissive mode)", "url", url, "status", resp.StatusCode)
	}

	var buf bytes.Buffer
	var dst io.Writer = &buf
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = newProgressBar(progress, resp.ContentLength)
		dst = io.MultiWriter(&buf, bar)
	}

	n, err := io.Copy(dst, io.LimitReader(resp.Body, d.maxSize+1))
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if n > d.maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrArtifactTooLarge, d.maxSize)
	}
	if n == 0 && !d.permissive {
		return nil, ErrEmptyArtifact
	}

	return &download{Body: buf.Bytes(), StatusCode: resp.StatusCode}, nil
}

// backoffDelay doubles base for each retry after the first, capped at
// maxBackoff.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	wait := base
	for n := 1; n < attempt && wait < maxBackoff; n++ {
		wait *= 2
	}
	if wait > maxBackoff {
		wait = maxBackoff
	}
	return wait
}

func retryable(err error) bool {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	if errors.Is(err, ErrArtifactTooLarge) || errors.Is(err, ErrEmptyArtifact) {
		return false
	}
	return true
}

func newProgressBar(w io.Writer, size int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
