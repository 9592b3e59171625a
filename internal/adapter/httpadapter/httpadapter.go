package httpadapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jgivc/anexofetch/internal/common"
	"github.com/juju/ratelimit"
)

type Config struct {
	UserAgent string
	// RateLimit caps body reads in bytes per second. Zero disables it.
	RateLimit int64
}

type httpAdapter struct {
	client    *http.Client
	userAgent string
	bucket    *ratelimit.Bucket
	log       *slog.Logger
}

func NewHTTPAdapter(client *http.Client, cfg *Config, log *slog.Logger) *httpAdapter {
	a := &httpAdapter{
		client:    client,
		userAgent: cfg.UserAgent,
		log:       log.With(slog.String("item", "HTTPAdapter")),
	}

	if cfg.RateLimit > 0 {
		a.bucket = ratelimit.NewBucketWithRate(float64(cfg.RateLimit), cfg.RateLimit)
	}

	return a
}

// FetchPage returns the body of url as text.
func (a *httpAdapter) FetchPage(ctx context.Context, url string) (string, error) {
	body, err := a.Open(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrPageFetch, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: cannot read body: %w", common.ErrPageFetch, err)
	}

	return string(data), nil
}

// Open issues a GET and returns the response body for streaming. Any status
// other than 200 is returned as *common.StatusError and the body is closed.
func (a *httpAdapter) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}

	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot get %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, &common.StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	a.log.Debug("Response", slog.String("url", url), slog.Int64("content_length", resp.ContentLength))

	if a.bucket == nil {
		return resp.Body, nil
	}

	return &limitedBody{
		Reader: ratelimit.Reader(resp.Body, a.bucket),
		Closer: resp.Body,
	}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
