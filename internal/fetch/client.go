// Package fetch is the shared outbound HTTP client: JSON GETs, a rate limit,
// a timeout, no retries.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/f130r/workspace01/internal/logging"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Body)
}

// ErrStatus matches any *StatusError with errors.Is.
var ErrStatus = errors.New("unexpected http status")

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

type Options struct {
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	UserAgent  string
	Logger     *zap.Logger
}

type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	ua      string
	log     *zap.Logger
}

func New(opt Options) *Client {
	if opt.Timeout <= 0 {
		opt.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opt.RatePerSec > 0 {
		limit = rate.Limit(opt.RatePerSec)
	}
	if opt.Burst <= 0 {
		opt.Burst = 1
	}
	if opt.UserAgent == "" {
		opt.UserAgent = "toybox/1.0"
	}
	return &Client{
		http:    &http.Client{Timeout: opt.Timeout},
		limiter: rate.NewLimiter(limit, opt.Burst),
		ua:      opt.UserAgent,
		log:     logging.OrNop(opt.Logger),
	}
}

// GetJSON waits for the limiter, issues one GET and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("http get failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.log.Debug("http get",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, err := io.ReadAll(io.LimitReader(resp.Body, 256))
		if err != nil {
			c.log.Debug("read error body", zap.String("url", url), zap.Error(err))
		}
		return &StatusError{URL: url, Code: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
