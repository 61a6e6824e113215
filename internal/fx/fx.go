// Package fx fetches intraday FX quotes from a public chart feed and keeps a
// dashboard fresh by polling.
package fx

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/f130r/workspace01/internal/fetch"
	"github.com/f130r/workspace01/internal/logging"
)

var ErrNoData = errors.New("feed returned no data")

const DefaultRefresh = 60 * time.Second

type Quote struct {
	Pair  string
	Time  time.Time
	Close float64
}

// Series is one pair's intraday closes, oldest first.
type Series struct {
	Pair   string
	Points []Quote
}

// Last returns the most recent quote.
func (s Series) Last() (Quote, bool) {
	if len(s.Points) == 0 {
		return Quote{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Tail returns up to the last n quotes.
func (s Series) Tail(n int) []Quote {
	if n >= len(s.Points) {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

// Closes returns the close values in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, q := range s.Points {
		out[i] = q.Close
	}
	return out
}

// Label turns "USDJPY=X" into "USD/JPY".
func Label(pair string) string {
	p := strings.TrimSuffix(pair, "=X")
	if len(p) == 6 {
		return p[:3] + "/" + p[3:]
	}
	return p
}

type Client struct {
	Endpoint string // chart endpoint; the pair is appended
	HTTP     *fetch.Client
	Log      *zap.Logger
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves today's 1-minute closes for pair. Null closes are dropped.
func (c *Client) Fetch(ctx context.Context, pair string) (Series, error) {
	u := strings.TrimSuffix(c.Endpoint, "/") + "/" + url.PathEscape(pair) + "?range=1d&interval=1m"

	var resp chartResponse
	if err := c.HTTP.GetJSON(ctx, u, &resp); err != nil {
		return Series{}, fmt.Errorf("fetch %s: %w", pair, err)
	}
	if e := resp.Chart.Error; e != nil {
		return Series{}, fmt.Errorf("fetch %s: %s: %s", pair, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return Series{}, fmt.Errorf("fetch %s: %w", pair, ErrNoData)
	}

	r := resp.Chart.Result[0]
	closes := r.Indicators.Quote[0].Close
	s := Series{Pair: pair}
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		s.Points = append(s.Points, Quote{Pair: pair, Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	if len(s.Points) == 0 {
		return Series{}, fmt.Errorf("fetch %s: %w", pair, ErrNoData)
	}
	return s, nil
}

// FetchAll fetches every pair concurrently. The result keeps input order;
// any failure fails the batch.
func (c *Client) FetchAll(ctx context.Context, pairs []string) ([]Series, error) {
	out := make([]Series, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		g.Go(func() error {
			s, err := c.Fetch(gctx, p)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.OrNop(c.Log).Warn("fx fetch failed", zap.Strings("pairs", pairs), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Snapshot is one polling result.
type Snapshot struct {
	Series  []Series
	Fetched time.Time
	Err     error
}

// Fetcher is satisfied by *Client.
type Fetcher interface {
	FetchAll(ctx context.Context, pairs []string) ([]Series, error)
}

// Poll fetches immediately and then every interval, sending each result on
// the returned channel until ctx is done. Failures are delivered, not
// retried; the next tick simply tries again. A non-positive interval means
// DefaultRefresh.
func Poll(ctx context.Context, f Fetcher, pairs []string, every time.Duration) <-chan Snapshot {
	if every <= 0 {
		every = DefaultRefresh
	}
	ch := make(chan Snapshot)
	go func() {
		defer close(ch)
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			s, err := f.FetchAll(ctx, pairs)
			snap := Snapshot{Series: s, Fetched: time.Now(), Err: err}
			select {
			case ch <- snap:
			case <-ctx.Done():
				return
			}
			select {
			case <-t.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
