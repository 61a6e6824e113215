package fx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/f130r/workspace01/internal/fetch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func chartServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		assert.Equal(t, "1m", r.URL.Query().Get("interval"))
		switch {
		case strings.HasSuffix(r.URL.Path, "/USDJPY=X"):
			fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1700000000,1700000060,1700000120],
				"indicators":{"quote":[{"close":[150.1,null,150.3]}]}}],"error":null}}`)
		case strings.HasSuffix(r.URL.Path, "/CADJPY=X"):
			fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1700000000],
				"indicators":{"quote":[{"close":[109.5]}]}}],"error":null}}`)
		default:
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	return &Client{Endpoint: srv.URL + "/v8/finance/chart/", HTTP: fetch.New(fetch.Options{})}
}

func TestFetchDropsNullCloses(t *testing.T) {
	c := newClient(chartServer(t))

	s, err := c.Fetch(context.Background(), "USDJPY=X")
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 150.3, last.Close)
	assert.Equal(t, time.Unix(1700000120, 0).UTC(), last.Time)
	for _, q := range s.Points {
		assert.Equal(t, "USDJPY=X", q.Pair)
	}
}

func TestFetchFeedError(t *testing.T) {
	c := newClient(chartServer(t))
	_, err := c.Fetch(context.Background(), "XXXYYY=X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestFetchAllKeepsOrder(t *testing.T) {
	c := newClient(chartServer(t))
	got, err := c.FetchAll(context.Background(), []string{"CADJPY=X", "USDJPY=X"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CADJPY=X", got[0].Pair)
	assert.Equal(t, "USDJPY=X", got[1].Pair)
}

func TestFetchAllFailsBatch(t *testing.T) {
	c := newClient(chartServer(t))
	_, err := c.FetchAll(context.Background(), []string{"USDJPY=X", "NOPE=X"})
	require.Error(t, err)
}

func TestSeriesHelpers(t *testing.T) {
	s := Series{Pair: "USDJPY=X"}
	_, ok := s.Last()
	assert.False(t, ok)

	for i := 0; i < 7; i++ {
		s.Points = append(s.Points, Quote{Close: float64(i)})
	}
	assert.Len(t, s.Tail(5), 5)
	assert.Equal(t, 2.0, s.Tail(5)[0].Close)
	assert.Len(t, s.Tail(50), 7)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6}, s.Closes())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "USD/JPY", Label("USDJPY=X"))
	assert.Equal(t, "^N225", Label("^N225"))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 10))
	assert.Equal(t, "▁▁▁", Sparkline([]float64{5, 5, 5}, 10))
	assert.Equal(t, "▁█", Sparkline([]float64{1, 1, 9, 9}, 2))
	assert.Equal(t, 20, len([]rune(Sparkline(make([]float64, 100), 20))))
}

type countingFetcher struct {
	n   atomic.Int32
	err error
}

func (f *countingFetcher) FetchAll(ctx context.Context, pairs []string) ([]Series, error) {
	f.n.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []Series{{Pair: pairs[0]}}, nil
}

func TestPollDeliversUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &countingFetcher{}
	ch := Poll(ctx, f, []string{"USDJPY=X"}, 5*time.Millisecond)

	for i := 0; i < 3; i++ {
		snap := <-ch
		require.NoError(t, snap.Err)
		assert.Equal(t, "USDJPY=X", snap.Series[0].Pair)
	}
	cancel()
	for range ch {
	}
	assert.GreaterOrEqual(t, f.n.Load(), int32(3))
}

func TestPollReportsErrorsAndKeepsGoing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &countingFetcher{err: errors.New("offline")}
	ch := Poll(ctx, f, []string{"USDJPY=X"}, time.Millisecond)

	for i := 0; i < 2; i++ {
		snap := <-ch
		assert.EqualError(t, snap.Err, "offline")
	}
	cancel()
	for range ch {
	}
}

func TestPollNonPositiveIntervalFallsBack(t *testing.T) {
	for _, every := range []time.Duration{0, -time.Second} {
		ctx, cancel := context.WithCancel(context.Background())
		f := &countingFetcher{}
		ch := Poll(ctx, f, []string{"USDJPY=X"}, every)

		snap := <-ch
		require.NoError(t, snap.Err)
		assert.Equal(t, "USDJPY=X", snap.Series[0].Pair)
		cancel()
		for range ch {
		}
		assert.Equal(t, int32(1), f.n.Load())
	}
}
