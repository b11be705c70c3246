// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_SetsUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := NewRequest(context.Background(), ts.URL, "pubdoi-test/0.1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "pubdoi-test/0.1", gotUA)
}

func TestNewRequest_BadURL(t *testing.T) {
	_, err := NewRequest(context.Background(), "://bad", "")
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewClient(5*time.Second).Timeout)
	assert.Zero(t, NewClient(0).Timeout)
}

func TestFixedDelay_UsesTimerSource(t *testing.T) {
	var requested time.Duration
	d := FixedDelay{
		Delay: time.Second,
		After: func(d time.Duration) <-chan time.Time {
			requested = d
			ch := make(chan time.Time, 1)
			ch <- time.Now()
			return ch
		},
	}

	require.NoError(t, d.Wait(context.Background()))
	assert.Equal(t, time.Second, requested)
}

func TestFixedDelay_ContextCancelled(t *testing.T) {
	d := FixedDelay{
		Delay: time.Hour,
		After: func(time.Duration) <-chan time.Time { return make(chan time.Time) },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
}

func TestFixedDelay_ZeroDelay(t *testing.T) {
	assert.NoError(t, FixedDelay{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, FixedDelay{}.Wait(ctx), context.Canceled)
}

func TestNoDelay(t *testing.T) {
	assert.NoError(t, NoDelay{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NoDelay{}.Wait(ctx), context.Canceled)
}

func TestRateLimit_FirstCallImmediate(t *testing.T) {
	r := NewRateLimit(1000)
	start := time.Now()
	require.NoError(t, r.Wait(context.Background()))
	require.NoError(t, r.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewPacer(t *testing.T) {
	p := NewPacer(2*time.Second, 0)
	fd, ok := p.(FixedDelay)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, fd.Delay)

	_, ok = NewPacer(time.Second, 5).(*RateLimit)
	assert.True(t, ok)
}
