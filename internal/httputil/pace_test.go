// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_NoDelaySendsOnce(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	p := NewPacer(ts.Client(), 0)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := p.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a 429 is not retried")
}

func TestPacer_SpacesConsecutiveRequests(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	delay := 50 * time.Millisecond
	p := NewPacer(ts.Client(), delay)

	start := time.Now()
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
		require.NoError(t, err)
		resp, err := p.Do(context.Background(), req)
		require.NoError(t, err)
		resp.Body.Close()
	}
	// First request uses the initial burst token; the next two wait.
	assert.GreaterOrEqual(t, time.Since(start), 2*delay-10*time.Millisecond)
}

func TestPacer_ContextCancelledWhileWaiting(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	p := NewPacer(ts.Client(), time.Hour)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	resp, err := p.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Do(ctx, req)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPacer_NilClientDefaults(t *testing.T) {
	p := NewPacer(nil, 0)
	assert.Same(t, http.DefaultClient, p.Client())
}

func TestNewClient(t *testing.T) {
	c := NewClient(5 * time.Second)
	assert.Equal(t, 5*time.Second, c.Timeout)
	require.NotNil(t, c.CheckRedirect)
	assert.NoError(t, c.CheckRedirect(nil, make([]*http.Request, maxRedirects-1)))
	assert.ErrorIs(t, c.CheckRedirect(nil, make([]*http.Request, maxRedirects)), http.ErrUseLastResponse)
}
