package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroBackOff() BackOff {
	return &backoff.ZeroBackOff{}
}

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New("test", Config{RequestsPerSec: 100})
	body, err := c.GetJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New("test", Config{RequestsPerSec: 100, MaxRetries: 3}, WithBackOff(zeroBackOff))
	body, err := c.GetJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorIsFinal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New("test", Config{RequestsPerSec: 100, MaxRetries: 5}, WithBackOff(zeroBackOff))
	_, err := c.GetJSON(context.Background(), srv.URL)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_BreakerOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New("test", Config{RequestsPerSec: 100, BreakerFailures: 2}, WithBackOff(zeroBackOff))
	for i := 0; i < 2; i++ {
		_, err := c.GetJSON(context.Background(), srv.URL)
		require.Error(t, err)
	}

	_, err := c.GetJSON(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBreakerOpen))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New("test", Config{})
	_, err := c.GetJSON(ctx, "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestClient_ClientErrorsDoNotOpenBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/networks/solana" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New("test", Config{RequestsPerSec: 1000, BreakerFailures: 2}, WithBackOff(zeroBackOff))
	for i := 0; i < 5; i++ {
		_, err := c.GetJSON(context.Background(), srv.URL+"/networks/unknown")
		var se *StatusError
		require.True(t, errors.As(err, &se))
	}

	body, err := c.GetJSON(context.Background(), srv.URL+"/networks/solana")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
	assert.EqualValues(t, 6, atomic.LoadInt32(&calls))
}

func TestClient_BreakerIsPerPartition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New("test", Config{RequestsPerSec: 1000, BreakerFailures: 2}, WithBackOff(zeroBackOff))
	base := WithPartition(context.Background(), "base")
	solana := WithPartition(context.Background(), "solana")

	for i := 0; i < 2; i++ {
		_, err := c.GetJSON(base, srv.URL+"/down")
		require.Error(t, err)
	}
	_, err := c.GetJSON(base, srv.URL+"/up")
	assert.True(t, errors.Is(err, ErrBreakerOpen))

	_, err = c.GetJSON(solana, srv.URL+"/up")
	assert.NoError(t, err)
}

func TestUpstreamHealthy(t *testing.T) {
	assert.True(t, upstreamHealthy(nil))
	assert.True(t, upstreamHealthy(&StatusError{StatusCode: http.StatusNotFound}))
	assert.True(t, upstreamHealthy(errors.Wrap(context.Canceled, "get")))
	assert.False(t, upstreamHealthy(&StatusError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, upstreamHealthy(&StatusError{StatusCode: http.StatusBadGateway}))
	assert.False(t, upstreamHealthy(errors.New("connection refused")))
}
