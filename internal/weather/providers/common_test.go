package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRequest(u string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func TestDoRequest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := doRequest(context.Background(), srv.Client(), newCircuitBreaker("test"), getRequest(srv.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoRequest_NoClient(t *testing.T) {
	_, err := doRequest(context.Background(), nil, newCircuitBreaker("test"), getRequest("http://example.invalid"))
	require.ErrorIs(t, err, errNoHTTPClient)
}

func TestDoRequest_ServerErrorsTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := newCircuitBreaker("test")
	for i := 0; i < 6; i++ {
		_, err := doRequest(context.Background(), srv.Client(), cb, getRequest(srv.URL))
		require.ErrorIs(t, err, errServerError)
	}

	_, err := doRequest(context.Background(), srv.Client(), cb, getRequest(srv.URL))
	require.ErrorIs(t, err, errCircuitOpen)
	assert.Equal(t, int32(6), hits.Load(), "an open breaker must not reach the server")
}

func TestDoRequest_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := doRequest(context.Background(), srv.Client(), newCircuitBreaker("test"), getRequest(srv.URL))
	require.ErrorIs(t, err, errRateLimited)
}

func TestDoRequest_ClientStatusDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Bad API Request:Invalid location parameter value."))
	}))
	defer srv.Close()

	cb := newCircuitBreaker("test")
	for i := 0; i < 10; i++ {
		_, err := doRequest(context.Background(), srv.Client(), cb, getRequest(srv.URL))
		require.ErrorIs(t, err, errClientStatus)
		assert.Contains(t, err.Error(), "Invalid location")
	}
	assert.Equal(t, int32(10), hits.Load())
}

func TestDoRequest_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := doRequest(ctx, srv.Client(), newCircuitBreaker("test"), getRequest(srv.URL))
	require.ErrorIs(t, err, context.Canceled)
}
