package helpers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(maxRetries int) *Client {
	// No politeness delay, no jitter and no backoff sleeps so tests run fast
	c := NewClient(5*time.Second, 0, 0, maxRetries)
	c.backoff = func(attempt, max int) (bool, time.Duration) {
		retry, _ := RetryPolicy(attempt, max)
		return retry, 0
	}
	return c
}

func TestFetchSetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Hello, World!</body></html>"))
	}))
	defer server.Close()

	reader, err := newTestClient(3).Fetch(server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Hello, World!")
}

func TestFetchConvertsNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<html><body>Hello, World!</body></html>"))
	}))
	defer server.Close()

	reader, err := newTestClient(3).Fetch(server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Hello, World!")
}

func TestFetchRetriesUntilBudgetExhausted(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(3).Fetch(server.URL)
	assert.Error(t, err)
	// 1 initial attempt + 3 retries
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
	assert.Contains(t, err.Error(), server.URL)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestFetchRecoversAfterTransientFailure(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	reader, err := newTestClient(3).Fetch(server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ok")
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := newTestClient(0).Fetch("http://invalid.url.that.does.not.exist")
	assert.Error(t, err)
}

func TestRetryPolicy(t *testing.T) {
	cases := []struct {
		attempt    int
		maxRetries int
		wantRetry  bool
		wantDelay  time.Duration
	}{
		{0, 3, true, 1 * time.Second},
		{1, 3, true, 2 * time.Second},
		{2, 3, true, 4 * time.Second},
		{3, 3, false, 0},
		{0, 0, false, 0},
	}

	for _, tc := range cases {
		retry, delay := RetryPolicy(tc.attempt, tc.maxRetries)
		assert.Equal(t, tc.wantRetry, retry, "attempt %d/%d", tc.attempt, tc.maxRetries)
		assert.Equal(t, tc.wantDelay, delay, "attempt %d/%d", tc.attempt, tc.maxRetries)
	}
}
