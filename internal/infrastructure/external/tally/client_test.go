package tally

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

// MockHTTPClient for testing transport failures
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
	calls  int32
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.DoFunc(req)
}

func newTestClient(endpoint string) *Client {
	return NewClient(ClientConfig{
		Endpoint:     endpoint,
		Timeout:      2 * time.Second,
		RetryBackoff: time.Millisecond,
	}, zap.NewNop())
}

func TestClient_PostSuccess(t *testing.T) {
	var gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte("<ENVELOPE/>"))
	}))
	defer server.Close()

	data, err := newTestClient(server.URL).Post(context.Background(), "<ENVELOPE>req</ENVELOPE>")

	require.NoError(t, err)
	assert.Equal(t, "<ENVELOPE/>", string(data))
	assert.True(t, strings.HasPrefix(gotContentType, "text/xml"))
	assert.Equal(t, "<ENVELOPE>req</ENVELOPE>", gotBody)
}

func TestClient_RetriesOnceOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<OK/>"))
	}))
	defer server.Close()

	data, err := newTestClient(server.URL).Post(context.Background(), "<X/>")

	require.NoError(t, err)
	assert.Equal(t, "<OK/>", string(data))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"bad request is not retried", http.StatusBadRequest, 1},
		{"not found is not retried", http.StatusNotFound, 1},
		{"server error is retried once", http.StatusInternalServerError, 2},
		{"rate limited is retried once", http.StatusTooManyRequests, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Post(context.Background(), "<X/>")

			var netErr *ledger.NetworkError
			require.ErrorAs(t, err, &netErr)
			assert.Equal(t, tt.status, netErr.StatusCode)
			assert.Equal(t, server.URL, netErr.Endpoint)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	mock := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		},
	}
	client := newTestClient("http://localhost:9000")
	client.SetHTTPClient(mock)

	_, err := client.Post(context.Background(), "<X/>")

	var netErr *ledger.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, 0, netErr.StatusCode)
	assert.Equal(t, 2, netErr.Attempts)
	assert.Contains(t, netErr.Error(), "connection refused")
	assert.Equal(t, int32(2), atomic.LoadInt32(&mock.calls))
}

func TestClient_CanceledContextIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			cancel()
			return nil, context.Canceled
		},
	}
	client := newTestClient("http://localhost:9000")
	client.SetHTTPClient(mock)

	_, err := client.Post(ctx, "<X/>")

	assert.True(t, ledger.IsNetworkError(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&mock.calls))
}

func TestClient_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<OK/>"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{Endpoint: server.URL, RatePerSecond: 20, Burst: 1}, zap.NewNop())

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Post(context.Background(), "<X/>")
		require.NoError(t, err)
	}
	// burst of one: the second and third requests wait ~50ms each
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}
