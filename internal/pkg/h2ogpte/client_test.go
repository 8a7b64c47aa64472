package h2ogpte

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(config.LLM{Address: srv.URL + "/", APIKey: "key-123", Timeout: timeout}, srv.Client())
}

func TestQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/chats/chat-1/completions", r.URL.Path)
		require.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "hello", req.Message)
		require.Equal(t, 120, req.Timeout)

		w.Write([]byte(`{"id": "m1", "body": "Offer the GXS FlexiLoan."}`)) //nolint:errcheck
	}, 120*time.Second)

	reply, err := c.Query(context.Background(), "chat-1", "hello")
	require.NoError(t, err)
	require.Equal(t, "Offer the GXS FlexiLoan.", reply)
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: ErrUnauthorized},
		{name: "unknown chat", status: http.StatusNotFound, want: ErrSessionNotFound},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, want: ErrTimeout},
		{name: "empty reply", status: http.StatusOK, body: `{"body": "  "}`, want: ErrEmptyReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}, time.Second)

			_, err := c.Query(context.Background(), "chat-1", "hello")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQueryAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded")) //nolint:errcheck
	}, time.Second)

	_, err := c.Query(context.Background(), "chat-1", "hello")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "upstream exploded", apiErr.Message)
}

func TestQueryTimeout(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)

	_, err := c.Query(context.Background(), "chat-1", "hello")
	require.ErrorIs(t, err, ErrTimeout)
}
