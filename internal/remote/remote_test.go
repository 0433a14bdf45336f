package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {

	t.Run("should decode a successful JSON response", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"Spring 2026","count":3}`))
		}))
		defer server.Close()

		var out struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}

		// when
		err := GetJSON(context.Background(), server.Client(), server.URL, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Spring 2026", out.Name)
		assert.Equal(t, 3, out.Count)
	})

	t.Run("should classify a non-OK status as a transport failure", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		var out map[string]any

		// when
		err := GetJSON(context.Background(), server.Client(), server.URL, &out)

		// then
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("should classify an unreachable host as a transport failure", func(t *testing.T) {
		// given: a server that is already gone
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		var out map[string]any

		// when
		err := GetJSON(context.Background(), NewHTTPClient(time.Second), url, &out)

		// then
		assert.ErrorIs(t, err, ErrTransport)
	})

	t.Run("should classify an undecodable body as a parse failure", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>not json</html>`))
		}))
		defer server.Close()

		var out map[string]any

		// when
		err := GetJSON(context.Background(), server.Client(), server.URL, &out)

		// then
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("should respect context cancellation", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		var out map[string]any

		// when
		err := GetJSON(ctx, server.Client(), server.URL, &out)

		// then
		assert.ErrorIs(t, err, ErrTransport)
	})
}
