package jsonrpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	transporthttp "github.com/gabapcia/insightwatch/internal/pkg/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, opts ...Option) *client {
	httpClient := transporthttp.NewClient(
		transporthttp.WithTimeout(time.Second),
		transporthttp.WithRetryMax(0),
	)
	return NewClient(httpClient, url, opts...)
}

func TestResponse_Err(t *testing.T) {
	t.Run("returns nil when Error field is nil", func(t *testing.T) {
		resp := response{JsonRPC: "1.0"}
		assert.NoError(t, resp.Err())
	})

	t.Run("returns formatted error when Error field is present", func(t *testing.T) {
		resp := response{
			Error: &struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}{
				Code:    -5,
				Message: "Block not found",
			},
		}

		err := resp.Err()

		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Contains(t, err.Error(), fmt.Sprintf("[%d]", -5))
		assert.Contains(t, err.Error(), "Block not found")
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("successful response with result", func(t *testing.T) {
		expected := map[string]any{"hash": "25c99722"}
		var received map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result": expected,
				"error":  nil,
				"id":     received["id"],
			})
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "getblock", "25c99722", 1)
		require.NoError(t, err)

		var actual map[string]any
		require.NoError(t, json.Unmarshal(result, &actual))
		assert.Equal(t, expected, actual)

		assert.Equal(t, "getblock", received["method"])
		assert.Equal(t, []any{"25c99722", float64(1)}, received["params"])
		assert.NotEmpty(t, received["id"])
	})

	t.Run("no params are sent as an empty array", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			_ = json.NewEncoder(w).Encode(map[string]any{"result": 145})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Fetch(t.Context(), "getblockcount")
		require.NoError(t, err)
		assert.Equal(t, []any{}, received["params"])
	})

	t.Run("node error carried by a 500 answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result": nil,
				"error":  map[string]any{"code": -5, "message": "Block not found"},
			})
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "getblock", "00")
		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "Block not found")
	})

	t.Run("non json answer with an error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "getblock")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "401")
		assert.Nil(t, result)
	})

	t.Run("malformed JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("this is not json"))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "bad_json")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("basic auth credentials are sent", func(t *testing.T) {
		var user, pass string
		var ok bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok = r.BasicAuth()
			_ = json.NewEncoder(w).Encode(map[string]any{"result": true})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, WithBasicAuth("rpcuser", "rpcpass")).Fetch(t.Context(), "ping")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "rpcuser", user)
		assert.Equal(t, "rpcpass", pass)
	})

	t.Run("network error when server is down", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		result, err := newTestClient(server.URL).Fetch(t.Context(), "network_failure")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestNewClient(t *testing.T) {
	httpClient := transporthttp.NewClient()
	c := NewClient(httpClient, "http://localhost:8332", WithBasicAuth("u", "p"))

	assert.Equal(t, "http://localhost:8332", c.providerEndpoint)
	assert.Same(t, httpClient, c.httpClient)
	assert.Equal(t, "u", c.cfg.username)
	assert.Equal(t, "p", c.cfg.password)
}
