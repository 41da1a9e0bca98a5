// Package jsonrpc provides a generic JSON-RPC client over HTTP, suitable for Bitcoin Core
// style nodes. Requests go through a retryablehttp.Client, so transport failures and 5xx
// answers without a JSON-RPC body are retried by the HTTP layer.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrProviderReturnedError indicates that the remote JSON-RPC server returned an error response.
	ErrProviderReturnedError = errors.New("provider error")

	// ErrUnexpectedStatus indicates a non-2xx HTTP answer that carried no JSON-RPC error object.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// response represents a JSON-RPC response. Bitcoin Core answers with "jsonrpc": "1.0" or omits it.
type response struct {
	JsonRPC string `json:"jsonrpc"` // protocol version, may be empty
	Error   *struct {
		Code    int    `json:"code"`    // error code defined by the JSON-RPC spec or the node
		Message string `json:"message"` // human-readable error message
	} `json:"error"`
	Result json.RawMessage `json:"result"` // raw result payload returned by the server
}

// Err returns an error if the response includes a JSON-RPC error object.
// It wraps ErrProviderReturnedError with the provided error code and message.
func (r response) Err() error {
	if r.Error == nil {
		return nil
	}

	return fmt.Errorf("%w: [%d] - %s", ErrProviderReturnedError, r.Error.Code, r.Error.Message)
}

// Client defines the interface for a generic JSON-RPC client.
type Client interface {
	// Fetch sends a JSON-RPC request with the given method name and parameters.
	// It returns the raw JSON result or an error if the request or response fails.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// config holds optional client settings.
type config struct {
	username string
	password string
}

// Option configures the client.
type Option func(*config)

// WithBasicAuth sends HTTP basic credentials with every request (bitcoind rpcuser/rpcpassword).
func WithBasicAuth(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// client is the default implementation of the Client interface.
type client struct {
	providerEndpoint string                // URL of the remote JSON-RPC server
	httpClient       *retryablehttp.Client // HTTP client used to perform requests
	cfg              config
}

// Compile-time assertion that client implements the Client interface.
var _ Client = (*client)(nil)

// Fetch sends a JSON-RPC request to the remote server with the given method and parameters.
// The request id is a random UUID.
//
// Bitcoin Core reports RPC failures with HTTP 404/500 and a JSON body; those decode into
// ErrProviderReturnedError. Any other non-2xx answer yields ErrUnexpectedStatus.
func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "1.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.providerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.cfg.username != "" || c.cfg.password != "" {
		req.SetBasicAuth(c.cfg.username, c.cfg.password)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var data response
	if err := json.Unmarshal(raw, &data); err != nil {
		if res.StatusCode < 200 || res.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, res.StatusCode, bytes.TrimSpace(raw))
		}
		return nil, err
	}

	if err := data.Err(); err != nil {
		return nil, err
	}

	return data.Result, nil
}

// NewClient constructs a Client that sends JSON-RPC requests to providerEndpoint through
// httpClient.
func NewClient(httpClient *retryablehttp.Client, providerEndpoint string, opts ...Option) *client {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		providerEndpoint: providerEndpoint,
		httpClient:       httpClient,
		cfg:              cfg,
	}
}
