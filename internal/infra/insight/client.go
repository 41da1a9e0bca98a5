// Package insight fetches block and transaction details from the Insight REST API.
package insight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gabapcia/insightwatch/internal/message"
	"github.com/gabapcia/insightwatch/internal/subscription"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatus is returned for any non-2xx answer.
var ErrUnexpectedStatus = errors.New("unexpected http status")

// maxErrorBody bounds how much of an error answer ends up in the error message.
const maxErrorBody = 512

// client implements subscription.DetailFetcher over the Insight REST API.
type client struct {
	apiURL     string
	httpClient *retryablehttp.Client
}

var _ subscription.DetailFetcher = (*client)(nil)

// NewClient returns a DetailFetcher for the API rooted at apiURL (see Endpoints.API).
func NewClient(httpClient *retryablehttp.Client, apiURL string) *client {
	return &client{
		apiURL:     apiURL,
		httpClient: httpClient,
	}
}

// FetchBlock issues GET block/<hash>.
func (c *client) FetchBlock(ctx context.Context, hash string) (message.BlockDetail, error) {
	data, err := c.get(ctx, "block", hash)
	if err != nil {
		return message.BlockDetail{}, err
	}

	return message.ParseBlockDetail(data)
}

// FetchTransaction issues GET tx/<txid>.
func (c *client) FetchTransaction(ctx context.Context, txid string) (message.TransactionDetail, error) {
	data, err := c.get(ctx, "tx", txid)
	if err != nil {
		return message.TransactionDetail{}, err
	}

	return message.ParseTransactionDetail(data)
}

func (c *client) get(ctx context.Context, elem ...string) ([]byte, error) {
	endpoint, err := url.JoinPath(c.apiURL, elem...)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: GET %s: %d %s", ErrUnexpectedStatus, endpoint, res.StatusCode, bytes.TrimSpace(body))
	}

	return body, nil
}
