package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	xerrors "Monad-MCP/internal/errors"
)

// DefaultHTTPTimeout defines the timeout used by clients created without a
// custom http.Client. It is intentionally short to avoid hanging network
// calls inside a tool invocation.
const DefaultHTTPTimeout = 15 * time.Second

// Client wraps the HTTP interactions with the token directory REST API.
// All operations are independent, idempotent reads.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient instantiates a client for the directory service. When
// httpClient is nil, a default client with a sensible timeout is used.
func NewClient(rawURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid directory base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// GetToken fetches the metadata record for a single token address.
func (c *Client) GetToken(ctx context.Context, address string) (*TokenDetails, error) {
	var details TokenDetails
	endpoint := "/v1/token/" + url.PathEscape(address)
	if err := c.get(ctx, endpoint, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetTokens lists or searches tokens. A zero-valued filter lists the
// service's default page.
func (c *Client) GetTokens(ctx context.Context, filter TokenFilter) ([]TokenResult, error) {
	query := url.Values{}
	if filter.Find != "" {
		query.Set("find", filter.Find)
	}
	if filter.Offset != "" {
		query.Set("offset", filter.Offset)
	}
	if filter.Limit != "" {
		query.Set("limit", filter.Limit)
	}

	var results []TokenResult
	if err := c.get(ctx, "/v1/tokens", query, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetTokensByCategory lists tokens carrying the given category tag. For the
// wallet category the filter's Address selects whose holdings are listed;
// passing none is not an error here, the service simply has nothing useful
// to scope the query to.
func (c *Client) GetTokensByCategory(ctx context.Context, category string, filter CategoryFilter) ([]TokenResult, error) {
	query := url.Values{}
	if filter.Address != "" {
		query.Set("address", filter.Address)
	}
	if filter.Offset != "" {
		query.Set("offset", filter.Offset)
	}
	if filter.Limit != "" {
		query.Set("limit", filter.Limit)
	}

	var results []TokenResult
	endpoint := "/v1/tokens/category/" + url.PathEscape(category)
	if err := c.get(ctx, endpoint, query, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetTokenCount returns the total number of tokens the directory knows
// about. The service has emitted both a bare number and a wrapped object
// over time, so both shapes are accepted.
func (c *Client) GetTokenCount(ctx context.Context) (int64, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/v1/tokens/count", nil, &raw); err != nil {
		return 0, err
	}

	var count int64
	if err := json.Unmarshal(raw, &count); err == nil {
		return count, nil
	}
	var wrapped struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Count, nil
	}
	return 0, xerrors.New(xerrors.CodeUpstreamFailure, "directory token count is not numeric")
}

// GetWalletBalances fetches all token balances held by a wallet address.
func (c *Client) GetWalletBalances(ctx context.Context, address string) ([]TokenBalance, error) {
	var balances []TokenBalance
	endpoint := "/v1/wallet/" + url.PathEscape(address) + "/balances"
	if err := c.get(ctx, endpoint, nil, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, endpoint)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeTransportFailure, err, "create directory request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeTransportFailure, err, "directory request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return xerrors.Wrap(xerrors.CodeTransportFailure, err, "read directory response")
	}

	if resp.StatusCode >= 400 {
		return upstreamError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return xerrors.Wrap(xerrors.CodeUpstreamFailure, err,
			fmt.Sprintf("directory returned a malformed body (status %d)", resp.StatusCode))
	}
	return nil
}

// upstreamError surfaces the service's own message when the body carries
// one, else falls back to the raw body or the HTTP status text.
func upstreamError(status int, body []byte) error {
	message := upstreamMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}
	return xerrors.New(xerrors.CodeUpstreamFailure,
		fmt.Sprintf("directory service returned status %d: %s", status, message))
}

func upstreamMessage(body []byte) string {
	var decoded struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Message != "" {
			return decoded.Message
		}
		if decoded.Error != "" {
			return decoded.Error
		}
	}
	return strings.TrimSpace(string(body))
}
