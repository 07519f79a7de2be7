package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"Monad-MCP/internal/chain"
	"Monad-MCP/internal/directory"
	xerrors "Monad-MCP/internal/errors"
)

// SourceTag is the provenance identifier attached to every outbound quote
// request. It attributes traffic to this server and is never taken from
// caller input.
const SourceTag = "monad-mcp"

// DefaultHTTPTimeout mirrors the directory client's default.
const DefaultHTTPTimeout = 15 * time.Second

// TokenSource is the subset of the directory client the resolver needs.
type TokenSource interface {
	GetTokens(ctx context.Context, filter directory.TokenFilter) ([]directory.TokenResult, error)
	GetTokensByCategory(ctx context.Context, category string, filter directory.CategoryFilter) ([]directory.TokenResult, error)
}

// QuoteRequest carries the caller's swap parameters. Amount is in human
// units; From and To accept an address, a symbol, or the native alias.
// Optional fields are forwarded to the pricing service only when set.
// Source is accepted for shape compatibility but always overwritten with
// SourceTag on the wire.
type QuoteRequest struct {
	Amount            string
	From              string
	To                string
	Sender            string
	SlippageBps       *int64
	DeadlineSeconds   *int64
	MaxHops           *int64
	ExcludedProtocols string
	Source            string
}

// QuoteResult carries the pricing service's response verbatim: routing,
// transaction payload, and price impact fields are the caller's to
// interpret.
type QuoteResult = json.RawMessage

// Client requests swap quotes from the pricing service, resolving
// human-readable token identifiers through the directory first.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	profile    chain.Profile
}

// NewClient instantiates a pricing client. tokens supplies symbol
// resolution; when httpClient is nil a default client with a sensible
// timeout is used.
func NewClient(rawURL string, tokens TokenSource, profile chain.Profile, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid pricing base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
		tokens:     tokens,
		profile:    profile,
	}, nil
}

// GetQuote resolves both token identifiers and requests a swap quote. The
// two resolutions run sequentially so a failure can be attributed to one
// side; either failure short-circuits before any pricing call is made.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (QuoteResult, error) {
	from, err := c.ResolveTokenAddress(ctx, strings.TrimSpace(req.From))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeOf(err), err, fmt.Sprintf("resolve from token %q", req.From))
	}

	to, err := c.ResolveTokenAddress(ctx, strings.TrimSpace(req.To))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeOf(err), err, fmt.Sprintf("resolve to token %q", req.To))
	}

	query := url.Values{}
	query.Set("amount", req.Amount)
	query.Set("from", from)
	query.Set("to", to)
	if req.Sender != "" {
		query.Set("sender", req.Sender)
	}
	if req.SlippageBps != nil {
		query.Set("slippage", strconv.FormatInt(*req.SlippageBps, 10))
	}
	if req.DeadlineSeconds != nil {
		query.Set("deadline", strconv.FormatInt(*req.DeadlineSeconds, 10))
	}
	if req.MaxHops != nil {
		query.Set("max_hops", strconv.FormatInt(*req.MaxHops, 10))
	}
	if req.ExcludedProtocols != "" {
		query.Set("excluded", req.ExcludedProtocols)
	}
	// The provenance tag is forced regardless of req.Source.
	query.Set("source", SourceTag)

	u := *c.baseURL
	u.Path = path.Join(c.baseURL.Path, "/v1/quote")
	u.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "create quote request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "quote request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeTransportFailure, err, "read quote response")
	}

	if resp.StatusCode >= 400 {
		return nil, quoteError(resp.StatusCode, data)
	}

	if !json.Valid(data) {
		return nil, xerrors.New(xerrors.CodeQuoteFailed,
			fmt.Sprintf("pricing service returned a malformed body (status %d)", resp.StatusCode))
	}
	return QuoteResult(data), nil
}

// quoteError surfaces the pricing service's own message when the body is
// structured failure data, else a generic failure with the raw text.
func quoteError(status int, body []byte) error {
	var decoded struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Message != "" {
			message = decoded.Message
		} else if decoded.Error != "" {
			message = decoded.Error
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return xerrors.New(xerrors.CodeQuoteFailed,
		fmt.Sprintf("pricing service returned status %d: %s", status, message))
}
