package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"Monad-MCP/internal/directory"
	xerrors "Monad-MCP/internal/errors"
	"Monad-MCP/internal/pricing"
)

type fakeDirectory struct {
	token    *directory.TokenDetails
	tokens   []directory.TokenResult
	count    int64
	balances []directory.TokenBalance
	err      error

	calls int
}

func (f *fakeDirectory) GetToken(ctx context.Context, address string) (*directory.TokenDetails, error) {
	f.calls++
	return f.token, f.err
}

func (f *fakeDirectory) GetTokens(ctx context.Context, filter directory.TokenFilter) ([]directory.TokenResult, error) {
	f.calls++
	return f.tokens, f.err
}

func (f *fakeDirectory) GetTokensByCategory(ctx context.Context, category string, filter directory.CategoryFilter) ([]directory.TokenResult, error) {
	f.calls++
	return f.tokens, f.err
}

func (f *fakeDirectory) GetTokenCount(ctx context.Context) (int64, error) {
	f.calls++
	return f.count, f.err
}

func (f *fakeDirectory) GetWalletBalances(ctx context.Context, address string) ([]directory.TokenBalance, error) {
	f.calls++
	return f.balances, f.err
}

type fakeQuotes struct {
	result   pricing.QuoteResult
	err      error
	captured *pricing.QuoteRequest

	calls int
}

func (f *fakeQuotes) GetQuote(ctx context.Context, req pricing.QuoteRequest) (pricing.QuoteResult, error) {
	f.calls++
	f.captured = &req
	return f.result, f.err
}

func newTestDispatcher(dir DirectoryAPI, quotes QuoteAPI) *Dispatcher {
	return NewDispatcher(NewRegistry(dir, quotes))
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected a single content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestListDeclaresSixTools(t *testing.T) {
	d := newTestDispatcher(&fakeDirectory{}, &fakeQuotes{})

	tools := d.List()
	if len(tools) != 6 {
		t.Fatalf("expected 6 tools, got %d", len(tools))
	}

	names := make(map[string]mcp.Tool, len(tools))
	for _, tool := range tools {
		names[tool.Name] = tool
	}
	for _, expected := range []string{
		"get_token", "get_tokens", "get_tokens_by_category",
		"get_token_count", "get_wallet_balances", "get_quote",
	} {
		if _, ok := names[expected]; !ok {
			t.Fatalf("missing tool %s", expected)
		}
	}

	if got := names["get_token"].InputSchema.Required; len(got) != 1 || got[0] != "contractAddress" {
		t.Fatalf("unexpected get_token required fields: %v", got)
	}
	quoteRequired := names["get_quote"].InputSchema.Required
	if len(quoteRequired) != 3 {
		t.Fatalf("unexpected get_quote required fields: %v", quoteRequired)
	}
}

func TestCallUnknownToolReturnsErrorEnvelope(t *testing.T) {
	dir := &fakeDirectory{}
	d := newTestDispatcher(dir, &fakeQuotes{})

	result := d.Call(context.Background(), "no_such_tool", callRequest("no_such_tool", nil))
	if !result.IsError {
		t.Fatal("expected error envelope")
	}
	text := resultText(t, result)
	if !strings.Contains(text, string(xerrors.CodeUnknownTool)) || !strings.Contains(text, "no_such_tool") {
		t.Fatalf("unexpected error text: %q", text)
	}
	if dir.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", dir.calls)
	}
}

func TestCallGetTokenSerializesResult(t *testing.T) {
	dir := &fakeDirectory{token: &directory.TokenDetails{
		Address:    "0xabc",
		Categories: []string{"verified"},
		Decimals:   "18",
		Name:       "Wrapped Ether",
		Symbol:     "WETH",
	}}
	d := newTestDispatcher(dir, &fakeQuotes{})

	result := d.Call(context.Background(), "get_token",
		callRequest("get_token", map[string]any{"contractAddress": "0xabc"}))
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}

	var decoded directory.TokenDetails
	if err := json.Unmarshal([]byte(resultText(t, result)), &decoded); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if decoded.Symbol != "WETH" || decoded.Decimals != "18" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestCallMissingArgumentSkipsUpstream(t *testing.T) {
	dir := &fakeDirectory{}
	d := newTestDispatcher(dir, &fakeQuotes{})

	result := d.Call(context.Background(), "get_token", callRequest("get_token", nil))
	if !result.IsError {
		t.Fatal("expected error envelope")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "get_token") || !strings.Contains(text, "contractAddress") {
		t.Fatalf("expected tool and argument named, got %q", text)
	}
	if dir.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", dir.calls)
	}
}

func TestCallRejectsUnknownCategory(t *testing.T) {
	dir := &fakeDirectory{}
	d := newTestDispatcher(dir, &fakeQuotes{})

	result := d.Call(context.Background(), "get_tokens_by_category",
		callRequest("get_tokens_by_category", map[string]any{"category": "trending"}))
	if !result.IsError {
		t.Fatal("expected error envelope")
	}
	text := resultText(t, result)
	if !strings.Contains(text, string(xerrors.CodeInvalidArgument)) || !strings.Contains(text, "category") {
		t.Fatalf("unexpected error text: %q", text)
	}
	if dir.calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", dir.calls)
	}
}

func TestCallRejectsMaxHopsOutOfRange(t *testing.T) {
	quotes := &fakeQuotes{}
	d := newTestDispatcher(&fakeDirectory{}, quotes)

	result := d.Call(context.Background(), "get_quote",
		callRequest("get_quote", map[string]any{
			"amount":   "1",
			"from":     "USDC",
			"to":       "MON",
			"max_hops": float64(9),
		}))
	if !result.IsError {
		t.Fatal("expected error envelope")
	}
	if !strings.Contains(resultText(t, result), "max_hops") {
		t.Fatalf("expected max_hops named, got %q", resultText(t, result))
	}
	if quotes.calls != 0 {
		t.Fatalf("expected no quote calls, got %d", quotes.calls)
	}
}

func TestCallQuoteForwardsDecodedArguments(t *testing.T) {
	quotes := &fakeQuotes{result: pricing.QuoteResult(`{"output":"42"}`)}
	d := newTestDispatcher(&fakeDirectory{}, quotes)

	result := d.Call(context.Background(), "get_quote",
		callRequest("get_quote", map[string]any{
			"amount":       float64(1.5),
			"from":         "USDC",
			"to":           "MON",
			"slippage_bps": float64(50),
			"source":       "someone-else",
		}))
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}

	if quotes.captured == nil {
		t.Fatal("expected quote request")
	}
	req := *quotes.captured
	if req.Amount != "1.5" || req.From != "USDC" || req.To != "MON" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.SlippageBps == nil || *req.SlippageBps != 50 {
		t.Fatalf("expected slippage 50, got %+v", req.SlippageBps)
	}
	// Caller-supplied source is carried along; the pricing client
	// overrides it on the wire.
	if req.Source != "someone-else" {
		t.Fatalf("unexpected source: %q", req.Source)
	}
}

func TestCallTokenCountWrapsValue(t *testing.T) {
	d := newTestDispatcher(&fakeDirectory{count: 4321}, &fakeQuotes{})

	result := d.Call(context.Background(), "get_token_count",
		callRequest("get_token_count", nil))
	if result.IsError {
		t.Fatalf("unexpected error envelope: %s", resultText(t, result))
	}

	var decoded struct {
		Count int64 `json:"count"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &decoded); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if decoded.Count != 4321 {
		t.Fatalf("expected 4321, got %d", decoded.Count)
	}
}

func TestCallUpstreamFailureBecomesErrorEnvelope(t *testing.T) {
	dir := &fakeDirectory{err: xerrors.New(xerrors.CodeUpstreamFailure, "directory service returned status 503")}
	d := newTestDispatcher(dir, &fakeQuotes{})

	result := d.Call(context.Background(), "get_wallet_balances",
		callRequest("get_wallet_balances", map[string]any{"address": "0xholder"}))
	if !result.IsError {
		t.Fatal("expected error envelope")
	}
	text := resultText(t, result)
	if !strings.Contains(text, string(xerrors.CodeUpstreamFailure)) || !strings.Contains(text, "503") {
		t.Fatalf("unexpected error text: %q", text)
	}
}
