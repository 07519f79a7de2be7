package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// handlers routes decoded tool arguments to the remote clients. Every
// method follows the same shape: decode, delegate, hand the value back for
// serialization at the dispatch boundary.
type handlers struct {
	dir    DirectoryAPI
	quotes QuoteAPI
}

func (h *handlers) getToken(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	args, err := decodeGetTokenArgs(req)
	if err != nil {
		return nil, err
	}
	return h.dir.GetToken(ctx, args.ContractAddress)
}

func (h *handlers) getTokens(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	args, err := decodeGetTokensArgs(req)
	if err != nil {
		return nil, err
	}
	return h.dir.GetTokens(ctx, args.Filter)
}

func (h *handlers) getTokensByCategory(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	args, err := decodeGetTokensByCategoryArgs(req)
	if err != nil {
		return nil, err
	}
	return h.dir.GetTokensByCategory(ctx, args.Category, args.Filter)
}

func (h *handlers) getTokenCount(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	count, err := h.dir.GetTokenCount(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{"count": count}, nil
}

func (h *handlers) getWalletBalances(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	args, err := decodeGetWalletBalancesArgs(req)
	if err != nil {
		return nil, err
	}
	return h.dir.GetWalletBalances(ctx, args.Address)
}

func (h *handlers) getQuote(ctx context.Context, req mcp.CallToolRequest) (any, error) {
	args, err := decodeGetQuoteArgs(req)
	if err != nil {
		return nil, err
	}
	return h.quotes.GetQuote(ctx, args.Request)
}
