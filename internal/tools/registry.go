package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"Monad-MCP/internal/directory"
	"Monad-MCP/internal/pricing"
)

// Tool definitions for the Monad MCP server.
// Descriptions are what the calling agent reads to decide which tool to
// use, so they carry usage and safety guidance alongside the mechanics.

var toolGetToken = mcp.NewTool("get_token",
	mcp.WithDescription(
		"Get detailed metadata for a token on Monad by its contract address: "+
			"name, symbol, decimals, and category tags."),
	mcp.WithString("contractAddress",
		mcp.Required(),
		mcp.Description("The token's contract address (e.g. '0x1234...')")),
)

var toolGetTokens = mcp.NewTool("get_tokens",
	mcp.WithDescription(
		"List tokens available on Monad, or search them with a free-text query. "+
			"Results include metadata and, when scoped to a wallet, balances."),
	mcp.WithString("find",
		mcp.Description("Free-text search matching partial token names or symbols (e.g. 'USD')")),
	mcp.WithNumber("offset",
		mcp.Description("Pagination offset, passed to the directory service as-is (default 0)")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of tokens to return, passed to the directory service as-is (default 100)")),
)

var toolGetTokensByCategory = mcp.NewTool("get_tokens_by_category",
	mcp.WithDescription(
		"List tokens in a specific category on Monad. "+
			"'verified' is the preferred, curated set; confirm with the user before "+
			"querying other categories, whose listings are not vetted. "+
			"The 'wallet' category lists a specific holder's tokens and requires the address argument."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Category to filter by"),
		mcp.Enum(directory.CategoryWallet, directory.CategoryVerified, directory.CategoryStable,
			directory.CategoryLST, directory.CategoryBridged, directory.CategoryMeme)),
	mcp.WithString("address",
		mcp.Description("Wallet address; required when category is 'wallet'")),
	mcp.WithNumber("offset",
		mcp.Description("Pagination offset, passed to the directory service as-is (default 0)")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of tokens to return, passed to the directory service as-is (default 100)")),
)

var toolGetTokenCount = mcp.NewTool("get_token_count",
	mcp.WithDescription("Get the total number of tokens the Monad directory knows about."),
)

var toolGetWalletBalances = mcp.NewTool("get_wallet_balances",
	mcp.WithDescription(
		"Get all token balances held by a wallet on Monad, including the native MON balance."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("The wallet address to look up (e.g. '0x1234...')")),
)

var toolGetQuote = mcp.NewTool("get_quote",
	mcp.WithDescription(
		"Get a swap quote between two tokens on Monad, with routing across multiple exchanges. "+
			"Returns transaction-ready data but never signs or submits anything. "+
			"Warn the user before proceeding if the quoted price impact exceeds 20%."),
	mcp.WithString("amount",
		mcp.Required(),
		mcp.Description("Amount to swap in human units (e.g. '1.5'); a plain number is also accepted")),
	mcp.WithString("from",
		mcp.Required(),
		mcp.Description("Token to sell: a contract address, a symbol (e.g. 'USDC'), or 'MON' for the native token")),
	mcp.WithString("to",
		mcp.Required(),
		mcp.Description("Token to buy: a contract address, a symbol, or 'MON' for the native token")),
	mcp.WithString("sender",
		mcp.Description("Address that will execute the swap; include it to receive executable transaction data")),
	mcp.WithNumber("slippage_bps",
		mcp.Description("Maximum slippage in basis points (e.g. 50 = 0.5%)")),
	mcp.WithNumber("deadline_seconds",
		mcp.Description("Seconds until the quoted transaction expires")),
	mcp.WithNumber("max_hops",
		mcp.Description("Maximum number of routing hops, between 1 and 5"),
		mcp.Min(1),
		mcp.Max(5)),
	mcp.WithString("excluded_protocols",
		mcp.Description("Comma-separated protocol names to exclude from routing")),
	mcp.WithString("source",
		mcp.Description("Ignored; quote requests are always attributed to this server")),
)

// DirectoryAPI is the token directory surface the tools call.
type DirectoryAPI interface {
	GetToken(ctx context.Context, address string) (*directory.TokenDetails, error)
	GetTokens(ctx context.Context, filter directory.TokenFilter) ([]directory.TokenResult, error)
	GetTokensByCategory(ctx context.Context, category string, filter directory.CategoryFilter) ([]directory.TokenResult, error)
	GetTokenCount(ctx context.Context) (int64, error)
	GetWalletBalances(ctx context.Context, address string) ([]directory.TokenBalance, error)
}

// QuoteAPI is the pricing surface the tools call.
type QuoteAPI interface {
	GetQuote(ctx context.Context, req pricing.QuoteRequest) (pricing.QuoteResult, error)
}

// Handler executes one tool invocation and returns the value to serialize
// into the response envelope.
type Handler func(ctx context.Context, req mcp.CallToolRequest) (any, error)

// Registry is the process-wide table of exposed tools. It is built once at
// startup and read-only afterwards.
type Registry struct {
	defs     []mcp.Tool
	handlers map[string]Handler
}

// NewRegistry binds the six tool declarations to their handlers.
func NewRegistry(dir DirectoryAPI, quotes QuoteAPI) *Registry {
	h := &handlers{dir: dir, quotes: quotes}
	r := &Registry{handlers: make(map[string]Handler)}
	r.add(toolGetToken, h.getToken)
	r.add(toolGetTokens, h.getTokens)
	r.add(toolGetTokensByCategory, h.getTokensByCategory)
	r.add(toolGetTokenCount, h.getTokenCount)
	r.add(toolGetWalletBalances, h.getWalletBalances)
	r.add(toolGetQuote, h.getQuote)
	return r
}

func (r *Registry) add(def mcp.Tool, handler Handler) {
	r.defs = append(r.defs, def)
	r.handlers[def.Name] = handler
}

// Tools returns the tool declarations in registration order.
func (r *Registry) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
