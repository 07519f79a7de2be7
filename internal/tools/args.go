package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"Monad-MCP/internal/directory"
	xerrors "Monad-MCP/internal/errors"
	"Monad-MCP/internal/pricing"
)

// Each tool's input is an explicit struct with a paired decoder. The
// decoder is the runtime half of the schema declared in registry.go: the
// two live side by side so they cannot drift apart. Decoders fail with
// INVALID_ARGUMENT errors naming the tool and the offending field, and a
// failed decode never reaches the remote clients.

type getTokenArgs struct {
	ContractAddress string
}

func decodeGetTokenArgs(req mcp.CallToolRequest) (getTokenArgs, error) {
	args := req.GetArguments()
	address, err := requireString("get_token", args, "contractAddress")
	if err != nil {
		return getTokenArgs{}, err
	}
	return getTokenArgs{ContractAddress: address}, nil
}

type getTokensArgs struct {
	Filter directory.TokenFilter
}

func decodeGetTokensArgs(req mcp.CallToolRequest) (getTokensArgs, error) {
	const tool = "get_tokens"
	args := req.GetArguments()

	find, err := optionalString(tool, args, "find")
	if err != nil {
		return getTokensArgs{}, err
	}
	offset, err := optionalNumberText(tool, args, "offset")
	if err != nil {
		return getTokensArgs{}, err
	}
	limit, err := optionalNumberText(tool, args, "limit")
	if err != nil {
		return getTokensArgs{}, err
	}

	return getTokensArgs{Filter: directory.TokenFilter{
		Find:   find,
		Offset: offset,
		Limit:  limit,
	}}, nil
}

type getTokensByCategoryArgs struct {
	Category string
	Filter   directory.CategoryFilter
}

func decodeGetTokensByCategoryArgs(req mcp.CallToolRequest) (getTokensByCategoryArgs, error) {
	const tool = "get_tokens_by_category"
	args := req.GetArguments()

	category, err := requireString(tool, args, "category")
	if err != nil {
		return getTokensByCategoryArgs{}, err
	}
	if !knownCategory(category) {
		return getTokensByCategoryArgs{}, invalidArg(tool, "category",
			fmt.Sprintf("must be one of %s", strings.Join(directory.Categories(), ", ")))
	}

	address, err := optionalString(tool, args, "address")
	if err != nil {
		return getTokensByCategoryArgs{}, err
	}
	offset, err := optionalNumberText(tool, args, "offset")
	if err != nil {
		return getTokensByCategoryArgs{}, err
	}
	limit, err := optionalNumberText(tool, args, "limit")
	if err != nil {
		return getTokensByCategoryArgs{}, err
	}

	return getTokensByCategoryArgs{
		Category: category,
		Filter: directory.CategoryFilter{
			Address: address,
			Offset:  offset,
			Limit:   limit,
		},
	}, nil
}

func knownCategory(category string) bool {
	for _, known := range directory.Categories() {
		if category == known {
			return true
		}
	}
	return false
}

type getWalletBalancesArgs struct {
	Address string
}

func decodeGetWalletBalancesArgs(req mcp.CallToolRequest) (getWalletBalancesArgs, error) {
	args := req.GetArguments()
	address, err := requireString("get_wallet_balances", args, "address")
	if err != nil {
		return getWalletBalancesArgs{}, err
	}
	return getWalletBalancesArgs{Address: address}, nil
}

type getQuoteArgs struct {
	Request pricing.QuoteRequest
}

func decodeGetQuoteArgs(req mcp.CallToolRequest) (getQuoteArgs, error) {
	const tool = "get_quote"
	args := req.GetArguments()

	amount, err := amountArg(tool, args)
	if err != nil {
		return getQuoteArgs{}, err
	}
	from, err := requireString(tool, args, "from")
	if err != nil {
		return getQuoteArgs{}, err
	}
	to, err := requireString(tool, args, "to")
	if err != nil {
		return getQuoteArgs{}, err
	}
	sender, err := optionalString(tool, args, "sender")
	if err != nil {
		return getQuoteArgs{}, err
	}
	slippage, err := optionalInt(tool, args, "slippage_bps")
	if err != nil {
		return getQuoteArgs{}, err
	}
	deadline, err := optionalInt(tool, args, "deadline_seconds")
	if err != nil {
		return getQuoteArgs{}, err
	}
	maxHops, err := optionalInt(tool, args, "max_hops")
	if err != nil {
		return getQuoteArgs{}, err
	}
	if maxHops != nil && (*maxHops < 1 || *maxHops > 5) {
		return getQuoteArgs{}, invalidArg(tool, "max_hops", "must be between 1 and 5")
	}
	excluded, err := optionalString(tool, args, "excluded_protocols")
	if err != nil {
		return getQuoteArgs{}, err
	}
	source, err := optionalString(tool, args, "source")
	if err != nil {
		return getQuoteArgs{}, err
	}

	return getQuoteArgs{Request: pricing.QuoteRequest{
		Amount:            amount,
		From:              from,
		To:                to,
		Sender:            sender,
		SlippageBps:       slippage,
		DeadlineSeconds:   deadline,
		MaxHops:           maxHops,
		ExcludedProtocols: excluded,
		Source:            source,
	}}, nil
}

func invalidArg(tool, key, problem string) error {
	return xerrors.New(xerrors.CodeInvalidArgument,
		fmt.Sprintf("%s: argument %q %s", tool, key, problem))
}

func requireString(tool string, args map[string]any, key string) (string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return "", invalidArg(tool, key, "is required")
	}
	s, ok := value.(string)
	if !ok {
		return "", invalidArg(tool, key, "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", invalidArg(tool, key, "must not be empty")
	}
	return s, nil
}

func optionalString(tool string, args map[string]any, key string) (string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", invalidArg(tool, key, "must be a string")
	}
	return s, nil
}

// optionalNumberText stringifies a numeric argument for verbatim
// pass-through; the upstream service is authoritative for its bounds.
func optionalNumberText(tool string, args map[string]any, key string) (string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return "", nil
	}
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	case string:
		return v, nil
	default:
		return "", invalidArg(tool, key, "must be a number")
	}
}

func optionalInt(tool string, args map[string]any, key string) (*int64, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case float64:
		n := int64(v)
		if float64(n) != v {
			return nil, invalidArg(tool, key, "must be an integer")
		}
		return &n, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, invalidArg(tool, key, "must be an integer")
		}
		return &n, nil
	default:
		return nil, invalidArg(tool, key, "must be an integer")
	}
}

// amountArg accepts the swap amount as either a string or a bare number;
// agents routinely send both shapes.
func amountArg(tool string, args map[string]any) (string, error) {
	value, ok := args["amount"]
	if !ok || value == nil {
		return "", invalidArg(tool, "amount", "is required")
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", invalidArg(tool, "amount", "must not be empty")
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", invalidArg(tool, "amount", "must be a string or a number")
	}
}
