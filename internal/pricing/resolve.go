package pricing

import (
	"context"
	"fmt"
	"strings"

	"Monad-MCP/internal/directory"
	xerrors "Monad-MCP/internal/errors"
)

// ResolveTokenAddress turns a token identifier into a canonical on-chain
// address through a three-tier lookup:
//
//  1. An identifier that is already address-shaped is returned unchanged,
//     without any network call.
//  2. The native alias (case-insensitive) maps to the zero-address
//     sentinel, also without a network call.
//  3. Otherwise the verified category is searched for an exact
//     case-insensitive symbol match; verified tokens are trusted, so a hit
//     there wins outright. Failing that a free-text search runs, where an
//     exact case-insensitive symbol match is preferred and otherwise the
//     first result in upstream order is taken. Symbols are not unique
//     across all tokens, so that last tie-break is a deliberate policy,
//     not a guarantee of picking "the" token.
//
// All tiers exhausted yields a TOKEN_NOT_FOUND error.
func (c *Client) ResolveTokenAddress(ctx context.Context, identifier string) (string, error) {
	if c.profile.IsAddressShaped(identifier) {
		return identifier, nil
	}
	if c.profile.IsNativeAlias(identifier) {
		return c.profile.NativeAddress(), nil
	}

	verified, err := c.tokens.GetTokensByCategory(ctx, directory.CategoryVerified, directory.CategoryFilter{})
	if err != nil {
		return "", err
	}
	if address := exactSymbolMatch(verified, identifier); address != "" {
		return address, nil
	}

	found, err := c.tokens.GetTokens(ctx, directory.TokenFilter{Find: identifier})
	if err != nil {
		return "", err
	}
	if address := exactSymbolMatch(found, identifier); address != "" {
		return address, nil
	}
	if len(found) > 0 && found[0].Address != "" {
		return found[0].Address, nil
	}

	return "", xerrors.New(xerrors.CodeTokenNotFound,
		fmt.Sprintf("no token matches %q", identifier))
}

func exactSymbolMatch(results []directory.TokenResult, symbol string) string {
	for _, result := range results {
		if strings.EqualFold(result.Symbol, symbol) && result.Address != "" {
			return result.Address
		}
	}
	return ""
}
