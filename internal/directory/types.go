package directory

import (
	"encoding/json"
	"strings"
)

// Categories the directory service recognises. "wallet" scopes results to a
// specific holder and only yields meaningful data when an address
// accompanies it.
const (
	CategoryWallet   = "wallet"
	CategoryVerified = "verified"
	CategoryStable   = "stable"
	CategoryLST      = "lst"
	CategoryBridged  = "bridged"
	CategoryMeme     = "meme"
)

// Categories returns the closed set of category tags in a stable order.
func Categories() []string {
	return []string{
		CategoryWallet,
		CategoryVerified,
		CategoryStable,
		CategoryLST,
		CategoryBridged,
		CategoryMeme,
	}
}

// Numeric preserves a numeric field exactly as the directory service sent
// it. The service emits some quantities as JSON numbers and others as
// numeric strings (balances and, on some endpoints, decimals); coercing
// them on this side would silently lose that distinction, so the raw text
// is kept and re-serialized as a string.
type Numeric string

// UnmarshalJSON accepts both JSON numbers and quoted numeric strings.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	*n = Numeric(trimmed)
	return nil
}

// MarshalJSON always renders the value as a string.
func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// TokenDetails is the directory service's record for a single token.
type TokenDetails struct {
	Address    string   `json:"address"`
	Categories []string `json:"categories"`
	Decimals   Numeric  `json:"decimals"`
	Name       string   `json:"name"`
	Symbol     string   `json:"symbol"`
}

// TokenBalance extends TokenDetails with the amount a wallet holds,
// expressed as a decimal string in human units.
type TokenBalance struct {
	TokenDetails
	Balance Numeric `json:"balance"`
}

// TokenResult is the shape returned by the list and search endpoints:
// token metadata plus a balance and a wallet-relative identifier.
type TokenResult struct {
	TokenBalance
	ID string `json:"id,omitempty"`
}

// TokenFilter narrows GetTokens results. Find is a free-text partial match
// on name or symbol. Offset and Limit are handed to the service verbatim;
// the directory is authoritative for pagination bounds.
type TokenFilter struct {
	Find   string
	Offset string
	Limit  string
}

// CategoryFilter narrows GetTokensByCategory results. Address is required
// by the wallet category for the result to mean anything; the client does
// not enforce that, it is the caller's precondition.
type CategoryFilter struct {
	Address string
	Offset  string
	Limit   string
}
