package chain

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Profile describes the network the token tools operate against.
type Profile struct {
	Name          string `yaml:"name"`
	ChainID       uint64 `yaml:"chain_id"`
	NativeSymbol  string `yaml:"native_symbol"`
	AddressPrefix string `yaml:"address_prefix"`
	AddressLength int    `yaml:"address_length"`
}

// MonadTestnet returns the profile used when no profile file is configured.
func MonadTestnet() Profile {
	return Profile{
		Name:          "monad-testnet",
		ChainID:       10143,
		NativeSymbol:  "MON",
		AddressPrefix: "0x",
		AddressLength: common.AddressLength*2 + 2,
	}
}

// LoadProfile parses the YAML file describing the target chain. An empty
// path yields the built-in Monad testnet profile.
func LoadProfile(path string) (Profile, error) {
	if strings.TrimSpace(path) == "" {
		return MonadTestnet(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("读取链配置失败: %w", err)
	}

	profile := MonadTestnet()
	if err := yaml.Unmarshal(content, &profile); err != nil {
		return Profile{}, fmt.Errorf("解析链配置失败: %w", err)
	}
	return profile, nil
}

// IsAddressShaped reports whether identifier already looks like an on-chain
// address: it carries the canonical prefix and is at least the canonical
// length. No checksum validation happens here; address-shaped identifiers
// are passed through untouched.
func (p Profile) IsAddressShaped(identifier string) bool {
	return strings.HasPrefix(identifier, p.AddressPrefix) && len(identifier) >= p.AddressLength
}

// IsNativeAlias reports whether identifier names the chain's native asset.
// Matching is case-insensitive: "mon", "MON" and "Mon" all qualify.
func (p Profile) IsNativeAlias(identifier string) bool {
	return strings.EqualFold(identifier, p.NativeSymbol)
}

// NativeAddress returns the sentinel address standing in for the native
// asset, which has no contract of its own. Both upstream services use the
// zero address for this purpose.
func (p Profile) NativeAddress() string {
	return strings.ToLower(common.Address{}.Hex())
}
