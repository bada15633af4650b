package accountmap

import (
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

// yamlMapping is the on-disk shape of a YAMLResolver's config file:
//
//	accounts:
//	  alice.spin: "0x0FF1CE0000000000000000000000000000000001"
//	  bob.spin: "0x0FF1CE0000000000000000000000000000000002"
type yamlMapping struct {
	Accounts map[string]string `yaml:"accounts"`
}

// YAMLResolver loads an AccountId -> address mapping from a YAML file,
// the config-driven alternative to StaticResolver referenced in spec
// Open Question (b): account-mapping policy is a pluggable strategy, not
// a hardcoded production answer.
type YAMLResolver struct {
	mappings map[primitives.AccountId]common.Address
}

// LoadYAMLResolver reads and parses path into a YAMLResolver.
func LoadYAMLResolver(path string) (*YAMLResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, spinerr.Wrap(err, "reading account-mapping config")
	}

	var raw yamlMapping
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, spinerr.Wrap(err, "parsing account-mapping config")
	}

	mappings := make(map[primitives.AccountId]common.Address, len(raw.Accounts))
	for name, addrHex := range raw.Accounts {
		if !common.IsHexAddress(addrHex) {
			return nil, spinerr.Wrapf(spinerr.ErrMalformedRequest, "invalid address %q for account %q", addrHex, name)
		}
		mappings[primitives.NewAccountId(name)] = common.HexToAddress(addrHex)
	}
	return &YAMLResolver{mappings: mappings}, nil
}

// Resolve looks up account in the loaded mapping.
func (r *YAMLResolver) Resolve(account primitives.AccountId) (common.Address, error) {
	addr, ok := r.mappings[account]
	if !ok {
		return common.Address{}, spinerr.Wrapf(spinerr.ErrUnknownAccount, "no configured mapping for %q", account.String())
	}
	return addr, nil
}
