package contractvm

import (
	_ "embed"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

// embeddedEVMImage is the built-in image for the EVM meta-contract: it is
// loaded and invoked as an opaque contract under account id "evm", the
// same way any other contract is loaded, rather than special-cased.
//
//go:embed assets/evm.elf
var embeddedEVMImage []byte

// Loader resolves an AccountId to its contract image: the embedded EVM
// meta-contract for EVMMetaContractAccountID, or a file under its
// contracts directory for everything else. Decoded images are cached by
// AccountId with an LRU so a hot contract's bytes aren't re-read from
// disk on every invocation, mirroring cache.LRU's GetOrLoad pattern.
type Loader struct {
	contractsDir string
	cache        *lru.Cache
}

// NewLoader returns a Loader rooted at contractsDir, caching up to
// cacheSize decoded images; a cacheSize below 16 is raised to 16.
func NewLoader(contractsDir string, cacheSize int) (*Loader, error) {
	if cacheSize < 16 {
		cacheSize = 16
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Loader{contractsDir: contractsDir, cache: cache}, nil
}

// Load returns the contract image for account, from cache if present.
func (l *Loader) Load(account primitives.AccountId) ([]byte, error) {
	if v, ok := l.cache.Get(account); ok {
		return v.([]byte), nil
	}

	image, err := l.loadUncached(account)
	if err != nil {
		return nil, err
	}

	l.cache.Add(account, image)
	return image, nil
}

func (l *Loader) loadUncached(account primitives.AccountId) ([]byte, error) {
	if account == primitives.EVMMetaContractAccountID {
		return embeddedEVMImage, nil
	}

	path := filepath.Join(l.contractsDir, account.String())
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, spinerr.Wrapf(spinerr.ErrContractNotFound, "no contract image for %q", account.String())
	}
	if err != nil {
		return nil, spinerr.Wrap(err, "reading contract image")
	}
	return b, nil
}
