package storage

import (
	"github.com/qianbin/directcache"

	"github.com/spinvm/spinvm/primitives"
	"github.com/spinvm/spinvm/spinerr"
)

// ContractStore wraps a Store with the per-contract namespacing and
// content-addressing the syscall bridge needs: keys are scoped by
// AccountId before reaching the backend, and every write's digest is
// computed here so a Bridge never has to trust a caller-supplied hash
// without checking it, and every read is verified against its recorded
// digest before being handed back.
type ContractStore struct {
	backend Store
	hot     *directcache.Cache
}

// NewContractStore wraps backend with an in-memory hot-value cache sized
// hotCacheBytes; a size of 0 disables the cache.
func NewContractStore(backend Store, hotCacheBytes int) *ContractStore {
	var hot *directcache.Cache
	if hotCacheBytes > 0 {
		hot = directcache.New(hotCacheBytes)
	}
	return &ContractStore{backend: backend, hot: hot}
}

func namespacedKey(account primitives.AccountId, key primitives.StorageKey) []byte {
	return []byte(string(key) + "." + account.String())
}

// Get returns the value stored for (account, key), its digest, and
// whether the key has ever been written. A non-nil error means the
// backend itself failed, or the stored bytes no longer hash to the
// digest recorded alongside them.
func (s *ContractStore) Get(account primitives.AccountId, key primitives.StorageKey) ([]byte, primitives.Digest, bool, error) {
	nk := namespacedKey(account, key)

	if s.hot != nil {
		if v, ok := s.hot.Get(nil, nk); ok {
			value, hash, ok := splitValueDigest(v)
			if !ok {
				return nil, primitives.Digest{}, false, spinerr.Wrap(spinerr.ErrHashMismatch, "corrupt cache entry")
			}
			return value, hash, true, nil
		}
	}

	raw, err := s.backend.Get(nk)
	if err == ErrNotFound {
		return nil, primitives.EmptyDigest, false, nil
	}
	if err != nil {
		return nil, primitives.Digest{}, false, spinerr.Wrap(err, "storage backend read failed")
	}

	value, hash, ok := splitValueDigest(raw)
	if !ok {
		return nil, primitives.Digest{}, false, spinerr.Wrap(spinerr.ErrHashMismatch, "corrupt storage entry")
	}
	if primitives.SHA256(value) != hash {
		return nil, primitives.Digest{}, false, spinerr.ErrHashMismatch
	}

	if s.hot != nil {
		_ = s.hot.Set(nk, raw)
	}
	return value, hash, true, nil
}

// Set writes value under (account, key), computing and storing its
// digest. It returns the digest so the caller can reconcile it against a
// SET_STORAGE request's caller-supplied hash.
func (s *ContractStore) Set(account primitives.AccountId, key primitives.StorageKey, value []byte) (primitives.Digest, error) {
	hash := primitives.SHA256(value)
	nk := namespacedKey(account, key)
	raw := joinValueDigest(value, hash)

	if err := s.backend.Put(nk, raw); err != nil {
		return primitives.Digest{}, spinerr.Wrap(err, "storage backend write failed")
	}
	if s.hot != nil {
		_ = s.hot.Set(nk, raw)
	}
	return hash, nil
}

// Close releases the underlying backend.
func (s *ContractStore) Close() error {
	return s.backend.Close()
}

func joinValueDigest(value []byte, hash primitives.Digest) []byte {
	out := make([]byte, 0, len(value)+32)
	out = append(out, hash.Bytes()...)
	out = append(out, value...)
	return out
}

func splitValueDigest(raw []byte) ([]byte, primitives.Digest, bool) {
	if len(raw) < 32 {
		return nil, primitives.Digest{}, false
	}
	var hash primitives.Digest
	copy(hash[:], raw[:32])
	value := make([]byte, len(raw)-32)
	copy(value, raw[32:])
	return value, hash, true
}
