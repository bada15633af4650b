package storage

import (
	"encoding/hex"
	"os"
	"path/filepath"
)

// FSStore is the literal filesystem backend: each key is a file under
// root named by its hex encoding, one directory per store. It keeps the
// one-file-per-(key, contract) shape of a "state/storage/{key}.{contract_id}"
// layout, since ContractStore namespaces keys as "{key}.{contract_id}"
// before they reach here, but the file name is the hex encoding of that
// string rather than the string itself.
type FSStore struct {
	root string
}

// NewFSStore opens (creating if necessary) a filesystem-backed Store
// rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{root: dir}, nil
}

func (s *FSStore) path(key []byte) string {
	return filepath.Join(s.root, hex.EncodeToString(key))
}

// Get reads the value stored under key, or ErrNotFound if it was never
// written.
func (s *FSStore) Get(key []byte) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Put writes value under key, overwriting any prior value.
func (s *FSStore) Put(key []byte, value []byte) error {
	return os.WriteFile(s.path(key), value, 0o644)
}

// Has reports whether key has ever been written.
func (s *FSStore) Has(key []byte) (bool, error) {
	_, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close is a no-op for FSStore; it holds no open handles between calls.
func (s *FSStore) Close() error {
	return nil
}
