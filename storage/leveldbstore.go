package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDBStore is the goleveldb-backed alternative to FSStore: the spec
// permits any content-addressed KV store with equivalent semantics, and a
// real deployment will want LSM-tree storage over one-file-per-key once
// the contract state grows past what a directory listing can handle.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (creating if necessary) a LevelDB database at dir.
func NewLevelDBStore(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

// NewMemLevelDBStore opens an in-memory LevelDB database, for tests that
// want LevelDB's exact semantics without touching the filesystem.
func NewMemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

// Get reads the value stored under key, or ErrNotFound if it was never
// written.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Put writes value under key, overwriting any prior value.
func (s *LevelDBStore) Put(key []byte, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Has reports whether key has ever been written.
func (s *LevelDBStore) Has(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// Close releases the underlying database handle.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
