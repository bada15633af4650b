// Package storage implements the content-addressed key-value layer that
// backs GET_STORAGE/SET_STORAGE: every value is stored alongside (and
// verified against) its SHA-256 digest, so a caller can trust a read
// without re-hashing the whole backend on every access.
package storage

import "github.com/pkg/errors"

// Store is the minimal interface a storage backend must satisfy. Keys are
// opaque byte strings; the ContractStore above this layer namespaces them
// by AccountId before they ever reach a Store.
type Store interface {
	Get(key []byte) ([]byte, error)
	Put(key []byte, value []byte) error
	Has(key []byte) (bool, error)
	Close() error
}

// ErrNotFound is returned by a Store's Get when the key is absent. Both
// backends in this package translate their own not-found error into this
// one so ContractStore never has to special-case which backend it wraps.
var ErrNotFound = errors.New("storage: key not found")
