package primitives

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"
)

// Digest is a 32-byte SHA-256 hash.
type Digest [32]byte

// EmptyDigest is the digest of the zero-length byte string. It is what a
// GET_STORAGE response reports for a key that has never been written.
var EmptyDigest = SHA256(nil)

// SHA256 computes the SHA-256 digest of data. It is used for every hash
// commitment in the runtime: storage values, ContractCall bytes, and
// cross-call output bytes. minio/sha256-simd is a drop-in, SIMD-accelerated
// replacement for crypto/sha256 with the identical hash.Hash interface.
func SHA256(data []byte) Digest {
	return sha256.Sum256(data)
}

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	return d[:]
}

// IsZero reports whether d is the all-zero digest (never a valid SHA-256
// output in practice, used as a sentinel for "no hash computed yet").
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String renders d as a 0x-prefixed hex string, for logging and debug
// tooling only; it plays no part in the canonical wire encoding.
func (d Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}
