// Package spinerr collects the sentinel errors every component of the
// runtime can return, so callers (and tests) can use errors.Is against a
// stable set of failure classes instead of matching error strings.
package spinerr

import "github.com/pkg/errors"

var (
	// ErrInsufficientGas is returned when a call (top-level or
	// cross-contract) would require more gas than the caller's
	// remaining budget allows.
	ErrInsufficientGas = errors.New("spinvm: insufficient gas")

	// ErrContractNotFound is returned by the Loader when no ELF is
	// registered for an AccountId.
	ErrContractNotFound = errors.New("spinvm: contract not found")

	// ErrMalformedRequest is returned when a request or argument fails to
	// decode, or decodes but fails an internal consistency check (for
	// example a second Commit on the same Env).
	ErrMalformedRequest = errors.New("spinvm: malformed request")

	// ErrHashMismatch is returned when a digest does not match the bytes
	// or call it commits to: a SET_STORAGE request whose Hash is not the
	// SHA-256 of its Storage bytes, a stored value that no longer hashes
	// to its recorded digest (on-disk corruption or a tampered backend),
	// or a child or committed outcome whose call_hash differs from the
	// call that was made.
	ErrHashMismatch = errors.New("spinvm: storage hash mismatch")

	// ErrUnknownMethod is returned by a registry dispatcher entry when
	// the requested method name has no handler on that account.
	ErrUnknownMethod = errors.New("spinvm: unknown method")

	// ErrUnknownAccount is returned when a cross-contract call or
	// account-mapping lookup names an account the resolver/dispatcher
	// has never heard of.
	ErrUnknownAccount = errors.New("spinvm: unknown account")
)

// Wrap annotates err with msg, preserving the original error for
// errors.Is/errors.As, the way builtin's call handlers wrap native-call
// failures with the method name that triggered them.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
