package batchgo

import (
	"errors"
	"fmt"

	"github.com/primefield/batchgo/hasher"
)

var (
	// ErrUnsupportedBackend is returned when an accelerator backend is
	// requested on a platform or build without one. It is always a
	// returned error, never a process abort, so callers can fall back to
	// the software backend programmatically.
	ErrUnsupportedBackend = errors.New("requested backend is not available on this platform")

	// ErrBackendConstruction is returned when the underlying engine or
	// accelerator context could not be built. The cause can be accessed
	// via errors.Unwrap.
	ErrBackendConstruction = errors.New("backend construction failed")

	// ErrComputationFailed is returned when a backend fails while hashing
	// a batch (e.g. an accelerator execution fault). The cause can be
	// accessed via errors.Unwrap.
	ErrComputationFailed = errors.New("hash computation failed")
)

// translateError normalizes backend errors into the public taxonomy.
//
// Input-contract violations (*hasher.ErrBatchTooLarge,
// *hasher.ErrArityMismatch) pass through unchanged so callers can match on
// their fields; anything else raised inside a Hash call is a computation
// failure.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var tooLarge *hasher.ErrBatchTooLarge
	if errors.As(err, &tooLarge) {
		return err
	}

	var mismatch *hasher.ErrArityMismatch
	if errors.As(err, &mismatch) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrComputationFailed, err)
}
