// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keysource

import "fmt"

// FetchErrorKind classifies a fetch failure so callers can decide
// whether re-invoking could possibly help.
type FetchErrorKind string

const (
	// NotFound: the referenced secret does not exist.
	NotFound FetchErrorKind = "not-found"

	// AccessDenied: the secret exists (or may exist) but the caller's
	// credentials cannot read it.
	AccessDenied FetchErrorKind = "access-denied"

	// Transport: the store could not be reached or answered with a
	// non-definitive failure. Re-invoking may succeed.
	Transport FetchErrorKind = "transport"

	// Malformed: the store answered but the payload is unusable (no
	// secret value, undecryptable ciphertext, bad identities file).
	Malformed FetchErrorKind = "malformed"
)

// FetchError reports a failed key fetch. Reference is the
// backend-specific reference (secret ARN or file path), never the key
// itself.
type FetchError struct {
	Reference string
	Kind      FetchErrorKind
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching key %s (%s): %v", e.Reference, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
