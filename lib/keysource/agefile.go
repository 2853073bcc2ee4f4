// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keysource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	"github.com/bureau-foundation/smssh/lib/secret"
)

// fetchAgeFile decrypts the age ciphertext at keyPath with the
// identities in identityPath. The decrypted key is moved into
// protected memory and the intermediate plaintext is zeroed.
func fetchAgeFile(keyPath, identityPath string) (*secret.Buffer, error) {
	ciphertext, err := os.ReadFile(keyPath)
	if err != nil {
		kind := Transport
		if os.IsNotExist(err) {
			kind = NotFound
		}
		return nil, &FetchError{Reference: keyPath, Kind: kind, Err: err}
	}

	identityData, err := os.ReadFile(identityPath)
	if err != nil {
		kind := Transport
		if os.IsNotExist(err) {
			kind = NotFound
		}
		return nil, &FetchError{Reference: keyPath, Kind: kind, Err: fmt.Errorf("reading identities %s: %w", identityPath, err)}
	}

	identities, err := age.ParseIdentities(bytes.NewReader(identityData))
	secret.Zero(identityData)
	if err != nil {
		return nil, &FetchError{Reference: keyPath, Kind: Malformed, Err: fmt.Errorf("parsing identities %s: %w", identityPath, err)}
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		kind := Malformed
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			// The ciphertext is valid but none of our identities can
			// open it: the local analogue of access denied.
			kind = AccessDenied
		}
		return nil, &FetchError{Reference: keyPath, Kind: kind, Err: err}
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		secret.Zero(plaintext)
		return nil, &FetchError{Reference: keyPath, Kind: Malformed, Err: fmt.Errorf("decrypting: %w", err)}
	}

	// NewFromBytes zeroes plaintext on every path, success or failure.
	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		return nil, &FetchError{Reference: keyPath, Kind: Malformed, Err: err}
	}
	return buffer, nil
}
