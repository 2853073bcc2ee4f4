// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// fingerprintBytes is the number of digest bytes included in a
// fingerprint. Eight bytes (16 hex characters) is enough to correlate
// log lines across a session without being useful to an attacker.
const fingerprintBytes = 8

// Fingerprint returns a short hex-encoded BLAKE3 digest of data. Log
// lines reference staged keys only by this fingerprint — the key bytes
// themselves must never reach the logger.
func Fingerprint(data []byte) string {
	digest := blake3.Sum256(data)
	return hex.EncodeToString(digest[:fingerprintBytes])
}
