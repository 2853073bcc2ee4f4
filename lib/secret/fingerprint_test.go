// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"strings"
	"testing"
)

func TestFingerprint_Deterministic(t *testing.T) {
	first := Fingerprint([]byte("key bytes"))
	second := Fingerprint([]byte("key bytes"))
	if first != second {
		t.Errorf("same input produced %q and %q", first, second)
	}
}

func TestFingerprint_DistinguishesInputs(t *testing.T) {
	if Fingerprint([]byte("key one")) == Fingerprint([]byte("key two")) {
		t.Error("different inputs produced the same fingerprint")
	}
}

func TestFingerprint_Format(t *testing.T) {
	fingerprint := Fingerprint([]byte("key bytes"))
	if len(fingerprint) != fingerprintBytes*2 {
		t.Errorf("expected %d hex characters, got %d", fingerprintBytes*2, len(fingerprint))
	}
	if strings.ToLower(fingerprint) != fingerprint {
		t.Errorf("fingerprint %q is not lowercase hex", fingerprint)
	}
}
