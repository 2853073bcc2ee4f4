// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keysource fetches private-key material for a configured key
// alias. Two backends exist: AWS Secrets Manager (the key lives in a
// secret identified by ARN) and age-encrypted local files (the key is
// decrypted with an identities file).
//
// Fetched keys are returned as mmap-backed [secret.Buffer] values;
// transient heap copies made by the backends are zeroed before return.
// Failures are reported as [FetchError] values whose Kind lets the
// caller distinguish "the secret does not exist or is off-limits" from
// "the store could not be reached". No backend retries — a failed
// fetch aborts the session and the operator re-invokes.
package keysource
