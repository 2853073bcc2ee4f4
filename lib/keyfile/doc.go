// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyfile stages private-key material in a short-lived,
// permission-restricted file for consumption by ssh.
//
// [Stage] creates an owner-only directory under /dev/shm (tmpfs, so
// the key bytes never touch a persistent disk) with a fallback to the
// default temporary directory, writes the key into an owner-read/write
// file inside it, and narrows the file to owner-read-only once the
// bytes are written. At no point is the file group- or
// world-accessible, and once populated it is never writable.
//
// The returned [StagedKey] is removed with [StagedKey.Remove], which
// callers defer so the key file disappears on every exit path. Removal
// failures are logged, not returned: a leftover owner-only file in an
// owner-only directory is a containment miss, not an exposure, and
// must never mask the error that actually ended the session.
package keyfile
