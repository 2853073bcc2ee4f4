// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds private-key material in memory that is locked
// against swap, excluded from core dumps, and zeroed on release.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock, and marks it excluded from core
// dumps via madvise(MADV_DONTDUMP). Because the memory lives outside the
// Go heap, the garbage collector cannot copy or relocate it, so the key
// bytes exist in exactly one place until Close zeroes and unmaps them.
//
// Fetched keys travel through the process as *Buffer values: the
// keysource backends produce one, the staging layer writes it to the
// ephemeral key file, and Close releases it once the file exists.
//
// [Fingerprint] produces a short BLAKE3 digest of key bytes for log
// lines, so sessions can be correlated without ever logging the key.
package secret
