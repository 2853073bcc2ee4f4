// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session orchestrates one ssh session: resolve a host profile
// or key alias from configuration, fetch the key material, stage it in
// an ephemeral file, run ssh in the foreground, and report the child's
// exit status.
//
// Resolution failures ([AliasNotFoundError], [HostNotFoundError],
// [DanglingAliasError]) happen before any secret is fetched or any
// process or terminal state is touched. Once a session gets further,
// the staged key is removed and the terminal restored on every path —
// success, child failure, forwarded termination, or internal error.
package session
