// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides the smssh configuration file: named key
// aliases (where to fetch a private key from) and named host profiles
// (which alias, destination, and extra ssh arguments to use).
//
// The file is YAML, located at $SMSSH_CONFIG if set, otherwise
// smssh.yaml inside the user configuration directory. A missing file
// loads as an empty configuration. The configuration is treated as
// immutable for the duration of a connect invocation; the mutating
// operations (SetAlias, SetHost, RemoveAlias, RemoveHost) exist for the
// "smssh config" subcommands, which load, mutate, and store.
package config
