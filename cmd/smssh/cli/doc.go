// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the smssh CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/smssh/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing (including short aliases
// like "c" for "connect"), and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// [ExitError] lets a command end the process with a specific exit code
// without an extra error line — connect uses it to mirror the child's
// exit status. [NewCommandLogger] builds the slog logger every command
// shares: text for terminals, JSON for pipes.
//
// [WriteCompletions] renders shell completion scripts (bash, zsh,
// fish) by walking the command tree.
package cli
