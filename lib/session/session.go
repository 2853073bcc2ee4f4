// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/smssh/lib/config"
	"github.com/bureau-foundation/smssh/lib/foreground"
	"github.com/bureau-foundation/smssh/lib/keyfile"
	"github.com/bureau-foundation/smssh/lib/keysource"
	"github.com/bureau-foundation/smssh/lib/secret"
)

// defaultProgram is the interactive program a session supervises.
const defaultProgram = "ssh"

// AliasNotFoundError: the named key alias is not configured.
type AliasNotFoundError struct{ Alias string }

func (e *AliasNotFoundError) Error() string {
	return fmt.Sprintf("key alias %q does not exist", e.Alias)
}

// HostNotFoundError: the named host profile is not configured.
type HostNotFoundError struct{ Host string }

func (e *HostNotFoundError) Error() string {
	return fmt.Sprintf("host %q does not exist", e.Host)
}

// DanglingAliasError: the host profile exists but references a key
// alias that has since been deleted. Distinct from AliasNotFoundError
// so the operator knows the host profile itself needs fixing.
type DanglingAliasError struct {
	Host  string
	Alias string
}

func (e *DanglingAliasError) Error() string {
	return fmt.Sprintf("host %q references key alias %q, which does not exist", e.Host, e.Alias)
}

// FetchFunc fetches key material for an alias. Satisfied by
// (*keysource.Client).Fetch.
type FetchFunc func(ctx context.Context, alias config.KeyAlias) (*secret.Buffer, error)

// RunFunc runs the interactive child in the foreground. Satisfied by
// foreground.Run.
type RunFunc func(program string, args []string, logger *slog.Logger) (foreground.Status, error)

// Orchestrator composes key fetching, staging, and foreground
// supervision for one invocation. Construct with New; the Fetch and
// Run fields are replaceable for tests.
type Orchestrator struct {
	Config  *config.Config
	Fetch   FetchFunc
	Run     RunFunc
	Program string
	Logger  *slog.Logger
}

// New returns an Orchestrator wired to the real key sources and the
// real foreground controller.
func New(cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		Config:  cfg,
		Fetch:   keysource.New(logger).Fetch,
		Run:     foreground.Run,
		Program: defaultProgram,
		Logger:  logger,
	}
}

// ConnectHost runs a session against a named host profile. The
// profile's extra arguments come before extraArgs (the operator's
// trailing arguments), and the destination goes last.
func (o *Orchestrator) ConnectHost(ctx context.Context, hostName string, extraArgs []string) (foreground.Status, error) {
	host, ok := o.Config.Hosts[hostName]
	if !ok {
		return foreground.Status{}, &HostNotFoundError{Host: hostName}
	}
	alias, ok := o.Config.KeyAliases[host.KeyAlias]
	if !ok {
		return foreground.Status{}, &DanglingAliasError{Host: hostName, Alias: host.KeyAlias}
	}
	return o.connect(ctx, alias, host.Destination, host.Args, extraArgs)
}

// ConnectAlias runs a session with a bare key alias and no destination
// or profile arguments — the operator supplies everything after the
// alias name.
func (o *Orchestrator) ConnectAlias(ctx context.Context, aliasName string, extraArgs []string) (foreground.Status, error) {
	alias, ok := o.Config.KeyAliases[aliasName]
	if !ok {
		return foreground.Status{}, &AliasNotFoundError{Alias: aliasName}
	}
	return o.connect(ctx, alias, "", nil, extraArgs)
}

// connect stages the key and supervises the child. The key buffer and
// the staged file are both released on every path out of this
// function.
func (o *Orchestrator) connect(ctx context.Context, alias config.KeyAlias, destination string, hostArgs, extraArgs []string) (foreground.Status, error) {
	key, err := o.Fetch(ctx, alias)
	if err != nil {
		return foreground.Status{}, err
	}
	defer key.Close()

	staged, err := keyfile.Stage(key, o.Logger)
	if err != nil {
		return foreground.Status{}, fmt.Errorf("staging key: %w", err)
	}
	defer staged.Remove()

	// The in-memory copy is no longer needed once the file exists.
	key.Close()

	args := buildArgs(staged.Path, destination, hostArgs, extraArgs)
	o.Logger.Info("starting session", "program", o.Program, "destination", destination)

	return o.Run(o.Program, args, o.Logger)
}

// buildArgs assembles the child argument vector: the staged key via
// -i, the host profile's arguments, the operator's trailing arguments,
// and finally the destination when one exists.
func buildArgs(keyPath, destination string, hostArgs, extraArgs []string) []string {
	args := []string{"-i", keyPath}
	args = append(args, hostArgs...)
	args = append(args, extraArgs...)
	if destination != "" {
		args = append(args, destination)
	}
	return args
}
