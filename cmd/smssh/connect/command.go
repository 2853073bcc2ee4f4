// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package connect implements the "smssh connect" and
// "smssh connect-alias" commands: fetch a key, stage it, and hand the
// terminal to ssh.
package connect

import (
	"context"
	"errors"

	"github.com/bureau-foundation/smssh/cmd/smssh/cli"
	"github.com/bureau-foundation/smssh/lib/config"
	"github.com/bureau-foundation/smssh/lib/foreground"
	"github.com/bureau-foundation/smssh/lib/session"
)

// HostCommand returns the "connect" command, which resolves a host
// profile (alias, destination, extra arguments) from configuration.
func HostCommand() *cli.Command {
	return &cli.Command{
		Name:    "connect",
		Aliases: []string{"c"},
		Summary: "Connect to a configured host",
		Description: `Connect to a remote machine using a host profile.

The profile names the key alias to fetch, the ssh destination, and any
extra ssh arguments. The private key is pulled from the alias's secret
backend, staged in an owner-only tmpfs file for the duration of the
session, and removed when ssh exits. Arguments after the host name are
passed to ssh verbatim.`,
		Usage: "smssh connect <host> [ssh-args...]",
		Examples: []cli.Example{
			{
				Description: "Open a session to the bastion profile",
				Command:     "smssh connect bastion",
			},
			{
				Description: "Pass extra arguments through to ssh",
				Command:     "smssh connect bastion -v -L 8080:localhost:8080",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("host name required")
			}
			return run(func(orchestrator *session.Orchestrator) (foreground.Status, error) {
				return orchestrator.ConnectHost(context.Background(), args[0], args[1:])
			}, "connect", args[0])
		},
	}
}

// AliasCommand returns the "connect-alias" command: same key staging,
// but the operator supplies the destination and all ssh arguments.
func AliasCommand() *cli.Command {
	return &cli.Command{
		Name:    "connect-alias",
		Aliases: []string{"ca"},
		Summary: "Connect using a key alias directly",
		Description: `Connect to a remote machine using a key alias instead of a host
profile. Everything after the alias name is passed to ssh verbatim, so
the destination goes there:

	smssh connect-alias prod-key user@host.example.com`,
		Usage: "smssh connect-alias <key-alias> [ssh-args...]",
		Examples: []cli.Example{
			{
				Description: "Connect with an alias and explicit destination",
				Command:     "smssh connect-alias prod-key admin@10.0.0.5",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("key alias required")
			}
			return run(func(orchestrator *session.Orchestrator) (foreground.Status, error) {
				return orchestrator.ConnectAlias(context.Background(), args[0], args[1:])
			}, "connect-alias", args[0])
		},
	}
}

// run loads configuration, builds the orchestrator, executes the
// session, and maps the child's status onto our own exit code.
func run(connect func(*session.Orchestrator) (foreground.Status, error), command, target string) error {
	logger := cli.NewCommandLogger().With("command", command, "target", target)

	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	status, err := connect(session.New(cfg, logger))
	if err != nil {
		return classify(err)
	}
	if code := status.ExitCode(); code != 0 {
		return &cli.ExitError{Code: code}
	}
	return nil
}

// classify maps session lookup failures onto the not-found error
// category so wrapper scripts can distinguish "no such profile" from
// genuine connection failures. The typed error stays on the chain.
func classify(err error) error {
	var hostErr *session.HostNotFoundError
	var aliasErr *session.AliasNotFoundError
	var danglingErr *session.DanglingAliasError
	if errors.As(err, &hostErr) || errors.As(err, &aliasErr) || errors.As(err, &danglingErr) {
		return cli.NotFound("%w", err)
	}
	return err
}
