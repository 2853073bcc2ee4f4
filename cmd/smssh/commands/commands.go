// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the smssh command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/smssh/cmd/smssh/cli"
	"github.com/bureau-foundation/smssh/cmd/smssh/configcmd"
	"github.com/bureau-foundation/smssh/cmd/smssh/connect"
	"github.com/bureau-foundation/smssh/lib/version"
)

// Root returns the top-level smssh command.
func Root() *cli.Command {
	root := &cli.Command{
		Name:    "smssh",
		Summary: "ssh with keys fetched from a secret store at connect time",
		Description: `smssh launches interactive ssh sessions whose private key never
rests on disk. At connect time the key is fetched from its backend
(AWS Secrets Manager or an age-encrypted file), staged in a
permission-locked file under /dev/shm, handed to ssh, and removed
as soon as the session ends.`,
		Subcommands: []*cli.Command{
			connect.HostCommand(),
			connect.AliasCommand(),
			configcmd.Command(),
			completionsCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Connect to a configured host profile",
				Command:     "smssh connect bastion",
			},
			{
				Description: "Connect with an explicit alias and destination",
				Command:     "smssh connect-alias prod-key ops@10.0.4.7 -- -p 2222",
			},
		},
	}
	return root
}

func completionsCommand() *cli.Command {
	var shell string

	return &cli.Command{
		Name:    "completions",
		Summary: "Generate shell completion script",
		Usage:   "smssh completions --shell <bash|zsh|fish>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("completions", pflag.ContinueOnError)
			flagSet.StringVarP(&shell, "shell", "s", "fish", "target shell (bash, zsh, or fish)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return cli.WriteCompletions(Root(), shell, os.Stdout)
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version and build information",
		Run: func(args []string) error {
			fmt.Println(version.Full())
			return nil
		},
	}
}
