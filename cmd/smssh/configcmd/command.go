// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package configcmd implements the "smssh config" subcommands for
// managing key aliases and host profiles.
package configcmd

import (
	"fmt"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/smssh/cmd/smssh/cli"
	"github.com/bureau-foundation/smssh/lib/config"
)

// Command returns the "config" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Summary: "Manage key aliases and host profiles",
		Description: `List, add, and remove smssh configuration entries.

Key aliases name a credential source: an AWS Secrets Manager secret
(kind: secrets-manager) or an age-encrypted local key file
(kind: age-file). Host profiles bundle a key alias with an ssh
destination and extra arguments, so "smssh connect <host>" needs no
further typing.

The configuration lives at $SMSSH_CONFIG, or smssh.yaml in the user
configuration directory. It never contains key material — only the
references needed to fetch keys at connect time.`,
		Subcommands: []*cli.Command{
			listCommand(),
			setCommand(),
			removeCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Register a Secrets Manager key alias",
				Command:     "smssh config set alias secrets-manager --name prod-key --secret-arn arn:aws:secretsmanager:...",
			},
			{
				Description: "Register a host profile using that alias",
				Command:     "smssh config set host --name bastion --alias prod-key --destination ops@bastion.example.com -- -p 2222",
			},
		},
	}
}

// loadStore loads the configuration, applies mutate, and stores the
// result only when the mutation succeeded.
func loadStore(mutate func(*config.Config) error) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := mutate(cfg); err != nil {
		return err
	}
	return cfg.Store(path)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"l"},
		Summary: "List configured aliases or hosts",
		Usage:   "smssh config list <alias|host>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected one section: alias or host")
			}

			path, err := config.Path()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			var section any
			switch args[0] {
			case "alias", "a":
				section = cfg.KeyAliases
			case "host", "h":
				section = cfg.Hosts
			default:
				return cli.Validation("unknown section %q (expected alias or host)", args[0])
			}

			encoded, err := yaml.Marshal(section)
			if err != nil {
				return cli.Internal("encoding %s list: %v", args[0], err)
			}
			fmt.Print(string(encoded))
			return nil
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:    "set",
		Aliases: []string{"s"},
		Summary: "Add or replace a configuration entry",
		Subcommands: []*cli.Command{
			setAliasCommand(),
			setHostCommand(),
		},
	}
}

func setAliasCommand() *cli.Command {
	return &cli.Command{
		Name:    "alias",
		Aliases: []string{"a"},
		Summary: "Add or replace a key alias",
		Subcommands: []*cli.Command{
			setSecretsManagerAliasCommand(),
			setAgeFileAliasCommand(),
		},
	}
}

func setSecretsManagerAliasCommand() *cli.Command {
	var name string
	var secretARN string

	return &cli.Command{
		Name:    "secrets-manager",
		Aliases: []string{"sm"},
		Summary: "Alias backed by an AWS Secrets Manager secret",
		Usage:   "smssh config set alias secrets-manager --name <name> --secret-arn <arn>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("secrets-manager", pflag.ContinueOnError)
			flagSet.StringVarP(&name, "name", "n", "", "alias name (required)")
			flagSet.StringVarP(&secretARN, "secret-arn", "a", "", "ARN of the secret holding the private key (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if name == "" {
				return cli.Validation("--name is required")
			}
			if secretARN == "" {
				return cli.Validation("--secret-arn is required")
			}

			err := loadStore(func(cfg *config.Config) error {
				return cfg.SetAlias(name, config.KeyAlias{
					Kind:      config.SecretsManager,
					SecretARN: secretARN,
				})
			})
			if err != nil {
				return err
			}
			fmt.Printf("Key alias %q added\n", name)
			return nil
		},
	}
}

func setAgeFileAliasCommand() *cli.Command {
	var name string
	var keyPath string
	var identityPath string

	return &cli.Command{
		Name:    "age-file",
		Aliases: []string{"age"},
		Summary: "Alias backed by an age-encrypted local key file",
		Usage:   "smssh config set alias age-file --name <name> --path <key.age> --identity <identities>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("age-file", pflag.ContinueOnError)
			flagSet.StringVarP(&name, "name", "n", "", "alias name (required)")
			flagSet.StringVarP(&keyPath, "path", "p", "", "age-encrypted key file (required)")
			flagSet.StringVarP(&identityPath, "identity", "i", "", "age identities file for decryption (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if name == "" {
				return cli.Validation("--name is required")
			}
			if keyPath == "" || identityPath == "" {
				return cli.Validation("--path and --identity are required")
			}

			err := loadStore(func(cfg *config.Config) error {
				return cfg.SetAlias(name, config.KeyAlias{
					Kind:     config.AgeFile,
					Path:     keyPath,
					Identity: identityPath,
				})
			})
			if err != nil {
				return err
			}
			fmt.Printf("Key alias %q added\n", name)
			return nil
		},
	}
}

func setHostCommand() *cli.Command {
	var name string
	var alias string
	var destination string

	return &cli.Command{
		Name:    "host",
		Aliases: []string{"h"},
		Summary: "Add or replace a host profile",
		Usage:   "smssh config set host --name <name> --alias <key-alias> --destination <user@host> [-- ssh-args...]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("host", pflag.ContinueOnError)
			flagSet.StringVarP(&name, "name", "n", "", "host profile name (required)")
			flagSet.StringVarP(&alias, "alias", "a", "", "existing key alias to stage (required)")
			flagSet.StringVarP(&destination, "destination", "d", "", "ssh destination, e.g. user@hostname (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if name == "" {
				return cli.Validation("--name is required")
			}
			if alias == "" {
				return cli.Validation("--alias is required")
			}
			if destination == "" {
				return cli.Validation("--destination is required")
			}

			// Remaining positional args become the profile's extra
			// ssh arguments.
			err := loadStore(func(cfg *config.Config) error {
				return cfg.SetHost(name, config.Host{
					KeyAlias:    alias,
					Destination: destination,
					Args:        args,
				})
			})
			if err != nil {
				return err
			}
			fmt.Printf("Host %q added\n", name)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"r"},
		Summary: "Remove a configuration entry",
		Subcommands: []*cli.Command{
			{
				Name:    "alias",
				Aliases: []string{"a"},
				Summary: "Remove a key alias",
				Usage:   "smssh config remove alias <name>",
				Run: func(args []string) error {
					if len(args) != 1 {
						return cli.Validation("expected exactly one alias name")
					}
					if err := loadStore(func(cfg *config.Config) error {
						return cfg.RemoveAlias(args[0])
					}); err != nil {
						return err
					}
					fmt.Printf("Key alias %q removed\n", args[0])
					return nil
				},
			},
			{
				Name:    "host",
				Aliases: []string{"h"},
				Summary: "Remove a host profile",
				Usage:   "smssh config remove host <name>",
				Run: func(args []string) error {
					if len(args) != 1 {
						return cli.Validation("expected exactly one host name")
					}
					if err := loadStore(func(cfg *config.Config) error {
						return cfg.RemoveHost(args[0])
					}); err != nil {
						return err
					}
					fmt.Printf("Host %q removed\n", args[0])
					return nil
				},
			},
		},
	}
}
