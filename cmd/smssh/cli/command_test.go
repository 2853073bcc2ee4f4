// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "smssh",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "connect",
				Run: func(args []string) error {
					called = "connect"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"connect"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "connect" {
		t.Errorf("dispatched to %q, want %q", called, "connect")
	}
}

func TestCommand_Execute_DispatchesAlias(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "smssh",
		Subcommands: []*Command{
			{
				Name:    "connect",
				Aliases: []string{"c"},
				Run: func(args []string) error {
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"c", "bastion", "-v"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 2 || receivedArgs[0] != "bastion" || receivedArgs[1] != "-v" {
		t.Errorf("args = %v, want [bastion -v]", receivedArgs)
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string

	root := &Command{
		Name: "smssh",
		Subcommands: []*Command{
			{
				Name: "config",
				Subcommands: []*Command{
					{
						Name: "list",
						Subcommands: []*Command{
							{
								Name: "alias",
								Run: func(args []string) error {
									called = "config list alias"
									return nil
								},
							},
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"config", "list", "alias"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "config list alias" {
		t.Errorf("dispatched to %q, want %q", called, "config list alias")
	}
}

func TestCommand_Execute_UnparsedArgsWithoutFlags(t *testing.T) {
	// Connect relies on raw args: no Flags function means ssh flags
	// like -p pass through untouched.
	var receivedArgs []string

	command := &Command{
		Name: "connect",
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute([]string{"bastion", "-p", "2222"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := []string{"bastion", "-p", "2222"}
	if len(receivedArgs) != len(want) {
		t.Fatalf("args = %v, want %v", receivedArgs, want)
	}
	for i := range want {
		if receivedArgs[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, receivedArgs[i], want[i])
		}
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var shell string

	command := &Command{
		Name: "completions",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("completions", pflag.ContinueOnError)
			flagSet.StringVar(&shell, "shell", "fish", "target shell")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"--shell", "bash"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if shell != "bash" {
		t.Errorf("shell = %q, want %q", shell, "bash")
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "smssh",
		Subcommands: []*Command{
			{Name: "connect", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute([]string{"connct"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `"connect"`) {
		t.Errorf("error should suggest connect, got: %v", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "smssh",
		Subcommands: []*Command{
			{Name: "connect", Run: func([]string) error { return nil }},
		},
	}

	if err := root.Execute(nil); err == nil {
		t.Fatal("expected error when no subcommand given")
	}
}

func TestCommand_PrintHelp_ListsSubcommandsAndAliases(t *testing.T) {
	root := &Command{
		Name:    "smssh",
		Summary: "SSH with keys from a secret store",
		Subcommands: []*Command{
			{Name: "connect", Aliases: []string{"c"}, Summary: "Connect to a configured host"},
			{Name: "version", Summary: "Print version information"},
		},
	}

	var buffer bytes.Buffer
	root.PrintHelp(&buffer)
	help := buffer.String()

	for _, expect := range []string{"connect", "(c)", "version", "Connect to a configured host"} {
		if !strings.Contains(help, expect) {
			t.Errorf("help output missing %q:\n%s", expect, help)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"connect", "connect", 0},
		{"connct", "connect", 1},
		{"lst", "list", 1},
		{"abc", "xyz", 3},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
