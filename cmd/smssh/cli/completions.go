// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"strings"
)

// WriteCompletions renders a completion script for the given shell
// (bash, zsh, or fish) by walking root's command tree. Flags are not
// completed — subcommand names are what operators actually tab through,
// and connect deliberately passes unknown flags to ssh.
func WriteCompletions(root *Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		writeBashCompletions(root, w)
	case "zsh":
		writeZshCompletions(root, w)
	case "fish":
		writeFishCompletions(root, w)
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish)", shell)
	}
	return nil
}

// commandLevel is one node in the flattened tree: the words typed so
// far and the subcommands available at that point.
type commandLevel struct {
	path        []string
	subcommands []*Command
}

// flatten walks the tree breadth-first, collecting every level that
// has subcommands to offer.
func flatten(root *Command) []commandLevel {
	var levels []commandLevel
	queue := []commandLevel{{path: []string{root.Name}, subcommands: root.Subcommands}}
	for len(queue) > 0 {
		level := queue[0]
		queue = queue[1:]
		if len(level.subcommands) == 0 {
			continue
		}
		levels = append(levels, level)
		for _, sub := range level.subcommands {
			queue = append(queue, commandLevel{
				path:        append(append([]string(nil), level.path...), sub.Name),
				subcommands: sub.Subcommands,
			})
		}
	}
	return levels
}

func subcommandNames(subcommands []*Command) []string {
	names := make([]string, 0, len(subcommands))
	for _, sub := range subcommands {
		names = append(names, sub.Name)
		names = append(names, sub.Aliases...)
	}
	return names
}

func writeBashCompletions(root *Command, w io.Writer) {
	name := root.Name
	fmt.Fprintf(w, "# bash completion for %s\n", name)
	fmt.Fprintf(w, "_%s() {\n", name)
	fmt.Fprintf(w, "    local cur path i\n")
	fmt.Fprintf(w, "    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	fmt.Fprintf(w, "    path=\"%s\"\n", name)
	fmt.Fprintf(w, "    for ((i=1; i < COMP_CWORD; i++)); do\n")
	fmt.Fprintf(w, "        path=\"$path ${COMP_WORDS[i]}\"\n")
	fmt.Fprintf(w, "    done\n")
	fmt.Fprintf(w, "    case \"$path\" in\n")
	for _, level := range flatten(root) {
		fmt.Fprintf(w, "        %q)\n", strings.Join(level.path, " "))
		fmt.Fprintf(w, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n",
			strings.Join(subcommandNames(level.subcommands), " "))
		fmt.Fprintf(w, "            ;;\n")
	}
	fmt.Fprintf(w, "    esac\n")
	fmt.Fprintf(w, "}\n")
	fmt.Fprintf(w, "complete -F _%s %s\n", name, name)
}

func writeZshCompletions(root *Command, w io.Writer) {
	name := root.Name
	fmt.Fprintf(w, "#compdef %s\n", name)
	fmt.Fprintf(w, "_%s() {\n", name)
	fmt.Fprintf(w, "    local -a completions\n")
	fmt.Fprintf(w, "    local path=%q word\n", name)
	fmt.Fprintf(w, "    for word in ${words[2,CURRENT-1]}; do\n")
	fmt.Fprintf(w, "        path=\"$path $word\"\n")
	fmt.Fprintf(w, "    done\n")
	fmt.Fprintf(w, "    case \"$path\" in\n")
	for _, level := range flatten(root) {
		fmt.Fprintf(w, "        %q)\n", strings.Join(level.path, " "))
		fmt.Fprintf(w, "            completions=(\n")
		for _, sub := range level.subcommands {
			fmt.Fprintf(w, "                %q\n", sub.Name+":"+sub.Summary)
		}
		fmt.Fprintf(w, "            )\n")
		fmt.Fprintf(w, "            _describe 'command' completions\n")
		fmt.Fprintf(w, "            ;;\n")
	}
	fmt.Fprintf(w, "    esac\n")
	fmt.Fprintf(w, "}\n")
	fmt.Fprintf(w, "_%s \"$@\"\n", name)
}

func writeFishCompletions(root *Command, w io.Writer) {
	name := root.Name
	fmt.Fprintf(w, "# fish completion for %s\n", name)
	for _, level := range flatten(root) {
		var condition string
		if len(level.path) == 1 {
			condition = "__fish_use_subcommand"
		} else {
			condition = fmt.Sprintf("__fish_seen_subcommand_from %s", level.path[len(level.path)-1])
		}
		for _, sub := range level.subcommands {
			fmt.Fprintf(w, "complete -c %s -f -n %q -a %s -d %q\n",
				name, condition, sub.Name, sub.Summary)
		}
	}
}
