// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/smssh/cmd/smssh/commands"
)

func main() {
	if err := run(); err != nil {
		// A connect command whose ssh child exited nonzero returns an
		// exitError carrying the child's code. The child has already
		// written its own diagnostics; don't add an "error:" line.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
