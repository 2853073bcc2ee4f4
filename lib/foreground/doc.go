// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package foreground runs an interactive child process as the
// foreground process group of the controlling terminal and supervises
// it until exit.
//
// The sequence is: spawn the child into its own process group, hand
// the terminal's foreground group to the child (so Ctrl-C, Ctrl-\ and
// terminal stops reach the child, not us), wait while remaining
// responsive to termination signals aimed at the supervisor, then
// restore the terminal's foreground group and the SIGTTOU disposition
// no matter how the session ended.
//
// SIGTTOU discipline: a process that is not in the terminal's
// foreground group is stopped by SIGTTOU when it changes the terminal's
// foreground group. Both tcsetpgrp calls (hand-off and restoration)
// therefore run with SIGTTOU ignored; the original disposition is
// restored only after the restoration call has completed.
//
// Termination requests are observed through os/signal: the runtime's
// signal handler does nothing beyond forwarding to a channel (the
// async-signal-safe flag), and every consequential action — signalling
// the child's group, touching the terminal, cleanup — happens on the
// supervising goroutine after the channel receive.
//
// On a termination request the child's process group gets SIGTERM; if
// it has not exited within a bounded grace period it gets SIGKILL. The
// controller never returns while the child is still running.
package foreground
