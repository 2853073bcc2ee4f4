// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package foreground

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// terminateGracePeriod bounds how long a child may linger between the
// graceful SIGTERM and the forced SIGKILL after a termination request.
const terminateGracePeriod = 2 * time.Second

// Step names the OS interaction that failed, so errors identify which
// part of the spawn/hand-off/restore sequence went wrong.
type Step string

const (
	StepSpawn        Step = "spawn"
	StepProcessGroup Step = "process-group"
	StepHandoff      Step = "terminal-handoff"
	StepRestore      Step = "terminal-restore"
)

// StepError is an OS-call failure during a specific controller step.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ErrNoStatus is returned when the child terminated but the wait
// result carried neither an exit code nor a terminating signal.
var ErrNoStatus = errors.New("child terminated without an exit status")

// Status is the child's outcome. A child killed by a signal is a
// distinct outcome from a nonzero exit code — Signal is nonzero and
// Code is meaningless in that case.
type Status struct {
	// Code is the child's exit code when it exited normally.
	Code int

	// Signal is the signal that killed the child, or zero for a
	// normal exit.
	Signal syscall.Signal
}

// Signaled reports whether the child was killed by a signal.
func (s Status) Signaled() bool { return s.Signal != 0 }

// ExitCode maps the status onto a process exit code: a normal exit
// mirrors the child's code exactly, and a signal-killed child maps to
// 128+N per shell convention (a reserved range no normal exit of ssh
// uses, so callers can tell the two apart).
func (s Status) ExitCode() int {
	if s.Signaled() {
		return 128 + int(s.Signal)
	}
	return s.Code
}

// Run spawns program with args as an interactive foreground child and
// blocks until it exits or a termination request supersedes it. Stdio
// is inherited. When stdin is not a terminal the terminal hand-off is
// skipped but supervision and termination forwarding still apply.
func Run(program string, args []string, logger *slog.Logger) (Status, error) {
	cmd := exec.Command(program, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// The runtime calls setpgid in the child between fork and exec,
	// and Start does not return success until the exec has happened,
	// so once Start returns the child is already out of our process
	// group. That ordering matters: handing the terminal to the
	// child's group below must not race with the child still being
	// in ours.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Register before spawning so a termination request arriving
	// during startup is not lost. The runtime's handler only forwards
	// to the channel; everything consequential happens here after the
	// receive.
	terminations := make(chan os.Signal, 1)
	signal.Notify(terminations, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(terminations)

	if err := cmd.Start(); err != nil {
		return Status{}, &StepError{Step: StepSpawn, Err: err}
	}
	childPID := cmd.Process.Pid

	// The child's group id equals its pid by convention. Getpgid can
	// fail with ESRCH if the child already died; supervision below
	// reaps that normally.
	if pgid, err := unix.Getpgid(childPID); err == nil && pgid != childPID {
		_ = syscall.Kill(childPID, syscall.SIGKILL)
		_ = cmd.Wait()
		return Status{}, &StepError{
			Step: StepProcessGroup,
			Err:  fmt.Errorf("child is in process group %d, want %d", pgid, childPID),
		}
	}

	stdinFD := int(os.Stdin.Fd())
	interactive := term.IsTerminal(stdinFD)

	var handoffError error
	if interactive {
		// Ignored across both foreground-group changes; Reset (via
		// defer, after the restore below) reinstates the original
		// disposition once neither change is pending.
		signal.Ignore(syscall.SIGTTOU)
		defer signal.Reset(syscall.SIGTTOU)

		if err := unix.IoctlSetPointerInt(stdinFD, unix.TIOCSPGRP, childPID); err != nil {
			handoffError = &StepError{Step: StepHandoff, Err: err}
		}
	}

	var status Status
	var primaryError error
	if handoffError != nil {
		// Hand-off failure is fatal to the session. The child exists
		// and must not outlive us: kill its group and reap it before
		// restoring the terminal.
		logger.Error("terminal hand-off failed, killing child", "pid", childPID, "error", handoffError)
		_ = syscall.Kill(-childPID, syscall.SIGKILL)
		_ = cmd.Wait()
		primaryError = handoffError
	} else {
		status, primaryError = supervise(cmd, terminations, logger)
	}

	if interactive {
		if err := unix.IoctlSetPointerInt(stdinFD, unix.TIOCSPGRP, unix.Getpgrp()); err != nil {
			if primaryError == nil {
				primaryError = &StepError{Step: StepRestore, Err: err}
			} else {
				// Never displace the primary error.
				logger.Warn("restoring terminal foreground group", "error", err)
			}
		}
	}

	if primaryError != nil {
		return Status{}, primaryError
	}
	return status, nil
}

// supervise blocks until the child exits. A termination request aimed
// at the supervisor is forwarded to the child's process group as
// SIGTERM, escalating to SIGKILL after the grace period; supervise
// only returns once the child has actually been reaped.
func supervise(cmd *exec.Cmd, terminations <-chan os.Signal, logger *slog.Logger) (Status, error) {
	waits := make(chan error, 1)
	go func() { waits <- cmd.Wait() }()

	select {
	case err := <-waits:
		return statusFromWait(err)

	case received := <-terminations:
		group := -cmd.Process.Pid
		logger.Info("termination requested, stopping child",
			"signal", received.String(), "pid", cmd.Process.Pid)

		if err := syscall.Kill(group, syscall.SIGTERM); err != nil {
			// Group already gone or unreachable; make sure.
			_ = syscall.Kill(group, syscall.SIGKILL)
		}

		select {
		case err := <-waits:
			return statusFromWait(err)
		case <-time.After(terminateGracePeriod):
			logger.Warn("child ignored SIGTERM, killing", "pid", cmd.Process.Pid)
			_ = syscall.Kill(group, syscall.SIGKILL)
			return statusFromWait(<-waits)
		}
	}
}

// statusFromWait converts the result of cmd.Wait into a Status,
// keeping killed-by-signal distinct from a nonzero exit code.
func statusFromWait(err error) (Status, error) {
	if err == nil {
		return Status{}, nil
	}

	var exitError *exec.ExitError
	if !errors.As(err, &exitError) {
		return Status{}, fmt.Errorf("waiting for child: %w", err)
	}

	waitStatus, ok := exitError.Sys().(syscall.WaitStatus)
	if !ok {
		return Status{}, ErrNoStatus
	}
	switch {
	case waitStatus.Signaled():
		return Status{Signal: waitStatus.Signal()}, nil
	case waitStatus.Exited():
		return Status{Code: waitStatus.ExitStatus()}, nil
	default:
		return Status{}, ErrNoStatus
	}
}
