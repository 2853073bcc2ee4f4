// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package foreground

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ptyHelperEnv selects helper mode when the test binary is re-executed
// under a pty. The terminal hand-off only happens when stdin is a real
// terminal, so those paths are exercised in a re-exec'd copy of this
// binary whose controlling terminal is a pty owned by the parent test.
const ptyHelperEnv = "GO_TEST_FOREGROUND_PTY_MODE"

func TestMain(m *testing.M) {
	mode := os.Getenv(ptyHelperEnv)
	if mode == "" {
		os.Exit(m.Run())
	}
	runPtyHelper(mode)
}

// runPtyHelper runs a child through Run on a real controlling terminal
// and reports the child's outcome plus the terminal's foreground group
// afterward, one parseable line on stdout.
func runPtyHelper(mode string) {
	logger := discardLogger()

	var status Status
	var err error
	switch mode {
	case "exit":
		status, err = Run("true", nil, logger)
	case "terminate":
		// Run registers its termination handler before spawning, so a
		// signal this far after startup lands on the forwarding path.
		go func() {
			time.Sleep(500 * time.Millisecond)
			_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
		}()
		status, err = Run("sleep", []string{"30"}, logger)
	default:
		fmt.Printf("RESULT error=unknown mode %q\n", mode)
		os.Exit(2)
	}
	if err != nil {
		fmt.Printf("RESULT error=%v\n", err)
		os.Exit(1)
	}

	foregroundGroup, err := unix.IoctlGetInt(int(os.Stdin.Fd()), unix.TIOCGPGRP)
	if err != nil {
		fmt.Printf("RESULT error=tcgetpgrp: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("RESULT code=%d signal=%d fg=%d pg=%d\n",
		status.ExitCode(), int(status.Signal), foregroundGroup, unix.Getpgrp())
	os.Exit(0)
}

// runUnderPty re-executes the test binary as a pty session leader in
// the given helper mode and returns the helper's parsed report.
func runUnderPty(t *testing.T, mode string) (code, signalNumber, foregroundGroup, supervisorGroup int) {
	t.Helper()

	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}
	cmd := exec.Command(executable)
	cmd.Env = append(os.Environ(), ptyHelperEnv+"="+mode)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()

	// Reading fails with EIO once the helper exits and the slave side
	// closes; everything collected before that is the report.
	var output bytes.Buffer
	_, _ = io.Copy(&output, ptmx)
	if err := cmd.Wait(); err != nil {
		t.Fatalf("helper failed: %v\noutput:\n%s", err, output.String())
	}

	for _, line := range strings.Split(output.String(), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "RESULT ") {
			continue
		}
		if strings.HasPrefix(line, "RESULT error=") {
			t.Fatalf("helper reported: %s", line)
		}
		_, err := fmt.Sscanf(line, "RESULT code=%d signal=%d fg=%d pg=%d",
			&code, &signalNumber, &foregroundGroup, &supervisorGroup)
		if err != nil {
			t.Fatalf("parsing %q: %v", line, err)
		}
		return code, signalNumber, foregroundGroup, supervisorGroup
	}
	t.Fatalf("no result line in helper output:\n%s", output.String())
	return 0, 0, 0, 0
}

func TestRun_RestoresForegroundGroupAfterExit(t *testing.T) {
	code, signalNumber, foregroundGroup, supervisorGroup := runUnderPty(t, "exit")
	if code != 0 || signalNumber != 0 {
		t.Errorf("code = %d, signal = %d, want clean zero exit", code, signalNumber)
	}
	if foregroundGroup != supervisorGroup {
		t.Errorf("terminal foreground group = %d, supervisor group = %d; terminal not restored",
			foregroundGroup, supervisorGroup)
	}
}

func TestRun_RestoresForegroundGroupAfterTermination(t *testing.T) {
	code, signalNumber, foregroundGroup, supervisorGroup := runUnderPty(t, "terminate")
	if signalNumber != int(syscall.SIGTERM) {
		t.Errorf("signal = %d, want SIGTERM (%d)", signalNumber, int(syscall.SIGTERM))
	}
	if code != 128+int(syscall.SIGTERM) {
		t.Errorf("code = %d, want %d", code, 128+int(syscall.SIGTERM))
	}
	if foregroundGroup != supervisorGroup {
		t.Errorf("terminal foreground group = %d, supervisor group = %d; terminal not restored",
			foregroundGroup, supervisorGroup)
	}
}

func TestRun_NormalExit(t *testing.T) {
	status, err := Run("true", nil, discardLogger())
	if err != nil {
		t.Fatalf("Run(true) failed: %v", err)
	}
	if status.Signaled() || status.Code != 0 {
		t.Errorf("status = %+v, want clean zero exit", status)
	}
}

func TestRun_NonzeroExit(t *testing.T) {
	status, err := Run("false", nil, discardLogger())
	if err != nil {
		t.Fatalf("Run(false) failed: %v", err)
	}
	if status.Signaled() {
		t.Fatal("false reported as signal-killed")
	}
	if status.Code != 1 {
		t.Errorf("exit code = %d, want 1", status.Code)
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	_, err := Run("/nonexistent/program", nil, discardLogger())
	var stepError *StepError
	if !errors.As(err, &stepError) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepError.Step != StepSpawn {
		t.Errorf("failed step = %s, want %s", stepError.Step, StepSpawn)
	}
}

func TestStatusFromWait_SignalKilled(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting sleep: %v", err)
	}
	if err := cmd.Process.Kill(); err != nil {
		t.Fatalf("killing sleep: %v", err)
	}

	status, err := statusFromWait(cmd.Wait())
	if err != nil {
		t.Fatalf("statusFromWait failed: %v", err)
	}
	if !status.Signaled() {
		t.Fatal("killed child not reported as signaled")
	}
	if status.Signal != syscall.SIGKILL {
		t.Errorf("signal = %v, want SIGKILL", status.Signal)
	}
}

func TestSupervise_TerminationRequest(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting sleep: %v", err)
	}
	childPID := cmd.Process.Pid

	terminations := make(chan os.Signal, 1)
	terminations <- syscall.SIGTERM

	start := time.Now()
	status, err := supervise(cmd, terminations, discardLogger())
	if err != nil {
		t.Fatalf("supervise failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("supervise took %v, termination should be prompt", elapsed)
	}

	if !status.Signaled() || status.Signal != syscall.SIGTERM {
		t.Errorf("status = %+v, want SIGTERM-killed", status)
	}

	// The child must be gone (reaped) by the time supervise returns.
	if err := syscall.Kill(childPID, 0); err != syscall.ESRCH {
		t.Errorf("child %d still exists after supervise returned: %v", childPID, err)
	}
}

func TestSupervise_NormalExitWinsRace(t *testing.T) {
	cmd := exec.Command("true")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting true: %v", err)
	}

	// No termination request: supervise returns the child's own exit.
	status, err := supervise(cmd, make(chan os.Signal), discardLogger())
	if err != nil {
		t.Fatalf("supervise failed: %v", err)
	}
	if status.Signaled() || status.Code != 0 {
		t.Errorf("status = %+v, want clean exit", status)
	}
}

func TestStatus_ExitCode(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		want   int
	}{
		{"clean", Status{}, 0},
		{"nonzero", Status{Code: 3}, 3},
		{"sigterm", Status{Signal: syscall.SIGTERM}, 128 + 15},
		{"sigkill", Status{Signal: syscall.SIGKILL}, 128 + 9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.status.ExitCode(); got != c.want {
				t.Errorf("ExitCode() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestStepError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	stepError := &StepError{Step: StepHandoff, Err: inner}
	if !errors.Is(stepError, inner) {
		t.Error("errors.Is should reach the wrapped error")
	}
}
