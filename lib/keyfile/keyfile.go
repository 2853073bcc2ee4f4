// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/smssh/lib/secret"
)

// preferredParent is tmpfs-backed on Linux: staged keys live in memory
// and vanish on reboot. When it is unavailable (non-Linux, odd mount
// setups) staging falls back to the default temporary directory.
const preferredParent = "/dev/shm"

// StagedKey is a private key staged on the filesystem. Path is the
// key file handed to ssh via -i. The caller must call Remove when the
// session ends.
type StagedKey struct {
	// Path is the staged key file.
	Path string

	dir     string
	logger  *slog.Logger
	removed bool
}

// Stage writes key into a fresh owner-only directory and returns the
// staged file. The file is created 0600, written, then narrowed to
// 0400; it is never group- or world-accessible at any instant. On any
// failure the partially created directory is removed before the error
// is returned.
func Stage(key *secret.Buffer, logger *slog.Logger) (*StagedKey, error) {
	dir, err := stageDir(preferredParent)
	if err != nil {
		return nil, fmt.Errorf("creating key directory: %w", err)
	}

	path := filepath.Join(dir, "key")
	if err := writeKeyFile(path, key.Bytes()); err != nil {
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			logger.Warn("removing key directory after failed staging", "dir", dir, "error", removeErr)
		}
		return nil, fmt.Errorf("staging key file: %w", err)
	}

	logger.Debug("staged key material",
		"path", path,
		"fingerprint", secret.Fingerprint(key.Bytes()))

	return &StagedKey{Path: path, dir: dir, logger: logger}, nil
}

// Remove deletes the key file and its directory. Idempotent. Failures
// are logged at Warn and swallowed — cleanup must never displace the
// primary error on a failing session, and the leftover file is still
// owner-only.
func (s *StagedKey) Remove() {
	if s.removed {
		return
	}
	s.removed = true

	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing staged key file", "path", s.Path, "error", err)
	}
	if err := os.Remove(s.dir); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing staged key directory", "dir", s.dir, "error", err)
	}
}

// stageDir creates the owner-only staging directory, preferring the
// given parent and falling back to the default temporary directory.
// MkdirTemp creates the directory 0700 (subject to umask narrowing,
// which can only remove permissions), so no separate chmod is needed.
func stageDir(parent string) (string, error) {
	dir, err := os.MkdirTemp(parent, "smssh-*")
	if err != nil {
		dir, err = os.MkdirTemp("", "smssh-*")
	}
	return dir, err
}

// writeKeyFile creates path 0600, writes exactly data (no added
// terminator), and narrows the file to 0400. O_EXCL guards against
// the path existing already — the directory is fresh, so collision
// means something else is writing into it.
func writeKeyFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	if err := os.Chmod(path, 0o400); err != nil {
		return fmt.Errorf("narrowing %s to read-only: %w", path, err)
	}
	return nil
}
