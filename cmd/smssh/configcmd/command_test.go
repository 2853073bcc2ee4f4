// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package configcmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/smssh/lib/config"
)

// withTempConfig points SMSSH_CONFIG at a file in a temp directory so
// the commands under test never touch the real user configuration.
func withTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smssh.yaml")
	t.Setenv("SMSSH_CONFIG", path)
	return path
}

func TestSetAlias_SecretsManager(t *testing.T) {
	path := withTempConfig(t)

	command := Command()
	err := command.Execute([]string{
		"set", "alias", "secrets-manager",
		"--name", "prod-key",
		"--secret-arn", "arn:aws:secretsmanager:us-west-2:123456789012:secret:prod-key",
	})
	if err != nil {
		t.Fatalf("set alias: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	alias, ok := cfg.KeyAliases["prod-key"]
	if !ok {
		t.Fatalf("alias %q not stored", "prod-key")
	}
	if alias.Kind != config.SecretsManager {
		t.Errorf("kind = %q, want %q", alias.Kind, config.SecretsManager)
	}
	if alias.SecretARN == "" {
		t.Error("secret ARN not stored")
	}
}

func TestSetAlias_MissingName(t *testing.T) {
	withTempConfig(t)

	err := Command().Execute([]string{
		"set", "alias", "secrets-manager",
		"--secret-arn", "arn:aws:secretsmanager:us-west-2:123456789012:secret:x",
	})
	if err == nil {
		t.Fatal("expected validation error for missing --name")
	}
}

func TestSetHost_UnknownAliasRejected(t *testing.T) {
	path := withTempConfig(t)

	err := Command().Execute([]string{
		"set", "host",
		"--name", "bastion",
		"--alias", "nonexistent",
		"--destination", "ops@bastion.example.com",
	})
	if err == nil {
		t.Fatal("expected error for host referencing unknown alias")
	}

	// The failed mutation must not have been stored.
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("config file written despite failed mutation")
	}
}

func TestSetHost_TrailingArgsBecomeSSHArgs(t *testing.T) {
	path := withTempConfig(t)

	root := Command()
	err := root.Execute([]string{
		"set", "alias", "age-file",
		"--name", "lab-key",
		"--path", "/keys/lab.age",
		"--identity", "/keys/identities",
	})
	if err != nil {
		t.Fatalf("set alias: %v", err)
	}

	err = Command().Execute([]string{
		"set", "host",
		"--name", "lab",
		"--alias", "lab-key",
		"--destination", "admin@lab.internal",
		"--", "-p", "2222", "-v",
	})
	if err != nil {
		t.Fatalf("set host: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	host, ok := cfg.Hosts["lab"]
	if !ok {
		t.Fatal("host not stored")
	}
	want := []string{"-p", "2222", "-v"}
	if len(host.Args) != len(want) {
		t.Fatalf("args = %v, want %v", host.Args, want)
	}
	for i := range want {
		if host.Args[i] != want[i] {
			t.Fatalf("args = %v, want %v", host.Args, want)
		}
	}
}

func TestRemoveAlias_RefusedWhileReferenced(t *testing.T) {
	path := withTempConfig(t)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if err := cfg.SetAlias("shared", config.KeyAlias{
		Kind:      config.SecretsManager,
		SecretARN: "arn:aws:secretsmanager:us-west-2:123456789012:secret:shared",
	}); err != nil {
		t.Fatalf("seed alias: %v", err)
	}
	if err := cfg.SetHost("web", config.Host{
		KeyAlias:    "shared",
		Destination: "deploy@web.example.com",
	}); err != nil {
		t.Fatalf("seed host: %v", err)
	}
	if err := cfg.Store(path); err != nil {
		t.Fatalf("store: %v", err)
	}

	if err := Command().Execute([]string{"remove", "alias", "shared"}); err == nil {
		t.Fatal("expected removal to be refused while host references the alias")
	}

	if err := Command().Execute([]string{"remove", "host", "web"}); err != nil {
		t.Fatalf("remove host: %v", err)
	}
	if err := Command().Execute([]string{"remove", "alias", "shared"}); err != nil {
		t.Fatalf("remove alias after host removed: %v", err)
	}

	final, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(final.KeyAliases) != 0 || len(final.Hosts) != 0 {
		t.Errorf("config not empty after removals: %+v", final)
	}
}
