// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// fileName is the configuration file name inside the user config
// directory.
const fileName = "smssh.yaml"

// envOverride names the environment variable that overrides the
// configuration file location.
const envOverride = "SMSSH_CONFIG"

// AliasKind identifies the backend a key alias fetches from.
type AliasKind string

const (
	// SecretsManager fetches the key from an AWS Secrets Manager
	// secret identified by ARN.
	SecretsManager AliasKind = "secrets-manager"

	// AgeFile decrypts an age-encrypted key file on local disk using
	// an identities file.
	AgeFile AliasKind = "age-file"
)

// KeyAlias is a named credential source. Kind selects the backend;
// the remaining fields are backend-specific.
type KeyAlias struct {
	Kind AliasKind `yaml:"kind"`

	// SecretARN is the Secrets Manager secret ARN (kind: secrets-manager).
	SecretARN string `yaml:"secret_arn,omitempty"`

	// Path is the age-encrypted key file (kind: age-file).
	Path string `yaml:"path,omitempty"`

	// Identity is the age identities file used for decryption
	// (kind: age-file).
	Identity string `yaml:"identity,omitempty"`
}

// Reference returns the backend-specific reference string, used in
// error messages and log lines.
func (a KeyAlias) Reference() string {
	if a.Kind == AgeFile {
		return a.Path
	}
	return a.SecretARN
}

// Validate checks that the alias names a known backend and carries the
// fields that backend requires.
func (a KeyAlias) Validate() error {
	switch a.Kind {
	case SecretsManager:
		if a.SecretARN == "" {
			return fmt.Errorf("secrets-manager alias requires secret_arn")
		}
	case AgeFile:
		if a.Path == "" {
			return fmt.Errorf("age-file alias requires path")
		}
		if a.Identity == "" {
			return fmt.Errorf("age-file alias requires identity")
		}
	default:
		return fmt.Errorf("unknown alias kind %q", a.Kind)
	}
	return nil
}

// Host is a named connection profile: which key alias to stage, the
// ssh destination, and extra arguments inserted before any arguments
// the operator supplies on the command line.
type Host struct {
	KeyAlias    string   `yaml:"key_alias"`
	Destination string   `yaml:"destination"`
	Args        []string `yaml:"args,omitempty"`
}

// Config is the full smssh configuration.
type Config struct {
	KeyAliases map[string]KeyAlias `yaml:"key_aliases,omitempty"`
	Hosts      map[string]Host     `yaml:"hosts,omitempty"`
}

// Path returns the configuration file location: $SMSSH_CONFIG if set,
// otherwise smssh.yaml in the user configuration directory.
func Path() (string, error) {
	if override := os.Getenv(envOverride); override != "" {
		return override, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("locating config directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the configuration from path. A missing file is not an
// error: it loads as an empty configuration, so first use works
// without any setup step.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &config, nil
}

// Store writes the configuration to path. The parent directory is
// created if absent. The file is written with owner-only permissions:
// it names the secrets the operator can reach, even though it never
// contains key material itself.
func (c *Config) Store(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// SetAlias adds or replaces a key alias after validating it.
func (c *Config) SetAlias(name string, alias KeyAlias) error {
	if name == "" {
		return fmt.Errorf("alias name must not be empty")
	}
	if err := alias.Validate(); err != nil {
		return fmt.Errorf("alias %q: %w", name, err)
	}
	if c.KeyAliases == nil {
		c.KeyAliases = make(map[string]KeyAlias)
	}
	c.KeyAliases[name] = alias
	return nil
}

// SetHost adds or replaces a host profile. The referenced key alias
// must already exist — host profiles never dangle at creation time.
func (c *Config) SetHost(name string, host Host) error {
	if name == "" {
		return fmt.Errorf("host name must not be empty")
	}
	if host.Destination == "" {
		return fmt.Errorf("host %q requires a destination", name)
	}
	if _, ok := c.KeyAliases[host.KeyAlias]; !ok {
		return fmt.Errorf("host %q references unknown key alias %q", name, host.KeyAlias)
	}
	if c.Hosts == nil {
		c.Hosts = make(map[string]Host)
	}
	c.Hosts[name] = host
	return nil
}

// RemoveAlias deletes a key alias. Removal is refused while any host
// profile still references the alias; the error names those hosts so
// the operator knows what to clean up first.
func (c *Config) RemoveAlias(name string) error {
	if _, ok := c.KeyAliases[name]; !ok {
		return fmt.Errorf("key alias %q not found", name)
	}

	var referencing []string
	for hostName, host := range c.Hosts {
		if host.KeyAlias == name {
			referencing = append(referencing, hostName)
		}
	}
	if len(referencing) > 0 {
		sort.Strings(referencing)
		return fmt.Errorf("key alias %q is still referenced by hosts %v", name, referencing)
	}

	delete(c.KeyAliases, name)
	return nil
}

// RemoveHost deletes a host profile.
func (c *Config) RemoveHost(name string) error {
	if _, ok := c.Hosts[name]; !ok {
		return fmt.Errorf("host %q not found", name)
	}
	delete(c.Hosts, name)
	return nil
}
