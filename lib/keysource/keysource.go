// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keysource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/smssh/lib/config"
	"github.com/bureau-foundation/smssh/lib/secret"
)

// Client fetches key material for configured aliases. The zero value
// is not usable; construct with New.
type Client struct {
	logger *slog.Logger
}

// New returns a Client that logs fetch activity (references and
// fingerprints only, never key bytes) to logger.
func New(logger *slog.Logger) *Client {
	return &Client{logger: logger}
}

// Fetch resolves alias through its backend and returns the key
// material. The caller owns the returned buffer and must Close it.
func (c *Client) Fetch(ctx context.Context, alias config.KeyAlias) (*secret.Buffer, error) {
	if err := alias.Validate(); err != nil {
		return nil, fmt.Errorf("invalid key alias: %w", err)
	}

	var (
		key *secret.Buffer
		err error
	)
	switch alias.Kind {
	case config.SecretsManager:
		key, err = fetchSecretsManager(ctx, alias.SecretARN)
	case config.AgeFile:
		key, err = fetchAgeFile(alias.Path, alias.Identity)
	default:
		// Validate rejects unknown kinds; this is unreachable unless
		// a new kind is added without a backend.
		return nil, fmt.Errorf("no backend for alias kind %q", alias.Kind)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched key material",
		"backend", string(alias.Kind),
		"reference", alias.Reference(),
		"bytes", key.Len(),
		"fingerprint", secret.Fingerprint(key.Bytes()))
	return key, nil
}
