// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigVerifies(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Verify())
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "council.yaml")
	require.NoError(os.WriteFile(path, []byte(`
chains: [main, side]
primaryChain: main
relayInterval: 5s
election:
  minimumActiveMembers: 3
  votingDays: 2
transport:
  gasLimit: 42
`), 0o600))

	t.Setenv("COUNCIL_HTTP_PORT", "8080")
	t.Setenv("COUNCIL_RELAY_BATCH_SIZE", "9")
	t.Setenv("COUNCIL_HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	config, err := Load(path)
	require.NoError(err)
	require.Equal([]string{"main", "side"}, config.Chains)
	require.Equal("main", config.PrimaryChain)
	require.Equal(5*time.Second, config.RelayInterval)
	require.Equal(uint8(3), config.Election.MinimumActiveMembers)
	require.Equal(uint64(2), config.Election.VotingDays)
	require.Equal(uint64(7), config.Election.NominationDays)
	require.Equal(uint64(42), config.Transport.GasLimit)
	require.Equal(uint16(8080), config.HTTPPort)
	require.Equal(9, config.RelayBatchSize)
	require.Equal([]string{"https://a.example", "https://b.example"}, config.HTTPAllowedOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectedErr error
	}{
		{
			name:        "no chains",
			modify:      func(c *Config) { c.Chains = nil },
			expectedErr: ErrNoChains,
		},
		{
			name:        "duplicate chain",
			modify:      func(c *Config) { c.Chains = append(c.Chains, c.PrimaryChain) },
			expectedErr: ErrDuplicateChain,
		},
		{
			name:        "unknown primary",
			modify:      func(c *Config) { c.PrimaryChain = "elsewhere" },
			expectedErr: ErrUnknownPrimary,
		},
		{
			name:        "zero relay interval",
			modify:      func(c *Config) { c.RelayInterval = 0 },
			expectedErr: ErrInvalidRelay,
		},
		{
			name:        "zero port",
			modify:      func(c *Config) { c.HTTPPort = 0 },
			expectedErr: ErrInvalidHTTPPort,
		},
		{
			name:        "no voting days",
			modify:      func(c *Config) { c.Election.VotingDays = 0 },
			expectedErr: ErrInvalidDurations,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig()
			test.modify(&config)
			require.ErrorIs(t, config.Verify(), test.expectedErr)
		})
	}
}
