// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/council/vms/councilvm/config"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	AddFlags(flags)
	return flags
}

func TestParseFlagsDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := ParseFlags(newFlagSet(), nil)
	require.NoError(err)
	require.Equal(config.DefaultConfig(), cfg)
}

func TestParseFlagsOverrides(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "council.yaml")
	require.NoError(os.WriteFile(path, []byte("httpPort: 7000\nkeeper: true\n"), 0o600))

	cfg, err := ParseFlags(newFlagSet(), []string{
		"--" + ConfigFileKey, path,
		"--" + HTTPPortKey, "8000",
		"--" + KeeperKey + "=false",
	})
	require.NoError(err)
	require.Equal(uint16(8000), cfg.HTTPPort)
	require.False(cfg.Keeper)
}

func TestParseFlagsFileOnly(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "council.yaml")
	require.NoError(os.WriteFile(path, []byte("httpPort: 7000\n"), 0o600))

	cfg, err := ParseFlags(newFlagSet(), []string{"--" + ConfigFileKey, path})
	require.NoError(err)
	require.Equal(uint16(7000), cfg.HTTPPort)
}

func TestParseFlagsUnknown(t *testing.T) {
	_, err := ParseFlags(newFlagSet(), []string{"--unknown"})
	require.Error(t, err)
}
