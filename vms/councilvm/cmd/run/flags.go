// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/council/vms/councilvm/config"
)

const (
	ConfigFileKey = "config-file"
	HTTPPortKey   = "http-port"
	KeeperKey     = "keeper"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigFileKey, "", "YAML file to load the node configuration from")
	flags.Uint16(HTTPPortKey, 0, "Port of the HTTP API, overrides the configuration when set")
	flags.Bool(KeeperKey, true, "Evaluate and resolve finished elections automatically")
}

// ParseFlags loads the configuration and applies the flags the user set.
func ParseFlags(flags *pflag.FlagSet, args []string) (config.Config, error) {
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	path, err := flags.GetString(ConfigFileKey)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if flags.Changed(HTTPPortKey) {
		cfg.HTTPPort, err = flags.GetUint16(HTTPPortKey)
		if err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(KeeperKey) {
		cfg.Keeper, err = flags.GetBool(KeeperKey)
		if err != nil {
			return config.Config{}, err
		}
	}
	return cfg, cfg.Verify()
}
