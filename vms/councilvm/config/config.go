// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines configuration types for a council node.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/luxfi/council/utils/wrappers"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

const (
	// EnvPrefix prefixes every environment override, e.g. COUNCIL_HTTP_PORT.
	EnvPrefix = "council"

	DefaultNetworkID uint32 = 1337
)

var (
	ErrNoChains         = errors.New("no chains configured")
	ErrUnknownPrimary   = errors.New("primary chain is not a configured chain")
	ErrDuplicateChain   = errors.New("duplicate chain")
	ErrInvalidRelay     = errors.New("invalid relay settings")
	ErrInvalidHTTPPort  = errors.New("invalid HTTP port")
	ErrInvalidDurations = errors.New("invalid period durations")
)

// ElectionConfig is the first election of a fresh council.
type ElectionConfig struct {
	// InitialCouncil are the addresses seated before the first election.
	InitialCouncil       []string `json:"initialCouncil"       yaml:"initialCouncil"       split_words:"true"`
	MinimumActiveMembers uint8    `json:"minimumActiveMembers" yaml:"minimumActiveMembers" split_words:"true"`
	AdministrationDays   uint64   `json:"administrationDays"   yaml:"administrationDays"   split_words:"true"`
	NominationDays       uint64   `json:"nominationDays"       yaml:"nominationDays"       split_words:"true"`
	VotingDays           uint64   `json:"votingDays"           yaml:"votingDays"           split_words:"true"`
}

// Config contains configuration parameters for a council node.
type Config struct {
	NetworkID uint32 `json:"networkID" yaml:"networkID" split_words:"true"`
	// Owner is the address allowed to configure the council.
	Owner string `json:"owner" yaml:"owner"`
	// Token is the governance token reported by the council.
	Token string `json:"token" yaml:"token"`

	// Chains names every chain the node runs a module for.
	Chains       []string `json:"chains"       yaml:"chains"`
	PrimaryChain string   `json:"primaryChain" yaml:"primaryChain" split_words:"true"`

	Election  ElectionConfig         `json:"election"  yaml:"election"  ignored:"true"`
	Transport xchain.TransportConfig `json:"transport" yaml:"transport" ignored:"true"`

	// RelayInterval is how often undelivered messages are retried.
	RelayInterval  time.Duration `json:"relayInterval"  yaml:"relayInterval"  split_words:"true"`
	RelayBatchSize int           `json:"relayBatchSize" yaml:"relayBatchSize" split_words:"true"`
	// Keeper evaluates and resolves finished elections on the primary chain.
	Keeper bool `json:"keeper" yaml:"keeper"`
	// MaxEvaluateBatch bounds the ballots the keeper tallies per call.
	MaxEvaluateBatch uint64 `json:"maxEvaluateBatch" yaml:"maxEvaluateBatch" split_words:"true"`

	HTTPHost string `json:"httpHost" yaml:"httpHost" envconfig:"HTTP_HOST"`
	HTTPPort uint16 `json:"httpPort" yaml:"httpPort" envconfig:"HTTP_PORT"`
	// HTTPAllowedOrigins are the origins allowed to make cross-origin API
	// requests.
	HTTPAllowedOrigins []string `json:"httpAllowedOrigins" yaml:"httpAllowedOrigins" envconfig:"HTTP_ALLOWED_ORIGINS"`
}

// DefaultConfig returns the configuration of a local devnet.
func DefaultConfig() Config {
	return Config{
		NetworkID:    DefaultNetworkID,
		Chains:       []string{"primary", "satellite-1", "satellite-2"},
		PrimaryChain: "primary",

		Election: ElectionConfig{
			MinimumActiveMembers: 1,
			AdministrationDays:   14,
			NominationDays:       7,
			VotingDays:           7,
		},
		Transport: xchain.TransportConfig{
			GasLimit: 500_000,
		},

		RelayInterval:    time.Second,
		RelayBatchSize:   256,
		Keeper:           true,
		MaxEvaluateBatch: 1_000,

		HTTPHost: "127.0.0.1",
		HTTPPort: 9650,

		HTTPAllowedOrigins: []string{"*"},
	}
}

// Load returns the defaults overlaid with the YAML file at [path], if any,
// then with COUNCIL_* environment variables.
func Load(path string) (Config, error) {
	config := DefaultConfig()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &config); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return Config{}, fmt.Errorf("error processing environment: %w", err)
	}
	return config, config.Verify()
}

// Verify checks the configuration is internally consistent. Addresses are
// parsed later by the node.
func (c *Config) Verify() error {
	errs := wrappers.Errs{}
	errs.Add(c.verifyChains())

	if c.RelayInterval <= 0 || c.RelayBatchSize < 0 {
		errs.Add(fmt.Errorf("%w: interval %s, batch %d", ErrInvalidRelay, c.RelayInterval, c.RelayBatchSize))
	}
	if c.HTTPPort == 0 {
		errs.Add(ErrInvalidHTTPPort)
	}
	if c.Election.NominationDays*election.Day < election.MinNominationPeriodDuration ||
		c.Election.VotingDays*election.Day < election.MinVotingPeriodDuration {
		errs.Add(fmt.Errorf("%w: nomination and voting need at least one day each", ErrInvalidDurations))
	}
	return errs.Err
}

func (c *Config) verifyChains() error {
	if len(c.Chains) == 0 {
		return ErrNoChains
	}
	seen := make(map[string]struct{}, len(c.Chains))
	for _, chain := range c.Chains {
		if _, ok := seen[chain]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateChain, chain)
		}
		seen[chain] = struct{}{}
	}
	if _, ok := seen[c.PrimaryChain]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPrimary, c.PrimaryChain)
	}
	return nil
}
