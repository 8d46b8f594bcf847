// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xchain carries council instructions between the primary chain and
// its satellites.
package xchain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/warp"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnexpectedValue   = errors.New("value attached to a call that sends nothing")
	ErrUnverifiedMessage = errors.New("message not verified by the transport")
	ErrUntrustedSource   = errors.New("message from untrusted source")
)

type Config struct {
	NetworkID uint32
	// ChainID is the chain this synchronizer runs on.
	ChainID ids.ID
	// PrimaryChainID is the chain that decides elections.
	PrimaryChainID ids.ID

	Transport Transport
	Signer    warp.Signer
	Verifier  warp.Verifier
	Log       log.Logger
}

// Synchronizer queues outbound instructions in an [Outbox] and verifies
// inbound ones.
type Synchronizer struct {
	config Config
	outbox *Outbox

	// relayLock prevents two relays from delivering the same entries.
	relayLock sync.Mutex
}

func New(config Config, outbox *Outbox) *Synchronizer {
	return &Synchronizer{
		config: config,
		outbox: outbox,
	}
}

func (s *Synchronizer) ChainID() ids.ID {
	return s.config.ChainID
}

func (s *Synchronizer) PrimaryChainID() ids.ID {
	return s.config.PrimaryChainID
}

// IsPrimary reports whether this synchronizer runs on the primary chain.
func (s *Synchronizer) IsPrimary() bool {
	return s.config.ChainID == s.config.PrimaryChainID
}

// Destinations returns every supported chain except the local one.
func (s *Synchronizer) Destinations() []ids.ID {
	networks := s.config.Transport.SupportedNetworks()
	destinations := make([]ids.ID, 0, len(networks))
	for _, chainID := range networks {
		if chainID != s.config.ChainID && !slices.Contains(destinations, chainID) {
			destinations = append(destinations, chainID)
		}
	}
	return destinations
}

// Broadcast queues [p] for every chain in [destinations]. [value] is split
// evenly between them, the first destination receives the remainder.
func (s *Synchronizer) Broadcast(
	ctx context.Context,
	cfg TransportConfig,
	destinations []ids.ID,
	p Payload,
	value uint64,
) error {
	if len(destinations) == 0 {
		if value > 0 {
			return fmt.Errorf("%w: %d with no destinations", ErrUnexpectedValue, value)
		}
		return nil
	}
	if p.Bytes() == nil {
		if err := Build(p); err != nil {
			return err
		}
	}

	share := value / uint64(len(destinations))
	remainder := value % uint64(len(destinations))
	for i, destination := range destinations {
		fee := share
		if i == 0 {
			fee += remainder
		}
		if err := s.enqueue(ctx, cfg, destination, p, fee); err != nil {
			return err
		}
	}
	return nil
}

// Send queues [p] for [destination] alone.
func (s *Synchronizer) Send(
	ctx context.Context,
	cfg TransportConfig,
	destination ids.ID,
	p Payload,
	value uint64,
) error {
	return s.Broadcast(ctx, cfg, []ids.ID{destination}, p, value)
}

func (s *Synchronizer) enqueue(
	_ context.Context,
	cfg TransportConfig,
	destination ids.ID,
	p Payload,
	value uint64,
) error {
	nonce, err := s.outbox.NextNonce()
	if err != nil {
		return err
	}

	env := Envelope{
		UnsignedEnvelope: UnsignedEnvelope{
			Version:            EnvelopeVersion,
			NetworkID:          s.config.NetworkID,
			SourceChainID:      s.config.ChainID,
			DestinationChainID: destination,
			Nonce:              nonce,
			Payload:            p.Bytes(),
		},
	}
	msg, err := env.ToWarpMessage()
	if err != nil {
		return err
	}
	env.Signature, err = s.config.Signer.Sign(msg)
	if err != nil {
		return fmt.Errorf("couldn't sign envelope: %w", err)
	}

	s.config.Log.Debug("queued cross-chain message",
		log.Stringer("destination", destination),
		log.Reflect("nonce", nonce),
		log.String("payload", fmt.Sprintf("%T", p)),
	)
	return s.outbox.Push(&Entry{
		Envelope: env,
		Config:   cfg,
		Value:    value,
	})
}

// Pending returns up to [limit] undelivered entries, zero means all.
func (s *Synchronizer) Pending(limit int) ([]*Entry, error) {
	return s.outbox.Pending(limit)
}

// Deliver hands [entries] to the transport, concurrently per destination and
// in nonce order within one destination. It returns the nonces the transport
// accepted. Entries that failed stay queued for the next relay.
func (s *Synchronizer) Deliver(ctx context.Context, entries []*Entry) []uint64 {
	s.relayLock.Lock()
	defer s.relayLock.Unlock()

	byDestination := make(map[ids.ID][]*Entry)
	for _, entry := range entries {
		dest := entry.Envelope.DestinationChainID
		byDestination[dest] = append(byDestination[dest], entry)
	}

	var (
		lock      sync.Mutex
		delivered []uint64
		eg        errgroup.Group
	)
	for dest, queue := range byDestination {
		eg.Go(func() error {
			for _, entry := range queue {
				err := s.config.Transport.Send(ctx, entry.Config, &entry.Envelope, entry.Value)
				if err != nil {
					s.config.Log.Warn("cross-chain delivery failed",
						log.Stringer("destination", dest),
						log.Reflect("nonce", entry.Envelope.Nonce),
						log.Err(err),
					)
					// Keep the order within a destination.
					return nil
				}

				lock.Lock()
				delivered = append(delivered, entry.Envelope.Nonce)
				lock.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	slices.Sort(delivered)
	return delivered
}

// MarkDelivered drops delivered entries from the outbox.
func (s *Synchronizer) MarkDelivered(nonces []uint64) error {
	for _, nonce := range nonces {
		if err := s.outbox.Remove(nonce); err != nil {
			return err
		}
	}
	return nil
}

// Verify authenticates [env] and returns the instruction it carries. Only
// an [Inbound] returned from here is accepted by receive entry points.
func (s *Synchronizer) Verify(ctx context.Context, env *Envelope) (*Inbound, error) {
	if env.NetworkID != s.config.NetworkID {
		return nil, fmt.Errorf("%w: %w: %d", ErrUntrustedSource, ErrWrongNetworkID, env.NetworkID)
	}
	if env.DestinationChainID != s.config.ChainID {
		return nil, fmt.Errorf("%w: addressed to %s", ErrUntrustedSource, env.DestinationChainID)
	}
	if env.SourceChainID == s.config.ChainID ||
		!slices.Contains(s.config.Transport.SupportedNetworks(), env.SourceChainID) {
		return nil, fmt.Errorf("%w: %s", ErrUntrustedSource, env.SourceChainID)
	}

	msg, err := env.ToWarpMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnverifiedMessage, err)
	}
	if err := s.config.Verifier.Verify(ctx, msg, env.Signature); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnverifiedMessage, err)
	}

	p, err := Parse(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse payload from %s: %w", env.SourceChainID, err)
	}
	return &Inbound{
		SourceChainID: env.SourceChainID,
		Nonce:         env.Nonce,
		Payload:       p,
		verified:      true,
	}, nil
}

// Inbound is a verified instruction from a remote chain.
type Inbound struct {
	SourceChainID ids.ID
	Nonce         uint64
	Payload       Payload

	verified bool
}

// Verified reports whether [in] was produced by [Synchronizer.Verify].
func (in *Inbound) Verified() bool {
	return in != nil && in.verified
}
