// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
)

var (
	_ Transport = (*loopbackTransport)(nil)

	ErrUnknownDestination = errors.New("unknown destination chain")
)

// Receiver consumes envelopes addressed to one chain.
type Receiver interface {
	ReceiveMessage(ctx context.Context, env *Envelope) error
}

// Hub connects modules running in the same process. Every envelope is
// round-tripped through its wire encoding and delivered synchronously.
type Hub struct {
	log log.Logger

	lock      sync.RWMutex
	receivers map[ids.ID]Receiver
	fees      map[ids.ID]uint64
	delivered int
	rejected  int
}

func NewHub(log log.Logger) *Hub {
	return &Hub{
		log:       log,
		receivers: make(map[ids.ID]Receiver),
		fees:      make(map[ids.ID]uint64),
	}
}

// Register makes [chainID] reachable. A nil [r] reserves the chain without
// delivering to it.
func (h *Hub) Register(chainID ids.ID, r Receiver) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.receivers[chainID] = r
}

// Transport returns the view of the hub from [chainID].
func (h *Hub) Transport(chainID ids.ID) Transport {
	return &loopbackTransport{
		hub:     h,
		chainID: chainID,
	}
}

// Fees returns the total value attached to deliveries to [chainID].
func (h *Hub) Fees(chainID ids.ID) uint64 {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return h.fees[chainID]
}

// Stats returns how many envelopes were delivered and how many of those the
// receiver rejected.
func (h *Hub) Stats() (delivered int, rejected int) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return h.delivered, h.rejected
}

func (h *Hub) chains() []ids.ID {
	h.lock.RLock()
	defer h.lock.RUnlock()

	chains := make([]ids.ID, 0, len(h.receivers))
	for chainID := range h.receivers {
		chains = append(chains, chainID)
	}
	slices.SortFunc(chains, func(a, b ids.ID) int {
		return bytes.Compare(a[:], b[:])
	})
	return chains
}

func (h *Hub) deliver(ctx context.Context, from ids.ID, env *Envelope, value uint64) error {
	h.lock.Lock()
	r, ok := h.receivers[env.DestinationChainID]
	if ok {
		h.fees[env.DestinationChainID] += value
	}
	h.lock.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDestination, env.DestinationChainID)
	}
	if r == nil {
		return nil
	}

	wire, err := env.Bytes()
	if err != nil {
		return err
	}
	received, err := ParseEnvelope(wire)
	if err != nil {
		return err
	}

	// A rejected message was still delivered, the rejection happens on the
	// destination chain and is not reported back to the sender.
	err = r.ReceiveMessage(ctx, received)

	h.lock.Lock()
	h.delivered++
	if err != nil {
		h.rejected++
	}
	h.lock.Unlock()

	if err != nil {
		h.log.Info("destination rejected cross-chain message",
			log.Stringer("source", from),
			log.Stringer("destination", env.DestinationChainID),
			log.Reflect("nonce", env.Nonce),
			log.Err(err),
		)
	}
	return nil
}

type loopbackTransport struct {
	hub     *Hub
	chainID ids.ID
}

func (t *loopbackTransport) SupportedNetworks() []ids.ID {
	return t.hub.chains()
}

func (t *loopbackTransport) Send(ctx context.Context, _ TransportConfig, env *Envelope, value uint64) error {
	return t.hub.deliver(ctx, t.chainID, env, value)
}
