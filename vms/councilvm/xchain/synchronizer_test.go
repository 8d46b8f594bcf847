// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/luxfi/constants"
	"github.com/luxfi/crypto/bls/signer/localsigner"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luxfi/council/vms/councilvm/xchain"
	"github.com/luxfi/council/vms/councilvm/xchain/xchainmock"
)

var errTest = errors.New("non-nil error")

type chain struct {
	id   ids.ID
	sync *xchain.Synchronizer
}

func newChain(t *testing.T, transport xchain.Transport, verifier *xchain.KeyVerifier, id, primary ids.ID) *chain {
	sk, err := localsigner.New()
	require.NoError(t, err)
	verifier.Register(id, sk.PublicKey())

	return &chain{
		id: id,
		sync: xchain.New(xchain.Config{
			NetworkID:      constants.UnitTestID,
			ChainID:        id,
			PrimaryChainID: primary,
			Transport:      transport,
			Signer:         xchain.NewSigner(sk, constants.UnitTestID, id),
			Verifier:       verifier,
			Log:            log.NewNoOpLogger(),
		}, xchain.NewOutbox(memdb.New())),
	}
}

type recorder struct {
	lock     sync.Mutex
	sync     *xchain.Synchronizer
	inbound  []*xchain.Inbound
	failures []error
}

func (r *recorder) ReceiveMessage(ctx context.Context, env *xchain.Envelope) error {
	in, err := r.sync.Verify(ctx, env)

	r.lock.Lock()
	defer r.lock.Unlock()
	if err != nil {
		r.failures = append(r.failures, err)
		return err
	}
	r.inbound = append(r.inbound, in)
	return nil
}

func TestBroadcastSplitsValue(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	local := ids.GenerateTestID()
	satelliteA := ids.GenerateTestID()
	satelliteB := ids.GenerateTestID()

	transport := xchainmock.NewTransport(ctrl)
	transport.EXPECT().SupportedNetworks().Return([]ids.ID{local, satelliteA, satelliteB}).AnyTimes()

	c := newChain(t, transport, xchain.NewKeyVerifier(), local, local)
	require.True(c.sync.IsPrimary())

	destinations := c.sync.Destinations()
	require.Equal([]ids.ID{satelliteA, satelliteB}, destinations)

	p := &xchain.DismissMembers{ElectionID: 1, Members: []ids.ShortID{ids.GenerateTestShortID()}}
	require.NoError(c.sync.Broadcast(context.Background(), xchain.TransportConfig{GasLimit: 7}, destinations, p, 11))

	pending, err := c.sync.Pending(0)
	require.NoError(err)
	require.Len(pending, 2)
	require.Equal(satelliteA, pending[0].Envelope.DestinationChainID)
	require.Equal(uint64(6), pending[0].Value)
	require.Equal(satelliteB, pending[1].Envelope.DestinationChainID)
	require.Equal(uint64(5), pending[1].Value)
	require.Equal(uint64(7), pending[0].Config.GasLimit)

	transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	delivered := c.sync.Deliver(context.Background(), pending)
	require.Equal([]uint64{0, 1}, delivered)
	require.NoError(c.sync.MarkDelivered(delivered))

	pending, err = c.sync.Pending(0)
	require.NoError(err)
	require.Empty(pending)
}

func TestBroadcastWithoutDestinations(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	local := ids.GenerateTestID()
	transport := xchainmock.NewTransport(ctrl)
	c := newChain(t, transport, xchain.NewKeyVerifier(), local, local)

	p := &xchain.DismissMembers{ElectionID: 1}
	require.NoError(c.sync.Broadcast(context.Background(), xchain.TransportConfig{}, nil, p, 0))

	err := c.sync.Broadcast(context.Background(), xchain.TransportConfig{}, nil, p, 1)
	require.ErrorIs(err, xchain.ErrUnexpectedValue)
}

func TestDeliverKeepsFailedEntries(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	local := ids.GenerateTestID()
	satellite := ids.GenerateTestID()

	transport := xchainmock.NewTransport(ctrl)
	c := newChain(t, transport, xchain.NewKeyVerifier(), local, local)

	for i := uint64(0); i < 3; i++ {
		p := &xchain.TweakEpochSchedule{ElectionID: i}
		require.NoError(c.sync.Send(context.Background(), xchain.TransportConfig{}, satellite, p, 0))
	}
	pending, err := c.sync.Pending(0)
	require.NoError(err)
	require.Len(pending, 3)

	gomock.InOrder(
		transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errTest),
	)
	delivered := c.sync.Deliver(context.Background(), pending)
	require.Equal([]uint64{0}, delivered)
	require.NoError(c.sync.MarkDelivered(delivered))

	pending, err = c.sync.Pending(0)
	require.NoError(err)
	require.Len(pending, 2)
	require.Equal(uint64(1), pending[0].Envelope.Nonce)
}

func TestVerifyOverLoopback(t *testing.T) {
	require := require.New(t)

	hub := xchain.NewHub(log.NewNoOpLogger())
	verifier := xchain.NewKeyVerifier()
	primaryID := ids.GenerateTestID()
	satelliteID := ids.GenerateTestID()

	primary := newChain(t, hub.Transport(primaryID), verifier, primaryID, primaryID)
	satellite := newChain(t, hub.Transport(satelliteID), verifier, satelliteID, primaryID)

	primaryInbox := &recorder{sync: primary.sync}
	satelliteInbox := &recorder{sync: satellite.sync}
	hub.Register(primaryID, primaryInbox)
	hub.Register(satelliteID, satelliteInbox)

	voter := ids.GenerateTestShortID()
	cast := &xchain.CastVote{
		ElectionID:  0,
		Voter:       voter,
		ChainID:     satelliteID,
		Candidates:  []ids.ShortID{ids.GenerateTestShortID()},
		Amounts:     []uint64{3},
		VotingPower: 3,
	}
	require.NoError(satellite.sync.Send(context.Background(), xchain.TransportConfig{}, primaryID, cast, 2))

	pending, err := satellite.sync.Pending(0)
	require.NoError(err)
	delivered := satellite.sync.Deliver(context.Background(), pending)
	require.Len(delivered, 1)

	require.Empty(primaryInbox.failures)
	require.Len(primaryInbox.inbound, 1)
	in := primaryInbox.inbound[0]
	require.True(in.Verified())
	require.Equal(satelliteID, in.SourceChainID)
	require.IsType(&xchain.CastVote{}, in.Payload)
	require.Equal(voter, in.Payload.(*xchain.CastVote).Voter)
	require.Equal(uint64(2), hub.Fees(primaryID))

	// Replaying the same envelope verifies again, receivers must be
	// idempotent.
	env := pending[0].Envelope
	require.NoError(primaryInbox.ReceiveMessage(context.Background(), &env))
	require.Len(primaryInbox.inbound, 2)

	// An envelope addressed elsewhere is refused.
	_, err = satellite.sync.Verify(context.Background(), &env)
	require.ErrorIs(err, xchain.ErrUntrustedSource)

	// A tampered payload fails the signature.
	tampered := env
	tampered.Payload = append([]byte{}, env.Payload...)
	tampered.Payload[len(tampered.Payload)-1] ^= 0xff
	_, err = primary.sync.Verify(context.Background(), &tampered)
	require.ErrorIs(err, xchain.ErrUnverifiedMessage)

	// Unknown source chains are refused before the signature is checked.
	stranger := env
	stranger.SourceChainID = ids.GenerateTestID()
	_, err = primary.sync.Verify(context.Background(), &stranger)
	require.ErrorIs(err, xchain.ErrUntrustedSource)

	require.False((*xchain.Inbound)(nil).Verified())
	require.False((&xchain.Inbound{}).Verified())
}
