// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func testEntry(nonce uint64) *Entry {
	return &Entry{
		Envelope: Envelope{
			UnsignedEnvelope: UnsignedEnvelope{
				Version:            EnvelopeVersion,
				DestinationChainID: ids.GenerateTestID(),
				Nonce:              nonce,
				Payload:            []byte{1},
			},
		},
		Value: nonce,
	}
}

func TestOutbox(t *testing.T) {
	require := require.New(t)

	o := NewOutbox(memdb.New())
	for i := uint64(0); i < 4; i++ {
		nonce, err := o.NextNonce()
		require.NoError(err)
		require.Equal(i, nonce)
		require.NoError(o.Push(testEntry(nonce)))
	}

	pending, err := o.Pending(2)
	require.NoError(err)
	require.Len(pending, 2)
	require.Equal(uint64(0), pending[0].Envelope.Nonce)
	require.Equal(uint64(1), pending[1].Envelope.Nonce)

	// Removing out of order keeps the head at the oldest remaining entry.
	require.NoError(o.Remove(1))
	pending, err = o.Pending(0)
	require.NoError(err)
	require.Len(pending, 3)
	require.Equal(uint64(0), pending[0].Envelope.Nonce)
	require.Equal(uint64(2), pending[1].Envelope.Nonce)

	require.NoError(o.Remove(0))
	require.NoError(o.Remove(2))
	require.NoError(o.Remove(3))
	n, err := o.Len()
	require.NoError(err)
	require.Zero(n)

	// Nonces are never reused.
	nonce, err := o.NextNonce()
	require.NoError(err)
	require.Equal(uint64(4), nonce)
}

func TestOutboxRejectsWrongNonce(t *testing.T) {
	o := NewOutbox(memdb.New())
	require.Error(t, o.Push(testEntry(3))) //nolint:forbidigo // unexported error
}
