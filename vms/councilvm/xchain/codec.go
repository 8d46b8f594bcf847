// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"errors"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
	"github.com/luxfi/constants"
)

const (
	CodecVersion = 0

	maxMessageSize = 256 * constants.KiB
)

// Codec serializes payloads and envelopes. The type ID a payload is
// registered under is its selector on the wire, so registration order is
// part of the protocol and must only ever be appended to.
var Codec codec.Manager

func init() {
	Codec = codec.NewManager(maxMessageSize)
	lc := linearcodec.NewDefault()

	err := errors.Join(
		lc.RegisterType(&CastVote{}),
		lc.RegisterType(&WithdrawVote{}),
		lc.RegisterType(&DismissMembers{}),
		lc.RegisterType(&TweakEpochSchedule{}),
		lc.RegisterType(&ResolveElection{}),
		Codec.RegisterCodec(CodecVersion, lc),
	)
	if err != nil {
		panic(err)
	}
}
