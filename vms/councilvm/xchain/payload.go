// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/council/vms/councilvm/election"
)

var (
	_ Payload = (*CastVote)(nil)
	_ Payload = (*WithdrawVote)(nil)
	_ Payload = (*DismissMembers)(nil)
	_ Payload = (*TweakEpochSchedule)(nil)
	_ Payload = (*ResolveElection)(nil)

	errWrongCodecVersion = errors.New("wrong codec version")
)

// Payload is an instruction for a receive entry point of a remote module.
// Every payload starts with the election it belongs to.
type Payload interface {
	// Election returns the election id the payload targets.
	Election() uint64
	// Bytes returns the selector prefixed encoding of the payload.
	Bytes() []byte

	initialize(bytes []byte)
}

type payload struct {
	bytes []byte
}

func (p *payload) Bytes() []byte {
	return p.bytes
}

func (p *payload) initialize(bytes []byte) {
	p.bytes = bytes
}

// CastVote records a ballot cast on SourceChainID for Voter.
type CastVote struct {
	payload

	ElectionID  uint64        `serialize:"true" json:"electionID"`
	Voter       ids.ShortID   `serialize:"true" json:"voter"`
	ChainID     ids.ID        `serialize:"true" json:"chainID"`
	Candidates  []ids.ShortID `serialize:"true" json:"candidates"`
	Amounts     []uint64      `serialize:"true" json:"amounts"`
	VotingPower uint64        `serialize:"true" json:"votingPower"`
}

func (p *CastVote) Election() uint64 { return p.ElectionID }

// WithdrawVote clears the ballot of Voter cast on ChainID.
type WithdrawVote struct {
	payload

	ElectionID uint64      `serialize:"true" json:"electionID"`
	Voter      ids.ShortID `serialize:"true" json:"voter"`
	ChainID    ids.ID      `serialize:"true" json:"chainID"`
}

func (p *WithdrawVote) Election() uint64 { return p.ElectionID }

// DismissMembers removes Members from the council. If Emergency is set the
// running election continues with Schedule, decided once by the primary
// chain.
type DismissMembers struct {
	payload

	ElectionID uint64            `serialize:"true" json:"electionID"`
	Members    []ids.ShortID     `serialize:"true" json:"members"`
	Emergency  bool              `serialize:"true" json:"emergency"`
	Schedule   election.Schedule `serialize:"true" json:"schedule"`
}

func (p *DismissMembers) Election() uint64 { return p.ElectionID }

// TweakEpochSchedule moves the period boundaries of the running election.
type TweakEpochSchedule struct {
	payload

	ElectionID                uint64 `serialize:"true" json:"electionID"`
	NominationPeriodStartDate uint64 `serialize:"true" json:"nominationPeriodStartDate"`
	VotingPeriodStartDate     uint64 `serialize:"true" json:"votingPeriodStartDate"`
	EndDate                   uint64 `serialize:"true" json:"endDate"`
}

func (p *TweakEpochSchedule) Election() uint64 { return p.ElectionID }

// ResolveElection closes ElectionID and opens the next election with
// Schedule, Settings and Winners as its council.
type ResolveElection struct {
	payload

	ElectionID uint64            `serialize:"true" json:"electionID"`
	Schedule   election.Schedule `serialize:"true" json:"schedule"`
	Settings   election.Settings `serialize:"true" json:"settings"`
	Winners    []ids.ShortID     `serialize:"true" json:"winners"`
}

func (p *ResolveElection) Election() uint64 { return p.ElectionID }

// Build fills in the bytes of [p].
func Build(p Payload) error {
	bytes, err := Codec.Marshal(CodecVersion, &p)
	if err != nil {
		return fmt.Errorf("couldn't marshal %T payload: %w", p, err)
	}
	p.initialize(bytes)
	return nil
}

// Parse decodes a payload, dispatching on its selector.
func Parse(bytes []byte) (Payload, error) {
	var p Payload
	version, err := Codec.Unmarshal(bytes, &p)
	if err != nil {
		return nil, err
	}
	if version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, version)
	}
	p.initialize(bytes)
	return p, nil
}
