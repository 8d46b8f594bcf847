// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ballot defines the per-(election, voter, chain) vote record.
package ballot

import (
	"errors"
	"fmt"
	"slices"

	"github.com/luxfi/ids"

	safemath "github.com/luxfi/math"
)

// MaxBallotSize is the largest number of candidates a single ballot may name.
const MaxBallotSize = 1

var (
	ErrTooManyCandidates  = errors.New("too many candidates in ballot")
	ErrListLengthMismatch = errors.New("candidate and amount lists differ in length")
	ErrDuplicateCandidate = errors.New("duplicate candidate in ballot")
	ErrAmountExceedsPower = errors.New("ballot amounts exceed voting power")
)

// Ballot is a voter's choice for one election as cast from one chain.
//
// Invariant: len(VotedCandidates) == len(Amounts).
type Ballot struct {
	VotedCandidates []ids.ShortID `serialize:"true"`
	Amounts         []uint64      `serialize:"true"`
	VotingPower     uint64        `serialize:"true"`
}

// New returns a ballot giving each candidate the matching amount.
func New(candidates []ids.ShortID, amounts []uint64, votingPower uint64) (*Ballot, error) {
	b := &Ballot{
		VotedCandidates: slices.Clone(candidates),
		Amounts:         slices.Clone(amounts),
		VotingPower:     votingPower,
	}
	if err := b.Verify(); err != nil {
		return nil, err
	}
	return b, nil
}

// Verify checks the shape of the ballot. It does not know about nominees,
// that check belongs to the election the ballot is cast into.
func (b *Ballot) Verify() error {
	numCandidates := len(b.VotedCandidates)
	if numCandidates > MaxBallotSize {
		return fmt.Errorf("%w: %d > %d", ErrTooManyCandidates, numCandidates, MaxBallotSize)
	}
	if numCandidates != len(b.Amounts) {
		return fmt.Errorf("%w: %d candidates, %d amounts", ErrListLengthMismatch, numCandidates, len(b.Amounts))
	}

	// Pairwise is fine while ballots are this small.
	for i := 0; i < numCandidates; i++ {
		for j := i + 1; j < numCandidates; j++ {
			if b.VotedCandidates[i] == b.VotedCandidates[j] {
				return fmt.Errorf("%w: %s", ErrDuplicateCandidate, b.VotedCandidates[i])
			}
		}
	}

	var total uint64
	for _, amount := range b.Amounts {
		var err error
		total, err = safemath.Add(total, amount)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAmountExceedsPower, err)
		}
	}
	if total > b.VotingPower {
		return fmt.Errorf("%w: %d > %d", ErrAmountExceedsPower, total, b.VotingPower)
	}
	return nil
}

// HasVoted reports whether the ballot currently names any candidate.
func (b *Ballot) HasVoted() bool {
	return len(b.VotedCandidates) > 0
}

// Withdraw clears the choice but keeps the voting power.
func (b *Ballot) Withdraw() {
	b.VotedCandidates = nil
	b.Amounts = nil
}

// Equal reports whether two ballots record the same choice and power.
func (b *Ballot) Equal(other *Ballot) bool {
	return b.VotingPower == other.VotingPower &&
		slices.Equal(b.VotedCandidates, other.VotedCandidates) &&
		slices.Equal(b.Amounts, other.Amounts)
}
