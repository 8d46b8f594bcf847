// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/council/vms/councilvm/ballot"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

// Cast records [voter]'s ballot on the primary chain. The voter's full
// voting power on this chain goes to the chosen candidate.
func (m *Module) Cast(ctx context.Context, voter ids.ShortID, candidates []ids.ShortID, value uint64) error {
	return m.execute(ctx, "cast", func(c *call) error {
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if _, err := m.onlyInPeriods(c, election.Vote); err != nil {
			return err
		}

		electionID := c.council.CurrentElectionID
		power, err := m.config.VotingPower.VotingPower(c.ctx, electionID, voter)
		if err != nil {
			return fmt.Errorf("couldn't get voting power of %s: %w", voter, err)
		}
		amounts := make([]uint64, len(candidates))
		for i := range amounts {
			amounts[i] = power
		}
		// Reject malformed ballots before anything leaves the chain.
		if _, err := ballot.New(candidates, amounts, power); err != nil {
			return err
		}

		p := &xchain.CastVote{
			ElectionID:  electionID,
			Voter:       voter,
			ChainID:     m.sync.ChainID(),
			Candidates:  candidates,
			Amounts:     amounts,
			VotingPower: power,
		}
		if m.sync.IsPrimary() {
			if value > 0 {
				return fmt.Errorf("%w: %d on the primary chain", ErrUnexpectedValue, value)
			}
			return m.applyCastVote(c, p)
		}
		return m.sync.Send(c.ctx, c.council.TransportConfig, m.sync.PrimaryChainID(), p, value)
	})
}

// WithdrawVote clears [voter]'s ballot cast from this chain.
func (m *Module) WithdrawVote(ctx context.Context, voter ids.ShortID, value uint64) error {
	return m.execute(ctx, "withdrawVote", func(c *call) error {
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if _, err := m.onlyInPeriods(c, election.Vote); err != nil {
			return err
		}

		p := &xchain.WithdrawVote{
			ElectionID: c.council.CurrentElectionID,
			Voter:      voter,
			ChainID:    m.sync.ChainID(),
		}
		if m.sync.IsPrimary() {
			if value > 0 {
				return fmt.Errorf("%w: %d on the primary chain", ErrUnexpectedValue, value)
			}
			return m.applyWithdrawVote(c, p)
		}
		return m.sync.Send(c.ctx, c.council.TransportConfig, m.sync.PrimaryChainID(), p, value)
	})
}

// openForBallots returns the current election if it still accepts ballots
// for [electionID].
func (m *Module) openForBallots(c *call, electionID uint64) (*election.Election, error) {
	if electionID != c.council.CurrentElectionID {
		return nil, fmt.Errorf("%w: got %d, current is %d", ErrElectionIDMismatch, electionID, c.council.CurrentElectionID)
	}
	if _, err := m.onlyInPeriods(c, election.Vote, election.Evaluation); err != nil {
		return nil, err
	}
	e, err := m.state.GetElection(electionID)
	if err != nil {
		return nil, err
	}
	if e.Evaluated {
		return nil, fmt.Errorf("%w: %d", ErrElectionAlreadyEvaluated, electionID)
	}
	return e, nil
}

// onlyUntallied fails if the tally already counted the ballot under [key].
func (m *Module) onlyUntallied(e *election.Election, key ballot.Key) error {
	index, registered, err := m.state.GetRegistryIndex(key)
	if err != nil {
		return err
	}
	if registered && index < e.NumEvaluatedBallots {
		return fmt.Errorf("%w: %s at index %d, %d evaluated", ErrBallotAlreadyTallied, key, index, e.NumEvaluatedBallots)
	}
	return nil
}

func (m *Module) applyCastVote(c *call, p *xchain.CastVote) error {
	e, err := m.openForBallots(c, p.ElectionID)
	if err != nil {
		return err
	}
	b, err := ballot.New(p.Candidates, p.Amounts, p.VotingPower)
	if err != nil {
		return err
	}
	for _, candidate := range b.VotedCandidates {
		if !e.IsNominated(candidate) {
			return fmt.Errorf("%w: %s", ErrNotANominee, candidate)
		}
	}

	key := ballot.Key{
		ElectionID: p.ElectionID,
		Voter:      p.Voter,
		ChainID:    p.ChainID,
	}
	if err := m.onlyUntallied(e, key); err != nil {
		return err
	}
	if err := m.state.PutBallot(key, b); err != nil {
		return err
	}
	if _, err := m.state.RegisterBallot(e, key); err != nil {
		return err
	}

	m.log.Debug("vote recorded",
		log.Stringer("ballot", key),
		log.Reflect("votingPower", b.VotingPower),
	)
	c.emit(m, events.VoteRecorded, p.ElectionID, &events.VoteData{
		Voter:       p.Voter,
		ChainID:     p.ChainID,
		Candidates:  b.VotedCandidates,
		Amounts:     b.Amounts,
		VotingPower: b.VotingPower,
	})
	return nil
}

func (m *Module) applyWithdrawVote(c *call, p *xchain.WithdrawVote) error {
	e, err := m.openForBallots(c, p.ElectionID)
	if err != nil {
		return err
	}

	key := ballot.Key{
		ElectionID: p.ElectionID,
		Voter:      p.Voter,
		ChainID:    p.ChainID,
	}
	if err := m.onlyUntallied(e, key); err != nil {
		return err
	}
	b, err := m.state.GetBallot(key)
	if err != nil {
		return err
	}
	b.Withdraw()
	if err := m.state.PutBallot(key, b); err != nil {
		return err
	}
	if _, err := m.state.RegisterBallot(e, key); err != nil {
		return err
	}

	m.log.Debug("vote withdrawn",
		log.Stringer("ballot", key),
	)
	c.emit(m, events.VoteWithdrawn, p.ElectionID, &events.VoteData{
		Voter:       p.Voter,
		ChainID:     p.ChainID,
		VotingPower: b.VotingPower,
	})
	return nil
}
