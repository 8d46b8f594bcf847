// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tally counts registered ballots into candidate totals and picks
// the winners of an election.
package tally

import (
	"bytes"

	"github.com/google/btree"
	"github.com/holiman/uint256"
	"github.com/luxfi/ids"

	"github.com/luxfi/council/vms/councilvm/ballot"
	"github.com/luxfi/council/vms/councilvm/election"
)

const defaultTreeDegree = 2

var _ btree.LessFunc[*Candidate] = (*Candidate).Less

// Store is the slice of the state the tally reads and writes.
type Store interface {
	GetRegisteredBallot(electionID uint64, index uint64) (ballot.Key, *ballot.Ballot, error)
	GetCandidateVotes(electionID uint64, candidate ids.ShortID) (*uint256.Int, error)
	AddCandidateVotes(electionID uint64, candidate ids.ShortID, amount uint64) error
}

// Progress describes the outcome of one [Evaluate] call.
type Progress struct {
	// Counted is the number of ballots tallied by this call.
	Counted uint64
	// Evaluated is the number of ballots tallied so far.
	Evaluated uint64
	// Total is the number of registered ballots.
	Total uint64
	// Done is set once every registered ballot was tallied.
	Done bool
}

// Evaluate tallies at most [limit] registered ballots of [e], continuing
// where the previous call stopped. A zero [limit] tallies every remaining
// ballot. [e] is updated in place and must be persisted by the caller.
func Evaluate(store Store, e *election.Election, limit uint64) (Progress, error) {
	remaining := e.RemainingBallots()
	if limit == 0 || limit > remaining {
		limit = remaining
	}

	start := e.NumEvaluatedBallots
	for index := start; index < start+limit; index++ {
		_, b, err := store.GetRegisteredBallot(e.ID, index)
		if err != nil {
			return Progress{}, err
		}
		// Every candidate of a ballot receives the voter's full power. A
		// withdrawn ballot has no candidates and adds nothing.
		for _, candidate := range b.VotedCandidates {
			if err := store.AddCandidateVotes(e.ID, candidate, b.VotingPower); err != nil {
				return Progress{}, err
			}
		}
	}
	e.NumEvaluatedBallots += limit

	return Progress{
		Counted:   limit,
		Evaluated: e.NumEvaluatedBallots,
		Total:     e.NumBallots,
		Done:      e.NumEvaluatedBallots == e.NumBallots,
	}, nil
}

// Candidate is a nominee with its vote total.
type Candidate struct {
	Address ids.ShortID
	Votes   *uint256.Int
}

// Less orders candidates from the most to the least voted. Ties are broken by
// ascending address.
func (c *Candidate) Less(other *Candidate) bool {
	if cmp := c.Votes.Cmp(other.Votes); cmp != 0 {
		return cmp > 0
	}
	return bytes.Compare(c.Address[:], other.Address[:]) < 0
}

// Rank returns every nominee of [e] ordered by [Candidate.Less].
func Rank(store Store, e *election.Election) ([]*Candidate, error) {
	tree := btree.NewG(defaultTreeDegree, (*Candidate).Less)
	for _, nominee := range e.Nominees {
		votes, err := store.GetCandidateVotes(e.ID, nominee)
		if err != nil {
			return nil, err
		}
		tree.ReplaceOrInsert(&Candidate{
			Address: nominee,
			Votes:   votes,
		})
	}

	ranked := make([]*Candidate, 0, tree.Len())
	tree.Ascend(func(c *Candidate) bool {
		ranked = append(ranked, c)
		return true
	})
	return ranked, nil
}

// Winners returns the [seats] best ranked nominees of [e]. Nominees without
// votes fill the remaining seats in address order.
func Winners(store Store, e *election.Election, seats uint8) ([]ids.ShortID, error) {
	ranked, err := Rank(store, e)
	if err != nil {
		return nil, err
	}

	n := min(int(seats), len(ranked))
	winners := make([]ids.ShortID, n)
	for i, c := range ranked[:n] {
		winners[i] = c.Address
	}
	return winners, nil
}
