// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"slices"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"

	"github.com/luxfi/council/vms/councilvm/ballot"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/state"
)

// currentElection reads the record of the running election.
func (m *Module) currentElection(f func(e *election.Election) error) error {
	return m.read(func(c *state.Council) error {
		e, err := m.state.GetElection(c.CurrentElectionID)
		if err != nil {
			return err
		}
		return f(e)
	})
}

// GetNominees returns the nominees of the current election, sorted.
func (m *Module) GetNominees() ([]ids.ShortID, error) {
	var nominees []ids.ShortID
	err := m.currentElection(func(e *election.Election) error {
		nominees = slices.Clone(e.Nominees)
		return nil
	})
	return nominees, err
}

func (m *Module) IsNominated(candidate ids.ShortID) (bool, error) {
	var nominated bool
	err := m.currentElection(func(e *election.Election) error {
		nominated = e.IsNominated(candidate)
		return nil
	})
	return nominated, err
}

// GetBallot returns the ballot [voter] cast from [chainID] in [electionID].
// A ballot never cast is empty.
func (m *Module) GetBallot(voter ids.ShortID, chainID ids.ID, electionID uint64) (*ballot.Ballot, error) {
	var b *ballot.Ballot
	err := m.read(func(*state.Council) error {
		var err error
		b, err = m.state.GetBallot(ballot.Key{
			ElectionID: electionID,
			Voter:      voter,
			ChainID:    chainID,
		})
		return err
	})
	return b, err
}

func (m *Module) GetBallotCandidates(voter ids.ShortID, chainID ids.ID, electionID uint64) ([]ids.ShortID, error) {
	b, err := m.GetBallot(voter, chainID, electionID)
	if err != nil {
		return nil, err
	}
	return b.VotedCandidates, nil
}

func (m *Module) GetVotePower(voter ids.ShortID, chainID ids.ID, electionID uint64) (uint64, error) {
	b, err := m.GetBallot(voter, chainID, electionID)
	if err != nil {
		return 0, err
	}
	return b.VotingPower, nil
}

// HasVoted reports whether [voter]'s ballot from [chainID] in the current
// election names a candidate.
func (m *Module) HasVoted(voter ids.ShortID, chainID ids.ID) (bool, error) {
	electionID, err := m.GetElectionID()
	if err != nil {
		return false, err
	}
	b, err := m.GetBallot(voter, chainID, electionID)
	if err != nil {
		return false, err
	}
	return b.HasVoted(), nil
}

func (m *Module) GetNumBallots() (uint64, error) {
	var n uint64
	err := m.currentElection(func(e *election.Election) error {
		n = e.NumBallots
		return nil
	})
	return n, err
}

func (m *Module) IsElectionEvaluated() (bool, error) {
	var evaluated bool
	err := m.currentElection(func(e *election.Election) error {
		evaluated = e.Evaluated
		return nil
	})
	return evaluated, err
}

// GetCandidateVotes returns the votes tallied so far for [candidate] in the
// current election.
func (m *Module) GetCandidateVotes(candidate ids.ShortID) (*uint256.Int, error) {
	var votes *uint256.Int
	err := m.read(func(c *state.Council) error {
		var err error
		votes, err = m.state.GetCandidateVotes(c.CurrentElectionID, candidate)
		return err
	})
	return votes, err
}

// GetElectionWinners returns the winners of the current election once it is
// evaluated.
func (m *Module) GetElectionWinners() ([]ids.ShortID, error) {
	var winners []ids.ShortID
	err := m.currentElection(func(e *election.Election) error {
		winners = slices.Clone(e.Winners)
		return nil
	})
	return winners, err
}

func (m *Module) GetCouncilMembers() ([]ids.ShortID, error) {
	var members []ids.ShortID
	err := m.read(func(c *state.Council) error {
		members = c.Members
		return nil
	})
	return members, err
}

func (m *Module) GetCouncilToken() (ids.ShortID, error) {
	var token ids.ShortID
	err := m.read(func(c *state.Council) error {
		token = c.Token
		return nil
	})
	return token, err
}

func (m *Module) GetElectionID() (uint64, error) {
	var id uint64
	err := m.read(func(c *state.Council) error {
		id = c.CurrentElectionID
		return nil
	})
	return id, err
}

// GetCurrentPeriod returns the period the current election is in right now.
func (m *Module) GetCurrentPeriod() (election.Period, error) {
	var period election.Period
	err := m.read(func(c *state.Council) error {
		if !c.Initialized {
			return ErrNotInitialized
		}
		schedule, err := m.state.GetSchedule(c.CurrentElectionID)
		if err != nil {
			return err
		}
		period = schedule.PeriodAt(m.clock.Unix())
		return nil
	})
	return period, err
}

func (m *Module) GetEpochSchedule() (election.Schedule, error) {
	var schedule election.Schedule
	err := m.read(func(c *state.Council) error {
		if !c.Initialized {
			return ErrNotInitialized
		}
		var err error
		schedule, err = m.state.GetSchedule(c.CurrentElectionID)
		return err
	})
	return schedule, err
}

// GetElectionSettings returns the settings the current election runs with.
func (m *Module) GetElectionSettings() (election.Settings, error) {
	var settings election.Settings
	err := m.read(func(c *state.Council) error {
		if !c.Initialized {
			return ErrNotInitialized
		}
		var err error
		settings, err = m.state.GetSettings(c.CurrentElectionID)
		return err
	})
	return settings, err
}

// GetNextElectionSettings returns the settings staged for the next election.
func (m *Module) GetNextElectionSettings() (election.Settings, error) {
	var settings election.Settings
	err := m.read(func(*state.Council) error {
		var err error
		settings, err = m.state.GetNextSettings()
		return err
	})
	return settings, err
}
