// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
)

// Nominate adds [caller] to the nominees of the current election.
func (m *Module) Nominate(ctx context.Context, caller ids.ShortID) error {
	return m.execute(ctx, "nominate", func(c *call) error {
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if _, err := m.onlyInPeriods(c, election.Nomination, election.Vote); err != nil {
			return err
		}

		e, err := m.state.GetElection(c.council.CurrentElectionID)
		if err != nil {
			return err
		}
		if !e.AddNominee(caller) {
			return fmt.Errorf("%w: %s", ErrAlreadyNominated, caller)
		}
		if err := m.state.PutElection(e); err != nil {
			return err
		}
		c.emit(m, events.CandidateNominated, e.ID, &events.CandidateData{Candidate: caller})
		return nil
	})
}

// WithdrawNomination removes [caller] from the nominees of the current
// election.
func (m *Module) WithdrawNomination(ctx context.Context, caller ids.ShortID) error {
	return m.execute(ctx, "withdrawNomination", func(c *call) error {
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if _, err := m.onlyInPeriods(c, election.Nomination); err != nil {
			return err
		}

		e, err := m.state.GetElection(c.council.CurrentElectionID)
		if err != nil {
			return err
		}
		if !e.RemoveNominee(caller) {
			return fmt.Errorf("%w: %s", ErrNotNominated, caller)
		}
		if err := m.state.PutElection(e); err != nil {
			return err
		}
		c.emit(m, events.NominationWithdrawn, e.ID, &events.CandidateData{Candidate: caller})
		return nil
	})
}
