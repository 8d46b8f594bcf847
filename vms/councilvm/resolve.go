// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

// Resolve seats the winners of the evaluated election and starts the next
// one on every chain.
func (m *Module) Resolve(ctx context.Context, caller ids.ShortID, value uint64) error {
	return m.execute(ctx, "resolve", func(c *call) error {
		if err := m.onlyPrimary(); err != nil {
			return err
		}
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if _, err := m.onlyInPeriods(c, election.Evaluation); err != nil {
			return err
		}

		electionID := c.council.CurrentElectionID
		e, err := m.state.GetElection(electionID)
		if err != nil {
			return err
		}
		if !e.Evaluated {
			return fmt.Errorf("%w: %d", ErrElectionNotEvaluated, electionID)
		}

		current, err := m.state.GetSettings(electionID)
		if err != nil {
			return err
		}
		next, err := m.state.GetNextSettings()
		if err != nil {
			return err
		}
		settings := next.Merge(current)
		if err := settings.Verify(); err != nil {
			return err
		}
		schedule, err := election.NewSchedule(c.now, settings, 0)
		if err != nil {
			return err
		}

		m.log.Info("resolving election",
			log.Stringer("caller", caller),
			log.Reflect("electionID", electionID),
			log.Int("winners", len(e.Winners)),
		)
		p := &xchain.ResolveElection{
			ElectionID: electionID,
			Schedule:   schedule,
			Settings:   settings,
			Winners:    e.Winners,
		}
		if err := m.broadcast(c, p, value); err != nil {
			return err
		}
		return m.applyResolve(c, p)
	})
}

// applyResolve starts election [p.ElectionID]+1 with [p.Winners] seated.
func (m *Module) applyResolve(c *call, p *xchain.ResolveElection) error {
	if p.ElectionID != c.council.CurrentElectionID {
		return fmt.Errorf("%w: got %d, current is %d", ErrElectionIDMismatch, p.ElectionID, c.council.CurrentElectionID)
	}
	if err := p.Schedule.Verify(); err != nil {
		return err
	}
	if err := p.Settings.Verify(); err != nil {
		return err
	}

	nextID := p.ElectionID + 1
	if err := m.state.PutElection(election.New(nextID)); err != nil {
		return err
	}
	if err := m.state.PutSchedule(nextID, p.Schedule); err != nil {
		return err
	}
	if err := m.state.PutSettings(nextID, p.Settings); err != nil {
		return err
	}
	if err := m.state.PutNextSettings(p.Settings); err != nil {
		return err
	}

	// Satellites never evaluate, record the outcome they were sent.
	resolved, err := m.state.GetElection(p.ElectionID)
	if err != nil {
		return err
	}
	if !resolved.Evaluated {
		resolved.Evaluated = true
		resolved.Winners = p.Winners
		if err := m.state.PutElection(resolved); err != nil {
			return err
		}
	}

	c.council.CurrentElectionID = nextID
	c.council.SetMembers(p.Winners)

	m.log.Info("epoch started",
		log.Stringer("chainID", m.sync.ChainID()),
		log.Reflect("electionID", nextID),
		log.Int("members", len(c.council.Members)),
		log.Stringer("schedule", p.Schedule),
	)
	c.emit(m, events.EpochStarted, nextID, &events.EpochScheduleData{
		Schedule: p.Schedule,
	})
	return nil
}
