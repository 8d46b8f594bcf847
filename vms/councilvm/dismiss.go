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

// DismissMembers removes [members] from the council on every chain. If the
// council drops below its minimum during Administration, an emergency
// election starts immediately.
func (m *Module) DismissMembers(ctx context.Context, caller ids.ShortID, members []ids.ShortID, value uint64) error {
	return m.execute(ctx, "dismissMembers", func(c *call) error {
		if err := m.onlyOwner(caller); err != nil {
			return err
		}
		if err := m.onlyPrimary(); err != nil {
			return err
		}
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if len(members) > election.MaxCouncilSize {
			return fmt.Errorf("%w: %d", ErrTooManyMembers, len(members))
		}

		p := &xchain.DismissMembers{
			ElectionID: c.council.CurrentElectionID,
			Members:    members,
		}
		schedule, period, err := m.period(c)
		if err != nil {
			return err
		}
		if period == election.Administration {
			settings, err := m.state.GetSettings(p.ElectionID)
			if err != nil {
				return err
			}
			if c.council.CountRemaining(members) < int(settings.MinimumActiveMembers) {
				p.Emergency = true
				p.Schedule, err = schedule.JumpToNomination(c.now)
				if err != nil {
					return err
				}
			}
		}

		if err := m.broadcast(c, p, value); err != nil {
			return err
		}
		return m.applyDismiss(c, p)
	})
}

// applyDismiss removes the dismissed members. An emergency dismissal moves
// the running election to the carried schedule regardless of where the
// local clock is.
func (m *Module) applyDismiss(c *call, p *xchain.DismissMembers) error {
	if p.ElectionID != c.council.CurrentElectionID {
		return fmt.Errorf("%w: got %d, current is %d", ErrElectionIDMismatch, p.ElectionID, c.council.CurrentElectionID)
	}
	if p.Emergency {
		if err := p.Schedule.Verify(); err != nil {
			return err
		}
	}

	removed := c.council.RemoveMembers(p.Members)
	m.log.Info("council members dismissed",
		log.Stringer("chainID", m.sync.ChainID()),
		log.Int("removed", removed),
		log.Int("remaining", len(c.council.Members)),
	)
	c.emit(m, events.CouncilMembersDismissed, p.ElectionID, &events.MembersData{
		Members: p.Members,
	})
	if !p.Emergency {
		return nil
	}

	if err := m.state.PutSchedule(p.ElectionID, p.Schedule); err != nil {
		return err
	}
	m.log.Info("emergency election started",
		log.Stringer("chainID", m.sync.ChainID()),
		log.Reflect("electionID", p.ElectionID),
		log.Stringer("schedule", p.Schedule),
	)
	c.emit(m, events.EmergencyElectionStarted, p.ElectionID, &events.EpochScheduleData{
		Schedule: p.Schedule,
	})
	c.emit(m, events.EpochScheduleUpdated, p.ElectionID, &events.EpochScheduleData{
		Schedule: p.Schedule,
	})
	return nil
}
