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

// TweakEpochSchedule moves the dates of the current election during
// Administration and forwards the new schedule to every satellite.
func (m *Module) TweakEpochSchedule(
	ctx context.Context,
	caller ids.ShortID,
	nominationStart uint64,
	votingStart uint64,
	end uint64,
	value uint64,
) error {
	return m.execute(ctx, "tweakEpochSchedule", func(c *call) error {
		if err := m.onlyOwner(caller); err != nil {
			return err
		}
		if err := m.onlyPrimary(); err != nil {
			return err
		}
		if err := onlyInitialized(c); err != nil {
			return err
		}
		schedule, err := m.onlyInPeriods(c, election.Administration)
		if err != nil {
			return err
		}
		settings, err := m.state.GetSettings(c.council.CurrentElectionID)
		if err != nil {
			return err
		}

		tweaked, err := schedule.Tweak(nominationStart, votingStart, end, settings.MaxDateAdjustmentTolerance)
		if err != nil {
			return err
		}
		if tweaked.PeriodAt(c.now) != election.Administration {
			return fmt.Errorf("%w: nomination would start at %d, before %d",
				ErrInvalidSchedule, tweaked.NominationPeriodStartDate, c.now)
		}

		p := &xchain.TweakEpochSchedule{
			ElectionID:                c.council.CurrentElectionID,
			NominationPeriodStartDate: tweaked.NominationPeriodStartDate,
			VotingPeriodStartDate:     tweaked.VotingPeriodStartDate,
			EndDate:                   tweaked.EndDate,
		}
		if err := m.broadcast(c, p, value); err != nil {
			return err
		}
		return m.applyTweak(c, p)
	})
}

// applyTweak replaces the dates of the current election's schedule.
func (m *Module) applyTweak(c *call, p *xchain.TweakEpochSchedule) error {
	if p.ElectionID != c.council.CurrentElectionID {
		return fmt.Errorf("%w: got %d, current is %d", ErrElectionIDMismatch, p.ElectionID, c.council.CurrentElectionID)
	}
	schedule, err := m.state.GetSchedule(p.ElectionID)
	if err != nil {
		return err
	}

	schedule.NominationPeriodStartDate = p.NominationPeriodStartDate
	schedule.VotingPeriodStartDate = p.VotingPeriodStartDate
	schedule.EndDate = p.EndDate
	if err := schedule.Verify(); err != nil {
		return err
	}
	if err := m.state.PutSchedule(p.ElectionID, schedule); err != nil {
		return err
	}

	m.log.Info("epoch schedule updated",
		log.Stringer("chainID", m.sync.ChainID()),
		log.Stringer("schedule", schedule),
	)
	c.emit(m, events.EpochScheduleUpdated, p.ElectionID, &events.EpochScheduleData{
		Schedule: schedule,
	})
	return nil
}
