// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
	"github.com/luxfi/council/vms/councilvm/tally"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

// Evaluate tallies up to [numBallots] ballots of the current election, all
// remaining ones if zero. With too few nominees the voting period is
// extended on every chain instead.
func (m *Module) Evaluate(ctx context.Context, caller ids.ShortID, numBallots uint64, value uint64) error {
	return m.execute(ctx, "evaluate", func(c *call) error {
		if err := m.onlyPrimary(); err != nil {
			return err
		}
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if value > 0 {
			return fmt.Errorf("%w: %d", ErrUnexpectedValue, value)
		}
		schedule, err := m.onlyInPeriods(c, election.Evaluation)
		if err != nil {
			return err
		}

		electionID := c.council.CurrentElectionID
		e, err := m.state.GetElection(electionID)
		if err != nil {
			return err
		}
		settings, err := m.state.GetSettings(electionID)
		if err != nil {
			return err
		}

		if len(e.Nominees) < int(settings.MinimumActiveMembers) {
			return m.extendVoting(c, schedule, settings)
		}
		if e.Evaluated {
			return fmt.Errorf("%w: %d", ErrElectionAlreadyEvaluated, electionID)
		}

		progress, err := tally.Evaluate(m.state, e, numBallots)
		if err != nil {
			return err
		}
		m.log.Debug("ballots evaluated",
			log.Stringer("caller", caller),
			log.Reflect("electionID", electionID),
			log.Reflect("counted", progress.Counted),
			log.Reflect("evaluated", progress.Evaluated),
			log.Reflect("total", progress.Total),
		)
		if !progress.Done {
			c.emit(m, events.ElectionBatchEvaluated, electionID, &events.BatchEvaluatedData{
				Evaluated: progress.Evaluated,
				Total:     progress.Total,
			})
			return m.state.PutElection(e)
		}

		winners, err := tally.Winners(m.state, e, settings.EpochSeatCount)
		if err != nil {
			return err
		}
		e.Evaluated = true
		e.Winners = winners
		if err := m.state.PutElection(e); err != nil {
			return err
		}

		m.log.Info("election evaluated",
			log.Reflect("electionID", electionID),
			log.Reflect("ballots", progress.Total),
			log.Int("winners", len(winners)),
		)
		c.emit(m, events.ElectionEvaluated, electionID, &events.EvaluatedData{
			Total:   progress.Total,
			Winners: winners,
		})
		return nil
	})
}

// extendVoting pushes the end of the current election back by one voting
// period on every chain.
func (m *Module) extendVoting(c *call, schedule election.Schedule, settings election.Settings) error {
	end, err := safemath.Add(schedule.EndDate, settings.VotingPeriodDuration)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	m.log.Info("not enough nominees, extending voting",
		log.Reflect("electionID", c.council.CurrentElectionID),
		log.Reflect("endDate", end),
	)
	p := &xchain.TweakEpochSchedule{
		ElectionID:                c.council.CurrentElectionID,
		NominationPeriodStartDate: schedule.NominationPeriodStartDate,
		VotingPeriodStartDate:     schedule.VotingPeriodStartDate,
		EndDate:                   end,
	}
	if err := m.broadcast(c, p, 0); err != nil {
		return err
	}
	return m.applyTweak(c, p)
}
