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

// InitParams configures the module. Durations are in days.
type InitParams struct {
	Council         []ids.ShortID
	TransportConfig xchain.TransportConfig

	MinimumActiveMembers uint8
	// InitialNominationPeriodStartDate overrides the computed nomination
	// start of the first election when non-zero.
	InitialNominationPeriodStartDate uint64

	AdministrationPeriodDuration uint64
	NominationPeriodDuration     uint64
	VotingPeriodDuration         uint64
}

// InitOrUpdateElectionSettings stages the settings of the next election. The
// first call also starts election 0 with the given council.
func (m *Module) InitOrUpdateElectionSettings(ctx context.Context, caller ids.ShortID, params InitParams) error {
	return m.execute(ctx, "initOrUpdateElectionSettings", func(c *call) error {
		if err := m.onlyOwner(caller); err != nil {
			return err
		}
		if len(params.Council) > election.MaxCouncilSize {
			return fmt.Errorf("%w: %d", ErrTooManyMembers, len(params.Council))
		}

		settings, err := election.SettingsFromDays(
			uint8(len(params.Council)),
			params.MinimumActiveMembers,
			params.AdministrationPeriodDuration,
			params.NominationPeriodDuration,
			params.VotingPeriodDuration,
		)
		if err != nil {
			return err
		}
		if err := settings.Verify(); err != nil {
			return err
		}
		if err := m.state.PutNextSettings(settings); err != nil {
			return err
		}
		c.emit(m, events.ElectionSettingsUpdated, c.council.CurrentElectionID, &events.SettingsData{
			Settings: settings,
		})

		if c.council.Initialized {
			return nil
		}

		schedule, err := election.NewSchedule(c.now, settings, params.InitialNominationPeriodStartDate)
		if err != nil {
			return err
		}
		if err := m.state.PutSchedule(0, schedule); err != nil {
			return err
		}
		if err := m.state.PutSettings(0, settings); err != nil {
			return err
		}
		if err := m.state.PutElection(election.New(0)); err != nil {
			return err
		}

		c.council.Initialized = true
		c.council.CurrentElectionID = 0
		c.council.Token = m.config.Token
		c.council.TransportConfig = params.TransportConfig
		c.council.SetMembers(params.Council)

		m.log.Info("election module initialized",
			log.Stringer("chainID", m.sync.ChainID()),
			log.Int("members", len(c.council.Members)),
			log.Stringer("schedule", schedule),
		)
		c.emit(m, events.ElectionModuleInitialized, 0, nil)
		c.emit(m, events.EpochStarted, 0, &events.EpochScheduleData{
			Schedule: schedule,
		})
		return nil
	})
}

// InitializeElectionModule is the inherited initializer. Use
// [Module.InitOrUpdateElectionSettings] instead.
func (*Module) InitializeElectionModule(context.Context, ids.ShortID) error {
	return ErrNotImplemented
}

// SetNextElectionSettings replaces the settings staged for the next
// election.
func (m *Module) SetNextElectionSettings(ctx context.Context, caller ids.ShortID, settings election.Settings) error {
	return m.execute(ctx, "setNextElectionSettings", func(c *call) error {
		if err := m.onlyOwner(caller); err != nil {
			return err
		}
		if err := onlyInitialized(c); err != nil {
			return err
		}
		if _, err := m.onlyInPeriods(c, election.Administration); err != nil {
			return err
		}
		if err := settings.Verify(); err != nil {
			return err
		}
		if err := m.state.PutNextSettings(settings); err != nil {
			return err
		}
		c.emit(m, events.ElectionSettingsUpdated, c.council.CurrentElectionID, &events.SettingsData{
			Settings: settings,
		})
		return nil
	})
}
