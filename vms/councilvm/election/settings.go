// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"errors"
	"fmt"
	"math"

	safemath "github.com/luxfi/math"
)

const (
	Day uint64 = 24 * 60 * 60

	MinNominationPeriodDuration = Day
	MinVotingPeriodDuration     = Day

	DefaultMaxDateAdjustmentTolerance = 7 * Day

	// MaxCouncilSize bounds both the seat count and the initial council.
	MaxCouncilSize = math.MaxUint8
)

var ErrInvalidSettings = errors.New("invalid election settings")

// Settings parameterize one election. Durations are in seconds.
//
// A zero field in staged settings means "inherit from the current settings",
// see [Settings.Merge].
type Settings struct {
	EpochSeatCount             uint8  `serialize:"true" json:"epochSeatCount"`
	MinimumActiveMembers       uint8  `serialize:"true" json:"minimumActiveMembers"`
	EpochDuration              uint64 `serialize:"true" json:"epochDuration"`
	NominationPeriodDuration   uint64 `serialize:"true" json:"nominationPeriodDuration"`
	VotingPeriodDuration       uint64 `serialize:"true" json:"votingPeriodDuration"`
	MaxDateAdjustmentTolerance uint64 `serialize:"true" json:"maxDateAdjustmentTolerance"`
}

// SettingsFromDays builds settings from whole-day period durations. The epoch
// lasts the sum of the three periods.
func SettingsFromDays(
	seats uint8,
	minimumActiveMembers uint8,
	administrationDays uint64,
	nominationDays uint64,
	votingDays uint64,
) (Settings, error) {
	totalDays, err := safemath.Add(administrationDays, nominationDays)
	if err == nil {
		totalDays, err = safemath.Add(totalDays, votingDays)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: epoch duration: %w", ErrInvalidSettings, err)
	}
	if totalDays > math.MaxUint64/Day {
		return Settings{}, fmt.Errorf("%w: epoch of %d days overflows", ErrInvalidSettings, totalDays)
	}

	// Each period is bounded by the total, so these can't overflow.
	return Settings{
		EpochSeatCount:             seats,
		MinimumActiveMembers:       minimumActiveMembers,
		EpochDuration:              totalDays * Day,
		NominationPeriodDuration:   nominationDays * Day,
		VotingPeriodDuration:       votingDays * Day,
		MaxDateAdjustmentTolerance: DefaultMaxDateAdjustmentTolerance,
	}, nil
}

// Verify checks that the settings can drive an election.
func (s Settings) Verify() error {
	switch {
	case s.EpochSeatCount == 0:
		return fmt.Errorf("%w: no seats", ErrInvalidSettings)
	case s.MinimumActiveMembers == 0:
		return fmt.Errorf("%w: minimum active members is zero", ErrInvalidSettings)
	case s.MinimumActiveMembers > s.EpochSeatCount:
		return fmt.Errorf("%w: minimum active members %d exceeds %d seats",
			ErrInvalidSettings, s.MinimumActiveMembers, s.EpochSeatCount)
	case s.NominationPeriodDuration < MinNominationPeriodDuration:
		return fmt.Errorf("%w: nomination period shorter than %ds", ErrInvalidSettings, MinNominationPeriodDuration)
	case s.VotingPeriodDuration < MinVotingPeriodDuration:
		return fmt.Errorf("%w: voting period shorter than %ds", ErrInvalidSettings, MinVotingPeriodDuration)
	}

	periods, err := safemath.Add(s.NominationPeriodDuration, s.VotingPeriodDuration)
	if err != nil || s.EpochDuration < periods {
		return fmt.Errorf("%w: epoch duration %ds shorter than nomination and voting periods",
			ErrInvalidSettings, s.EpochDuration)
	}
	return nil
}

// Merge returns [s] with every unset field taken from [current].
func (s Settings) Merge(current Settings) Settings {
	merged := s
	if merged.EpochSeatCount == 0 {
		merged.EpochSeatCount = current.EpochSeatCount
	}
	if merged.MinimumActiveMembers == 0 {
		merged.MinimumActiveMembers = current.MinimumActiveMembers
	}
	if merged.EpochDuration == 0 {
		merged.EpochDuration = current.EpochDuration
	}
	if merged.NominationPeriodDuration == 0 {
		merged.NominationPeriodDuration = current.NominationPeriodDuration
	}
	if merged.VotingPeriodDuration == 0 {
		merged.VotingPeriodDuration = current.VotingPeriodDuration
	}
	if merged.MaxDateAdjustmentTolerance == 0 {
		merged.MaxDateAdjustmentTolerance = current.MaxDateAdjustmentTolerance
	}
	return merged
}
