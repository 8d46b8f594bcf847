// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"errors"
	"fmt"

	safemath "github.com/luxfi/math"
)

var ErrInvalidSchedule = errors.New("invalid epoch schedule")

// Schedule is the calendar of one election cycle in unix seconds.
//
// Invariant: StartDate <= NominationPeriodStartDate <= VotingPeriodStartDate <= EndDate
type Schedule struct {
	StartDate                 uint64 `serialize:"true" json:"startDate"`
	NominationPeriodStartDate uint64 `serialize:"true" json:"nominationPeriodStartDate"`
	VotingPeriodStartDate     uint64 `serialize:"true" json:"votingPeriodStartDate"`
	EndDate                   uint64 `serialize:"true" json:"endDate"`
}

// NewSchedule lays out an epoch that starts at [start] and lasts
// [settings.EpochDuration]. The voting period closes the epoch and the
// nomination period directly precedes it. A non-zero [nominationStart]
// overrides the computed nomination start.
func NewSchedule(start uint64, settings Settings, nominationStart uint64) (Schedule, error) {
	end, err := safemath.Add(start, settings.EpochDuration)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: end date: %w", ErrInvalidSchedule, err)
	}
	voting, err := safemath.Sub(end, settings.VotingPeriodDuration)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: voting start: %w", ErrInvalidSchedule, err)
	}
	if nominationStart == 0 {
		nominationStart, err = safemath.Sub(voting, settings.NominationPeriodDuration)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: nomination start: %w", ErrInvalidSchedule, err)
		}
	}

	s := Schedule{
		StartDate:                 start,
		NominationPeriodStartDate: nominationStart,
		VotingPeriodStartDate:     voting,
		EndDate:                   end,
	}
	return s, s.Verify()
}

// Verify checks the ordering of the four dates.
func (s Schedule) Verify() error {
	if s.StartDate > s.NominationPeriodStartDate ||
		s.NominationPeriodStartDate > s.VotingPeriodStartDate ||
		s.VotingPeriodStartDate > s.EndDate {
		return fmt.Errorf("%w: %s", ErrInvalidSchedule, s)
	}
	return nil
}

// PeriodAt returns the period the schedule is in at unix time [now].
func (s Schedule) PeriodAt(now uint64) Period {
	switch {
	case now >= s.EndDate:
		return Evaluation
	case now >= s.VotingPeriodStartDate:
		return Vote
	case now >= s.NominationPeriodStartDate:
		return Nomination
	default:
		return Administration
	}
}

// NominationPeriodDuration is the length of the nomination window.
func (s Schedule) NominationPeriodDuration() uint64 {
	return s.VotingPeriodStartDate - s.NominationPeriodStartDate
}

// VotingPeriodDuration is the length of the voting window.
func (s Schedule) VotingPeriodDuration() uint64 {
	return s.EndDate - s.VotingPeriodStartDate
}

// JumpToNomination returns the schedule shifted so the nomination period
// starts at [now], keeping the nomination and voting durations.
func (s Schedule) JumpToNomination(now uint64) (Schedule, error) {
	nominationDuration := s.NominationPeriodDuration()
	votingDuration := s.VotingPeriodDuration()

	voting, err := safemath.Add(now, nominationDuration)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	end, err := safemath.Add(voting, votingDuration)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}

	jumped := Schedule{
		StartDate:                 min(s.StartDate, now),
		NominationPeriodStartDate: now,
		VotingPeriodStartDate:     voting,
		EndDate:                   end,
	}
	return jumped, jumped.Verify()
}

// Tweak returns the schedule with new period dates. Every date may move by at
// most [tolerance] seconds in either direction.
func (s Schedule) Tweak(nominationStart, votingStart, end, tolerance uint64) (Schedule, error) {
	for _, d := range []struct {
		name     string
		old, new uint64
	}{
		{"nomination start", s.NominationPeriodStartDate, nominationStart},
		{"voting start", s.VotingPeriodStartDate, votingStart},
		{"end", s.EndDate, end},
	} {
		if absDiff(d.old, d.new) > tolerance {
			return Schedule{}, fmt.Errorf("%w: %s moved by more than %ds", ErrInvalidSchedule, d.name, tolerance)
		}
	}

	tweaked := Schedule{
		StartDate:                 s.StartDate,
		NominationPeriodStartDate: nominationStart,
		VotingPeriodStartDate:     votingStart,
		EndDate:                   end,
	}
	return tweaked, tweaked.Verify()
}

func (s Schedule) String() string {
	return fmt.Sprintf(
		"Schedule(Start = %d, Nomination = %d, Voting = %d, End = %d)",
		s.StartDate,
		s.NominationPeriodStartDate,
		s.VotingPeriodStartDate,
		s.EndDate,
	)
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
