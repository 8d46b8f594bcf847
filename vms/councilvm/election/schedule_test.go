// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSettings() Settings {
	return Settings{
		EpochSeatCount:             3,
		MinimumActiveMembers:       2,
		EpochDuration:              90 * Day,
		NominationPeriodDuration:   7 * Day,
		VotingPeriodDuration:       7 * Day,
		MaxDateAdjustmentTolerance: DefaultMaxDateAdjustmentTolerance,
	}
}

func TestNewSchedule(t *testing.T) {
	require := require.New(t)

	s, err := NewSchedule(1000, testSettings(), 0)
	require.NoError(err)
	require.Equal(Schedule{
		StartDate:                 1000,
		NominationPeriodStartDate: 1000 + 76*Day,
		VotingPeriodStartDate:     1000 + 83*Day,
		EndDate:                   1000 + 90*Day,
	}, s)

	s, err = NewSchedule(1000, testSettings(), 2000)
	require.NoError(err)
	require.Equal(uint64(2000), s.NominationPeriodStartDate)

	_, err = NewSchedule(1000, testSettings(), 1000+84*Day)
	require.ErrorIs(err, ErrInvalidSchedule)
}

func TestSchedulePeriodAt(t *testing.T) {
	s := Schedule{
		StartDate:                 0,
		NominationPeriodStartDate: 100,
		VotingPeriodStartDate:     200,
		EndDate:                   300,
	}

	tests := []struct {
		now      uint64
		expected Period
	}{
		{now: 0, expected: Administration},
		{now: 99, expected: Administration},
		{now: 100, expected: Nomination},
		{now: 199, expected: Nomination},
		{now: 200, expected: Vote},
		{now: 299, expected: Vote},
		{now: 300, expected: Evaluation},
		{now: 1_000_000, expected: Evaluation},
	}
	for _, test := range tests {
		t.Run(test.expected.String(), func(t *testing.T) {
			require.Equal(t, test.expected, s.PeriodAt(test.now))
		})
	}
}

func TestSchedulePeriodMonotonic(t *testing.T) {
	require := require.New(t)

	s, err := NewSchedule(0, testSettings(), 0)
	require.NoError(err)

	last := s.PeriodAt(0)
	for now := uint64(0); now <= s.EndDate+Day; now += Day / 4 {
		period := s.PeriodAt(now)
		require.GreaterOrEqual(period, last)
		last = period
	}
	require.Equal(Evaluation, last)
}

func TestScheduleJumpToNomination(t *testing.T) {
	require := require.New(t)

	s := Schedule{
		StartDate:                 0,
		NominationPeriodStartDate: 1000,
		VotingPeriodStartDate:     1500,
		EndDate:                   2500,
	}
	jumped, err := s.JumpToNomination(200)
	require.NoError(err)
	require.Equal(Schedule{
		StartDate:                 0,
		NominationPeriodStartDate: 200,
		VotingPeriodStartDate:     700,
		EndDate:                   1700,
	}, jumped)
	require.Equal(Nomination, jumped.PeriodAt(200))
	require.Equal(s.NominationPeriodDuration(), jumped.NominationPeriodDuration())
	require.Equal(s.VotingPeriodDuration(), jumped.VotingPeriodDuration())
}

func TestScheduleTweak(t *testing.T) {
	s := Schedule{
		StartDate:                 0,
		NominationPeriodStartDate: 10 * Day,
		VotingPeriodStartDate:     20 * Day,
		EndDate:                   30 * Day,
	}

	tests := []struct {
		name        string
		nomination  uint64
		voting      uint64
		end         uint64
		expectedErr error
	}{
		{
			name:       "within tolerance",
			nomination: 12 * Day,
			voting:     22 * Day,
			end:        25 * Day,
		},
		{
			name:        "nomination moved too far",
			nomination:  18 * Day,
			voting:      20 * Day,
			end:         30 * Day,
			expectedErr: ErrInvalidSchedule,
		},
		{
			name:        "end moved too far",
			nomination:  10 * Day,
			voting:      20 * Day,
			end:         40 * Day,
			expectedErr: ErrInvalidSchedule,
		},
		{
			name:        "voting moved too far",
			nomination:  15 * Day,
			voting:      14 * Day,
			end:         30 * Day,
			expectedErr: ErrInvalidSchedule,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			tweaked, err := s.Tweak(test.nomination, test.voting, test.end, 5*Day)
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				return
			}
			require.Equal(s.StartDate, tweaked.StartDate)
			require.Equal(test.nomination, tweaked.NominationPeriodStartDate)
			require.Equal(test.voting, tweaked.VotingPeriodStartDate)
			require.Equal(test.end, tweaked.EndDate)
		})
	}
}
