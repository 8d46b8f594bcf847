// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestBallotVerify(t *testing.T) {
	candidate := ids.GenerateTestShortID()
	other := ids.GenerateTestShortID()

	tests := []struct {
		name        string
		ballot      Ballot
		expectedErr error
	}{
		{
			name: "single candidate",
			ballot: Ballot{
				VotedCandidates: []ids.ShortID{candidate},
				Amounts:         []uint64{10},
				VotingPower:     10,
			},
		},
		{
			name:   "empty ballot",
			ballot: Ballot{VotingPower: 10},
		},
		{
			name: "too many candidates",
			ballot: Ballot{
				VotedCandidates: []ids.ShortID{candidate, other},
				Amounts:         []uint64{5, 5},
				VotingPower:     10,
			},
			expectedErr: ErrTooManyCandidates,
		},
		{
			name: "length mismatch",
			ballot: Ballot{
				VotedCandidates: []ids.ShortID{candidate},
				Amounts:         []uint64{5, 5},
				VotingPower:     10,
			},
			expectedErr: ErrListLengthMismatch,
		},
		{
			name: "amount above power",
			ballot: Ballot{
				VotedCandidates: []ids.ShortID{candidate},
				Amounts:         []uint64{11},
				VotingPower:     10,
			},
			expectedErr: ErrAmountExceedsPower,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.ballot.Verify()
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestBallotWithdrawKeepsPower(t *testing.T) {
	require := require.New(t)

	b, err := New([]ids.ShortID{ids.GenerateTestShortID()}, []uint64{7}, 7)
	require.NoError(err)
	require.True(b.HasVoted())

	b.Withdraw()
	require.False(b.HasVoted())
	require.Empty(b.Amounts)
	require.Equal(uint64(7), b.VotingPower)
	require.NoError(b.Verify())
}

func TestBallotNewCopiesInput(t *testing.T) {
	require := require.New(t)

	candidates := []ids.ShortID{ids.GenerateTestShortID()}
	amounts := []uint64{3}
	b, err := New(candidates, amounts, 3)
	require.NoError(err)

	candidates[0] = ids.ShortEmpty
	amounts[0] = 0
	require.NotEqual(ids.ShortEmpty, b.VotedCandidates[0])
	require.Equal(uint64(3), b.Amounts[0])
}

func TestBallotEqual(t *testing.T) {
	require := require.New(t)

	candidate := ids.GenerateTestShortID()
	a := &Ballot{VotedCandidates: []ids.ShortID{candidate}, Amounts: []uint64{1}, VotingPower: 1}
	b := &Ballot{VotedCandidates: []ids.ShortID{candidate}, Amounts: []uint64{1}, VotingPower: 1}
	require.True(a.Equal(b))

	b.Withdraw()
	require.False(a.Equal(b))

	a.Withdraw()
	require.True(a.Equal(b))
}
