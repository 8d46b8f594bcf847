// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockSet(t *testing.T) {
	require := require.New(t)

	clock := Clock{}
	clock.SetUnix(1_000)
	require.Equal(uint64(1_000), clock.Unix())

	clock.Advance(90 * time.Second)
	require.Equal(uint64(1_090), clock.Unix())

	clock.Sync()
	require.Greater(clock.Unix(), uint64(1_090))
}

func TestClockAdvanceFromWallTime(t *testing.T) {
	require := require.New(t)

	clock := Clock{}
	before := uint64(time.Now().Unix())
	clock.Advance(time.Hour)
	require.GreaterOrEqual(clock.Unix(), before+3600)
}

func TestClockNegativeTime(t *testing.T) {
	clock := Clock{}
	clock.Set(time.Unix(-10, 0))
	require.Zero(t, clock.Unix())
}
