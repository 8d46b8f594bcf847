// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"
	"sync"

	"github.com/luxfi/ids"
)

var _ VotingPowerSource = (*StaticVotingPower)(nil)

// VotingPowerSource reports how much a voter may spread over its ballot on
// the local chain.
type VotingPowerSource interface {
	VotingPower(ctx context.Context, electionID uint64, voter ids.ShortID) (uint64, error)
}

// StaticVotingPower hands out fixed powers. Unknown voters get Default.
type StaticVotingPower struct {
	Default uint64

	lock   sync.RWMutex
	powers map[ids.ShortID]uint64
}

func (s *StaticVotingPower) Set(voter ids.ShortID, power uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.powers == nil {
		s.powers = make(map[ids.ShortID]uint64)
	}
	s.powers[voter] = power
}

func (s *StaticVotingPower) VotingPower(_ context.Context, _ uint64, voter ids.ShortID) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if power, ok := s.powers[voter]; ok {
		return power, nil
	}
	return s.Default, nil
}
