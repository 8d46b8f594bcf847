// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"errors"

	"github.com/luxfi/council/vms/councilvm/ballot"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

// Authorization
var (
	ErrUnauthorized      = errors.New("caller is not the owner")
	ErrNotPrimaryChain   = errors.New("only callable on the primary chain")
	ErrUnverifiedMessage = xchain.ErrUnverifiedMessage
	ErrUntrustedSource   = xchain.ErrUntrustedSource
)

// Temporal
var ErrNotCallableInCurrentPeriod = errors.New("not callable in the current period")

// Parameters
var (
	ErrListLengthMismatch = ballot.ErrListLengthMismatch
	ErrTooManyCandidates  = ballot.ErrTooManyCandidates
	ErrAmountExceedsPower = ballot.ErrAmountExceedsPower
	ErrElectionIDMismatch = errors.New("election ID mismatch")
	ErrTooManyMembers     = errors.New("too many council members")
	ErrUnexpectedValue    = xchain.ErrUnexpectedValue
	ErrInvalidSettings    = election.ErrInvalidSettings
	ErrInvalidSchedule    = election.ErrInvalidSchedule
)

// State conflicts
var (
	ErrNotInitialized           = errors.New("election module not initialized")
	ErrAlreadyNominated         = errors.New("already nominated")
	ErrNotNominated             = errors.New("not nominated")
	ErrElectionAlreadyEvaluated = errors.New("election already evaluated")
	ErrElectionNotEvaluated     = errors.New("election not evaluated")
	ErrNotANominee              = errors.New("candidate is not a nominee")
	ErrBallotAlreadyTallied     = errors.New("ballot already tallied")
	ErrDuplicateCandidate       = ballot.ErrDuplicateCandidate
)

// ErrNotImplemented is returned by disabled entry points.
var ErrNotImplemented = errors.New("not implemented")
