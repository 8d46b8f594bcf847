// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package events defines the signals a council module emits and the bus they
// are published on.
package events

import (
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/council/vms/councilvm/election"
)

type Type string

const (
	ElectionModuleInitialized Type = "council.initialized"
	EpochStarted              Type = "council.epochStarted"
	EpochScheduleUpdated      Type = "council.epochScheduleUpdated"
	EmergencyElectionStarted  Type = "council.emergencyElectionStarted"
	CandidateNominated        Type = "council.candidateNominated"
	NominationWithdrawn       Type = "council.nominationWithdrawn"
	VoteRecorded              Type = "council.voteRecorded"
	VoteWithdrawn             Type = "council.voteWithdrawn"
	ElectionBatchEvaluated    Type = "council.electionBatchEvaluated"
	ElectionEvaluated         Type = "council.electionEvaluated"
	CouncilMembersDismissed   Type = "council.membersDismissed"
	ElectionSettingsUpdated   Type = "council.electionSettingsUpdated"
)

// Event is one emitted signal. Data holds the matching *Data struct.
type Event struct {
	Type       Type
	Timestamp  time.Time
	ChainID    ids.ID
	ElectionID uint64
	Data       any
}

type EpochScheduleData struct {
	Schedule election.Schedule
}

type CandidateData struct {
	Candidate ids.ShortID
}

type VoteData struct {
	Voter       ids.ShortID
	ChainID     ids.ID
	Candidates  []ids.ShortID
	Amounts     []uint64
	VotingPower uint64
}

type BatchEvaluatedData struct {
	Evaluated uint64
	Total     uint64
}

type EvaluatedData struct {
	Total   uint64
	Winners []ids.ShortID
}

type MembersData struct {
	Members []ids.ShortID
}

type SettingsData struct {
	Settings election.Settings
}
