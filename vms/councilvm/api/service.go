// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api serves read-only council queries over JSON-RPC.
package api

import (
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/council/utils/json"
	"github.com/luxfi/council/vms/councilvm"
	"github.com/luxfi/council/vms/councilvm/election"
)

const ServiceName = "council"

// NewHandler returns a JSON-RPC handler for the queries of [module]. Request
// metrics are registered with [registerer].
func NewHandler(module *councilvm.Module, log log.Logger, registerer metric.Registerer) (http.Handler, error) {
	interceptor, err := newInterceptor(registerer)
	if err != nil {
		return nil, err
	}

	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(interceptor.InterceptRequest)
	server.RegisterAfterFunc(interceptor.AfterRequest)
	return server, server.RegisterService(&Service{
		module: module,
		log:    log,
	}, ServiceName)
}

// Service is the council API.
type Service struct {
	module *councilvm.Module
	log    log.Logger
}

type EmptyArgs struct{}

type ElectionIDReply struct {
	ElectionID json.Uint64 `json:"electionID"`
}

// GetElectionID returns the ID of the running election.
func (s *Service) GetElectionID(_ *http.Request, _ *EmptyArgs, reply *ElectionIDReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getElectionID"),
	)

	id, err := s.module.GetElectionID()
	reply.ElectionID = json.Uint64(id)
	return err
}

type PeriodReply struct {
	Period string     `json:"period"`
	ID     json.Uint8 `json:"id"`
}

// GetCurrentPeriod returns the period the running election is in.
func (s *Service) GetCurrentPeriod(_ *http.Request, _ *EmptyArgs, reply *PeriodReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getCurrentPeriod"),
	)

	period, err := s.module.GetCurrentPeriod()
	if err != nil {
		return err
	}
	reply.Period = period.String()
	reply.ID = json.Uint8(period)
	return nil
}

type ScheduleReply struct {
	StartDate                 json.Uint64 `json:"startDate"`
	NominationPeriodStartDate json.Uint64 `json:"nominationPeriodStartDate"`
	VotingPeriodStartDate     json.Uint64 `json:"votingPeriodStartDate"`
	EndDate                   json.Uint64 `json:"endDate"`
}

func (s *Service) GetEpochSchedule(_ *http.Request, _ *EmptyArgs, reply *ScheduleReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getEpochSchedule"),
	)

	schedule, err := s.module.GetEpochSchedule()
	if err != nil {
		return err
	}
	reply.StartDate = json.Uint64(schedule.StartDate)
	reply.NominationPeriodStartDate = json.Uint64(schedule.NominationPeriodStartDate)
	reply.VotingPeriodStartDate = json.Uint64(schedule.VotingPeriodStartDate)
	reply.EndDate = json.Uint64(schedule.EndDate)
	return nil
}

type SettingsReply struct {
	EpochSeatCount             json.Uint8  `json:"epochSeatCount"`
	MinimumActiveMembers       json.Uint8  `json:"minimumActiveMembers"`
	EpochDuration              json.Uint64 `json:"epochDuration"`
	NominationPeriodDuration   json.Uint64 `json:"nominationPeriodDuration"`
	VotingPeriodDuration       json.Uint64 `json:"votingPeriodDuration"`
	MaxDateAdjustmentTolerance json.Uint64 `json:"maxDateAdjustmentTolerance"`
}

func (r *SettingsReply) set(settings election.Settings) {
	r.EpochSeatCount = json.Uint8(settings.EpochSeatCount)
	r.MinimumActiveMembers = json.Uint8(settings.MinimumActiveMembers)
	r.EpochDuration = json.Uint64(settings.EpochDuration)
	r.NominationPeriodDuration = json.Uint64(settings.NominationPeriodDuration)
	r.VotingPeriodDuration = json.Uint64(settings.VotingPeriodDuration)
	r.MaxDateAdjustmentTolerance = json.Uint64(settings.MaxDateAdjustmentTolerance)
}

// GetElectionSettings returns the settings of the running election.
func (s *Service) GetElectionSettings(_ *http.Request, _ *EmptyArgs, reply *SettingsReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getElectionSettings"),
	)

	settings, err := s.module.GetElectionSettings()
	if err != nil {
		return err
	}
	reply.set(settings)
	return nil
}

// GetNextElectionSettings returns the settings staged for the next election.
func (s *Service) GetNextElectionSettings(_ *http.Request, _ *EmptyArgs, reply *SettingsReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getNextElectionSettings"),
	)

	settings, err := s.module.GetNextElectionSettings()
	if err != nil {
		return err
	}
	reply.set(settings)
	return nil
}

type AddressesReply struct {
	Addresses []ids.ShortID `json:"addresses"`
}

func (s *Service) GetNominees(_ *http.Request, _ *EmptyArgs, reply *AddressesReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getNominees"),
	)

	nominees, err := s.module.GetNominees()
	reply.Addresses = nominees
	return err
}

// GetElectionWinners is empty until the running election is evaluated.
func (s *Service) GetElectionWinners(_ *http.Request, _ *EmptyArgs, reply *AddressesReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getElectionWinners"),
	)

	winners, err := s.module.GetElectionWinners()
	reply.Addresses = winners
	return err
}

func (s *Service) GetCouncilMembers(_ *http.Request, _ *EmptyArgs, reply *AddressesReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getCouncilMembers"),
	)

	members, err := s.module.GetCouncilMembers()
	reply.Addresses = members
	return err
}

type AddressReply struct {
	Address ids.ShortID `json:"address"`
}

func (s *Service) GetCouncilToken(_ *http.Request, _ *EmptyArgs, reply *AddressReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getCouncilToken"),
	)

	token, err := s.module.GetCouncilToken()
	reply.Address = token
	return err
}

type CandidateArgs struct {
	Candidate ids.ShortID `json:"candidate"`
}

type IsNominatedReply struct {
	Nominated bool `json:"nominated"`
}

func (s *Service) IsNominated(_ *http.Request, args *CandidateArgs, reply *IsNominatedReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "isNominated"),
		log.Stringer("candidate", args.Candidate),
	)

	nominated, err := s.module.IsNominated(args.Candidate)
	reply.Nominated = nominated
	return err
}

type CandidateVotesReply struct {
	Votes json.Uint256 `json:"votes"`
}

// GetCandidateVotes returns the votes tallied so far for a candidate of the
// running election.
func (s *Service) GetCandidateVotes(_ *http.Request, args *CandidateArgs, reply *CandidateVotesReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getCandidateVotes"),
		log.Stringer("candidate", args.Candidate),
	)

	votes, err := s.module.GetCandidateVotes(args.Candidate)
	if err != nil {
		return err
	}
	reply.Votes = json.NewUint256(votes)
	return nil
}

type BallotArgs struct {
	Voter      ids.ShortID `json:"voter"`
	ChainID    ids.ID      `json:"chainID"`
	ElectionID json.Uint64 `json:"electionID"`
}

type BallotReply struct {
	Candidates  []ids.ShortID `json:"candidates"`
	Amounts     []json.Uint64 `json:"amounts"`
	VotingPower json.Uint64   `json:"votingPower"`
	HasVoted    bool          `json:"hasVoted"`
}

// GetBallot returns the ballot a voter cast from a chain. A ballot never
// cast is returned empty.
func (s *Service) GetBallot(_ *http.Request, args *BallotArgs, reply *BallotReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getBallot"),
		log.Stringer("voter", args.Voter),
		log.Stringer("chainID", args.ChainID),
	)

	b, err := s.module.GetBallot(args.Voter, args.ChainID, uint64(args.ElectionID))
	if err != nil {
		return err
	}
	reply.Candidates = b.VotedCandidates
	reply.Amounts = make([]json.Uint64, len(b.Amounts))
	for i, amount := range b.Amounts {
		reply.Amounts[i] = json.Uint64(amount)
	}
	reply.VotingPower = json.Uint64(b.VotingPower)
	reply.HasVoted = b.HasVoted()
	return nil
}

type VoterArgs struct {
	Voter   ids.ShortID `json:"voter"`
	ChainID ids.ID      `json:"chainID"`
}

type HasVotedReply struct {
	HasVoted bool `json:"hasVoted"`
}

// HasVoted reports whether a voter's ballot in the running election names a
// candidate.
func (s *Service) HasVoted(_ *http.Request, args *VoterArgs, reply *HasVotedReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "hasVoted"),
		log.Stringer("voter", args.Voter),
	)

	hasVoted, err := s.module.HasVoted(args.Voter, args.ChainID)
	reply.HasVoted = hasVoted
	return err
}

type ElectionStatusReply struct {
	NumBallots json.Uint64 `json:"numBallots"`
	Evaluated  bool        `json:"evaluated"`
}

// GetElectionStatus returns how many ballots the running election holds and
// whether they have all been tallied.
func (s *Service) GetElectionStatus(_ *http.Request, _ *EmptyArgs, reply *ElectionStatusReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getElectionStatus"),
	)

	numBallots, err := s.module.GetNumBallots()
	if err != nil {
		return err
	}
	evaluated, err := s.module.IsElectionEvaluated()
	if err != nil {
		return err
	}
	reply.NumBallots = json.Uint64(numBallots)
	reply.Evaluated = evaluated
	return nil
}

type PendingMessagesReply struct {
	Pending int `json:"pending"`
}

// GetPendingMessages returns the number of cross-chain messages waiting to
// be relayed.
func (s *Service) GetPendingMessages(_ *http.Request, _ *EmptyArgs, reply *PendingMessagesReply) error {
	s.log.Debug("API called",
		log.String("service", ServiceName),
		log.String("method", "getPendingMessages"),
	)

	pending, err := s.module.PendingMessages()
	reply.Pending = pending
	return err
}
