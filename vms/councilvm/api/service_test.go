// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/constants"
	"github.com/luxfi/crypto/bls/signer/localsigner"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/council/utils/json"
	"github.com/luxfi/council/utils/timer/mockable"
	"github.com/luxfi/council/vms/councilvm"
	"github.com/luxfi/council/vms/councilvm/api"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
	"github.com/luxfi/council/vms/councilvm/metrics"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

const genesisTime = 1_700_000_000

var owner = ids.GenerateTestShortID()

func newModule(t *testing.T, clock *mockable.Clock) (*councilvm.Module, ids.ID) {
	require := require.New(t)

	chainID := ids.GenerateTestID()
	hub := xchain.NewHub(log.NewNoOpLogger())
	sk, err := localsigner.New()
	require.NoError(err)
	verifier := xchain.NewKeyVerifier()
	verifier.Register(chainID, sk.PublicKey())

	bus, err := events.NewBus(log.NewNoOpLogger(), nil)
	require.NoError(err)
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(err)

	module := councilvm.New(memdb.New(), councilvm.Config{
		Owner: owner,
		Sync: xchain.Config{
			NetworkID:      constants.UnitTestID,
			ChainID:        chainID,
			PrimaryChainID: chainID,
			Transport:      hub.Transport(chainID),
			Signer:         xchain.NewSigner(sk, constants.UnitTestID, chainID),
			Verifier:       verifier,
			Log:            log.NewNoOpLogger(),
		},
		VotingPower: &councilvm.StaticVotingPower{Default: 7},
		Clock:       clock,
		Events:      bus,
		Metrics:     m,
		Log:         log.NewNoOpLogger(),
	})
	hub.Register(chainID, module)
	return module, chainID
}

func call(t *testing.T, handler http.Handler, method string, args any, reply any) error {
	body, err := json2.EncodeClientRequest(method, args)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return json2.DecodeClientResponse(rec.Body, reply)
}

func TestService(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	clock := &mockable.Clock{}
	clock.SetUnix(genesisTime)
	module, chainID := newModule(t, clock)

	registry := prometheus.NewRegistry()
	handler, err := api.NewHandler(module, log.NewNoOpLogger(), registry)
	require.NoError(err)

	var period api.PeriodReply
	err = call(t, handler, "council.getCurrentPeriod", &api.EmptyArgs{}, &period)
	require.ErrorContains(err, councilvm.ErrNotInitialized.Error())

	council := []ids.ShortID{ids.GenerateTestShortID(), ids.GenerateTestShortID()}
	require.NoError(module.InitOrUpdateElectionSettings(ctx, owner, councilvm.InitParams{
		Council:                      council,
		MinimumActiveMembers:         1,
		AdministrationPeriodDuration: 2,
		NominationPeriodDuration:     1,
		VotingPeriodDuration:         1,
	}))

	var schedule api.ScheduleReply
	require.NoError(call(t, handler, "council.getEpochSchedule", &api.EmptyArgs{}, &schedule))
	require.Equal(json.Uint64(genesisTime), schedule.StartDate)
	require.Equal(json.Uint64(genesisTime+4*election.Day), schedule.EndDate)

	var settings api.SettingsReply
	require.NoError(call(t, handler, "council.getElectionSettings", &api.EmptyArgs{}, &settings))
	require.Equal(json.Uint8(2), settings.EpochSeatCount)
	require.Equal(json.Uint64(election.Day), settings.VotingPeriodDuration)

	candidate := ids.GenerateTestShortID()
	voter := ids.GenerateTestShortID()
	clock.SetUnix(uint64(schedule.NominationPeriodStartDate))
	require.NoError(module.Nominate(ctx, candidate))

	require.NoError(call(t, handler, "council.getCurrentPeriod", &api.EmptyArgs{}, &period))
	require.Equal("nomination", period.Period)
	require.Equal(json.Uint8(election.Nomination), period.ID)

	var nominated api.IsNominatedReply
	require.NoError(call(t, handler, "council.isNominated", &api.CandidateArgs{Candidate: candidate}, &nominated))
	require.True(nominated.Nominated)

	clock.SetUnix(uint64(schedule.VotingPeriodStartDate))
	require.NoError(module.Cast(ctx, voter, []ids.ShortID{candidate}, 0))

	var ballot api.BallotReply
	require.NoError(call(t, handler, "council.getBallot", &api.BallotArgs{
		Voter:   voter,
		ChainID: chainID,
	}, &ballot))
	require.Equal([]ids.ShortID{candidate}, ballot.Candidates)
	require.Equal([]json.Uint64{7}, ballot.Amounts)
	require.Equal(json.Uint64(7), ballot.VotingPower)
	require.True(ballot.HasVoted)

	clock.SetUnix(uint64(schedule.EndDate))
	require.NoError(module.Evaluate(ctx, owner, 0, 0))

	var status api.ElectionStatusReply
	require.NoError(call(t, handler, "council.getElectionStatus", &api.EmptyArgs{}, &status))
	require.Equal(json.Uint64(1), status.NumBallots)
	require.True(status.Evaluated)

	var votes api.CandidateVotesReply
	require.NoError(call(t, handler, "council.getCandidateVotes", &api.CandidateArgs{Candidate: candidate}, &votes))
	require.Equal(uint64(7), votes.Votes.Uint64())

	var winners api.AddressesReply
	require.NoError(call(t, handler, "council.getElectionWinners", &api.EmptyArgs{}, &winners))
	require.Equal([]ids.ShortID{candidate}, winners.Addresses)

	require.NoError(module.Resolve(ctx, owner, 0))

	var electionID api.ElectionIDReply
	require.NoError(call(t, handler, "council.getElectionID", &api.EmptyArgs{}, &electionID))
	require.Equal(json.Uint64(1), electionID.ElectionID)

	var members api.AddressesReply
	require.NoError(call(t, handler, "council.getCouncilMembers", &api.EmptyArgs{}, &members))
	require.Equal([]ids.ShortID{candidate}, members.Addresses)

	var pending api.PendingMessagesReply
	require.NoError(call(t, handler, "council.getPendingMessages", &api.EmptyArgs{}, &pending))
	require.Zero(pending.Pending)

	// Every call above was counted and only the query made before
	// initialization failed.
	count, err := testutil.GatherAndCount(registry, "api_request_count")
	require.NoError(err)
	require.Positive(count)
	require.Equal(float64(1), sumCounters(t, registry, "api_request_error_count"))
}

func sumCounters(t *testing.T, registry *prometheus.Registry, name string) float64 {
	families, err := registry.Gather()
	require.NoError(t, err)

	var sum float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			sum += metric.GetCounter().GetValue()
		}
	}
	return sum
}
