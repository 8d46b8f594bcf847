// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCall(t *testing.T) {
	require := require.New(t)

	m, err := New(prometheus.NewRegistry())
	require.NoError(err)
	impl := m.(*metricsImpl)

	m.ObserveCall("nominate", time.Now(), nil)
	m.ObserveCall("nominate", time.Now(), errors.New("failed"))
	m.ObserveCall("nominate", time.Now(), nil)

	require.InDelta(2, testutil.ToFloat64(impl.calls.WithLabelValues("nominate", ResultSuccess)), 0)
	require.InDelta(1, testutil.ToFloat64(impl.calls.WithLabelValues("nominate", ResultFailure)), 0)
}

func TestGauges(t *testing.T) {
	require := require.New(t)

	m, err := New(prometheus.NewRegistry())
	require.NoError(err)
	impl := m.(*metricsImpl)

	m.SetElection(3, 5, 10, 4)
	m.SetCouncilSize(7)
	m.SetOutboxSize(2)
	m.AddDelivered(6)

	require.InDelta(3, testutil.ToFloat64(impl.electionID), 0)
	require.InDelta(5, testutil.ToFloat64(impl.nominees), 0)
	require.InDelta(10, testutil.ToFloat64(impl.ballots), 0)
	require.InDelta(4, testutil.ToFloat64(impl.evaluatedBallots), 0)
	require.InDelta(7, testutil.ToFloat64(impl.councilSize), 0)
	require.InDelta(2, testutil.ToFloat64(impl.outboxSize), 0)
	require.InDelta(6, testutil.ToFloat64(impl.delivered), 0)
}

func TestDoubleRegistrationFails(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New(registry)
	require.NoError(t, err)

	_, err = New(registry)
	var alreadyRegistered prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &alreadyRegistered)
}
