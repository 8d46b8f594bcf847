// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"time"

	"github.com/luxfi/metric"

	"github.com/luxfi/council/utils/wrappers"
)

const (
	OperationLabel = "operation"
	ResultLabel    = "result"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = noop{}

	// Noop discards every measurement.
	Noop Metrics = noop{}
)

type Metrics interface {
	// ObserveCall records the outcome and duration of one module call.
	ObserveCall(operation string, start time.Time, err error)
	// SetElection records the progress of the running election.
	SetElection(id uint64, nominees int, ballots uint64, evaluatedBallots uint64)
	// SetCouncilSize records the number of seated members.
	SetCouncilSize(int)
	// SetOutboxSize records the number of undelivered messages.
	SetOutboxSize(int)
	// AddDelivered counts messages the transport accepted.
	AddDelivered(int)
}

func New(registerer metric.Registerer) (Metrics, error) {
	m := &metricsImpl{
		calls: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "calls",
				Help: "Number of module calls",
			},
			[]string{OperationLabel, ResultLabel},
		),
		callDuration: metric.NewHistogramVec(
			metric.HistogramOpts{
				Name:    "call_duration_seconds",
				Help:    "Time spent executing module calls",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{OperationLabel},
		),
		electionID: metric.NewGauge(metric.GaugeOpts{
			Name: "election_id",
			Help: "ID of the running election",
		}),
		nominees: metric.NewGauge(metric.GaugeOpts{
			Name: "nominees",
			Help: "Number of nominees in the running election",
		}),
		ballots: metric.NewGauge(metric.GaugeOpts{
			Name: "ballots",
			Help: "Number of registered ballots in the running election",
		}),
		evaluatedBallots: metric.NewGauge(metric.GaugeOpts{
			Name: "evaluated_ballots",
			Help: "Number of ballots tallied in the running election",
		}),
		councilSize: metric.NewGauge(metric.GaugeOpts{
			Name: "council_size",
			Help: "Number of seated council members",
		}),
		outboxSize: metric.NewGauge(metric.GaugeOpts{
			Name: "outbox_size",
			Help: "Number of cross-chain messages waiting for delivery",
		}),
		delivered: metric.NewCounter(metric.CounterOpts{
			Name: "delivered",
			Help: "Number of cross-chain messages handed to the transport",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.calls)),
		registerer.Register(metric.AsCollector(m.callDuration)),
		registerer.Register(metric.AsCollector(m.electionID)),
		registerer.Register(metric.AsCollector(m.nominees)),
		registerer.Register(metric.AsCollector(m.ballots)),
		registerer.Register(metric.AsCollector(m.evaluatedBallots)),
		registerer.Register(metric.AsCollector(m.councilSize)),
		registerer.Register(metric.AsCollector(m.outboxSize)),
		registerer.Register(metric.AsCollector(m.delivered)),
	)
	return m, errs.Err
}

type metricsImpl struct {
	calls        metric.CounterVec
	callDuration metric.HistogramVec

	electionID       metric.Gauge
	nominees         metric.Gauge
	ballots          metric.Gauge
	evaluatedBallots metric.Gauge
	councilSize      metric.Gauge

	outboxSize metric.Gauge
	delivered  metric.Counter
}

func (m *metricsImpl) ObserveCall(operation string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.calls.WithLabelValues(operation, result).Inc()
	m.callDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *metricsImpl) SetElection(id uint64, nominees int, ballots uint64, evaluatedBallots uint64) {
	m.electionID.Set(float64(id))
	m.nominees.Set(float64(nominees))
	m.ballots.Set(float64(ballots))
	m.evaluatedBallots.Set(float64(evaluatedBallots))
}

func (m *metricsImpl) SetCouncilSize(n int) {
	m.councilSize.Set(float64(n))
}

func (m *metricsImpl) SetOutboxSize(n int) {
	m.outboxSize.Set(float64(n))
}

func (m *metricsImpl) AddDelivered(n int) {
	m.delivered.Add(float64(n))
}

type noop struct{}

func (noop) ObserveCall(string, time.Time, error)       {}
func (noop) SetElection(uint64, int, uint64, uint64) {}
func (noop) SetCouncilSize(int)                      {}
func (noop) SetOutboxSize(int)                       {}
func (noop) AddDelivered(int)                        {}
