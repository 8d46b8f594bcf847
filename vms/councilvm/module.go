// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package councilvm runs periodic council elections across a primary chain
// and its satellites.
package councilvm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/luxfi/council/utils/timer/mockable"
	"github.com/luxfi/council/vms/councilvm/election"
	"github.com/luxfi/council/vms/councilvm/events"
	"github.com/luxfi/council/vms/councilvm/metrics"
	"github.com/luxfi/council/vms/councilvm/state"
	"github.com/luxfi/council/vms/councilvm/xchain"
)

type Config struct {
	// Owner may initialize, tweak, dismiss and restage settings.
	Owner ids.ShortID
	// Token is the governance token the council presides over.
	Token ids.ShortID

	// Sync must carry a transport, signer and verifier before any
	// cross-chain message is sent or received.
	Sync xchain.Config
	// VotingPower is required to cast votes.
	VotingPower VotingPowerSource

	// Optional. Nil values fall back to the wall clock, a local event bus,
	// no metrics, no tracing and no logging.
	Clock   *mockable.Clock
	Events  *events.Bus
	Metrics metrics.Metrics
	Tracer  oteltrace.Tracer
	Log     log.Logger
}

// Module is one chain's view of the council election. Mutating calls are
// serialized and either fully commit or leave no trace.
type Module struct {
	config Config
	clock  *mockable.Clock
	log    log.Logger

	// lock serializes every call touching [state].
	lock  sync.Mutex
	state *state.State
	sync  *xchain.Synchronizer
}

func New(db database.Database, config Config) *Module {
	if config.Clock == nil {
		config.Clock = &mockable.Clock{}
	}
	if config.Log == nil {
		config.Log = log.NewNoOpLogger()
	}
	if config.Sync.Log == nil {
		config.Sync.Log = config.Log
	}
	if config.Events == nil {
		config.Events = events.NewLocalBus(config.Log)
	}
	if config.Metrics == nil {
		config.Metrics = metrics.Noop
	}
	if config.Tracer == nil {
		config.Tracer = noop.Tracer{}
	}

	st := state.New(db)
	return &Module{
		config: config,
		clock:  config.Clock,
		log:    config.Log,
		state:  st,
		sync:   xchain.New(config.Sync, xchain.NewOutbox(st.OutboxDB())),
	}
}

func (m *Module) ChainID() ids.ID {
	return m.sync.ChainID()
}

func (m *Module) IsPrimary() bool {
	return m.sync.IsPrimary()
}

// call is the context of one mutating call.
type call struct {
	ctx     context.Context
	now     uint64
	council *state.Council
	events  []events.Event
}

func (c *call) emit(m *Module, t events.Type, electionID uint64, data any) {
	c.events = append(c.events, events.Event{
		Type:       t,
		Timestamp:  time.Unix(int64(c.now), 0),
		ChainID:    m.sync.ChainID(),
		ElectionID: electionID,
		Data:       data,
	})
}

// execute runs [f] under the module lock. State written by [f] is committed
// only if [f] succeeds, events are published after the commit.
func (m *Module) execute(ctx context.Context, operation string, f func(*call) error) error {
	start := time.Now()
	ctx, span := m.config.Tracer.Start(ctx, "councilvm."+operation, oteltrace.WithAttributes(
		attribute.Stringer("chainID", m.sync.ChainID()),
	))
	defer span.End()

	m.lock.Lock()
	c, err := m.newCall(ctx)
	if err == nil {
		err = f(c)
	}
	if err == nil {
		err = m.state.PutCouncil(c.council)
	}
	if err == nil {
		err = m.state.Commit()
	} else {
		m.state.Abort()
	}
	if err == nil {
		m.updateGauges(c.council)
	}
	m.lock.Unlock()

	m.config.Metrics.ObserveCall(operation, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.log.Debug("call failed",
			log.String("operation", operation),
			log.Err(err),
		)
		return err
	}
	m.config.Events.Publish(c.events...)
	return nil
}

// read runs [f] under the module lock without committing anything.
func (m *Module) read(f func(c *state.Council) error) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	council, err := m.state.GetCouncil()
	if err != nil {
		return err
	}
	return f(council)
}

func (m *Module) newCall(ctx context.Context) (*call, error) {
	council, err := m.state.GetCouncil()
	if err != nil {
		return nil, err
	}
	return &call{
		ctx:     ctx,
		now:     m.clock.Unix(),
		council: council,
	}, nil
}

func (m *Module) updateGauges(council *state.Council) {
	m.config.Metrics.SetCouncilSize(len(council.Members))
	if e, err := m.state.GetElection(council.CurrentElectionID); err == nil {
		m.config.Metrics.SetElection(e.ID, len(e.Nominees), e.NumBallots, e.NumEvaluatedBallots)
	}
	if n, err := m.sync.Pending(0); err == nil {
		m.config.Metrics.SetOutboxSize(len(n))
	}
}

func (m *Module) onlyOwner(caller ids.ShortID) error {
	if caller != m.config.Owner {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller)
	}
	return nil
}

func (m *Module) onlyPrimary() error {
	if !m.sync.IsPrimary() {
		return fmt.Errorf("%w: running on %s", ErrNotPrimaryChain, m.sync.ChainID())
	}
	return nil
}

func onlyInitialized(c *call) error {
	if !c.council.Initialized {
		return ErrNotInitialized
	}
	return nil
}

// period returns the schedule of the current election and where [c.now]
// falls in it.
func (m *Module) period(c *call) (election.Schedule, election.Period, error) {
	schedule, err := m.state.GetSchedule(c.council.CurrentElectionID)
	if err != nil {
		return election.Schedule{}, 0, err
	}
	return schedule, schedule.PeriodAt(c.now), nil
}

func (m *Module) onlyInPeriods(c *call, periods ...election.Period) (election.Schedule, error) {
	schedule, period, err := m.period(c)
	if err != nil {
		return election.Schedule{}, err
	}
	if !period.In(periods...) {
		return election.Schedule{}, fmt.Errorf("%w: %s", ErrNotCallableInCurrentPeriod, period)
	}
	return schedule, nil
}

// broadcast queues [p] for every satellite.
func (m *Module) broadcast(c *call, p xchain.Payload, value uint64) error {
	return m.sync.Broadcast(c.ctx, c.council.TransportConfig, m.sync.Destinations(), p, value)
}
