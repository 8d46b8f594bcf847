// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"errors"
	"slices"
	"sync"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

const QueueSize = 64

var errSubscriberFull = errors.New("subscriber queue full")

type SubscriberID uint64

// Subscriber receives published events. Deliver must not block.
type Subscriber interface {
	Deliver(Event) error
	Close()
}

type subscription struct {
	types []Type
	sub   Subscriber
}

func (s *subscription) wants(t Type) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Bus fans events out to subscribers. A subscriber that can't keep up loses
// events, publishing never blocks the module.
type Bus struct {
	log log.Logger

	lock        sync.RWMutex
	lastID      SubscriberID
	subscribers map[SubscriberID]*subscription
	closed      bool

	published metric.CounterVec
	dropped   metric.CounterVec
}

// NewBus returns a bus whose metrics are registered with [registerer], if
// one is given.
func NewBus(log log.Logger, registerer metric.Registerer) (*Bus, error) {
	b := NewLocalBus(log)
	if registerer == nil {
		return b, nil
	}
	return b, errors.Join(
		registerer.Register(metric.AsCollector(b.published)),
		registerer.Register(metric.AsCollector(b.dropped)),
	)
}

// NewLocalBus returns a bus whose metrics are not exported.
func NewLocalBus(log log.Logger) *Bus {
	return &Bus{
		log:         log,
		subscribers: make(map[SubscriberID]*subscription),
		published: metric.NewCounterVec(metric.CounterOpts{
			Name: "events_published",
			Help: "Number of events published",
		}, []string{"type"}),
		dropped: metric.NewCounterVec(metric.CounterOpts{
			Name: "events_dropped",
			Help: "Number of events a subscriber failed to receive",
		}, []string{"type"}),
	}
}

// Register adds [sub] for events of [types], or of every type if none are
// given.
func (b *Bus) Register(sub Subscriber, types ...Type) SubscriberID {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.lastID++
	b.subscribers[b.lastID] = &subscription{
		types: types,
		sub:   sub,
	}
	return b.lastID
}

// Subscribe returns a channel receiving events of [types].
func (b *Bus) Subscribe(types ...Type) (SubscriberID, <-chan Event) {
	sub := newChannelSubscriber(QueueSize)
	return b.Register(sub, types...), sub.ch
}

// SubscribeFunc calls [f] from a dedicated goroutine for events of [types].
// The goroutine exits once the subscriber is removed.
func (b *Bus) SubscribeFunc(f func(Event), types ...Type) SubscriberID {
	id, ch := b.Subscribe(types...)
	go func() {
		for evt := range ch {
			f(evt)
		}
	}()
	return id
}

func (b *Bus) Unsubscribe(id SubscriberID) {
	b.lock.Lock()
	s, ok := b.subscribers[id]
	delete(b.subscribers, id)
	b.lock.Unlock()

	if ok {
		s.sub.Close()
	}
}

// Publish delivers [evts] in order to every interested subscriber.
func (b *Bus) Publish(evts ...Event) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.closed {
		return
	}
	for _, evt := range evts {
		b.published.WithLabelValues(string(evt.Type)).Inc()
		for id, s := range b.subscribers {
			if !s.wants(evt.Type) {
				continue
			}
			if err := s.sub.Deliver(evt); err != nil {
				b.dropped.WithLabelValues(string(evt.Type)).Inc()
				b.log.Warn("dropping event",
					log.String("type", string(evt.Type)),
					log.Reflect("subscriberID", id),
					log.Err(err),
				)
			}
		}
	}
}

// Close removes every subscriber. Later publications are ignored.
func (b *Bus) Close() {
	b.lock.Lock()
	subscribers := b.subscribers
	b.subscribers = make(map[SubscriberID]*subscription)
	b.closed = true
	b.lock.Unlock()

	for _, s := range subscribers {
		s.sub.Close()
	}
}

type channelSubscriber struct {
	lock   sync.Mutex
	ch     chan Event
	closed bool
}

func newChannelSubscriber(size int) *channelSubscriber {
	return &channelSubscriber{
		ch: make(chan Event, size),
	}
}

func (c *channelSubscriber) Deliver(evt Event) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return nil
	}
	select {
	case c.ch <- evt:
		return nil
	default:
		return errSubscriberFull
	}
}

func (c *channelSubscriber) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

// Recorder keeps every delivered event in memory.
type Recorder struct {
	lock   sync.Mutex
	events []Event
}

func (r *Recorder) Deliver(evt Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.events = append(r.events, evt)
	return nil
}

func (*Recorder) Close() {}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.lock.Lock()
	defer r.lock.Unlock()

	return slices.Clone(r.events)
}

// OfType returns the recorded events of type [t].
func (r *Recorder) OfType(t Type) []Event {
	r.lock.Lock()
	defer r.lock.Unlock()

	var matching []Event
	for _, evt := range r.events {
		if evt.Type == t {
			matching = append(matching, evt)
		}
	}
	return matching
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.events = nil
}
