// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"errors"
	"fmt"

	"github.com/luxfi/database"
)

var (
	headKey = []byte("head")
	tailKey = []byte("tail")

	entryPrefix = []byte("entry")
)

// Entry is one queued delivery.
type Entry struct {
	Envelope Envelope        `serialize:"true"`
	Config   TransportConfig `serialize:"true"`
	Value    uint64          `serialize:"true"`
}

// Outbox persists envelopes until the transport accepted them. Entries are
// keyed by their envelope nonce, [head, tail) is the range that may still hold
// entries.
//
// The outbox writes through [db] and never commits, callers commit it
// together with the state change that produced the messages.
type Outbox struct {
	db database.Database
}

func NewOutbox(db database.Database) *Outbox {
	return &Outbox{db: db}
}

// NextNonce returns the nonce the next queued envelope must carry.
func (o *Outbox) NextNonce() (uint64, error) {
	return o.counter(tailKey)
}

// Push queues [entry]. Its envelope must carry [NextNonce].
func (o *Outbox) Push(entry *Entry) error {
	tail, err := o.counter(tailKey)
	if err != nil {
		return err
	}
	if nonce := entry.Envelope.Nonce; nonce != tail {
		return fmt.Errorf("unexpected nonce %d, expected %d", nonce, tail)
	}

	bytes, err := Codec.Marshal(CodecVersion, entry)
	if err != nil {
		return err
	}
	if err := o.db.Put(entryKey(tail), bytes); err != nil {
		return err
	}
	return database.PutUInt64(o.db, tailKey, tail+1)
}

// Pending returns up to [limit] queued entries, oldest first. A zero [limit]
// returns every entry.
func (o *Outbox) Pending(limit int) ([]*Entry, error) {
	head, err := o.counter(headKey)
	if err != nil {
		return nil, err
	}
	tail, err := o.counter(tailKey)
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	for nonce := head; nonce < tail; nonce++ {
		if limit > 0 && len(entries) >= limit {
			break
		}
		bytes, err := o.db.Get(entryKey(nonce))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		entry := &Entry{}
		if _, err := Codec.Unmarshal(bytes, entry); err != nil {
			return nil, fmt.Errorf("couldn't parse outbox entry %d: %w", nonce, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Len returns the number of queued entries.
func (o *Outbox) Len() (int, error) {
	entries, err := o.Pending(0)
	return len(entries), err
}

// Remove drops the entry with [nonce] and advances the head past every
// removed entry.
func (o *Outbox) Remove(nonce uint64) error {
	if err := o.db.Delete(entryKey(nonce)); err != nil {
		return err
	}

	head, err := o.counter(headKey)
	if err != nil {
		return err
	}
	tail, err := o.counter(tailKey)
	if err != nil {
		return err
	}
	for ; head < tail; head++ {
		has, err := o.db.Has(entryKey(head))
		if err != nil {
			return err
		}
		if has {
			break
		}
	}
	return database.PutUInt64(o.db, headKey, head)
}

func (o *Outbox) counter(key []byte) (uint64, error) {
	value, err := database.GetUInt64(o.db, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	return value, err
}

func entryKey(nonce uint64) []byte {
	return append(append([]byte{}, entryPrefix...), database.PackUInt64(nonce)...)
}
