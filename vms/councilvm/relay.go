// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"

	"github.com/luxfi/log"
)

// RelayPending hands up to [limit] queued instructions to the transport,
// all of them if zero. Undelivered instructions stay queued. Returns the
// number delivered.
func (m *Module) RelayPending(ctx context.Context, limit int) (int, error) {
	m.lock.Lock()
	entries, err := m.sync.Pending(limit)
	m.lock.Unlock()
	if err != nil || len(entries) == 0 {
		return 0, err
	}

	// Delivery may call back into other modules, possibly this one.
	delivered := m.sync.Deliver(ctx, entries)

	m.lock.Lock()
	defer m.lock.Unlock()

	if err := m.sync.MarkDelivered(delivered); err != nil {
		m.state.Abort()
		return 0, err
	}
	if err := m.state.Commit(); err != nil {
		return 0, err
	}
	m.config.Metrics.AddDelivered(len(delivered))
	if remaining, err := m.sync.Pending(0); err == nil {
		m.config.Metrics.SetOutboxSize(len(remaining))
	}

	if len(delivered) < len(entries) {
		m.log.Debug("relay incomplete",
			log.Int("delivered", len(delivered)),
			log.Int("queued", len(entries)),
		)
	}
	return len(delivered), nil
}

// PendingMessages returns the number of queued instructions.
func (m *Module) PendingMessages() (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	entries, err := m.sync.Pending(0)
	return len(entries), err
}
