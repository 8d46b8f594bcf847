// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"context"

	"github.com/luxfi/ids"
)

// TransportConfig is handed to the transport with every message.
type TransportConfig struct {
	// GasLimit is the execution budget requested on the destination chain.
	GasLimit uint64 `serialize:"true" json:"gasLimit" yaml:"gasLimit"`
}

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/transport.go -mock_names=Transport=Transport . Transport

// Transport delivers signed envelopes between chains. Delivery is at least
// once and may reorder messages.
type Transport interface {
	// SupportedNetworks returns every chain the transport can reach.
	SupportedNetworks() []ids.ID
	// Send hands [env] to the transport. [value] is the fee attached to
	// this delivery.
	Send(ctx context.Context, cfg TransportConfig, env *Envelope, value uint64) error
}
