// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package councilvm

import (
	"context"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/council/vms/councilvm/xchain"
)

var _ xchain.Receiver = (*Module)(nil)

// ReceiveMessage authenticates [env] and applies the instruction it carries.
func (m *Module) ReceiveMessage(ctx context.Context, env *xchain.Envelope) error {
	in, err := m.sync.Verify(ctx, env)
	if err != nil {
		m.log.Debug("rejected cross-chain message",
			log.Stringer("source", env.SourceChainID),
			log.Err(err),
		)
		return err
	}
	return m.receive(ctx, in)
}

func (m *Module) receive(ctx context.Context, in *xchain.Inbound) error {
	if !in.Verified() {
		return ErrUnverifiedMessage
	}

	switch p := in.Payload.(type) {
	case *xchain.CastVote:
		return m.execute(ctx, "receiveCastVote", func(c *call) error {
			if err := m.checkBallotSource(c, in, p.ChainID); err != nil {
				return err
			}
			return m.applyCastVote(c, p)
		})
	case *xchain.WithdrawVote:
		return m.execute(ctx, "receiveWithdrawVote", func(c *call) error {
			if err := m.checkBallotSource(c, in, p.ChainID); err != nil {
				return err
			}
			return m.applyWithdrawVote(c, p)
		})
	case *xchain.DismissMembers:
		return m.execute(ctx, "receiveDismissMembers", func(c *call) error {
			if err := m.checkPrimarySource(c, in); err != nil {
				return err
			}
			return m.applyDismiss(c, p)
		})
	case *xchain.TweakEpochSchedule:
		return m.execute(ctx, "receiveTweakEpochSchedule", func(c *call) error {
			if err := m.checkPrimarySource(c, in); err != nil {
				return err
			}
			return m.applyTweak(c, p)
		})
	case *xchain.ResolveElection:
		return m.execute(ctx, "receiveResolveElection", func(c *call) error {
			if err := m.checkPrimarySource(c, in); err != nil {
				return err
			}
			return m.applyResolve(c, p)
		})
	default:
		return fmt.Errorf("%w: unknown payload %T", ErrUntrustedSource, in.Payload)
	}
}

// checkBallotSource only lets the primary chain accept ballots, each from
// the chain it was cast on.
func (m *Module) checkBallotSource(c *call, in *xchain.Inbound, ballotChainID ids.ID) error {
	if err := onlyInitialized(c); err != nil {
		return err
	}
	if err := m.onlyPrimary(); err != nil {
		return err
	}
	if ballotChainID != in.SourceChainID {
		return fmt.Errorf("%w: ballot of %s sent by %s", ErrUntrustedSource, ballotChainID, in.SourceChainID)
	}
	return nil
}

// checkPrimarySource only lets satellites accept instructions from the
// primary chain.
func (m *Module) checkPrimarySource(c *call, in *xchain.Inbound) error {
	if err := onlyInitialized(c); err != nil {
		return err
	}
	if in.SourceChainID != m.sync.PrimaryChainID() {
		return fmt.Errorf("%w: %s is not the primary chain", ErrUntrustedSource, in.SourceChainID)
	}
	return nil
}
