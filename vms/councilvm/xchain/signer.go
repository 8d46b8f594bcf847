// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"
	"github.com/luxfi/warp"
)

var (
	_ warp.Signer   = (*blsSigner)(nil)
	_ warp.Verifier = (*KeyVerifier)(nil)

	ErrWrongNetworkID     = errors.New("wrong network ID")
	ErrWrongSourceChainID = errors.New("wrong source chain ID")
	ErrUnknownSigner      = errors.New("no key registered for source chain")
	ErrInvalidSignature   = errors.New("invalid signature")
)

type blsSigner struct {
	sk        bls.Signer
	networkID uint32
	chainID   ids.ID
}

// NewSigner returns a signer that only signs messages of [chainID] on
// [networkID].
func NewSigner(sk bls.Signer, networkID uint32, chainID ids.ID) warp.Signer {
	return &blsSigner{
		sk:        sk,
		networkID: networkID,
		chainID:   chainID,
	}
}

func (s *blsSigner) Sign(msg *warp.UnsignedMessage) ([]byte, error) {
	if msg.SourceChainID != s.chainID {
		return nil, fmt.Errorf("%w: %s", ErrWrongSourceChainID, msg.SourceChainID)
	}
	if msg.NetworkID != s.networkID {
		return nil, fmt.Errorf("%w: %d", ErrWrongNetworkID, msg.NetworkID)
	}

	sig, err := s.sk.Sign(msg.Payload)
	if err != nil {
		return nil, err
	}
	return bls.SignatureToBytes(sig), nil
}

// KeyVerifier accepts messages signed by the key registered for their source
// chain.
type KeyVerifier struct {
	lock sync.RWMutex
	keys map[ids.ID]*bls.PublicKey
}

func NewKeyVerifier() *KeyVerifier {
	return &KeyVerifier{
		keys: make(map[ids.ID]*bls.PublicKey),
	}
}

// Register trusts [pk] for messages of [chainID].
func (v *KeyVerifier) Register(chainID ids.ID, pk *bls.PublicKey) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.keys[chainID] = pk
}

// RegisterBytes trusts the compressed public key [pkBytes] for messages of
// [chainID].
func (v *KeyVerifier) RegisterBytes(chainID ids.ID, pkBytes []byte) error {
	pk, err := bls.PublicKeyFromCompressedBytes(pkBytes)
	if err != nil {
		return fmt.Errorf("couldn't parse key of chain %s: %w", chainID, err)
	}
	v.Register(chainID, pk)
	return nil
}

func (v *KeyVerifier) Verify(_ context.Context, msg *warp.UnsignedMessage, sigBytes []byte) error {
	v.lock.RLock()
	pk, ok := v.keys[msg.SourceChainID]
	v.lock.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSigner, msg.SourceChainID)
	}

	sig, err := bls.SignatureFromBytes(sigBytes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !bls.Verify(pk, sig, msg.Payload) {
		return ErrInvalidSignature
	}
	return nil
}
