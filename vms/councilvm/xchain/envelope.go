// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xchain

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/warp"
)

// EnvelopeVersion is the current version of the envelope format.
const EnvelopeVersion uint8 = 1

var (
	ErrInvalidEnvelopeVersion = errors.New("invalid envelope version")
	ErrMissingPayload         = errors.New("envelope missing payload")
)

// UnsignedEnvelope addresses a payload from one chain to another. Its
// encoding is the payload of the warp message that gets signed.
type UnsignedEnvelope struct {
	Version            uint8  `serialize:"true" json:"version"`
	NetworkID          uint32 `serialize:"true" json:"networkID"`
	SourceChainID      ids.ID `serialize:"true" json:"sourceChainID"`
	DestinationChainID ids.ID `serialize:"true" json:"destinationChainID"`
	// Nonce is unique per source chain.
	Nonce   uint64 `serialize:"true" json:"nonce"`
	Payload []byte `serialize:"true" json:"payload"`
}

// Envelope is a signed [UnsignedEnvelope] as it travels on the transport.
type Envelope struct {
	UnsignedEnvelope `serialize:"true"`

	Signature []byte `serialize:"true" json:"signature"`
}

func (e *UnsignedEnvelope) Verify() error {
	switch {
	case e.Version != EnvelopeVersion:
		return fmt.Errorf("%w: %d", ErrInvalidEnvelopeVersion, e.Version)
	case len(e.Payload) == 0:
		return ErrMissingPayload
	default:
		return nil
	}
}

// Bytes is the signed encoding of the envelope.
func (e *UnsignedEnvelope) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, e)
}

// ToWarpMessage returns the unit a [warp.Signer] signs for this envelope.
func (e *UnsignedEnvelope) ToWarpMessage() (*warp.UnsignedMessage, error) {
	if err := e.Verify(); err != nil {
		return nil, err
	}
	bytes, err := e.Bytes()
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal envelope: %w", err)
	}
	return warp.NewUnsignedMessage(e.NetworkID, e.SourceChainID, bytes)
}

func (e *Envelope) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, e)
}

// ParseEnvelope decodes a signed envelope. The signature is not checked.
func ParseEnvelope(bytes []byte) (*Envelope, error) {
	e := &Envelope{}
	version, err := Codec.Unmarshal(bytes, e)
	if err != nil {
		return nil, err
	}
	if version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, version)
	}
	return e, nil
}
