// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"bytes"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
)

const (
	electionIDLen = database.Uint64Size
	voterLen      = len(ids.ShortID{})

	// KeyLen is the length of a marshalled [Key]:
	// [electionID] + [voter] + [chainID]
	KeyLen = electionIDLen + voterLen + ids.IDLen
)

var errUnexpectedKeyLength = fmt.Errorf("expected ballot key length %d", KeyLen)

// Key uniquely identifies a ballot. A voter may hold one ballot per origin
// chain in every election.
type Key struct {
	ElectionID uint64      `serialize:"true"`
	Voter      ids.ShortID `serialize:"true"`
	ChainID    ids.ID      `serialize:"true"`
}

// Marshal returns the fixed-length big-endian encoding of the key. Keys of the
// same election sort by voter, then by chain.
func (k Key) Marshal() []byte {
	data := make([]byte, 0, KeyLen)
	data = append(data, database.PackUInt64(k.ElectionID)...)
	data = append(data, k.Voter[:]...)
	return append(data, k.ChainID[:]...)
}

func (k *Key) Unmarshal(data []byte) error {
	if len(data) != KeyLen {
		return errUnexpectedKeyLength
	}

	electionID, err := database.ParseUInt64(data[:electionIDLen])
	if err != nil {
		return err
	}
	k.ElectionID = electionID
	copy(k.Voter[:], data[electionIDLen:])
	copy(k.ChainID[:], data[electionIDLen+voterLen:])
	return nil
}

// Compare orders keys the same way their marshalled forms sort.
func (k Key) Compare(other Key) int {
	switch {
	case k.ElectionID < other.ElectionID:
		return -1
	case k.ElectionID > other.ElectionID:
		return 1
	}
	if c := bytes.Compare(k.Voter[:], other.Voter[:]); c != 0 {
		return c
	}
	return bytes.Compare(k.ChainID[:], other.ChainID[:])
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%s", k.ElectionID, k.Voter, k.ChainID)
}
