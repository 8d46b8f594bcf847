// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"bytes"
	"slices"

	"github.com/luxfi/ids"
	"github.com/luxfi/math/set"

	"github.com/luxfi/council/vms/councilvm/xchain"
)

// Council is the singleton record of the module.
type Council struct {
	CurrentElectionID uint64        `serialize:"true"`
	Initialized       bool          `serialize:"true"`
	Members           []ids.ShortID `serialize:"true"`
	// Token is the governance token of the council. It is reported back by queries
	// and is never interpreted.
	Token           ids.ShortID            `serialize:"true"`
	TransportConfig xchain.TransportConfig `serialize:"true"`
}

// SetMembers replaces the member list, deduplicated and sorted.
func (c *Council) SetMembers(members []ids.ShortID) {
	c.Members = set.Of(members...).List()
	slices.SortFunc(c.Members, func(a, b ids.ShortID) int {
		return bytes.Compare(a[:], b[:])
	})
}

// RemoveMembers removes every address in [members] and returns how many
// were actually members.
func (c *Council) RemoveMembers(members []ids.ShortID) int {
	toRemove := set.Of(members...)
	before := len(c.Members)
	c.Members = slices.DeleteFunc(c.Members, toRemove.Contains)
	return before - len(c.Members)
}

// CountRemaining returns how many members would keep their seat if
// [members] were removed.
func (c *Council) CountRemaining(members []ids.ShortID) int {
	toRemove := set.Of(members...)
	remaining := 0
	for _, member := range c.Members {
		if !toRemove.Contains(member) {
			remaining++
		}
	}
	return remaining
}

// IsMember reports whether [addr] holds a seat.
func (c *Council) IsMember(addr ids.ShortID) bool {
	return slices.Contains(c.Members, addr)
}
