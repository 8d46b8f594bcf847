// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package election holds the per-epoch election record, its schedule and its
// settings.
package election

import (
	"bytes"
	"slices"

	"github.com/luxfi/ids"
)

// Election is the aggregate record of one epoch's election. Ballots and vote
// totals live in their own key spaces, the record only tracks how many ballots
// are registered and how far the tally got.
type Election struct {
	ID uint64 `serialize:"true"`
	// Nominees is kept sorted by address.
	Nominees            []ids.ShortID `serialize:"true"`
	NumBallots          uint64        `serialize:"true"`
	NumEvaluatedBallots uint64        `serialize:"true"`
	Evaluated           bool          `serialize:"true"`
	Winners             []ids.ShortID `serialize:"true"`
}

func New(id uint64) *Election {
	return &Election{ID: id}
}

func compareAddresses(a, b ids.ShortID) int {
	return bytes.Compare(a[:], b[:])
}

// IsNominated reports whether [candidate] is currently nominated.
func (e *Election) IsNominated(candidate ids.ShortID) bool {
	_, found := slices.BinarySearchFunc(e.Nominees, candidate, compareAddresses)
	return found
}

// AddNominee returns false if [candidate] was already nominated.
func (e *Election) AddNominee(candidate ids.ShortID) bool {
	i, found := slices.BinarySearchFunc(e.Nominees, candidate, compareAddresses)
	if found {
		return false
	}
	e.Nominees = slices.Insert(e.Nominees, i, candidate)
	return true
}

// RemoveNominee returns false if [candidate] was not nominated.
func (e *Election) RemoveNominee(candidate ids.ShortID) bool {
	i, found := slices.BinarySearchFunc(e.Nominees, candidate, compareAddresses)
	if !found {
		return false
	}
	e.Nominees = slices.Delete(e.Nominees, i, i+1)
	return true
}

// RemainingBallots is the number of registered ballots not yet tallied.
func (e *Election) RemainingBallots() uint64 {
	return e.NumBallots - e.NumEvaluatedBallots
}
