// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package election

// Period is one of the four phases of an epoch. It is never stored, it is
// always derived from a [Schedule] and the current time.
type Period uint8

const (
	Administration Period = iota
	Nomination
	Vote
	Evaluation
)

func (p Period) String() string {
	switch p {
	case Administration:
		return "administration"
	case Nomination:
		return "nomination"
	case Vote:
		return "vote"
	case Evaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// In reports whether p is one of the given periods.
func (p Period) In(periods ...Period) bool {
	for _, period := range periods {
		if p == period {
			return true
		}
	}
	return false
}
