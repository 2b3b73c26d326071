package candymachine

import "strings"

// ParseCommitment accepts the current commitment names and the deprecated
// web3 aliases ("singleGossip", "recent", "max", ...). Unknown values fall
// back to confirmed.
func ParseCommitment(s string) Commitment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processed", "recent":
		return CommitmentProcessed
	case "finalized", "max", "root":
		return CommitmentFinalized
	case "confirmed", "singlegossip", "single":
		return CommitmentConfirmed
	default:
		return CommitmentConfirmed
	}
}

// Rank orders commitments: processed < confirmed < finalized.
func (c Commitment) Rank() int {
	switch c {
	case CommitmentProcessed:
		return 1
	case CommitmentConfirmed:
		return 2
	case CommitmentFinalized:
		return 3
	}
	return 0
}

// Satisfies reports whether c is at least as strong as want.
func (c Commitment) Satisfies(want Commitment) bool {
	return c.Rank() > 0 && c.Rank() >= want.Rank()
}
