package mintattempt

import "context"

// DefaultListLimit / MaxListLimit bound ListRecent.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Repository persists mint attempts. Implementations live in adapters/out.
type Repository interface {
	// Create saves a and returns it as stored. An empty ID is filled by the implementation.
	Create(ctx context.Context, a Attempt) (Attempt, error)
	// ListRecent returns the newest attempts first.
	ListRecent(ctx context.Context, limit int) ([]Attempt, error)
}

// NormalizeLimit clamps limit into [1, MaxListLimit], defaulting to DefaultListLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
