// internal/adapters/out/memory/mint_attempt_repository_mem.go
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	madom "scratchmint/internal/domain/mintattempt"
)

// MintAttemptRepositoryMem keeps attempts in process memory (ATTEMPT_STORE=memory).
// Only the newest Capacity attempts are kept.
type MintAttemptRepositoryMem struct {
	Capacity int

	mu       sync.Mutex
	attempts []madom.Attempt
}

var _ madom.Repository = (*MintAttemptRepositoryMem)(nil)

func NewMintAttemptRepositoryMem(capacity int) *MintAttemptRepositoryMem {
	if capacity <= 0 {
		capacity = madom.MaxListLimit
	}
	return &MintAttemptRepositoryMem{Capacity: capacity}
}

func (r *MintAttemptRepositoryMem) Create(ctx context.Context, a madom.Attempt) (madom.Attempt, error) {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if err := a.Validate(); err != nil {
		return madom.Attempt{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	if over := len(r.attempts) - r.Capacity; over > 0 {
		r.attempts = append([]madom.Attempt(nil), r.attempts[over:]...)
	}
	return a, nil
}

func (r *MintAttemptRepositoryMem) ListRecent(ctx context.Context, limit int) ([]madom.Attempt, error) {
	limit = madom.NormalizeLimit(limit)

	r.mu.Lock()
	out := append([]madom.Attempt(nil), r.attempts...)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
