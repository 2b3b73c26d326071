// internal/adapters/out/db/mint_attempt_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	dbcommon "scratchmint/internal/adapters/out/db/common"
	madom "scratchmint/internal/domain/mintattempt"
)

var ErrMintAttemptConflict = errors.New("mintattempt: conflict")

// SchemaMintAttempts creates the mint_attempts table.
const SchemaMintAttempts = `
CREATE TABLE IF NOT EXISTS mint_attempts (
  id            UUID PRIMARY KEY,
  wallet        TEXT NOT NULL,
  candy_machine TEXT NOT NULL,
  signature     TEXT,
  outcome       TEXT NOT NULL CHECK (outcome IN ('success', 'failure')),
  message       TEXT NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS mint_attempts_created_at_idx ON mint_attempts (created_at DESC);
`

type MintAttemptRepositoryPG struct {
	DB *sql.DB
}

var _ madom.Repository = (*MintAttemptRepositoryPG)(nil)

func NewMintAttemptRepositoryPG(db *sql.DB) *MintAttemptRepositoryPG {
	return &MintAttemptRepositoryPG{DB: db}
}

// EnsureSchema applies SchemaMintAttempts (table and index) in one transaction.
func (r *MintAttemptRepositoryPG) EnsureSchema(ctx context.Context) error {
	err := dbcommon.WithTx(ctx, r.DB, func(ctx context.Context) error {
		_, err := dbcommon.GetRunner(ctx, r.DB).ExecContext(ctx, SchemaMintAttempts)
		return err
	})
	if err != nil {
		return fmt.Errorf("mint_attempts: ensure schema: %w", err)
	}
	return nil
}

// =====================================================
// mintattempt.Repository 準拠メソッド
// =====================================================

// Create inserts a. ID と createdAt は空なら埋める。
func (r *MintAttemptRepositoryPG) Create(ctx context.Context, a madom.Attempt) (madom.Attempt, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	a = withDefaults(a, time.Now())
	if err := a.Validate(); err != nil {
		return madom.Attempt{}, err
	}

	const q = `
INSERT INTO mint_attempts (
  id, wallet, candy_machine, signature, outcome, message, created_at
) VALUES (
  $1, $2, $3, $4, $5, $6, $7
)
RETURNING
  id, wallet, candy_machine, signature, outcome, message, created_at
`
	row := run.QueryRowContext(ctx, q,
		a.ID,
		a.Wallet,
		a.CandyMachine,
		dbcommon.ToNullString(a.Signature),
		string(a.Outcome),
		a.Message,
		a.CreatedAt,
	)

	out, err := scanMintAttempt(row)
	if err != nil {
		if dbcommon.IsUniqueViolation(err) {
			return madom.Attempt{}, ErrMintAttemptConflict
		}
		return madom.Attempt{}, err
	}
	return out, nil
}

// ListRecent returns the newest attempts first.
func (r *MintAttemptRepositoryPG) ListRecent(ctx context.Context, limit int) ([]madom.Attempt, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
SELECT
  id, wallet, candy_machine, signature, outcome, message, created_at
FROM mint_attempts
ORDER BY created_at DESC, id DESC
LIMIT $1`
	rows, err := run.QueryContext(ctx, q, madom.NormalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []madom.Attempt
	for rows.Next() {
		a, err := scanMintAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// =====================================================
// helpers
// =====================================================

func withDefaults(a madom.Attempt, now time.Time) madom.Attempt {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a
}

func scanMintAttempt(s dbcommon.RowScanner) (madom.Attempt, error) {
	var (
		a         madom.Attempt
		signature sql.NullString
		outcome   string
	)
	if err := s.Scan(&a.ID, &a.Wallet, &a.CandyMachine, &signature, &outcome, &a.Message, &a.CreatedAt); err != nil {
		return madom.Attempt{}, err
	}
	a.Signature = dbcommon.FromNullString(signature)
	a.Outcome = madom.Outcome(outcome)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
