// internal/domain/mintattempt/entity.go
package mintattempt

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ------------------------------------------------------
// Entity: Attempt (mint_attempts 1 レコード)
// ------------------------------------------------------
//
// - id           : string (uuid)
// - wallet       : string  // payer の base58
// - candyMachine : string
// - signature    : string  // 送信前に失敗した場合は空
// - outcome      : "success" | "failure"
// - message      : string  // 画面に出したアラート文言
// - createdAt    : time.Time
type Attempt struct {
	ID           string    `json:"id"`
	Wallet       string    `json:"wallet"`
	CandyMachine string    `json:"candyMachine"`
	Signature    string    `json:"signature,omitempty"`
	Outcome      Outcome   `json:"outcome"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

var (
	ErrInvalidWallet       = errors.New("mintattempt: invalid wallet")
	ErrInvalidCandyMachine = errors.New("mintattempt: invalid candyMachine")
	ErrInvalidOutcome      = errors.New("mintattempt: invalid outcome")
	ErrInvalidCreatedAt    = errors.New("mintattempt: invalid createdAt")
)

func New(wallet, candyMachine, signature string, outcome Outcome, message string, now time.Time) (Attempt, error) {
	a := Attempt{
		ID:           uuid.NewString(),
		Wallet:       strings.TrimSpace(wallet),
		CandyMachine: strings.TrimSpace(candyMachine),
		Signature:    strings.TrimSpace(signature),
		Outcome:      outcome,
		Message:      message,
		CreatedAt:    now.UTC(),
	}
	if err := a.Validate(); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (a Attempt) Validate() error {
	if a.Wallet == "" {
		return ErrInvalidWallet
	}
	if a.CandyMachine == "" {
		return ErrInvalidCandyMachine
	}
	if a.Outcome != OutcomeSuccess && a.Outcome != OutcomeFailure {
		return ErrInvalidOutcome
	}
	if a.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}
