// internal/domain/candymachine/ports.go
package candymachine

import (
	"context"
	"time"

	"scratchmint/internal/domain/wallet"
)

// StateReader reads the candy machine account.
type StateReader interface {
	GetState(ctx context.Context, payer string, candyMachineID string) (State, error)
}

// Minter builds, signs and submits one mint transaction and returns its signature.
type Minter interface {
	MintOne(ctx context.Context, h Handle, config string, payer wallet.Wallet, treasury string) (string, error)
}

// Commitment is the confirmation level awaited for a transaction.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// ConfirmationStatus is the outcome of waiting for a signature.
// Err is non-nil when the transaction landed but failed on chain.
type ConfirmationStatus struct {
	Slot       uint64     `json:"slot"`
	Commitment Commitment `json:"commitment"`
	Err        error      `json:"-"`
}

// Confirmer waits for a signature to reach a commitment level.
// It returns ErrConfirmationTimeout when timeout elapses first.
type Confirmer interface {
	AwaitConfirmation(ctx context.Context, signature string, timeout time.Duration, commitment Commitment) (ConfirmationStatus, error)
}

// BalanceReader returns an account balance in lamports.
type BalanceReader interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}
