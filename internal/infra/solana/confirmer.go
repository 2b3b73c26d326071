// internal/infra/solana/confirmer.go
package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/rpc"

	cmdom "scratchmint/internal/domain/candymachine"
)

const defaultPollInterval = 2 * time.Second

// SignatureConfirmer polls getSignatureStatuses until a signature reaches
// the wanted commitment.
type SignatureConfirmer struct {
	RPC          RPC
	PollInterval time.Duration
}

var _ cmdom.Confirmer = (*SignatureConfirmer)(nil)

func NewSignatureConfirmer(r RPC, pollInterval time.Duration) *SignatureConfirmer {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &SignatureConfirmer{RPC: r, PollInterval: pollInterval}
}

// AwaitConfirmation returns when the signature is confirmed, when it landed
// with an error (status.Err set, nil error), when timeout elapses
// (cmdom.ErrConfirmationTimeout) or when ctx is done (ctx error).
// RPC errors while polling are logged and retried until the deadline.
func (c *SignatureConfirmer) AwaitConfirmation(ctx context.Context, signature string, timeout time.Duration, commitment cmdom.Commitment) (cmdom.ConfirmationStatus, error) {
	if c == nil || c.RPC == nil {
		return cmdom.ConfirmationStatus{}, ErrCandyMachineNotConfigured
	}
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return cmdom.ConfirmationStatus{}, fmt.Errorf("confirmer: signature is empty")
	}
	if commitment == "" {
		commitment = cmdom.CommitmentConfirmed
	}
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := c.RPC.GetSignatureStatus(waitCtx, sig)
		switch {
		case err != nil:
			if waitCtx.Err() == nil {
				log.Printf("[confirmer] WARN: getSignatureStatus tx=%s: %v", maskShort(sig), err)
			}
		case st != nil:
			got := statusCommitment(st)
			if st.Err != nil {
				return cmdom.ConfirmationStatus{Slot: st.Slot, Commitment: got, Err: decodeTransactionError(st.Err)}, nil
			}
			if got.Satisfies(commitment) {
				return cmdom.ConfirmationStatus{Slot: st.Slot, Commitment: got}, nil
			}
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return cmdom.ConfirmationStatus{}, ctx.Err()
			}
			log.Printf("[confirmer] timed out after %s tx=%s", timeout, maskShort(sig))
			return cmdom.ConfirmationStatus{}, cmdom.ErrConfirmationTimeout
		case <-ticker.C:
		}
	}
}

// statusCommitment reads the commitment reached by a status. Older nodes
// omit confirmationStatus; a nil confirmations count then means rooted.
func statusCommitment(st *rpc.SignatureStatus) cmdom.Commitment {
	if st.ConfirmationStatus != nil {
		return cmdom.Commitment(*st.ConfirmationStatus)
	}
	if st.Confirmations == nil {
		return cmdom.CommitmentFinalized
	}
	if *st.Confirmations > 0 {
		return cmdom.CommitmentConfirmed
	}
	return cmdom.CommitmentProcessed
}

// TransactionError is a failed transaction status that is not a custom program error.
type TransactionError struct {
	Raw string
}

func (e *TransactionError) Error() string {
	return "transaction failed: " + e.Raw
}

// decodeTransactionError turns the status err value into a Go error.
// {"InstructionError":[4,{"Custom":311}]} becomes *candymachine.ProgramError.
func decodeTransactionError(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &TransactionError{Raw: fmt.Sprint(v)}
	}

	var ie struct {
		InstructionError []json.RawMessage `json:"InstructionError"`
	}
	if err := json.Unmarshal(raw, &ie); err == nil && len(ie.InstructionError) == 2 {
		var custom struct {
			Custom *int `json:"Custom"`
		}
		if err := json.Unmarshal(ie.InstructionError[1], &custom); err == nil && custom.Custom != nil {
			return &cmdom.ProgramError{Code: *custom.Custom}
		}
	}
	return &TransactionError{Raw: string(raw)}
}
