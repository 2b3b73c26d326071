// internal/application/mint/errmap.go
package mint

import (
	cmdom "scratchmint/internal/domain/candymachine"
)

// Alert texts shown by the mint action.
const (
	MsgMintSucceeded     = "Congratulations! Mint succeeded!"
	MsgMintFailed        = "Mint failed! Please try again!"
	MsgMintingFailed     = "Minting failed! Please try again!"
	MsgSoldOut           = "SOLD OUT!"
	MsgNotLiveYet        = "Minting period hasn't started yet."
	MsgInsufficientFunds = "Insufficient funds to mint. Please fund your wallet."
)

// programErrorMessages maps known candy machine error codes to alert text.
// Codes reached through the structured error and through the
// "custom program error: 0x…" text both go through this table.
var programErrorMessages = map[int]string{
	cmdom.CodeNotEnoughSOL:           MsgInsufficientFunds,
	cmdom.CodeCandyMachineEmpty:      MsgSoldOut,
	cmdom.CodeCandyMachineNotLiveYet: MsgNotLiveYet,
}

// classification is the user-facing result of a failed mint.
type classification struct {
	Message string
	Code    int
	SoldOut bool
}

// classifyError maps an error raised while submitting or awaiting a mint.
// Order: known program code → program Msg → fallback.
func classifyError(err error, fallback string) classification {
	pe, ok := cmdom.AsProgramError(err)
	if !ok {
		// transient RPC failures and confirmation timeouts land here
		return classification{Message: fallback}
	}

	out := classification{Code: pe.Code, SoldOut: pe.Code == cmdom.CodeCandyMachineEmpty}
	if msg, known := programErrorMessages[pe.Code]; known {
		out.Message = msg
		return out
	}
	if pe.Msg != "" {
		out.Message = pe.Msg
		return out
	}
	out.Message = fallback
	return out
}

// ClassifyMintError returns the alert text for an error thrown by the mint action.
func ClassifyMintError(err error) string {
	return classifyError(err, MsgMintingFailed).Message
}
