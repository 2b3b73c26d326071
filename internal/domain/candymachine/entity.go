// internal/domain/candymachine/entity.go
package candymachine

import (
	"errors"
	"time"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

var (
	ErrNotFound            = errors.New("candymachine: account not found")
	ErrInvalidAccountData  = errors.New("candymachine: invalid account data")
	ErrInvalidCandyMachine = errors.New("candymachine: invalid candyMachineId")
	ErrConfirmationTimeout = errors.New("candymachine: confirmation timed out")
)

// ------------------------------------------------------
// Handle: getState が返す「プログラムハンドル」
// ------------------------------------------------------
//
// mint 時にそのまま渡される。アドレスはすべて base58。
type Handle struct {
	ID        string `json:"id"`
	Authority string `json:"authority"`
	Treasury  string `json:"treasury"` // candy machine の wallet（代金の受取先）
	Config    string `json:"config"`
	TokenMint string `json:"tokenMint,omitempty"` // SPL トークン払いの場合のみ
}

// State is the mint state read from the candy machine account.
type State struct {
	ItemsAvailable int64     `json:"itemsAvailable"`
	ItemsRedeemed  int64     `json:"itemsRedeemed"`
	ItemsRemaining int64     `json:"itemsRemaining"`
	GoLiveDate     time.Time `json:"goLiveDate"`
	Price          uint64    `json:"price"` // lamports
	Machine        Handle    `json:"machine"`
}

// NewState derives ItemsRemaining from the two on-chain counters.
// Remaining never goes below zero.
func NewState(available, redeemed int64, goLive time.Time, price uint64, h Handle) State {
	remaining := available - redeemed
	if remaining < 0 {
		remaining = 0
	}
	return State{
		ItemsAvailable: available,
		ItemsRedeemed:  redeemed,
		ItemsRemaining: remaining,
		GoLiveDate:     goLive,
		Price:          price,
		Machine:        h,
	}
}

func (s State) SoldOut() bool {
	return s.ItemsRemaining == 0
}

// ToSOL converts lamports to SOL.
func ToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}
