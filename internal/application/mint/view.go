package mint

import (
	"time"

	"scratchmint/internal/domain/alert"
)

// Button labels.
const (
	LabelSoldOut       = "SOLD OUT"
	LabelRelease       = "RELEASE 1"
	LabelConnectWallet = "Connect Wallet"
)

// WalletView is the connected wallet as shown on the page.
type WalletView struct {
	Address string `json:"address"`
	Short   string `json:"short"`
}

// Button is the mint button. Busy means the spinner replaces the label.
type Button struct {
	Disabled bool   `json:"disabled"`
	Busy     bool   `json:"busy"`
	Label    string `json:"label,omitempty"`
}

// View is a snapshot of everything the page renders.
type View struct {
	Wallet         *WalletView `json:"wallet,omitempty"`
	Balance        float64     `json:"balance"`
	ItemsAvailable int64       `json:"itemsAvailable"`
	ItemsRedeemed  int64       `json:"itemsRedeemed"`
	ItemsRemaining int64       `json:"itemsRemaining"`
	IsActive       bool        `json:"isActive"`
	IsSoldOut      bool        `json:"isSoldOut"`
	IsMinting      bool        `json:"isMinting"`
	StartDate      time.Time   `json:"startDate"`
	Alert          alert.State `json:"alert"`
	Countdown      Countdown   `json:"countdown"`
	Button         Button      `json:"button"`
}

// buttonFor derives the mint button from the gating flags.
// Sold out wins over everything else.
func buttonFor(soldOut, active, minting, hasWallet bool) Button {
	b := Button{Disabled: soldOut || minting || !active}
	switch {
	case soldOut:
		b.Label = LabelSoldOut
	case !active:
		// countdown only
	case minting:
		b.Busy = true
	case hasWallet:
		b.Label = LabelRelease
	default:
		b.Label = LabelConnectWallet
	}
	return b
}
