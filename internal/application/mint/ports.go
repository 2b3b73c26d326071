// internal/application/mint/ports.go
package mint

import (
	"context"

	"scratchmint/internal/domain/wallet"
)

// ============================================================
// Wallet session port
// ============================================================

// WalletSession は接続中の payer ウォレットを返すポートです。
// wallet.Session がこのインターフェースを満たします。
type WalletSession interface {
	Current() (wallet.Wallet, bool)
}

// WalletConnector is the part of the session the controller needs to
// connect and disconnect wallets.
type WalletConnector interface {
	WalletSession
	Connect(w wallet.Wallet) error
	Disconnect()
}

// ============================================================
// Operator notification port
// ============================================================

// Notifier tells the site operator about mint milestones. Errors are logged
// by the caller and never reach the page.
type Notifier interface {
	NotifyMinted(ctx context.Context, walletAddress, signature string, itemsRemaining int64) error
	NotifySoldOut(ctx context.Context, candyMachineID string, itemsAvailable int64) error
}
