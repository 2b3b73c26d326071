// internal/domain/wallet/entity.go
package wallet

import (
	"context"
	"crypto/ed25519"
	"errors"
	"regexp"
	"strings"
)

// Domain errors
var (
	ErrInvalidWalletAddress = errors.New("wallet: invalid walletAddress")
	ErrInvalidSigner        = errors.New("wallet: invalid signer")
	ErrSignerMismatch       = errors.New("wallet: signer does not match address")
	ErrNotConnected         = errors.New("wallet: not connected")
)

// Solana-like base58 address format (approximation).
var base58Re = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// IsValidAddress reports whether s looks like a base58 Solana address.
func IsValidAddress(s string) bool {
	return base58Re.MatchString(strings.TrimSpace(s))
}

// Wallet は支払いウォレット（payer）を表します。
// Address は base58 の公開鍵、Signer は solana-keygen 形式の 64 バイト秘密鍵です。
type Wallet struct {
	Address string
	Signer  ed25519.PrivateKey
}

// New validates the address and signer and returns a Wallet.
// The signer's public half must equal the address bytes; callers pass
// pubKeyBytes decoded from Address so this package stays free of base58.
func New(address string, signer ed25519.PrivateKey, pubKeyBytes []byte) (Wallet, error) {
	addr := strings.TrimSpace(address)
	if !IsValidAddress(addr) {
		return Wallet{}, ErrInvalidWalletAddress
	}
	if len(signer) != ed25519.PrivateKeySize {
		return Wallet{}, ErrInvalidSigner
	}
	pub, ok := signer.Public().(ed25519.PublicKey)
	if !ok || !pub.Equal(ed25519.PublicKey(pubKeyBytes)) {
		return Wallet{}, ErrSignerMismatch
	}
	return Wallet{Address: addr, Signer: signer}, nil
}

// KeySource loads the payer wallet from wherever the keypair is kept
// (keypair file, Secret Manager, ...).
type KeySource interface {
	Load(ctx context.Context) (Wallet, error)
}
