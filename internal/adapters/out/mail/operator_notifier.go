// internal/adapters/out/mail/operator_notifier.go
package mail

import (
	"context"
	"fmt"
	"log"
	"strings"

	"scratchmint/internal/application/mint"
	cmdom "scratchmint/internal/domain/candymachine"
)

// EmailClient は実際のメール送信クライアント（SendGrid など）を抽象化した下位レベルのインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OperatorNotifier mails the site operator on mint success and sell-out.
type OperatorNotifier struct {
	client      EmailClient
	fromAddress string
	toAddress   string
	explorerURL string // 例: "https://explorer.solana.com/tx/%s?cluster=devnet"
}

var _ mint.Notifier = (*OperatorNotifier)(nil)

func NewOperatorNotifier(client EmailClient, fromAddress, toAddress, explorerURL string) *OperatorNotifier {
	return &OperatorNotifier{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		toAddress:   strings.TrimSpace(toAddress),
		explorerURL: strings.TrimSpace(explorerURL),
	}
}

// NewOperatorNotifierWithSendGrid は SendGrid を使った Notifier を生成します。
// apiKey か operator が空なら NopNotifier を返します。
func NewOperatorNotifierWithSendGrid(apiKey, from, operator, explorerURL string) mint.Notifier {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(operator) == "" {
		log.Printf("[mail] INFO: SENDGRID_API_KEY / OPERATOR_EMAIL not set. operator notifications disabled")
		return NopNotifier{}
	}
	n := NewOperatorNotifier(NewSendGridClient(apiKey), from, operator, explorerURL)
	log.Printf("[mail] OperatorNotifier initialized. from=%s to=%s", n.fromAddress, n.toAddress)
	return n
}

func (n *OperatorNotifier) txURL(signature string) string {
	if n.explorerURL == "" {
		return signature
	}
	if strings.Contains(n.explorerURL, "%s") {
		return fmt.Sprintf(n.explorerURL, signature)
	}
	return strings.TrimRight(n.explorerURL, "/") + "/" + signature
}

func (n *OperatorNotifier) NotifyMinted(ctx context.Context, walletAddress, signature string, itemsRemaining int64) error {
	subject := fmt.Sprintf("[ScratchMint] mint succeeded (%d remaining)", itemsRemaining)
	body := fmt.Sprintf(`A mint transaction was confirmed.

wallet    : %s
signature : %s
remaining : %d
`, cmdom.FormatAddress(walletAddress), n.txURL(signature), itemsRemaining)
	return n.client.Send(ctx, n.fromAddress, n.toAddress, subject, body)
}

func (n *OperatorNotifier) NotifySoldOut(ctx context.Context, candyMachineID string, itemsAvailable int64) error {
	subject := "[ScratchMint] candy machine sold out"
	body := fmt.Sprintf(`All %d items have been redeemed.

candy machine : %s
`, itemsAvailable, candyMachineID)
	return n.client.Send(ctx, n.fromAddress, n.toAddress, subject, body)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

var _ mint.Notifier = NopNotifier{}

func (NopNotifier) NotifyMinted(context.Context, string, string, int64) error { return nil }
func (NopNotifier) NotifySoldOut(context.Context, string, int64) error        { return nil }
