// internal/infra/solana/rpc_client.go
package solana

import (
	"context"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

// Solana Devnet RPC endpoint (default)
const DevnetEndpoint = rpc.DevnetRPCEndpoint

// RPC is the subset of the blocto client the candy machine adapter uses.
// *client.Client satisfies it; tests plug in a fake.
type RPC interface {
	GetBalance(ctx context.Context, base58Addr string) (uint64, error)
	GetAccountInfo(ctx context.Context, base58Addr string) (client.AccountInfo, error)
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	SendTransactionWithConfig(ctx context.Context, tx types.Transaction, cfg client.SendTransactionConfig) (string, error)
	GetSignatureStatus(ctx context.Context, signature string) (*rpc.SignatureStatus, error)
}

var _ RPC = (*client.Client)(nil)

// NewRPCClient creates a blocto client for endpoint.
// An empty endpoint falls back to devnet.
func NewRPCClient(endpoint string) *client.Client {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = DevnetEndpoint
	}
	return client.NewClient(ep)
}

// maskShort shortens ids/addresses for logs.
func maskShort(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
