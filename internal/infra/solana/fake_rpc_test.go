package solana

import (
	"context"
	"sync"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

// fakeRPC is an in-memory RPC used by the package tests.
type fakeRPC struct {
	mu sync.Mutex

	balances map[string]uint64
	accounts map[string]client.AccountInfo

	blockhash string
	rent      uint64

	sendSig string
	sendErr error
	sent    []types.Transaction
	sentCfg []client.SendTransactionConfig

	// statuses are returned in order; the last one repeats.
	statuses  []*rpc.SignatureStatus
	statusErr error
	polls     int

	err error
}

func newFakeRPC() *fakeRPC {
	return &fakeRPC{
		balances:  map[string]uint64{},
		accounts:  map[string]client.AccountInfo{},
		blockhash: "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		rent:      1461600,
		sendSig:   "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW",
	}
}

func (f *fakeRPC) GetBalance(ctx context.Context, addr string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.balances[addr], nil
}

func (f *fakeRPC) GetAccountInfo(ctx context.Context, addr string) (client.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return client.AccountInfo{}, f.err
	}
	return f.accounts[addr], nil
}

func (f *fakeRPC) GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return rpc.GetLatestBlockhashValue{}, f.err
	}
	return rpc.GetLatestBlockhashValue{Blockhash: f.blockhash}, nil
}

func (f *fakeRPC) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.rent, nil
}

func (f *fakeRPC) SendTransactionWithConfig(ctx context.Context, tx types.Transaction, cfg client.SendTransactionConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	f.sentCfg = append(f.sentCfg, cfg)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.sendSig, nil
}

func (f *fakeRPC) GetSignatureStatus(ctx context.Context, signature string) (*rpc.SignatureStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return nil, nil
	}
	st := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return st, nil
}

func (f *fakeRPC) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}
