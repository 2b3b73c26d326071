package handlers

import (
	"context"
	"sync"

	mintapp "scratchmint/internal/application/mint"
	"scratchmint/internal/domain/wallet"
)

type fakeController struct {
	mu sync.Mutex

	view       mintapp.View
	mintErr    error
	refreshErr error
	connectErr error

	mints      int
	refreshes  int
	dismissed  int
	connected  wallet.KeySource
	disconnect int
}

func (f *fakeController) View() mintapp.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeController) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshErr
}

func (f *fakeController) RefreshBalance(ctx context.Context) error { return nil }

func (f *fakeController) Mint(ctx context.Context) (mintapp.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mints++
	return f.view, f.mintErr
}

func (f *fakeController) DismissAlert() mintapp.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed++
	f.view.Alert = f.view.Alert.Dismiss()
	return f.view
}

func (f *fakeController) ConnectWallet(ctx context.Context, src wallet.KeySource) (mintapp.View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = src
	if f.connectErr != nil {
		return mintapp.View{}, f.connectErr
	}
	f.view.Wallet = &mintapp.WalletView{Address: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", Short: "9xQe...VFin"}
	return f.view, nil
}

func (f *fakeController) DisconnectWallet() mintapp.View {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnect++
	f.view.Wallet = nil
	return f.view
}

type fakeKeySource struct{}

func (fakeKeySource) Load(ctx context.Context) (wallet.Wallet, error) { return wallet.Wallet{}, nil }
