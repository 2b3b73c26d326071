package di

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scratchmint/internal/adapters/out/mail"
	"scratchmint/internal/adapters/out/memory"
	"scratchmint/internal/infra/config"
	"scratchmint/internal/infra/solana"
)

func testConfig() *config.Config {
	return &config.Config{
		CandyMachineID: types.NewAccount().PublicKey.ToBase58(),
		AttemptStore:   config.AttemptStoreMemory,
		AllowedOrigin:  "*",
	}
}

func serve(h http.Handler, method, path, token string) int {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestBuild_Defaults(t *testing.T) {
	c, err := Build(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.NotNil(t, c.Controller)
	assert.Nil(t, c.Keys)
	assert.Nil(t, c.Assets)
	assert.IsType(t, &memory.MintAttemptRepositoryMem{}, c.Attempts)
	assert.IsType(t, mail.NopNotifier{}, c.Notifier)

	assert.Equal(t, http.StatusOK, serve(c.Router, http.MethodGet, "/healthz", ""))

	require.NotNil(t, c.Auth)
	assert.False(t, c.Auth.Enabled())
	assert.Equal(t, http.StatusServiceUnavailable, serve(c.Router, http.MethodPost, "/api/mint", "anything"))
}

func TestBuild_OperatorToken(t *testing.T) {
	cfg := testConfig()
	cfg.OperatorAPIToken = "op-secret"
	cfg.AuthAllowedUIDs = []string{"u1"}

	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })

	assert.True(t, c.Auth.Enabled())
	assert.Equal(t, map[string]bool{"u1": true}, c.Auth.AllowedUIDs)
	assert.Equal(t, http.StatusUnauthorized, serve(c.Router, http.MethodPost, "/api/mint", ""))
	// 認証は通る。activation 未同期なので 423
	assert.Equal(t, http.StatusLocked, serve(c.Router, http.MethodPost, "/api/mint", "op-secret"))
}

func TestBuild_KeySource(t *testing.T) {
	cfg := testConfig()
	cfg.PayerKeypairFile = filepath.Join(t.TempDir(), "payer.json")
	cfg.PayerKeySecret = "projects/p/secrets/s/versions/latest"

	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, solana.KeypairFile{Path: cfg.PayerKeypairFile}, c.Keys)

	cfg.PayerKeypairFile = ""
	assert.Equal(t, solana.SecretManagerKeySource{VersionName: cfg.PayerKeySecret}, keySource(cfg))
}

func TestBuild_NoAttemptStore(t *testing.T) {
	cfg := testConfig()
	cfg.AttemptStore = config.AttemptStoreNone

	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, c.Attempts)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(context.Background(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.CandyMachineID = ""
	_, err = Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestContainer_CloseOrder(t *testing.T) {
	var order []int
	c := &Container{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("second failed") },
	}}

	err := c.Close()
	assert.EqualError(t, err, "second failed")
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, c.Close(), "closing twice is a no-op")
}

func TestExplorerTxURL(t *testing.T) {
	assert.Equal(t, "https://explorer.solana.com/tx/%s?cluster=devnet", explorerTxURL(""))
	assert.Equal(t, "https://explorer.solana.com/tx/%s?cluster=devnet", explorerTxURL("https://api.devnet.solana.com"))
	assert.Equal(t, "https://explorer.solana.com/tx/%s?cluster=testnet", explorerTxURL("https://api.testnet.solana.com"))
	assert.Equal(t, "https://explorer.solana.com/tx/%s", explorerTxURL("https://api.mainnet-beta.solana.com"))
}
