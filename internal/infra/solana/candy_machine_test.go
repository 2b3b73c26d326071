package solana

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdom "scratchmint/internal/domain/candymachine"
)

func encodeCandyMachine(t *testing.T, acc candyMachineAccount) []byte {
	t.Helper()
	body, err := borsh.Serialize(acc)
	require.NoError(t, err)
	return append(append([]byte(nil), candyMachineAccountDiscriminator...), body...)
}

func testMachineAccount(goLive *int64) candyMachineAccount {
	return candyMachineAccount{
		Authority: types.NewAccount().PublicKey,
		Wallet:    types.NewAccount().PublicKey,
		Config:    types.NewAccount().PublicKey,
		Data: candyMachineData{
			UUID:           "aBcDeF",
			Price:          500_000_000,
			ItemsAvailable: 777,
			GoLiveDate:     goLive,
		},
		ItemsRedeemed: 700,
		Bump:          254,
	}
}

func TestAnchorDiscriminators(t *testing.T) {
	assert.Len(t, candyMachineAccountDiscriminator, 8)
	assert.Len(t, mintNFTDiscriminator, 8)
	assert.NotEqual(t, candyMachineAccountDiscriminator, mintNFTDiscriminator)
}

func TestDecodeCandyMachine(t *testing.T) {
	goLive := int64(1632615120)
	want := testMachineAccount(&goLive)

	got, err := decodeCandyMachine(encodeCandyMachine(t, want))
	require.NoError(t, err)
	assert.Equal(t, want.Authority, got.Authority)
	assert.Equal(t, want.Wallet, got.Wallet)
	assert.Nil(t, got.TokenMint)
	assert.Equal(t, uint64(777), got.Data.ItemsAvailable)
	assert.Equal(t, uint64(700), got.ItemsRedeemed)
	require.NotNil(t, got.Data.GoLiveDate)
	assert.Equal(t, goLive, *got.Data.GoLiveDate)

	_, err = decodeCandyMachine([]byte{1, 2, 3})
	assert.ErrorIs(t, err, cmdom.ErrInvalidAccountData)

	bad := encodeCandyMachine(t, want)
	bad[0] ^= 0xff
	_, err = decodeCandyMachine(bad)
	assert.ErrorIs(t, err, cmdom.ErrInvalidAccountData)
}

func TestCandyMachineClient_GetState(t *testing.T) {
	ctx := context.Background()
	id := types.NewAccount().PublicKey.ToBase58()

	t.Run("decodes counters and go-live date", func(t *testing.T) {
		r := newFakeRPC()
		c := NewCandyMachineClient(r, "", false, "")
		goLive := int64(1632615120)
		acc := testMachineAccount(&goLive)
		r.accounts[id] = client.AccountInfo{Owner: c.ProgramID, Data: encodeCandyMachine(t, acc)}

		st, err := c.GetState(ctx, "payer", id)
		require.NoError(t, err)
		assert.Equal(t, int64(777), st.ItemsAvailable)
		assert.Equal(t, int64(700), st.ItemsRedeemed)
		assert.Equal(t, int64(77), st.ItemsRemaining)
		assert.Equal(t, uint64(500_000_000), st.Price)
		assert.True(t, st.GoLiveDate.Equal(time.Unix(goLive, 0)))
		assert.Equal(t, id, st.Machine.ID)
		assert.Equal(t, acc.Wallet.ToBase58(), st.Machine.Treasury)
		assert.Equal(t, acc.Config.ToBase58(), st.Machine.Config)
		assert.Empty(t, st.Machine.TokenMint)
	})

	t.Run("no go-live date stays zero", func(t *testing.T) {
		r := newFakeRPC()
		c := NewCandyMachineClient(r, "", false, "")
		r.accounts[id] = client.AccountInfo{Owner: c.ProgramID, Data: encodeCandyMachine(t, testMachineAccount(nil))}

		st, err := c.GetState(ctx, "", id)
		require.NoError(t, err)
		assert.True(t, st.GoLiveDate.IsZero())
	})

	t.Run("token mint is surfaced", func(t *testing.T) {
		r := newFakeRPC()
		c := NewCandyMachineClient(r, "", false, "")
		acc := testMachineAccount(nil)
		tm := types.NewAccount().PublicKey
		acc.TokenMint = &tm
		r.accounts[id] = client.AccountInfo{Owner: c.ProgramID, Data: encodeCandyMachine(t, acc)}

		st, err := c.GetState(ctx, "", id)
		require.NoError(t, err)
		assert.Equal(t, tm.ToBase58(), st.Machine.TokenMint)
	})

	t.Run("missing account", func(t *testing.T) {
		c := NewCandyMachineClient(newFakeRPC(), "", false, "")
		_, err := c.GetState(ctx, "", id)
		assert.ErrorIs(t, err, cmdom.ErrNotFound)
	})

	t.Run("wrong owner", func(t *testing.T) {
		r := newFakeRPC()
		c := NewCandyMachineClient(r, "", false, "")
		r.accounts[id] = client.AccountInfo{Owner: common.SystemProgramID, Data: encodeCandyMachine(t, testMachineAccount(nil))}
		_, err := c.GetState(ctx, "", id)
		assert.ErrorIs(t, err, cmdom.ErrInvalidAccountData)
	})

	t.Run("empty id", func(t *testing.T) {
		c := NewCandyMachineClient(newFakeRPC(), "", false, "")
		_, err := c.GetState(ctx, "", "  ")
		assert.ErrorIs(t, err, cmdom.ErrInvalidCandyMachine)
	})

	t.Run("rpc error is wrapped", func(t *testing.T) {
		r := newFakeRPC()
		r.err = errors.New("connection refused")
		c := NewCandyMachineClient(r, "", false, "")
		_, err := c.GetState(ctx, "", id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("nil client", func(t *testing.T) {
		var c *CandyMachineClient
		_, err := c.GetState(ctx, "", id)
		assert.ErrorIs(t, err, ErrCandyMachineNotConfigured)
	})
}

func TestCandyMachineClient_GetBalance(t *testing.T) {
	r := newFakeRPC()
	addr := types.NewAccount().PublicKey.ToBase58()
	r.balances[addr] = 2 * cmdom.LamportsPerSOL
	c := NewCandyMachineClient(r, "", false, "")

	got, err := c.GetBalance(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2*cmdom.LamportsPerSOL), got)

	_, err = c.GetBalance(context.Background(), "")
	assert.Error(t, err)
}

func TestMaskShort(t *testing.T) {
	assert.Equal(t, "", maskShort("  "))
	assert.Equal(t, "short", maskShort("short"))
	assert.Equal(t, "cndy***GWXZ", maskShort("cndyAnrLdpjq1Ssp1z8xxDsB8dxe7u4HL5Nxi2K5GWXZ"))
}
