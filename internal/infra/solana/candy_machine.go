// internal/infra/solana/candy_machine.go
package solana

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/near/borsh-go"

	cmdom "scratchmint/internal/domain/candymachine"
)

// CandyMachineProgramID is the Metaplex candy machine v1 program.
const CandyMachineProgramID = "cndyAnrLdpjq1Ssp1z8xxDsB8dxe7u4HL5Nxi2K5WXZ"

var ErrCandyMachineNotConfigured = errors.New("candy_machine: not configured")

// anchorDiscriminator returns the 8-byte Anchor prefix for "namespace:name".
func anchorDiscriminator(preimage string) []byte {
	sum := sha256.Sum256([]byte(preimage))
	return sum[:8]
}

var (
	candyMachineAccountDiscriminator = anchorDiscriminator("account:CandyMachine")
	mintNFTDiscriminator             = anchorDiscriminator("global:mint_nft")
)

// candyMachineData / candyMachineAccount mirror the on-chain borsh layout.
// Pointer fields are Option<T>.
type candyMachineData struct {
	UUID           string
	Price          uint64
	ItemsAvailable uint64
	GoLiveDate     *int64
}

type candyMachineAccount struct {
	Authority     common.PublicKey
	Wallet        common.PublicKey
	TokenMint     *common.PublicKey
	Config        common.PublicKey
	Data          candyMachineData
	ItemsRedeemed uint64
	Bump          uint8
}

// decodeCandyMachine parses account data (discriminator + borsh body).
// Trailing allocation padding is ignored.
func decodeCandyMachine(data []byte) (candyMachineAccount, error) {
	var acc candyMachineAccount
	if len(data) < 8 || !bytes.Equal(data[:8], candyMachineAccountDiscriminator) {
		return acc, cmdom.ErrInvalidAccountData
	}
	if err := borsh.Deserialize(&acc, data[8:]); err != nil {
		return candyMachineAccount{}, fmt.Errorf("%w: %v", cmdom.ErrInvalidAccountData, err)
	}
	return acc, nil
}

// ============================================================
// CandyMachineClient
// ============================================================

// CandyMachineClient implements candymachine.StateReader, Minter and
// BalanceReader on top of the Solana RPC.
type CandyMachineClient struct {
	RPC       RPC
	ProgramID common.PublicKey

	SkipPreflight       bool
	PreflightCommitment rpc.Commitment
}

var (
	_ cmdom.StateReader   = (*CandyMachineClient)(nil)
	_ cmdom.Minter        = (*CandyMachineClient)(nil)
	_ cmdom.BalanceReader = (*CandyMachineClient)(nil)
)

// NewCandyMachineClient wires the adapter. An empty programID uses CandyMachineProgramID.
func NewCandyMachineClient(r RPC, programID string, skipPreflight bool, preflight cmdom.Commitment) *CandyMachineClient {
	pid := strings.TrimSpace(programID)
	if pid == "" {
		pid = CandyMachineProgramID
	}
	if preflight == "" {
		preflight = cmdom.CommitmentConfirmed
	}
	return &CandyMachineClient{
		RPC:                 r,
		ProgramID:           common.PublicKeyFromString(pid),
		SkipPreflight:       skipPreflight,
		PreflightCommitment: rpc.Commitment(preflight),
	}
}

// GetState reads the candy machine account. payer is unused on chain and
// kept so the port matches the page's getState(wallet, id, connection).
func (c *CandyMachineClient) GetState(ctx context.Context, payer string, candyMachineID string) (cmdom.State, error) {
	if c == nil || c.RPC == nil {
		return cmdom.State{}, ErrCandyMachineNotConfigured
	}
	id := strings.TrimSpace(candyMachineID)
	if id == "" {
		return cmdom.State{}, cmdom.ErrInvalidCandyMachine
	}

	info, err := c.RPC.GetAccountInfo(ctx, id)
	if err != nil {
		return cmdom.State{}, fmt.Errorf("candy_machine: getAccountInfo %s: %w", maskShort(id), err)
	}
	if len(info.Data) == 0 {
		return cmdom.State{}, cmdom.ErrNotFound
	}
	if info.Owner != c.ProgramID {
		return cmdom.State{}, fmt.Errorf("%w: owner %s is not the candy machine program", cmdom.ErrInvalidAccountData, info.Owner.ToBase58())
	}

	acc, err := decodeCandyMachine(info.Data)
	if err != nil {
		return cmdom.State{}, err
	}

	var goLive time.Time
	if acc.Data.GoLiveDate != nil {
		goLive = time.Unix(*acc.Data.GoLiveDate, 0).UTC()
	}

	h := cmdom.Handle{
		ID:        id,
		Authority: acc.Authority.ToBase58(),
		Treasury:  acc.Wallet.ToBase58(),
		Config:    acc.Config.ToBase58(),
	}
	if acc.TokenMint != nil {
		h.TokenMint = acc.TokenMint.ToBase58()
	}

	st := cmdom.NewState(int64(acc.Data.ItemsAvailable), int64(acc.ItemsRedeemed), goLive, acc.Data.Price, h)
	log.Printf("[candy_machine] state id=%s payer=%s available=%d redeemed=%d remaining=%d",
		maskShort(id), maskShort(payer), st.ItemsAvailable, st.ItemsRedeemed, st.ItemsRemaining)
	return st, nil
}

// GetBalance returns the balance of address in lamports.
func (c *CandyMachineClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	if c == nil || c.RPC == nil {
		return 0, ErrCandyMachineNotConfigured
	}
	addr := strings.TrimSpace(address)
	if addr == "" {
		return 0, fmt.Errorf("candy_machine: address is empty")
	}
	lamports, err := c.RPC.GetBalance(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("candy_machine: getBalance %s: %w", maskShort(addr), err)
	}
	return lamports, nil
}

// sendConfig converts the adapter settings for SendTransactionWithConfig.
func (c *CandyMachineClient) sendConfig() client.SendTransactionConfig {
	return client.SendTransactionConfig{
		SkipPreflight:       c.SkipPreflight,
		PreflightCommitment: c.PreflightCommitment,
	}
}
