// internal/infra/solana/mint_tx.go
package solana

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	cmdom "scratchmint/internal/domain/candymachine"
	"scratchmint/internal/domain/wallet"
)

// mintAccounts are the addresses one mint_nft call touches.
type mintAccounts struct {
	Config        common.PublicKey
	CandyMachine  common.PublicKey
	Payer         common.PublicKey
	Treasury      common.PublicKey
	Mint          common.PublicKey
	TokenAccount  common.PublicKey
	Metadata      common.PublicKey
	MasterEdition common.PublicKey
}

func deriveMintAccounts(h cmdom.Handle, config string, payer common.PublicKey, treasury string, mint common.PublicKey) (mintAccounts, error) {
	cfg := strings.TrimSpace(config)
	if cfg == "" {
		cfg = h.Config
	}
	tr := strings.TrimSpace(treasury)
	if tr == "" {
		tr = h.Treasury
	}
	if cfg == "" || tr == "" || strings.TrimSpace(h.ID) == "" {
		return mintAccounts{}, fmt.Errorf("candy_machine: config, treasury and candy machine id are required")
	}

	ata, _, err := common.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return mintAccounts{}, fmt.Errorf("candy_machine: FindAssociatedTokenAddress: %w", err)
	}
	metadata, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return mintAccounts{}, fmt.Errorf("candy_machine: GetTokenMetaPubkey: %w", err)
	}
	edition, err := token_metadata.GetMasterEdition(mint)
	if err != nil {
		return mintAccounts{}, fmt.Errorf("candy_machine: GetMasterEdition: %w", err)
	}

	return mintAccounts{
		Config:        common.PublicKeyFromString(cfg),
		CandyMachine:  common.PublicKeyFromString(h.ID),
		Payer:         payer,
		Treasury:      common.PublicKeyFromString(tr),
		Mint:          mint,
		TokenAccount:  ata,
		Metadata:      metadata,
		MasterEdition: edition,
	}, nil
}

// mintNFTInstruction builds the candy machine v1 mint_nft instruction.
// Account order follows the program IDL.
func mintNFTInstruction(programID common.PublicKey, a mintAccounts) types.Instruction {
	return types.Instruction{
		ProgramID: programID,
		Accounts: []types.AccountMeta{
			{PubKey: a.Config, IsSigner: false, IsWritable: false},
			{PubKey: a.CandyMachine, IsSigner: false, IsWritable: true},
			{PubKey: a.Payer, IsSigner: true, IsWritable: true},
			{PubKey: a.Treasury, IsSigner: false, IsWritable: true},
			{PubKey: a.Metadata, IsSigner: false, IsWritable: true},
			{PubKey: a.Mint, IsSigner: false, IsWritable: true},
			{PubKey: a.Payer, IsSigner: true, IsWritable: false}, // mint authority
			{PubKey: a.Payer, IsSigner: true, IsWritable: false}, // update authority
			{PubKey: a.MasterEdition, IsSigner: false, IsWritable: true},
			{PubKey: common.MetaplexTokenMetaProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SysVarRentPubkey, IsSigner: false, IsWritable: false},
			{PubKey: common.SysVarClockPubkey, IsSigner: false, IsWritable: false},
		},
		Data: append([]byte(nil), mintNFTDiscriminator...),
	}
}

// buildMintInstructions returns, in order:
// 1) create mint account 2) initialize mint (decimals 0)
// 3) create payer ATA 4) mint 1 token 5) candy machine mint_nft
func buildMintInstructions(programID common.PublicKey, a mintAccounts, mintRent uint64) []types.Instruction {
	return []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     a.Payer,
			New:      a.Mint,
			Owner:    common.TokenProgramID,
			Lamports: mintRent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   0,
			Mint:       a.Mint,
			MintAuth:   a.Payer,
			FreezeAuth: &a.Payer,
		}),
		associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 a.Payer,
				Owner:                  a.Payer,
				Mint:                   a.Mint,
				AssociatedTokenAccount: a.TokenAccount,
			},
		),
		token.MintTo(token.MintToParam{
			Mint:   a.Mint,
			To:     a.TokenAccount,
			Auth:   a.Payer,
			Amount: 1,
		}),
		mintNFTInstruction(programID, a),
	}
}

// MintOne builds, signs (payer + fresh mint keypair) and submits one mint.
// It returns the transaction signature; confirmation is the Confirmer's job.
func (c *CandyMachineClient) MintOne(ctx context.Context, h cmdom.Handle, config string, payer wallet.Wallet, treasury string) (string, error) {
	if c == nil || c.RPC == nil {
		return "", ErrCandyMachineNotConfigured
	}
	if h.TokenMint != "" {
		return "", fmt.Errorf("candy_machine: SPL token payment (%s) is not supported", maskShort(h.TokenMint))
	}

	payerAcc, err := types.AccountFromBytes(payer.Signer)
	if err != nil {
		return "", fmt.Errorf("candy_machine: payer signer: %w", err)
	}
	mint := types.NewAccount()

	accts, err := deriveMintAccounts(h, config, payerAcc.PublicKey, treasury, mint.PublicKey)
	if err != nil {
		return "", err
	}

	mintRent, err := c.RPC.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return "", fmt.Errorf("candy_machine: GetMinimumBalanceForRentExemption: %w", err)
	}
	recent, err := c.RPC.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("candy_machine: GetLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{payerAcc, mint},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        payerAcc.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions:    buildMintInstructions(c.ProgramID, accts, mintRent),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("candy_machine: NewTransaction: %w", err)
	}

	sig, err := c.RPC.SendTransactionWithConfig(ctx, tx, c.sendConfig())
	if err != nil {
		if pe, ok := cmdom.ParseCustomError(err.Error()); ok {
			return "", fmt.Errorf("candy_machine: SendTransaction: %w", pe)
		}
		return "", fmt.Errorf("candy_machine: SendTransaction: %w", err)
	}

	log.Printf("[candy_machine] submitted tx=%s mint=%s payer=%s skipPreflight=%t",
		maskShort(sig), maskShort(mint.PublicKey.ToBase58()), maskShort(payer.Address), c.SkipPreflight)
	return sig, nil
}
