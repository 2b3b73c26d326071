// cmd/mintctl/commands.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	cmdom "scratchmint/internal/domain/candymachine"
	"scratchmint/internal/infra/config"
	"scratchmint/internal/infra/solana"
	"scratchmint/internal/platform/di"
)

var errNoPayer = errors.New("mintctl: PAYER_KEYPAIR_FILE or SOLANA_PAYER_KEY_SECRET is required")

// withContainer loads config, builds the container and runs fn with it.
func withContainer(ctx context.Context, fn func(*di.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cont, err := di.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer cont.Close()
	return fn(cont)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ============================================================
// state
// ============================================================

func stateCommand() *cobra.Command {
	var connect bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Fetch and print the candy machine state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withContainer(ctx, func(c *di.Container) error {
				if connect && c.Keys != nil {
					if _, err := c.Controller.ConnectWallet(ctx, c.Keys); err != nil {
						return err
					}
				} else if err := c.Controller.Refresh(ctx); err != nil {
					return err
				}
				c.Controller.SyncActivation(time.Now())
				return printJSON(cmd.OutOrStdout(), c.Controller.View())
			})
		},
	}
	cmd.Flags().BoolVar(&connect, "connect", true, "connect the configured payer wallet (shows balance)")
	return cmd
}

// ============================================================
// mint
// ============================================================

func mintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mint",
		Short: "Mint one NFT with the configured payer wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withContainer(ctx, func(c *di.Container) error {
				if c.Keys == nil {
					return errNoPayer
				}
				if _, err := c.Controller.ConnectWallet(ctx, c.Keys); err != nil {
					return err
				}
				c.Controller.SyncActivation(time.Now())

				v, err := c.Controller.Mint(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "[%s] %s\n", v.Alert.Severity, v.Alert.Message)
				fmt.Fprintf(out, "remaining=%d balance=%.4f SOL\n", v.ItemsRemaining, v.Balance)
				return nil
			})
		},
	}
}

// ============================================================
// balance
// ============================================================

func balanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Print the SOL balance of address (default: payer wallet)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withContainer(ctx, func(c *di.Container) error {
				addr := ""
				if len(args) == 1 {
					addr = strings.TrimSpace(args[0])
				} else {
					if c.Keys == nil {
						return errNoPayer
					}
					w, err := c.Keys.Load(ctx)
					if err != nil {
						return err
					}
					addr = w.Address
				}
				lamports, err := c.Chain.GetBalance(ctx, addr)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %.9f SOL\n", addr, cmdom.ToSOL(lamports))
				return nil
			})
		},
	}
}

// ============================================================
// keygen
// ============================================================

func keygenCommand() *cobra.Command {
	var (
		outFile string
		project string
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a payer keypair (solana-keygen compatible)",
		Long: `Generate a new ed25519 payer keypair.

Examples:
  # Write a keypair file
  mintctl keygen --out payer.json

  # Store it in Secret Manager as a new secret version
  mintctl keygen --project my-project --secret scratchmint-payer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cmd.Context(), cmd.OutOrStdout(), outFile, project, secret)
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "keypair file to write (0600)")
	cmd.Flags().StringVar(&project, "project", "", "GCP project for Secret Manager")
	cmd.Flags().StringVar(&secret, "secret", "", "Secret Manager secret id")
	return cmd
}

func runKeygen(ctx context.Context, out io.Writer, outFile, project, secret string) error {
	outFile = strings.TrimSpace(outFile)
	secret = strings.TrimSpace(secret)
	if outFile == "" && secret == "" {
		return errors.New("mintctl: --out or --secret is required")
	}
	if secret != "" && strings.TrimSpace(project) == "" {
		return errors.New("mintctl: --project is required with --secret")
	}

	acc := types.NewAccount()
	address := base58.Encode(acc.PublicKey.Bytes())

	if outFile != "" {
		if err := solana.WriteKeypairFile(outFile, acc); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote keypair: %s\n", outFile)
	}
	if secret != "" {
		version, err := solana.StoreKeypairSecret(ctx, project, secret, acc)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "stored secret version: %s\n", version)
	}

	fmt.Fprintf(out, "address: %s\n", address)
	return nil
}
