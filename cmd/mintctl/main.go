// cmd/mintctl/main.go
//
// mintctl は candy machine の状態確認・mint・payer 鍵の生成を行う運用 CLI です。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mintctl",
		Short:         "Candy machine mint CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		stateCommand(),
		mintCommand(),
		balanceCommand(),
		keygenCommand(),
	)
	return root
}
