package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

type walletInitOptions struct {
	coin     string
	gasPrice string
	gasLimit string
	chainID  int64
	nonce    int64
	source   string
	owners   []string
	key      string
}

func newBuildCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build transactions from flags",
	}
	cmd.AddCommand(newBuildWalletInitCmd(opts))
	return cmd
}

func newBuildWalletInitCmd(opts *rootOptions) *cobra.Command {
	w := &walletInitOptions{}

	cmd := &cobra.Command{
		Use:   "wallet-init",
		Short: "Build a multisig wallet deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			f, err := lib.GetBuilder(w.coin)
			if err != nil {
				return err
			}

			b := f.WalletInitialization()
			if err := b.Fee(types.Fee{Amount: w.gasPrice, GasLimit: w.gasLimit}); err != nil {
				return err
			}
			chainID := w.chainID
			if chainID < 0 {
				chainID = int64(f.Network().ChainID)
			}
			if err := b.ChainID(chainID); err != nil {
				return err
			}
			if err := b.Counter(w.nonce); err != nil {
				return err
			}
			if err := b.Source(w.source); err != nil {
				return err
			}
			for _, o := range w.owners {
				if err := b.Owner(o); err != nil {
					return err
				}
			}
			if w.key != "" {
				if err := b.Sign(w.key); err != nil {
					return err
				}
			}

			tx, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tx.ToBroadcastFormat())
			return nil
		},
	}

	cmd.Flags().StringVar(&w.coin, "coin", "", "coin name, e.g. eth or tcgld")
	cmd.Flags().StringVar(&w.gasPrice, "gas-price", "", "gas price in base units")
	cmd.Flags().StringVar(&w.gasLimit, "gas-limit", "", "gas limit")
	cmd.Flags().Int64Var(&w.chainID, "chain-id", -1, "chain id (defaults to the coin's chain id)")
	cmd.Flags().Int64Var(&w.nonce, "nonce", 0, "source account nonce")
	cmd.Flags().StringVar(&w.source, "source", "", "source address")
	cmd.Flags().StringSliceVar(&w.owners, "owner", nil, "wallet owner address (repeat three times)")
	cmd.Flags().StringVar(&w.key, "key", "", "private key (hex or xprv) to sign with")

	for _, name := range []string{"coin", "gas-price", "gas-limit", "source", "owner"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
