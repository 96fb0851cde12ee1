package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

type parsedTransaction struct {
	Type        string       `json:"type"`
	Transaction types.TxJSON `json:"transaction"`
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	var coin, source string

	cmd := &cobra.Command{
		Use:   "parse <hex|json>",
		Short: "Decode a raw transaction and print it as JSON",
		Long: `parse decodes a raw transaction, rebuilds it and prints its JSON form. Unsigned
transactions carry no sender, so --source is required for them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			f, err := lib.GetBuilder(coin)
			if err != nil {
				return err
			}
			b, err := f.From(args[0])
			if err != nil {
				return err
			}
			if source != "" {
				if err := b.Source(source); err != nil {
					return err
				}
			}
			tx, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(parsedTransaction{Type: tx.Type().String(), Transaction: tx.ToJSON()}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&coin, "coin", "", "coin name, e.g. eth or tcgld")
	cmd.Flags().StringVar(&source, "source", "", "source address for unsigned transactions")
	_ = cmd.MarkFlagRequired("coin")
	return cmd
}
