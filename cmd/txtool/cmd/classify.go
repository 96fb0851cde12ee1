package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var coin string

	cmd := &cobra.Command{
		Use:   "classify <hex|json>",
		Short: "Print the transaction type of a raw transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			f, err := lib.GetBuilder(coin)
			if err != nil {
				return err
			}
			t, err := f.Classify(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVar(&coin, "coin", "", "coin name, e.g. eth or tcgld")
	_ = cmd.MarkFlagRequired("coin")
	return cmd
}
