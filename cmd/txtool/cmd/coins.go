package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCoinsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "coins",
		Short: "List supported coins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := opts.library()
			if err != nil {
				return err
			}
			for _, coin := range lib.SupportedCoins() {
				f, err := lib.GetBuilder(coin)
				if err != nil {
					return err
				}
				n := f.Network()
				staking := "no"
				if len(n.Staking) > 0 {
					staking = "yes"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-8s chain=%-6d layout=%-8s staking=%s\n",
					coin, n.Type, n.ChainID, n.Layout, staking)
			}
			return nil
		},
	}
}
