package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	accountlib "github.com/FabianSimtlix/bitgo-account-lib"
)

type versionEntry struct {
	key   string
	value any
}

func versionInfo() []versionEntry {
	info := accountlib.GetVersion()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]versionEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, versionEntry{key: k, value: info[k]})
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range versionInfo() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", e.key, e.value)
			}
			return nil
		},
	}
}
