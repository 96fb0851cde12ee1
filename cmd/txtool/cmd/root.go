package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	accountlib "github.com/FabianSimtlix/bitgo-account-lib"
	"github.com/FabianSimtlix/bitgo-account-lib/config"
	"github.com/FabianSimtlix/bitgo-account-lib/metrics"
)

type rootOptions struct {
	configPath string

	// Set when the config enables metrics; dumped to stderr after the command.
	registry *prometheus.Registry
}

// NewRootCmd returns the txtool command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "txtool",
		Short: "Build, classify and parse account transactions",
		Long: `txtool builds, classifies and parses transactions for Ethereum family
networks (eth, etc, rbtc) and Celo (cgld), including Celo staking calls.`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		newCoinsCmd(opts),
		newClassifyCmd(opts),
		newParseCmd(opts),
		newBuildCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *rootOptions) library() (*accountlib.AccountLib, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	var extra []accountlib.Option
	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		rec, err := metrics.NewPrometheusRecorder(reg)
		if err != nil {
			return nil, err
		}
		o.registry = reg
		extra = append(extra, accountlib.WithMetrics(rec))
	}
	return accountlib.NewFromConfig(cfg, extra...)
}

// writeMetrics writes the gathered metrics in the text exposition format.
func (o *rootOptions) writeMetrics(w io.Writer) error {
	if o.registry == nil {
		return nil
	}
	families, err := o.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
