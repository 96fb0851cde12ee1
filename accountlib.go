// Package accountlib builds, signs and parses account based transactions for Ethereum
// family networks, including the Celo wire layout and its staking calls.
package accountlib

import (
	"fmt"
	"sync"

	"github.com/FabianSimtlix/bitgo-account-lib/builder"
	"github.com/FabianSimtlix/bitgo-account-lib/config"
	"github.com/FabianSimtlix/bitgo-account-lib/logger"
	"github.com/FabianSimtlix/bitgo-account-lib/metrics"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// AccountLib resolves coins to builder factories.
type AccountLib struct {
	registry *config.Registry
	logger   logger.Logger
	metrics  metrics.Recorder

	mu        sync.Mutex
	factories map[string]*builder.Factory
}

// New creates an AccountLib over the built-in network registry unless WithRegistry is
// given.
func New(opts ...Option) *AccountLib {
	a := &AccountLib{
		registry:  config.DefaultRegistry(),
		logger:    logger.NoopLogger{},
		metrics:   metrics.NoopRecorder{},
		factories: make(map[string]*builder.Factory),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig applies the network overrides and log level of cfg. Options are
// applied after cfg and take precedence.
func NewFromConfig(cfg *config.Config, opts ...Option) (*AccountLib, error) {
	registry, err := cfg.Apply(config.DefaultRegistry())
	if err != nil {
		return nil, err
	}
	log, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithRegistry(registry), WithLogger(log)}, opts...)...), nil
}

// GetBuilder returns the builder factory of coin, e.g. "eth" or "tcgld".
func (a *AccountLib) GetBuilder(coin string) (*builder.Factory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if f, ok := a.factories[coin]; ok {
		return f, nil
	}

	network, err := a.registry.Network(coin)
	if err != nil {
		return nil, err
	}
	f, err := builder.NewFactory(network, a.logger, a.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create builder factory for %s: %w", coin, err)
	}
	a.factories[coin] = f
	return f, nil
}

// IsCoinSupported reports whether coin is in the registry.
func (a *AccountLib) IsCoinSupported(coin string) bool {
	_, err := a.registry.Network(coin)
	return err == nil
}

// SupportedCoins lists the registered coins.
func (a *AccountLib) SupportedCoins() []string {
	return a.registry.Coins()
}

func (a *AccountLib) Registry() *config.Registry {
	return a.registry
}

// Version is the library release.
const Version = "1.0.0"

// GetVersion reports the library and registry versions next to the coins and
// transaction formats the build supports.
func GetVersion() map[string]any {
	return map[string]any{
		"library_version":  Version,
		"registry_version": config.RegistryVersion,
		"supported_coins":  config.DefaultRegistry().Coins(),
		"supported_transaction_types": []string{
			types.Send.String(),
			types.WalletInitialization.String(),
			types.AddressInitialization.String(),
			types.StakingLock.String(),
			types.StakingVote.String(),
		},
		"wire_layouts": []string{
			string(types.LayoutStandard),
			string(types.LayoutExtended),
		},
	}
}
