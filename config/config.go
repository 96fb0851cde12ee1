package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

var validate = validator.New()

// Config is the file and environment configuration of the library and its CLI.
type Config struct {
	LogLevel string `mapstructure:"log_level" json:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	Metrics  bool   `mapstructure:"metrics" json:"metrics"`

	// Networks overrides the built-in constants per coin.
	Networks map[string]NetworkOverride `mapstructure:"networks" json:"networks" validate:"omitempty,dive"`
}

// NetworkOverride replaces selected constants of one registered network.
type NetworkOverride struct {
	ChainID        *uint64 `mapstructure:"chain_id" json:"chainId,omitempty"`
	WalletBytecode string  `mapstructure:"wallet_bytecode" json:"walletBytecode,omitempty" validate:"omitempty,hexadecimal"`

	// Staking contract addresses keyed by operation (lock, vote, activate).
	Staking map[string]string `mapstructure:"staking" json:"staking,omitempty" validate:"omitempty,dive,keys,oneof=lock vote activate,endkeys,eth_addr"`
}

// Load reads configuration from path (YAML, JSON or TOML by extension) and from
// ACCOUNTLIB_ prefixed environment variables. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics", false)

	v.SetEnvPrefix("ACCOUNTLIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, types.WrapError(types.ErrValidation, err, "invalid config")
	}
	return &cfg, nil
}

// ParseNetworkOverrides parses and validates a JSON object of per-coin overrides.
func ParseNetworkOverrides(data []byte) (map[string]NetworkOverride, error) {
	var overrides map[string]NetworkOverride

	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, types.WrapError(types.ErrParse, err, "failed to parse network overrides")
	}

	for coin, o := range overrides {
		if err := validate.Struct(&o); err != nil {
			return nil, types.WrapError(types.ErrValidation, err, "validation failed for %s", coin)
		}
	}
	return overrides, nil
}

// Apply returns a new registry with the overrides of cfg applied to base. Overrides for
// unknown coins are rejected.
func (c *Config) Apply(base *Registry) (*Registry, error) {
	return ApplyOverrides(base, c.Networks)
}

// ApplyOverrides returns a new registry with overrides applied to base. base is not
// modified.
func ApplyOverrides(base *Registry, overrides map[string]NetworkOverride) (*Registry, error) {
	if len(overrides) == 0 {
		return base, nil
	}

	networks := make([]types.Network, 0, len(base.networks))
	for _, coin := range base.Coins() {
		n, _ := base.Network(coin)
		if o, ok := overrides[coin]; ok {
			if err := o.applyTo(&n); err != nil {
				return nil, err
			}
		}
		networks = append(networks, n)
	}
	for coin := range overrides {
		if _, ok := base.networks[coin]; !ok {
			return nil, types.NewUnsupportedError("override for unsupported coin: %s", coin)
		}
	}

	return NewRegistry(base.version+"+local", networks...)
}

var errNoStakingConstants = errors.New("network has no staking constants")

func (o NetworkOverride) applyTo(n *types.Network) error {
	if o.ChainID != nil {
		n.ChainID = *o.ChainID
	}
	if o.WalletBytecode != "" {
		n.WalletBytecode = common.FromHex(o.WalletBytecode)
		n.WalletBytecodePrefixOnly = false
	}
	for op, addr := range o.Staking {
		m, ok := n.Staking[types.StakingOperation(op)]
		if !ok {
			return types.WrapError(types.ErrUnsupported, errNoStakingConstants, "%s: cannot override staking %s", n.Name, op)
		}
		m.ContractAddress = common.HexToAddress(addr)
		n.Staking[types.StakingOperation(op)] = m
	}
	return nil
}
