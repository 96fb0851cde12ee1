package config

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// RegistryVersion identifies the network constants shipped with DefaultRegistry. Bump it
// whenever a contract address, chain id or method signature changes.
const RegistryVersion = "2020.06-1"

const (
	sendMultiSigMethod    = "sendMultiSig(address,uint256,bytes,uint256,uint256,bytes)"
	createForwarderMethod = "createForwarder()"
	lockMethod            = "lock()"
	voteMethod            = "vote(address,uint256,address,address)"
	activateMethod        = "activate(address)"
)

// defaultWalletBytecode is the creation code prefix of the multisig wallet. The full
// contract code is deployment specific and is supplied through the wallet_bytecode
// override. Until then networks classify deployments but refuse to build them.
var defaultWalletBytecode = common.FromHex("0x608060405234801561001057600080fd5b50604051")

var walletConstructorTypes = []string{"address[]"}

var sendMultiSigArgumentTypes = []string{"address", "uint256", "bytes", "uint256", "uint256", "bytes"}

type celoContracts struct {
	lockedGold common.Address
	election   common.Address
}

var (
	celoMainnet = celoContracts{
		lockedGold: common.HexToAddress("0x6cc083aed9e3ebe302a6336dbc7c921c9f03349e"),
		election:   common.HexToAddress("0x8D6677192144292870907E3Fa8A5527fE55A7ff6"),
	}
	celoTestnet = celoContracts{
		lockedGold: common.HexToAddress("0x94c3e6675015d8479b648657e7ddfcd938489d0d"),
		election:   common.HexToAddress("0x1c3eDf937CFc2F6F51784D20DEB1af1F9a8655fA"),
	}
)

// Registry is an immutable table of network constants keyed by coin name.
type Registry struct {
	version  string
	networks map[string]types.Network
}

// DefaultRegistry returns the built-in network table.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(RegistryVersion,
		evmNetwork("eth", "eth", types.Mainnet, 1, "ETHER"),
		evmNetwork("teth", "eth", types.Testnet, 42, "ETHER"),
		evmNetwork("etc", "etc", types.Mainnet, 61, "ETC"),
		evmNetwork("tetc", "etc", types.Testnet, 63, "ETC"),
		evmNetwork("rbtc", "rbtc", types.Mainnet, 30, "RBTC"),
		evmNetwork("trbtc", "rbtc", types.Testnet, 31, "RBTC"),
		celoNetwork("cgld", types.Mainnet, 42220, celoMainnet),
		celoNetwork("tcgld", types.Testnet, 44786, celoTestnet),
	)
	if err != nil {
		panic("config: invalid default registry: " + err.Error())
	}
	return r
}

// NewRegistry validates networks and returns a registry holding copies of them.
func NewRegistry(version string, networks ...types.Network) (*Registry, error) {
	r := &Registry{
		version:  version,
		networks: make(map[string]types.Network, len(networks)),
	}
	for _, n := range networks {
		if _, dup := r.networks[n.Name]; dup {
			return nil, types.NewValidationError("duplicate network %q", n.Name)
		}
		r.networks[n.Name] = n.Clone()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Version() string {
	return r.version
}

// Network returns a copy of the constants for coin.
func (r *Registry) Network(coin string) (types.Network, error) {
	n, ok := r.networks[coin]
	if !ok {
		return types.Network{}, types.NewUnsupportedError("unsupported coin: %s", coin)
	}
	return n.Clone(), nil
}

// Coins lists the registered coin names in lexical order.
func (r *Registry) Coins() []string {
	coins := make([]string, 0, len(r.networks))
	for name := range r.networks {
		coins = append(coins, name)
	}
	sort.Strings(coins)
	return coins
}

// Validate checks every network: required fields, layout, and that its payload
// selectors classify unambiguously.
func (r *Registry) Validate() error {
	for _, name := range r.Coins() {
		n := r.networks[name]
		if n.Name == "" {
			return types.NewValidationError("network without a name")
		}
		if n.Layout != types.LayoutStandard && n.Layout != types.LayoutExtended {
			return types.NewValidationError("network %s: unknown wire layout %q", name, n.Layout)
		}
		if n.Type != types.Mainnet && n.Type != types.Testnet {
			return types.NewValidationError("network %s: unknown network type %q", name, n.Type)
		}
		if n.OperationHashPrefix == "" {
			return types.NewValidationError("network %s: missing operation hash prefix", name)
		}
		if len(n.WalletBytecode) == 0 {
			return types.NewValidationError("network %s: missing wallet bytecode", name)
		}
		for op, m := range n.Staking {
			if m.ContractAddress == (common.Address{}) {
				return types.NewValidationError("network %s: staking %s has no contract address", name, op)
			}
		}
		if _, err := payload.NewClassifier(n); err != nil {
			return types.WrapError(types.ErrValidation, err, "network %s", name)
		}
	}
	return nil
}

func evmNetwork(name, family string, typ types.NetworkType, chainID uint64, prefix string) types.Network {
	return types.Network{
		Name:                     name,
		Family:                   family,
		Type:                     typ,
		ChainID:                  chainID,
		Layout:                   types.LayoutStandard,
		OperationHashPrefix:      prefix,
		WalletBytecode:           common.CopyBytes(defaultWalletBytecode),
		WalletBytecodePrefixOnly: true,
		WalletConstructorTypes:   walletConstructorTypes,
		ForwarderMethod:          createForwarderMethod,
		SendMultiSigMethod: types.ContractMethod{
			Method:        sendMultiSigMethod,
			ArgumentTypes: sendMultiSigArgumentTypes,
		},
	}
}

func celoNetwork(name string, typ types.NetworkType, chainID uint64, c celoContracts) types.Network {
	n := evmNetwork(name, "cgld", typ, chainID, "CELO")
	n.Layout = types.LayoutExtended
	n.Staking = map[types.StakingOperation]types.ContractMethod{
		types.StakingOperationLock: {
			ContractAddress: c.lockedGold,
			Method:          lockMethod,
		},
		types.StakingOperationVote: {
			ContractAddress: c.election,
			Method:          voteMethod,
			ArgumentTypes:   []string{"address", "uint256", "address", "address"},
		},
		types.StakingOperationActivate: {
			ContractAddress: c.election,
			Method:          activateMethod,
			ArgumentTypes:   []string{"address"},
		},
	}
	return n
}
