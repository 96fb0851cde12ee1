package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// NetworkType tells mainnets and testnets apart.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// WireLayout selects the positional field list used to serialize a transaction.
type WireLayout string

const (
	// LayoutStandard is [nonce, gasPrice, gasLimit, to, value, data, v, r, s].
	LayoutStandard WireLayout = "standard"

	// LayoutExtended inserts three reserved slots (fee currency, gateway fee recipient,
	// gateway fee) before the destination.
	LayoutExtended WireLayout = "extended"
)

// ContractMethod is a contract call resolved for one network: where it goes, which
// method it invokes and the ABI types of its arguments in call order.
type ContractMethod struct {
	ContractAddress common.Address `json:"contractAddress"`

	// Canonical method signature, e.g. "vote(address,uint256,address,address)".
	Method string `json:"method"`

	ArgumentTypes []string `json:"argumentTypes"`
}

// Network carries the constants a builder factory is seeded with.
type Network struct {
	Name    string      `json:"name"`
	Family  string      `json:"family"`
	Type    NetworkType `json:"type"`
	ChainID uint64      `json:"chainId"`
	Layout  WireLayout  `json:"layout"`

	// Prefix mixed into the multisig transfer operation hash.
	OperationHashPrefix string `json:"operationHashPrefix"`

	// Creation bytecode of the multisig wallet, prepended to the encoded owner list.
	WalletBytecode []byte `json:"walletBytecode"`

	// Set while WalletBytecode is only the shared creation-code prefix. Such a
	// network classifies wallet deployments but cannot build them.
	WalletBytecodePrefixOnly bool `json:"walletBytecodePrefixOnly,omitempty"`

	// Constructor argument types of the wallet contract.
	WalletConstructorTypes []string `json:"walletConstructorTypes"`

	// Wallet method that deploys a forwarder.
	ForwarderMethod string `json:"forwarderMethod"`

	// Wallet method that executes a multisig transfer.
	SendMultiSigMethod ContractMethod `json:"sendMultiSigMethod"`

	Staking map[StakingOperation]ContractMethod `json:"staking,omitempty"`
}

// IsTestnet reports whether n is a test network.
func (n Network) IsTestnet() bool {
	return n.Type == Testnet
}

// CanDeployWallet reports whether n carries the complete wallet creation code.
func (n Network) CanDeployWallet() bool {
	return len(n.WalletBytecode) > 0 && !n.WalletBytecodePrefixOnly
}

// SupportsStaking reports whether n has constants for the given staking operation.
func (n Network) SupportsStaking(op StakingOperation) bool {
	_, ok := n.Staking[op]
	return ok
}

// Clone returns a copy of n that shares no mutable state with it.
func (n Network) Clone() Network {
	out := n
	out.WalletBytecode = common.CopyBytes(n.WalletBytecode)
	out.WalletConstructorTypes = append([]string(nil), n.WalletConstructorTypes...)
	out.SendMultiSigMethod.ArgumentTypes = append([]string(nil), n.SendMultiSigMethod.ArgumentTypes...)
	if n.Staking != nil {
		out.Staking = make(map[StakingOperation]ContractMethod, len(n.Staking))
		for op, m := range n.Staking {
			m.ArgumentTypes = append([]string(nil), m.ArgumentTypes...)
			out.Staking[op] = m
		}
	}
	return out
}

func (n Network) String() string {
	return n.Name
}
