package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionType is the intent of a transaction, recovered from its payload when parsing.
type TransactionType int

const (
	// Send moves funds out of a multisig wallet contract.
	Send TransactionType = iota
	// WalletInitialization deploys a multisig wallet contract.
	WalletInitialization
	// AddressInitialization deploys a forwarder contract through a wallet.
	AddressInitialization
	// StakingLock locks native funds for staking.
	StakingLock
	// StakingVote votes (or activates votes) for a validator group.
	StakingVote
)

var transactionTypeNames = map[TransactionType]string{
	Send:                  "Send",
	WalletInitialization:  "WalletInitialization",
	AddressInitialization: "AddressInitialization",
	StakingLock:           "StakingLock",
	StakingVote:           "StakingVote",
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TransactionType(%d)", int(t))
}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	_, ok := transactionTypeNames[t]
	return ok
}

// ParseTransactionType resolves a type name as printed by String.
func ParseTransactionType(name string) (TransactionType, error) {
	for t, n := range transactionTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, NewUnsupportedError("unsupported transaction type: %s", name)
}

// StakingOperation selects the staking contract method a staking transaction calls.
type StakingOperation string

const (
	StakingOperationLock     StakingOperation = "lock"
	StakingOperationVote     StakingOperation = "vote"
	StakingOperationActivate StakingOperation = "activate"
)

func (o StakingOperation) String() string {
	return string(o)
}

// Fee is the gas price and gas limit of a transaction, as non-negative integer strings.
type Fee struct {
	// Gas price in the smallest unit of the native coin.
	Amount string `json:"amount" validate:"required"`

	// Maximum gas the transaction may consume.
	GasLimit string `json:"gasLimit,omitempty"`
}

// SignatureParts is the secp256k1 signature of a transaction. Either all three parts are
// set or the transaction is unsigned.
type SignatureParts struct {
	V *big.Int
	R *big.Int
	S *big.Int
}

// Copy returns a deep copy of the signature.
func (s *SignatureParts) Copy() *SignatureParts {
	if s == nil {
		return nil
	}
	return &SignatureParts{
		V: new(big.Int).Set(s.V),
		R: new(big.Int).Set(s.R),
		S: new(big.Int).Set(s.S),
	}
}

// TxData is the structured form of an account based transaction.
type TxData struct {
	Nonce     uint64
	GasPrice  *big.Int
	GasLimit  uint64
	To        *common.Address
	Value     *big.Int
	Data      []byte
	ChainID   *big.Int
	Signature *SignatureParts

	// From is derived from a valid signature and never taken from user input.
	From *common.Address

	// DeployedAddress is the contract address created by a deployment transaction, when
	// it can be computed.
	DeployedAddress *common.Address
}

// IsSigned reports whether the transaction carries a signature.
func (d *TxData) IsSigned() bool {
	return d.Signature != nil
}

// Copy returns a deep copy of d.
func (d *TxData) Copy() *TxData {
	out := &TxData{
		Nonce:     d.Nonce,
		GasLimit:  d.GasLimit,
		Data:      common.CopyBytes(d.Data),
		Signature: d.Signature.Copy(),
	}
	if d.GasPrice != nil {
		out.GasPrice = new(big.Int).Set(d.GasPrice)
	}
	if d.Value != nil {
		out.Value = new(big.Int).Set(d.Value)
	}
	if d.ChainID != nil {
		out.ChainID = new(big.Int).Set(d.ChainID)
	}
	out.To = copyAddress(d.To)
	out.From = copyAddress(d.From)
	out.DeployedAddress = copyAddress(d.DeployedAddress)
	return out
}

func copyAddress(a *common.Address) *common.Address {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// TxJSON is the JSON interchange form of TxData.
type TxJSON struct {
	// Account nonce of the source address.
	Nonce Uint64 `json:"nonce"`

	// Gas price as a decimal string.
	GasPrice string `json:"gasPrice" validate:"required,number"`

	// Gas limit as a decimal string.
	GasLimit string `json:"gasLimit" validate:"required,number"`

	// Destination address. Empty for plain deployments.
	To string `json:"to,omitempty" validate:"omitempty,eth_addr"`

	// Amount of native coin transferred, as a decimal string.
	Value string `json:"value" validate:"omitempty,number"`

	// 0x-prefixed contract call payload.
	Data string `json:"data"`

	ChainID Uint64 `json:"chainId"`

	// Signature parts as 0x-prefixed hex quantities.
	V string `json:"v,omitempty" validate:"required_with=R S"`
	R string `json:"r,omitempty" validate:"required_with=V S"`
	S string `json:"s,omitempty" validate:"required_with=V R"`

	From            string `json:"from,omitempty" validate:"omitempty,eth_addr"`
	DeployedAddress string `json:"deployedAddress,omitempty" validate:"omitempty,eth_addr"`
}

// StakingCall is a staking contract invocation ready to be placed in a transaction.
type StakingCall struct {
	Amount                *big.Int
	TargetContractAddress common.Address
	EncodedPayload        []byte
}
