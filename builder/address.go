package builder

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// AddressInitializationBuilder builds a wallet call deploying a forwarder contract.
type AddressInitializationBuilder struct {
	core
	contract        *common.Address
	contractCounter *uint64

	// deployed address carried by a loaded JSON transaction
	loadedDeployed *common.Address
}

// Contract sets the wallet that deploys the forwarder.
func (b *AddressInitializationBuilder) Contract(address string) error {
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return err
	}
	b.contract = &addr
	b.loadedDeployed = nil
	b.touch()
	return nil
}

// ContractCounter sets the wallet's contract creation counter, from which the forwarder
// address is derived.
func (b *AddressInitializationBuilder) ContractCounter(counter int64) error {
	if counter < 0 {
		return types.NewValidationError("invalid contract counter: %d", counter)
	}
	n := uint64(counter)
	b.contractCounter = &n
	b.loadedDeployed = nil
	b.touch()
	return nil
}

func (b *AddressInitializationBuilder) validate(types.Network) error {
	if b.contract == nil {
		return types.NewValidationError("invalid transaction: missing contract address")
	}
	if b.contractCounter == nil {
		return types.NewValidationError("invalid transaction: missing contract counter")
	}
	return nil
}

func (b *AddressInitializationBuilder) encode(n types.Network, _ buildContext) (*payloadFields, error) {
	data, err := payload.EncodeCreateForwarder(n)
	if err != nil {
		return nil, err
	}
	to := *b.contract
	return &payloadFields{to: &to, data: data}, nil
}

func (b *AddressInitializationBuilder) load(n types.Network, tx *types.TxData) (func(), error) {
	if tx.To == nil {
		return nil, types.NewParseError("undefined wallet contract address")
	}
	if err := payload.DecodeCreateForwarder(n, tx.Data); err != nil {
		return nil, err
	}
	contract := *tx.To
	var deployed *common.Address
	if tx.DeployedAddress != nil {
		d := *tx.DeployedAddress
		deployed = &d
	}
	return func() {
		b.contract = &contract
		b.contractCounter = nil
		b.loadedDeployed = deployed
	}, nil
}

func (b *AddressInitializationBuilder) deployedAddress(buildContext) *common.Address {
	if b.contract != nil && b.contractCounter != nil {
		addr := utils.CalculateForwarderAddress(*b.contract, *b.contractCounter)
		return &addr
	}
	if b.loadedDeployed != nil {
		addr := *b.loadedDeployed
		return &addr
	}
	return nil
}
