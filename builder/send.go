package builder

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// SendBuilder builds a transaction calling sendMultiSig on a multisig wallet.
type SendBuilder struct {
	core
	contract *common.Address
	transfer *TransferBuilder
}

// Contract sets the wallet contract that executes the transfer.
func (b *SendBuilder) Contract(address string) error {
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return err
	}
	b.contract = &addr
	b.touch()
	return nil
}

// Transfer returns the transfer sub-builder, creating it on first use.
func (b *SendBuilder) Transfer() *TransferBuilder {
	if b.transfer == nil {
		b.transfer = newTransferBuilder(b.touch)
	}
	return b.transfer
}

func (b *SendBuilder) validate(types.Network) error {
	if b.contract == nil {
		return types.NewValidationError("invalid transaction: missing contract address")
	}
	if b.transfer == nil {
		return types.NewValidationError("missing transfer information")
	}
	return b.transfer.validate()
}

func (b *SendBuilder) encode(n types.Network, _ buildContext) (*payloadFields, error) {
	data, err := b.transfer.signAndBuild(n)
	if err != nil {
		return nil, err
	}
	to := *b.contract
	return &payloadFields{to: &to, data: data}, nil
}

func (b *SendBuilder) load(n types.Network, tx *types.TxData) (func(), error) {
	if tx.To == nil {
		return nil, types.NewParseError("undefined recipient address")
	}
	decoded, err := payload.DecodeSendMultiSig(n, tx.Data)
	if err != nil {
		return nil, err
	}
	contract := *tx.To
	return func() {
		b.contract = &contract
		b.transfer = loadTransfer(decoded, b.touch)
	}, nil
}

func (b *SendBuilder) deployedAddress(buildContext) *common.Address {
	return nil
}
