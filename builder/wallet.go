package builder

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// WalletInitializationBuilder builds the deployment of a 2-of-3 multisig wallet.
type WalletInitializationBuilder struct {
	core
	owners []common.Address
}

// Owner adds a wallet owner. A wallet has exactly three distinct owners.
func (b *WalletInitializationBuilder) Owner(address string) error {
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return err
	}
	if len(b.owners) >= payload.WalletOwners {
		return types.NewValidationError("a wallet can only have %d owners", payload.WalletOwners)
	}
	for _, o := range b.owners {
		if o == addr {
			return types.NewValidationError("repeated owner address: %s", address)
		}
	}
	b.owners = append(b.owners, addr)
	b.touch()
	return nil
}

// Owners returns the owners added so far.
func (b *WalletInitializationBuilder) Owners() []common.Address {
	return append([]common.Address(nil), b.owners...)
}

func (b *WalletInitializationBuilder) checkSign() error {
	if len(b.owners) == 0 {
		return types.NewSigningError("cannot sign a wallet initialization transaction without owners")
	}
	return nil
}

func (b *WalletInitializationBuilder) validate(n types.Network) error {
	if len(b.owners) != payload.WalletOwners {
		return types.NewValidationError("invalid transaction: wallet requires exactly %d owners, got %d",
			payload.WalletOwners, len(b.owners))
	}
	if !n.CanDeployWallet() {
		return types.NewUnsupportedError("wallet bytecode for %s is not configured; set wallet_bytecode", n.Name)
	}
	return nil
}

func (b *WalletInitializationBuilder) encode(n types.Network, _ buildContext) (*payloadFields, error) {
	data, err := payload.EncodeWalletInit(n, b.owners)
	if err != nil {
		return nil, err
	}
	return &payloadFields{data: data}, nil
}

func (b *WalletInitializationBuilder) load(n types.Network, tx *types.TxData) (func(), error) {
	if tx.To != nil {
		return nil, types.NewParseError("wallet deployment cannot have a recipient")
	}
	owners, err := payload.DecodeWalletInit(n, tx.Data)
	if err != nil {
		return nil, err
	}
	seen := make(map[common.Address]bool, len(owners))
	for _, o := range owners {
		if seen[o] {
			return nil, types.NewParseError("repeated owner address: %s", utils.FormatAddress(o))
		}
		seen[o] = true
	}
	return func() { b.owners = owners }, nil
}

// deployedAddress is the wallet created by the source account at this nonce.
func (b *WalletInitializationBuilder) deployedAddress(bc buildContext) *common.Address {
	addr := utils.CalculateContractAddress(bc.source, bc.nonce)
	return &addr
}
