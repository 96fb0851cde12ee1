package payload

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// WalletOwners is the number of signers of a multisig wallet.
const WalletOwners = 3

// walletArgumentsLength is the size of the encoded owner list: offset, length and
// one word per owner.
const walletArgumentsLength = 32 * (2 + WalletOwners)

// EncodeWalletInit returns the creation payload of a multisig wallet: the network's
// bytecode template followed by the encoded owner list.
func EncodeWalletInit(n types.Network, owners []common.Address) ([]byte, error) {
	if len(owners) != WalletOwners {
		return nil, types.NewValidationError("wallet requires exactly %d owners, got %d", WalletOwners, len(owners))
	}
	return pack(n.WalletBytecode, n.WalletConstructorTypes, owners)
}

// DecodeWalletInit recovers the owner list from a wallet creation payload. When the
// network only knows the start of the creation code, the owner list is read from
// the end of data.
func DecodeWalletInit(n types.Network, data []byte) ([]common.Address, error) {
	code := n.WalletBytecode
	if n.WalletBytecodePrefixOnly {
		if !bytes.HasPrefix(data, code) || len(data) < len(code)+walletArgumentsLength {
			return nil, types.NewParseError("payload is not a wallet deployment")
		}
		code = data[:len(data)-walletArgumentsLength]
	}
	values, err := unpack(code, n.WalletConstructorTypes, data)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, types.NewParseError("wallet constructor takes one argument, decoded %d", len(values))
	}
	owners, ok := values[0].([]common.Address)
	if !ok {
		return nil, types.NewParseError("wallet constructor argument is %T, not an address list", values[0])
	}
	if len(owners) != WalletOwners {
		return nil, types.NewParseError("wallet requires exactly %d owners, decoded %d", WalletOwners, len(owners))
	}
	return owners, nil
}
