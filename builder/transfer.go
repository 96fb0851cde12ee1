package builder

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// TransferBuilder collects the multisig transfer executed by a Send transaction and
// signs its operation hash with the transfer key.
type TransferBuilder struct {
	amount     *big.Int
	to         *common.Address
	data       []byte
	expireTime *big.Int
	sequenceID *big.Int
	key        *ecdsa.PrivateKey

	// signature of a decoded transfer, kept until a field changes
	signature []byte

	onChange func()
}

func newTransferBuilder(onChange func()) *TransferBuilder {
	return &TransferBuilder{onChange: onChange}
}

// Amount sets the value transferred, in base units.
func (t *TransferBuilder) Amount(amount string) error {
	v, err := utils.ValidateAmount(amount)
	if err != nil {
		return err
	}
	t.amount = v
	t.changed()
	return nil
}

// To sets the transfer recipient.
func (t *TransferBuilder) To(address string) error {
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return err
	}
	t.to = &addr
	t.changed()
	return nil
}

// Data sets the 0x hex call data forwarded to the recipient.
func (t *TransferBuilder) Data(data string) error {
	b, err := hexutil.Decode(data)
	if err != nil {
		return types.WrapError(types.ErrValidation, err, "invalid transfer data")
	}
	t.data = b
	t.changed()
	return nil
}

// ExpirationTime sets the unix time in seconds after which the wallet rejects the
// transfer.
func (t *TransferBuilder) ExpirationTime(seconds int64) error {
	if seconds < 0 {
		return types.NewValidationError("invalid expiration time: %d", seconds)
	}
	t.expireTime = big.NewInt(seconds)
	t.changed()
	return nil
}

// ContractSequenceID sets the wallet sequence id that prevents replays.
func (t *TransferBuilder) ContractSequenceID(id int64) error {
	if id < 0 {
		return types.NewValidationError("invalid contract sequence id: %d", id)
	}
	t.sequenceID = big.NewInt(id)
	t.changed()
	return nil
}

// Key sets the wallet owner key that authorizes the transfer.
func (t *TransferBuilder) Key(key string) error {
	priv, err := utils.ParsePrivateKey(key)
	if err != nil {
		return err
	}
	t.key = priv
	t.changed()
	return nil
}

// Details returns the transfer fields currently set. Signature is only set for a
// decoded, unchanged transfer.
func (t *TransferBuilder) Details() payload.Transfer {
	out := payload.Transfer{
		Data:      common.CopyBytes(t.data),
		Signature: common.CopyBytes(t.signature),
	}
	if t.to != nil {
		out.To = *t.to
	}
	if t.amount != nil {
		out.Amount = new(big.Int).Set(t.amount)
	}
	if t.expireTime != nil {
		out.ExpireTime = new(big.Int).Set(t.expireTime)
	}
	if t.sequenceID != nil {
		out.SequenceID = new(big.Int).Set(t.sequenceID)
	}
	return out
}

func (t *TransferBuilder) changed() {
	t.signature = nil
	if t.onChange != nil {
		t.onChange()
	}
}

func (t *TransferBuilder) validate() error {
	switch {
	case t.amount == nil:
		return types.NewValidationError("invalid transfer: missing amount")
	case t.to == nil:
		return types.NewValidationError("invalid transfer: missing recipient")
	case t.expireTime == nil:
		return types.NewValidationError("invalid transfer: missing expiration time")
	case t.sequenceID == nil:
		return types.NewValidationError("invalid transfer: missing contract sequence id")
	case t.key == nil && t.signature == nil:
		return types.NewValidationError("invalid transfer: missing key")
	}
	return nil
}

// signAndBuild returns the sendMultiSig call data. A decoded signature is reused while
// no field has changed.
func (t *TransferBuilder) signAndBuild(n types.Network) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	transfer := t.Details()
	if t.key != nil {
		hash := payload.OperationHash(n.OperationHashPrefix, transfer)
		sig, err := utils.SignHash(hash.Bytes(), t.key)
		if err != nil {
			return nil, err
		}
		transfer.Signature = sig
	}
	return payload.EncodeSendMultiSig(n, transfer)
}

func loadTransfer(decoded *payload.Transfer, onChange func()) *TransferBuilder {
	to := decoded.To
	return &TransferBuilder{
		amount:     decoded.Amount,
		to:         &to,
		data:       decoded.Data,
		expireTime: decoded.ExpireTime,
		sequenceID: decoded.SequenceID,
		signature:  decoded.Signature,
		onChange:   onChange,
	}
}
