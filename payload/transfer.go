package payload

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// Transfer is a multisig wallet transfer: the call the wallet executes once a second
// owner has authorized it.
type Transfer struct {
	To         common.Address
	Amount     *big.Int
	Data       []byte
	ExpireTime *big.Int
	SequenceID *big.Int

	// Signature is the 65 byte r || s || v signature of the operation hash.
	Signature []byte
}

// OperationHash is the hash a wallet owner signs to authorize t:
// keccak256(prefix || to || uint256(amount) || data || uint256(expireTime) || uint256(sequenceId)).
func OperationHash(prefix string, t Transfer) common.Hash {
	return crypto.Keccak256Hash(bytes.Join([][]byte{
		[]byte(prefix),
		t.To.Bytes(),
		word(t.Amount),
		t.Data,
		word(t.ExpireTime),
		word(t.SequenceID),
	}, nil))
}

func word(v *big.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	return math.U256Bytes(new(big.Int).Set(v))
}

// EncodeSendMultiSig returns the wallet call data executing t.
func EncodeSendMultiSig(n types.Network, t Transfer) ([]byte, error) {
	if len(t.Signature) == 0 {
		return nil, types.NewValidationError("transfer is not signed")
	}
	m := n.SendMultiSigMethod
	data := t.Data
	if data == nil {
		data = []byte{}
	}
	return pack(Selector(m.Method), m.ArgumentTypes,
		t.To, bigOrZero(t.Amount), data, bigOrZero(t.ExpireTime), bigOrZero(t.SequenceID), t.Signature)
}

// DecodeSendMultiSig recovers a transfer from wallet call data.
func DecodeSendMultiSig(n types.Network, data []byte) (*Transfer, error) {
	m := n.SendMultiSigMethod
	values, err := unpack(Selector(m.Method), m.ArgumentTypes, data)
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, types.NewParseError("sendMultiSig takes 6 arguments, decoded %d", len(values))
	}

	to, ok1 := values[0].(common.Address)
	amount, ok2 := values[1].(*big.Int)
	callData, ok3 := values[2].([]byte)
	expire, ok4 := values[3].(*big.Int)
	sequence, ok5 := values[4].(*big.Int)
	signature, ok6 := values[5].([]byte)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil, types.NewParseError("unexpected sendMultiSig argument types")
	}

	return &Transfer{
		To:         to,
		Amount:     amount,
		Data:       common.CopyBytes(callData),
		ExpireTime: expire,
		SequenceID: sequence,
		Signature:  common.CopyBytes(signature),
	}, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
