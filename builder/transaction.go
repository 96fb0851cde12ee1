package builder

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// Transaction is a built transaction. It never changes after Build returns it.
type Transaction struct {
	txType types.TransactionType
	data   *types.TxData
	raw    []byte
}

func newTransaction(t types.TransactionType, data *types.TxData, raw []byte) *Transaction {
	return &Transaction{txType: t, data: data, raw: raw}
}

func (t *Transaction) Type() types.TransactionType {
	return t.txType
}

// Data returns a copy of the structured transaction.
func (t *Transaction) Data() types.TxData {
	return *t.data.Copy()
}

func (t *Transaction) ToJSON() types.TxJSON {
	return t.data.ToJSON()
}

func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToJSON())
}

// ToBroadcastFormat returns the 0x-prefixed lower case wire encoding.
func (t *Transaction) ToBroadcastFormat() string {
	return hexutil.Encode(t.raw)
}

// Bytes returns a copy of the wire encoding.
func (t *Transaction) Bytes() []byte {
	return common.CopyBytes(t.raw)
}

// Hash is the keccak256 hash of the signed wire encoding, the id nodes index the
// transaction by.
func (t *Transaction) Hash() (common.Hash, error) {
	if !t.IsSigned() {
		return common.Hash{}, types.NewSigningError("unsigned transaction has no hash")
	}
	return crypto.Keccak256Hash(t.raw), nil
}

func (t *Transaction) IsSigned() bool {
	return t.data.IsSigned()
}

// From is the signer recovered from the signature, or nil for unsigned transactions.
func (t *Transaction) From() *common.Address {
	if t.data.From == nil {
		return nil
	}
	a := *t.data.From
	return &a
}

// DeployedAddress is the address of the contract the transaction creates, when known.
func (t *Transaction) DeployedAddress() *common.Address {
	if t.data.DeployedAddress == nil {
		return nil
	}
	a := *t.data.DeployedAddress
	return &a
}
