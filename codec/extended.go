package codec

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// extendedCodec is [nonce, gasPrice, gasLimit, feeCurrency, gatewayFeeRecipient,
// gatewayFee, to, value, data, v, r, s]. The three reserved slots are always empty.
type extendedCodec struct{}

type extendedTx struct {
	Nonce               uint64
	GasPrice            *big.Int
	Gas                 uint64
	FeeCurrency         *common.Address `rlp:"nil"`
	GatewayFeeRecipient *common.Address `rlp:"nil"`
	GatewayFee          *big.Int
	To                  *common.Address `rlp:"nil"`
	Value               *big.Int
	Data                []byte
	V, R, S             *big.Int
}

// extendedUnprotected is the pre replay protection signing form.
type extendedUnprotected struct {
	Nonce               uint64
	GasPrice            *big.Int
	Gas                 uint64
	FeeCurrency         *common.Address `rlp:"nil"`
	GatewayFeeRecipient *common.Address `rlp:"nil"`
	GatewayFee          *big.Int
	To                  *common.Address `rlp:"nil"`
	Value               *big.Int
	Data                []byte
}

func (extendedCodec) Layout() types.WireLayout { return types.LayoutExtended }

func toExtended(tx *types.TxData, v, r, s *big.Int) *extendedTx {
	return &extendedTx{
		Nonce:      tx.Nonce,
		GasPrice:   bigOrZero(tx.GasPrice),
		Gas:        tx.GasLimit,
		GatewayFee: new(big.Int),
		To:         tx.To,
		Value:      bigOrZero(tx.Value),
		Data:       tx.Data,
		V:          v,
		R:          r,
		S:          s,
	}
}

func (extendedCodec) Encode(tx *types.TxData) ([]byte, error) {
	chainID, err := chainIDOf(tx)
	if err != nil {
		return nil, err
	}

	v, r, s := chainID, new(big.Int), new(big.Int)
	if tx.Signature != nil {
		v, r, s = tx.Signature.V, tx.Signature.R, tx.Signature.S
	}

	raw, err := rlp.EncodeToBytes(toExtended(tx, v, r, s))
	if err != nil {
		return nil, types.WrapError(types.ErrValidation, err, "failed to encode transaction")
	}
	return raw, nil
}

func (c extendedCodec) Decode(raw []byte, defaultChainID uint64) (*types.TxData, error) {
	var tx extendedTx
	if err := rlp.DecodeBytes(raw, &tx); err != nil {
		return nil, types.WrapError(types.ErrParse, err, "there was an error decoding the transaction")
	}
	if tx.FeeCurrency != nil || tx.GatewayFeeRecipient != nil || (tx.GatewayFee != nil && tx.GatewayFee.Sign() != 0) {
		return nil, types.NewParseError("reserved fee currency and gateway fee fields must be empty")
	}

	sig, chainID, err := signatureFromRaw(tx.V, tx.R, tx.S, defaultChainID)
	if err != nil {
		return nil, err
	}

	out := &types.TxData{
		Nonce:     tx.Nonce,
		GasPrice:  bigOrZero(tx.GasPrice),
		GasLimit:  tx.Gas,
		To:        tx.To,
		Value:     bigOrZero(tx.Value),
		Data:      tx.Data,
		ChainID:   chainID,
		Signature: sig,
	}
	if sig != nil {
		_, recID, err := splitV(sig.V, defaultChainID)
		if err != nil {
			return nil, err
		}
		hash, err := c.hash(out, sig.V)
		if err != nil {
			return nil, err
		}
		from, err := recoverSender(hash, sig.R, sig.S, recID)
		if err != nil {
			return nil, err
		}
		out.From = &from
	}
	return out, nil
}

// hash returns the signing hash. v of 27 or 28 selects the unprotected form.
func (extendedCodec) hash(tx *types.TxData, v *big.Int) (common.Hash, error) {
	var (
		enc []byte
		err error
	)
	if tx.ChainID.Sign() == 0 || (v != nil && (v.Cmp(big27) == 0 || v.Cmp(big28) == 0)) {
		enc, err = rlp.EncodeToBytes(&extendedUnprotected{
			Nonce:      tx.Nonce,
			GasPrice:   bigOrZero(tx.GasPrice),
			Gas:        tx.GasLimit,
			GatewayFee: new(big.Int),
			To:         tx.To,
			Value:      bigOrZero(tx.Value),
			Data:       tx.Data,
		})
	} else {
		enc, err = rlp.EncodeToBytes(toExtended(tx, tx.ChainID, new(big.Int), new(big.Int)))
	}
	if err != nil {
		return common.Hash{}, types.WrapError(types.ErrValidation, err, "failed to encode signing payload")
	}
	return crypto.Keccak256Hash(enc), nil
}

func (c extendedCodec) SigningHash(tx *types.TxData) (common.Hash, error) {
	if _, err := chainIDOf(tx); err != nil {
		return common.Hash{}, err
	}
	return c.hash(tx, nil)
}

func (c extendedCodec) Sign(tx *types.TxData, key *ecdsa.PrivateKey) (*types.TxData, error) {
	hash, err := c.SigningHash(tx)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "failed to sign transaction")
	}

	recID := sig[crypto.RecoveryIDOffset]
	v := new(big.Int).SetUint64(uint64(recID) + 27)
	if tx.ChainID.Sign() != 0 {
		v = protectedV(tx.ChainID, recID)
	}

	out := tx.Copy()
	out.Signature = &types.SignatureParts{
		V: v,
		R: new(big.Int).SetBytes(sig[:32]),
		S: new(big.Int).SetBytes(sig[32:64]),
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	out.From = &from
	return out, nil
}
