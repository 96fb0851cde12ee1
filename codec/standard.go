package codec

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// standardCodec is [nonce, gasPrice, gasLimit, to, value, data, v, r, s], the legacy
// Ethereum transaction.
type standardCodec struct{}

func (standardCodec) Layout() types.WireLayout { return types.LayoutStandard }

func (standardCodec) legacy(tx *types.TxData, v, r, s *big.Int) *ethtypes.Transaction {
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: new(big.Int).Set(bigOrZero(tx.GasPrice)),
		Gas:      tx.GasLimit,
		To:       tx.To,
		Value:    new(big.Int).Set(bigOrZero(tx.Value)),
		Data:     common.CopyBytes(tx.Data),
		V:        v,
		R:        r,
		S:        s,
	})
}

func signerFor(chainID *big.Int, v *big.Int) ethtypes.Signer {
	if chainID.Sign() == 0 || (v != nil && (v.Cmp(big27) == 0 || v.Cmp(big28) == 0)) {
		return ethtypes.HomesteadSigner{}
	}
	return ethtypes.NewEIP155Signer(chainID)
}

func (c standardCodec) Encode(tx *types.TxData) ([]byte, error) {
	chainID, err := chainIDOf(tx)
	if err != nil {
		return nil, err
	}

	v, r, s := new(big.Int).Set(chainID), new(big.Int), new(big.Int)
	if tx.Signature != nil {
		v, r, s = tx.Signature.V, tx.Signature.R, tx.Signature.S
	}

	raw, err := c.legacy(tx, v, r, s).MarshalBinary()
	if err != nil {
		return nil, types.WrapError(types.ErrValidation, err, "failed to encode transaction")
	}
	return raw, nil
}

func (standardCodec) Decode(raw []byte, defaultChainID uint64) (*types.TxData, error) {
	var tx ethtypes.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, types.WrapError(types.ErrParse, err, "there was an error decoding the transaction")
	}
	if tx.Type() != ethtypes.LegacyTxType {
		return nil, types.NewParseError("unsupported typed transaction 0x%02x", tx.Type())
	}

	v, r, s := tx.RawSignatureValues()
	sig, chainID, err := signatureFromRaw(v, r, s, defaultChainID)
	if err != nil {
		return nil, err
	}

	out := &types.TxData{
		Nonce:     tx.Nonce(),
		GasPrice:  tx.GasPrice(),
		GasLimit:  tx.Gas(),
		To:        tx.To(),
		Value:     tx.Value(),
		Data:      tx.Data(),
		ChainID:   chainID,
		Signature: sig,
	}
	if sig != nil {
		from, err := ethtypes.Sender(signerFor(chainID, sig.V), &tx)
		if err != nil {
			return nil, types.WrapError(types.ErrParse, err, "invalid transaction signature")
		}
		out.From = &from
	}
	return out, nil
}

func (c standardCodec) SigningHash(tx *types.TxData) (common.Hash, error) {
	chainID, err := chainIDOf(tx)
	if err != nil {
		return common.Hash{}, err
	}
	return signerFor(chainID, nil).Hash(c.legacy(tx, nil, nil, nil)), nil
}

func (c standardCodec) Sign(tx *types.TxData, key *ecdsa.PrivateKey) (*types.TxData, error) {
	chainID, err := chainIDOf(tx)
	if err != nil {
		return nil, err
	}

	signed, err := ethtypes.SignTx(c.legacy(tx, nil, nil, nil), signerFor(chainID, nil), key)
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "failed to sign transaction")
	}

	v, r, s := signed.RawSignatureValues()
	out := tx.Copy()
	out.Signature = &types.SignatureParts{V: v, R: r, S: s}
	from := crypto.PubkeyToAddress(key.PublicKey)
	out.From = &from
	return out, nil
}
