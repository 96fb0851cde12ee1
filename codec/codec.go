// Package codec serializes account transactions in the positional wire layouts of the
// supported networks and handles their signing hash, signatures and sender recovery.
package codec

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// Codec encodes and decodes one wire layout.
type Codec interface {
	// Layout identifies the wire layout.
	Layout() types.WireLayout

	// Encode serializes tx. An unsigned transaction is written in its chain id
	// protected unsigned form, with v holding the chain id and empty r and s.
	Encode(tx *types.TxData) ([]byte, error)

	// Decode parses raw. defaultChainID is used for signatures without replay
	// protection.
	Decode(raw []byte, defaultChainID uint64) (*types.TxData, error)

	// SigningHash is the hash covered by the transaction signature.
	SigningHash(tx *types.TxData) (common.Hash, error)

	// Sign returns a signed copy of tx with From set to the key's address.
	Sign(tx *types.TxData, key *ecdsa.PrivateKey) (*types.TxData, error)
}

// New returns the codec for layout.
func New(layout types.WireLayout) (Codec, error) {
	switch layout {
	case types.LayoutStandard:
		return standardCodec{}, nil
	case types.LayoutExtended:
		return extendedCodec{}, nil
	default:
		return nil, types.NewUnsupportedError("unsupported wire layout: %s", layout)
	}
}

var (
	big27 = big.NewInt(27)
	big28 = big.NewInt(28)
	big35 = big.NewInt(35)
)

// signatureFromRaw classifies a decoded (v, r, s) triple. Empty r and s mean an
// unsigned transaction whose v carries the chain id.
func signatureFromRaw(v, r, s *big.Int, defaultChainID uint64) (sig *types.SignatureParts, chainID *big.Int, err error) {
	rSet, sSet := r != nil && r.Sign() != 0, s != nil && s.Sign() != 0
	switch {
	case !rSet && !sSet:
		if v == nil {
			v = new(big.Int)
		}
		return nil, new(big.Int).Set(v), nil
	case rSet != sSet:
		return nil, nil, types.NewParseError("incomplete signature: r and s must both be set")
	}

	chainID, _, err = splitV(v, defaultChainID)
	if err != nil {
		return nil, nil, err
	}
	return &types.SignatureParts{
		V: new(big.Int).Set(v),
		R: new(big.Int).Set(r),
		S: new(big.Int).Set(s),
	}, chainID, nil
}

// splitV returns the chain id and recovery id encoded in v. v of 27 or 28 carries no
// chain id.
func splitV(v *big.Int, defaultChainID uint64) (chainID *big.Int, recID byte, err error) {
	if v == nil {
		return nil, 0, types.NewParseError("missing signature v")
	}
	if v.Cmp(big27) == 0 || v.Cmp(big28) == 0 {
		return new(big.Int).SetUint64(defaultChainID), byte(v.Uint64() - 27), nil
	}
	if v.Cmp(big35) < 0 {
		return nil, 0, types.NewParseError("invalid signature v: %s", v)
	}
	x := new(big.Int).Sub(v, big35)
	recID = byte(x.Bit(0))
	chainID = x.Rsh(x, 1)
	return chainID, recID, nil
}

// protectedV returns recID + chainID*2 + 35.
func protectedV(chainID *big.Int, recID byte) *big.Int {
	v := new(big.Int).Lsh(chainID, 1)
	v.Add(v, big35)
	return v.Add(v, big.NewInt(int64(recID)))
}

// recoverSender recovers the signer of hash. Signatures with high s values are
// rejected.
func recoverSender(hash common.Hash, r, s *big.Int, recID byte) (common.Address, error) {
	if !crypto.ValidateSignatureValues(recID, r, s, true) {
		return common.Address{}, types.NewParseError("invalid signature values")
	}
	sig := make([]byte, crypto.SignatureLength)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:64])
	sig[crypto.RecoveryIDOffset] = recID

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, types.WrapError(types.ErrParse, err, "failed to recover sender")
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func chainIDOf(tx *types.TxData) (*big.Int, error) {
	if tx.ChainID == nil {
		return nil, types.NewValidationError("missing chain id")
	}
	return tx.ChainID, nil
}
