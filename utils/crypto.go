package utils

import (
	"crypto/ecdsa"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// IsValidPrivateKey reports whether key is a raw 32 byte hex private key (0x optional)
// or an extended private key.
func IsValidPrivateKey(key string) bool {
	_, err := ParsePrivateKey(key)
	return err == nil
}

// ParsePrivateKey accepts a raw 32 byte hex private key, with or without 0x, or a
// base58 extended private key (xprv or tprv).
func ParsePrivateKey(key string) (*ecdsa.PrivateKey, error) {
	if key == "" {
		return nil, types.NewSigningError("missing private key")
	}
	if strings.HasPrefix(key, "xprv") || strings.HasPrefix(key, "tprv") {
		return parseExtendedKey(key)
	}

	raw := strings.TrimPrefix(key, "0x")
	if len(raw) != 64 || !IsHexString(raw) {
		return nil, types.NewSigningError("invalid private key")
	}
	priv, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "invalid private key")
	}
	return priv, nil
}

func parseExtendedKey(key string) (*ecdsa.PrivateKey, error) {
	ext, err := hdkeychain.NewKeyFromString(key)
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "invalid extended private key")
	}
	if !ext.IsPrivate() {
		return nil, types.NewSigningError("extended key is not private")
	}
	if !ext.IsForNet(&chaincfg.MainNetParams) && !ext.IsForNet(&chaincfg.TestNet3Params) {
		return nil, types.NewSigningError("extended key has an unknown version")
	}

	var priv *btcec.PrivateKey
	priv, err = ext.ECPrivKey()
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "invalid extended private key")
	}
	ecdsaKey, err := crypto.ToECDSA(priv.Serialize())
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "invalid extended private key")
	}
	return ecdsaKey, nil
}

// AddressFromPrivateKey derives the account address of a private key.
func AddressFromPrivateKey(privateKey *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(privateKey.PublicKey)
}

// SignHash signs a 32 byte hash and returns r || s || v with v in {27, 28}.
func SignHash(hash []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	signature, err := crypto.Sign(hash, privateKey)
	if err != nil {
		return nil, types.WrapError(types.ErrSigning, err, "failed to sign hash")
	}
	signature[crypto.RecoveryIDOffset] += 27
	return signature, nil
}

// RecoverAddressFromSignature recovers the signer of hash from a 65 byte r || s || v
// signature, v being 0, 1, 27 or 28.
func RecoverAddressFromSignature(hash []byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, types.NewParseError("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	sig := common.CopyBytes(signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, types.WrapError(types.ErrParse, err, "failed to recover public key")
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// CalculateContractAddress returns the address of the contract created by deployer
// when its nonce is nonce.
func CalculateContractAddress(deployer common.Address, nonce uint64) common.Address {
	return crypto.CreateAddress(deployer, nonce)
}

// CalculateForwarderAddress returns the address of the forwarder a wallet contract
// creates with the given contract counter.
func CalculateForwarderAddress(contract common.Address, contractCounter uint64) common.Address {
	return CalculateContractAddress(contract, contractCounter)
}
