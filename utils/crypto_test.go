package utils

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

const (
	testKey     = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"

	// BIP32 test vector 1, master node.
	testXprv    = "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"
	testXprvKey = "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35"
)

func TestParsePrivateKey(t *testing.T) {
	for _, key := range []string{testKey, "0x" + testKey} {
		priv, err := ParsePrivateKey(key)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(testAddress), AddressFromPrivateKey(priv))
	}

	upper, err := ParsePrivateKey("8CAA00AE63638B0542A304823D66D96FF317A576F692663DB2F85E60FAB2590C")
	require.NoError(t, err)
	assert.NotNil(t, upper)
}

func TestParseExtendedPrivateKey(t *testing.T) {
	fromXprv, err := ParsePrivateKey(testXprv)
	require.NoError(t, err)

	fromHex, err := ParsePrivateKey(testXprvKey)
	require.NoError(t, err)

	assert.Equal(t, crypto.FromECDSA(fromHex), crypto.FromECDSA(fromXprv))
	assert.True(t, IsValidPrivateKey(testXprv))
}

func TestParsePrivateKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"short", "4c0883a69102937d"},
		{"not hex", "zz0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"},
		{"zero", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"bad checksum", testXprv[:len(testXprv)-1] + "j"},
		{"public extended key", "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrivateKey(tt.key)
			require.Error(t, err)
			assert.True(t, types.IsSigningError(err))
			assert.False(t, IsValidPrivateKey(tt.key))
		})
	}
}

func TestSignAndRecover(t *testing.T) {
	priv, err := ParsePrivateKey(testKey)
	require.NoError(t, err)
	hash := crypto.Keccak256([]byte("ETHER"))

	sig, err := SignHash(hash, priv)
	require.NoError(t, err)
	require.Len(t, sig, crypto.SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[64])

	again, err := SignHash(hash, priv)
	require.NoError(t, err)
	assert.Equal(t, sig, again)

	signer, err := RecoverAddressFromSignature(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddress), signer)

	_, err = RecoverAddressFromSignature(hash, sig[:64])
	require.Error(t, err)
	assert.True(t, types.IsParseError(err))
}
