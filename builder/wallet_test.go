package builder

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// Signed tcgld deployment of testWalletBytecode for ownerA, ownerB and the
// key address at nonce 2.
const signedWalletInitHex = "0xf9012002843b9aca0083b8a1a08080808080b8c9608060405234801561001057600080fd5b5060405162001a2038038062001a2083398101604081905200000000000000000000000000000000000000000000000000000000000000200000000000000000000000000000000000000000000000000000000000000003000000000000000000000000ba8ea9c3729686d7db120efcfc81cd020c8dc1cb0000000000000000000000002fa96fca36dd9d646ac8a4e0c19b4d3a0dc7e456000000000000000000000000386fe4e3d2b6acce93cc13d06e92b00aa50f429c83015e07a028f9f5a04eff65772ede23447ffb0837333a17fa3694d7c57cf033b1bf24900ea05431a7671c5f089873e5e07d3588117fa3b2b7fc4c0158c45bc7699fdce6f5d1"

func signedWalletInit(t *testing.T, f *Factory) (*WalletInitializationBuilder, *Transaction) {
	t.Helper()
	signer := keyAddress(t)

	b := f.WalletInitialization()
	setEnvelope(t, b, 44786, 2, signer.Hex())
	require.NoError(t, b.Owner(ownerA))
	require.NoError(t, b.Owner(ownerB))
	require.NoError(t, b.Owner(signer.Hex()))
	require.NoError(t, b.Sign(testKey))

	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	return b, tx
}

func TestWalletInitializationSigned(t *testing.T) {
	f := newWalletFactory(t, "tcgld")
	signer := keyAddress(t)
	b, tx := signedWalletInit(t, f)

	assert.Equal(t, types.WalletInitialization, tx.Type())
	assert.True(t, tx.IsSigned())
	assert.Equal(t, signedWalletInitHex, tx.ToBroadcastFormat())
	assert.Equal(t, common.HexToAddress("0x386fe4e3d2b6acce93cc13d06e92b00aa50f429c"), signer)
	require.NotNil(t, tx.From())
	assert.Equal(t, signer, *tx.From())
	require.NotNil(t, tx.DeployedAddress())
	assert.Equal(t, utils.CalculateContractAddress(signer, 2), *tx.DeployedAddress())

	data := tx.Data()
	assert.Nil(t, data.To)
	assert.Equal(t, uint64(2), data.Nonce)
	assert.Equal(t, uint64(12100000), data.GasLimit)
	assert.Equal(t, int64(0), data.Value.Int64())

	assert.Equal(t, common.HexToAddress("0xb52adefc40ac380ac350172caa66116e9c30976c"), *tx.DeployedAddress())

	hash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xf33ca496cef694e138c7b96496cdb20e22be72b67d762e632eb1a7206cdf2900"), hash)

	again, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tx.ToBroadcastFormat(), again.ToBroadcastFormat())

	parsed, err := f.From(tx.ToBroadcastFormat())
	require.NoError(t, err)
	wallet, ok := parsed.(*WalletInitializationBuilder)
	require.True(t, ok)
	assert.Equal(t, []common.Address{common.HexToAddress(ownerA), common.HexToAddress(ownerB), signer}, wallet.Owners())

	rebuilt, err := parsed.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tx.ToBroadcastFormat(), rebuilt.ToBroadcastFormat())
	assert.Equal(t, signer, *rebuilt.From())
}

func TestWalletInitializationStandardLayout(t *testing.T) {
	f := newWalletFactory(t, "teth")
	signer := keyAddress(t)

	b := f.WalletInitialization()
	setEnvelope(t, b, 42, 0, signer.Hex())
	require.NoError(t, b.Owner(ownerA))
	require.NoError(t, b.Owner(ownerB))
	require.NoError(t, b.Owner(signer.Hex()))
	require.NoError(t, b.Sign(testKey))

	tx, err := b.Build(context.Background())
	require.NoError(t, err)

	parsed, err := f.From(tx.ToBroadcastFormat())
	require.NoError(t, err)
	rebuilt, err := parsed.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tx.ToBroadcastFormat(), rebuilt.ToBroadcastFormat())
	assert.Equal(t, int64(42), rebuilt.Data().ChainID.Int64())
}

func TestWalletInitializationJSON(t *testing.T) {
	f := newWalletFactory(t, "tcgld")
	signer := keyAddress(t)
	_, tx := signedWalletInit(t, f)

	j := tx.ToJSON()
	assert.Equal(t, "0x"+common.Bytes2Hex(signer.Bytes()), j.From)
	assert.Empty(t, j.To)

	j.From = ownerA
	raw, err := json.Marshal(j)
	require.NoError(t, err)

	b := f.WalletInitialization()
	require.NoError(t, b.From(string(raw)))
	rebuilt, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tx.ToBroadcastFormat(), rebuilt.ToBroadcastFormat())
	assert.Equal(t, signer, *rebuilt.From(), "sender comes from the signature, not the JSON")

	marshalled, err := json.Marshal(rebuilt)
	require.NoError(t, err)
	assert.Contains(t, string(marshalled), `"chainId":44786`)
}

func TestWalletOwners(t *testing.T) {
	f := newWalletFactory(t, "tcgld")
	source := keyAddress(t).Hex()
	extra := []string{ownerA, ownerB, source, "0x19645032c7f1533395d44a629462e751084d3e4c"}

	for _, count := range []int{0, 1, 2} {
		b := f.WalletInitialization()
		setEnvelope(t, b, 44786, 2, source)
		for _, o := range extra[:count] {
			require.NoError(t, b.Owner(o))
		}
		_, err := b.Build(context.Background())
		require.Error(t, err, "owners=%d", count)
		assert.True(t, types.IsValidationError(err))
	}

	b := f.WalletInitialization()
	for _, o := range extra[:3] {
		require.NoError(t, b.Owner(o))
	}
	err := b.Owner(extra[3])
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
	assert.Contains(t, err.Error(), "a wallet can only have 3 owners")
	assert.Len(t, b.Owners(), 3)
}

func TestWalletOwnerValidation(t *testing.T) {
	b := newTestFactory(t, "tcgld").WalletInitialization()

	err := b.Owner("0xBa8eA9C3729686d7DB120efCfC81cD020C8DC1C")
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))

	require.NoError(t, b.Owner(ownerA))
	err = b.Owner("0xba8ea9c3729686d7db120efcfc81cd020c8dc1cb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repeated owner address")
	assert.Len(t, b.Owners(), 1)
}

func TestWalletSignWithoutOwners(t *testing.T) {
	b := newTestFactory(t, "tcgld").WalletInitialization()

	err := b.Sign(testKey)
	require.Error(t, err)
	assert.True(t, types.IsSigningError(err))

	require.NoError(t, b.Owner(ownerA))
	require.NoError(t, b.Sign(testKey))
}

func TestWalletFromLeavesBuilderOnFailure(t *testing.T) {
	f := newTestFactory(t, "tcgld")
	b := f.WalletInitialization()
	require.NoError(t, b.Owner(ownerA))
	require.NoError(t, b.Fee(testFee))

	for _, raw := range []string{"0x00001000", "pqrs", unsignedLock} {
		err := b.From(raw)
		require.Error(t, err, raw)
		assert.True(t, types.IsParseError(err))
	}

	assert.Equal(t, []common.Address{common.HexToAddress(ownerA)}, b.Owners())
	assert.Nil(t, b.counter)
	assert.Nil(t, b.chainID)
	assert.Nil(t, b.parsed)
}

func TestEnvelopeChangeDropsParsedSignature(t *testing.T) {
	f := newWalletFactory(t, "tcgld")
	_, tx := signedWalletInit(t, f)

	parsed, err := f.From(tx.ToBroadcastFormat())
	require.NoError(t, err)
	require.NoError(t, parsed.Counter(3))

	rebuilt, err := parsed.Build(context.Background())
	require.NoError(t, err)
	assert.False(t, rebuilt.IsSigned())
	assert.Nil(t, rebuilt.From())
	assert.Equal(t, uint64(3), rebuilt.Data().Nonce)
	assert.Equal(t, tx.Data().Data, rebuilt.Data().Data)

	require.NoError(t, parsed.Sign(testKey))
	resigned, err := parsed.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, resigned.IsSigned())
	assert.Equal(t, keyAddress(t), *resigned.From())
}

func TestWalletInitializationNeedsBytecode(t *testing.T) {
	f := newTestFactory(t, "tcgld")
	signer := keyAddress(t)

	b := f.WalletInitialization()
	setEnvelope(t, b, 44786, 2, signer.Hex())
	for _, o := range []string{ownerA, ownerB, signer.Hex()} {
		require.NoError(t, b.Owner(o))
	}
	require.NoError(t, b.Sign(testKey))

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsUnsupportedError(err), "got %v", err)
	assert.Contains(t, err.Error(), "wallet bytecode for tcgld is not configured")
	assert.Equal(t, err.Error(), b.Validate().Error())

	// Deployments of the shared creation-code prefix still decode.
	parsed, err := f.From(signedWalletInitHex)
	require.NoError(t, err)
	assert.Equal(t, types.WalletInitialization, parsed.Type())
	wallet, ok := parsed.(*WalletInitializationBuilder)
	require.True(t, ok)
	assert.Equal(t, []common.Address{common.HexToAddress(ownerA), common.HexToAddress(ownerB), signer}, wallet.Owners())

	rebuilt, err := parsed.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, signedWalletInitHex, rebuilt.ToBroadcastFormat())
}
