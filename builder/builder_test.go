package builder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FabianSimtlix/bitgo-account-lib/config"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

const (
	testKey = "8CAA00AE63638B0542A304823D66D96FF317A576F692663DB2F85E60FAB2590C"

	ownerA = "0xBa8eA9C3729686d7DB120efCfC81cD020C8DC1CB"
	ownerB = "0x2fa96fca36dd9d646AC8a4e0C19b4D3a0Dc7e456"

	walletContract = "0x8f977e912ef500548a0c3be6ddde9899f1199b81"
	recipient      = "0x19645032c7f1533395d44a629462e751084d3e4c"

	validatorGroup = "0x34084d6a4df32d9ad7395f4baad0db55c9c38145"
	lesserGroup    = "0x1e5f2141701f2698b910d442ec7adee2af96f852"
	greaterGroup   = "0xa34da18dccd65a80b428815f57dc2075466e270e"

	// Unsigned tcgld lock of 100 at nonce 1.
	unsignedLock = "0xed01843b9aca0083b8a1a08080809494c3e6675015d8479b648657e7ddfcd938489d0d6484f83d08ba82aef28080"

	// Wallet creation code configured for deployment tests.
	testWalletBytecode = "0x608060405234801561001057600080fd5b5060405162001a2038038062001a20833981016040819052"
)

var testFee = types.Fee{Amount: "1000000000", GasLimit: "12100000"}

func keyAddress(t *testing.T) common.Address {
	t.Helper()
	priv, err := utils.ParsePrivateKey(testKey)
	require.NoError(t, err)
	return utils.AddressFromPrivateKey(priv)
}

func newTestFactory(t *testing.T, coin string) *Factory {
	t.Helper()
	n, err := config.DefaultRegistry().Network(coin)
	require.NoError(t, err)
	f, err := NewFactory(n, nil, nil)
	require.NoError(t, err)
	return f
}

// newWalletFactory returns a factory whose network carries complete wallet
// creation code.
func newWalletFactory(t *testing.T, coin string) *Factory {
	t.Helper()
	reg, err := config.ApplyOverrides(config.DefaultRegistry(), map[string]config.NetworkOverride{
		coin: {WalletBytecode: testWalletBytecode},
	})
	require.NoError(t, err)
	n, err := reg.Network(coin)
	require.NoError(t, err)
	f, err := NewFactory(n, nil, nil)
	require.NoError(t, err)
	return f
}

// setEnvelope sets fee, chain id, counter and source.
func setEnvelope(t *testing.T, b TransactionBuilder, chainID, counter int64, source string) {
	t.Helper()
	require.NoError(t, b.Fee(testFee))
	require.NoError(t, b.ChainID(chainID))
	require.NoError(t, b.Counter(counter))
	require.NoError(t, b.Source(source))
}

type recordedEvent struct {
	name   string
	labels map[string]string
}

type recordingRecorder struct {
	mu        sync.Mutex
	counters  []recordedEvent
	latencies []recordedEvent
}

func (r *recordingRecorder) IncCounter(name string, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = append(r.counters, recordedEvent{name, labels})
}

func (r *recordingRecorder) ObserveLatency(name string, _ time.Duration, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies = append(r.latencies, recordedEvent{name, labels})
}

func (r *recordingRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.counters {
		if e.name == name {
			n++
		}
	}
	return n
}

func TestEnvelopeSetters(t *testing.T) {
	b := newTestFactory(t, "tcgld").WalletInitialization()

	tests := []struct {
		name string
		set  func() error
	}{
		{"empty fee", func() error { return b.Fee(types.Fee{}) }},
		{"negative fee", func() error { return b.Fee(types.Fee{Amount: "-1", GasLimit: "21000"}) }},
		{"fractional fee", func() error { return b.Fee(types.Fee{Amount: "1.5"}) }},
		{"exponent fee", func() error { return b.Fee(types.Fee{Amount: "1e9", GasLimit: "21000"}) }},
		{"fraction gas limit", func() error { return b.Fee(types.Fee{Amount: "1", GasLimit: "21000.0"}) }},
		{"bad gas limit", func() error { return b.Fee(types.Fee{Amount: "1", GasLimit: "lots"}) }},
		{"negative chain id", func() error { return b.ChainID(-1) }},
		{"negative counter", func() error { return b.Counter(-1) }},
		{"bad source", func() error { return b.Source("0x1234") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			require.Error(t, err)
			assert.True(t, types.IsValidationError(err), "got %v", err)
		})
	}
}

func TestBuildErrorOrder(t *testing.T) {
	b := newWalletFactory(t, "tcgld").WalletInitialization()
	ctx := context.Background()

	steps := []struct {
		want string
		next func() error
	}{
		{"missing fee", func() error { return b.Fee(types.Fee{Amount: "1000000000"}) }},
		{"missing gas limit", func() error { return b.Fee(testFee) }},
		{"missing chain id", func() error { return b.ChainID(44786) }},
		{"missing address counter", func() error { return b.Counter(2) }},
		{"missing source", func() error { return b.Source(ownerA) }},
		{"wallet requires exactly 3 owners, got 0", func() error { return nil }},
	}
	for _, s := range steps {
		_, err := b.Build(ctx)
		require.Error(t, err)
		assert.True(t, types.IsValidationError(err))
		assert.Contains(t, err.Error(), s.want)
		assert.Equal(t, err.Error(), b.Validate().Error())
		require.NoError(t, s.next())
	}
}

func TestSignKeyErrors(t *testing.T) {
	f := newTestFactory(t, "tcgld")

	b := f.WalletInitialization()
	require.NoError(t, b.Owner(ownerA))
	err := b.Sign("not a key")
	require.Error(t, err)
	assert.True(t, types.IsSigningError(err))

	require.NoError(t, b.Sign(testKey))
	err = b.Sign(testKey)
	require.Error(t, err)
	assert.True(t, types.IsSigningError(err))
	assert.Contains(t, err.Error(), "cannot sign multiple times")

	send := f.Send()
	require.NoError(t, send.Sign("0x"+testKey))
	assert.True(t, types.IsSigningError(send.Sign(testKey)))
}

func TestBuildCancelledBeforeSigning(t *testing.T) {
	b := newWalletFactory(t, "tcgld").WalletInitialization()
	setEnvelope(t, b, 44786, 2, keyAddress(t).Hex())
	for _, o := range []string{ownerA, ownerB, keyAddress(t).Hex()} {
		require.NoError(t, b.Owner(o))
	}
	require.NoError(t, b.Sign(testKey))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Build(ctx)
	require.Error(t, err)
	assert.True(t, types.IsSigningError(err))
	assert.ErrorIs(t, err, context.Canceled)

	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, tx.IsSigned())
}

func TestFactoryDispatch(t *testing.T) {
	celo := newTestFactory(t, "tcgld")
	for _, typ := range []types.TransactionType{types.Send, types.WalletInitialization, types.AddressInitialization, types.StakingLock, types.StakingVote} {
		b, err := celo.Type(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, b.Type())
	}

	eth := newTestFactory(t, "eth")
	for _, typ := range []types.TransactionType{types.StakingLock, types.StakingVote} {
		_, err := eth.Type(typ)
		require.Error(t, err)
		assert.True(t, types.IsUnsupportedError(err))
	}
	_, err := eth.StakingLock()
	assert.True(t, types.IsUnsupportedError(err))
	_, err = eth.StakingVote()
	assert.True(t, types.IsUnsupportedError(err))

	_, err = eth.Type(types.TransactionType(99))
	assert.True(t, types.IsUnsupportedError(err))
}

func TestFactoryRawInput(t *testing.T) {
	f := newTestFactory(t, "tcgld")

	tests := []struct {
		name string
		raw  string
		msg  string
	}{
		{"empty", "", "empty"},
		{"neither", "pqrs", "neither hex nor JSON"},
		{"odd hex", "0x123", "malformed hex"},
		{"not a transaction", "0x00001000", ""},
		{"bad json", `{"nonce":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.From(tt.raw)
			require.Error(t, err)
			assert.True(t, types.IsParseError(err), "got %v", err)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestFactoryMetrics(t *testing.T) {
	n, err := config.DefaultRegistry().Network("tcgld")
	require.NoError(t, err)
	rec := &recordingRecorder{}
	f, err := NewFactory(n, nil, rec)
	require.NoError(t, err)

	b, err := f.From(unsignedLock)
	require.NoError(t, err)
	_, err = b.Build(context.Background())
	require.Error(t, err)

	require.NoError(t, b.Source(ownerA))
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	_, err = f.From("pqrs")
	require.Error(t, err)

	assert.Equal(t, 1, rec.count("parse"))
	assert.Equal(t, 1, rec.count("parse_failure"))
	assert.Equal(t, 1, rec.count("build"))
	assert.Equal(t, 1, rec.count("build_failure"))
	assert.Len(t, rec.latencies, 2)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.counters {
		assert.Equal(t, "tcgld", e.labels["coin"])
		if e.name == "parse_failure" {
			assert.Equal(t, "unknown", e.labels["type"])
		} else {
			assert.Equal(t, "StakingLock", e.labels["type"])
		}
	}
}

func TestTransactionHash(t *testing.T) {
	f := newTestFactory(t, "tcgld")
	b, err := f.From(unsignedLock)
	require.NoError(t, err)
	require.NoError(t, b.Source(ownerA))

	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	_, err = tx.Hash()
	require.Error(t, err)
	assert.True(t, types.IsSigningError(err))
	assert.Nil(t, tx.From())
	assert.Nil(t, tx.DeployedAddress())
}
