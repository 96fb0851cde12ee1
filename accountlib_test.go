package accountlib

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FabianSimtlix/bitgo-account-lib/config"
	"github.com/FabianSimtlix/bitgo-account-lib/logger"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

func TestGetBuilder(t *testing.T) {
	lib := New()

	for _, coin := range lib.SupportedCoins() {
		f, err := lib.GetBuilder(coin)
		require.NoError(t, err)
		assert.Equal(t, coin, f.Network().Name)
		assert.True(t, lib.IsCoinSupported(coin))
	}

	_, err := lib.GetBuilder("xrp")
	require.Error(t, err)
	assert.True(t, types.IsUnsupportedError(err))
	assert.False(t, lib.IsCoinSupported("xrp"))
}

func TestGetBuilderIsCached(t *testing.T) {
	lib := New()

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := lib.GetBuilder("tcgld")
			if err == nil {
				results[i] = f
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestNewFromConfig(t *testing.T) {
	chainID := uint64(62320)
	cfg := &config.Config{
		LogLevel: "debug",
		Networks: map[string]config.NetworkOverride{"tcgld": {ChainID: &chainID}},
	}
	core, logs := observer.New(zapcore.DebugLevel)

	lib, err := NewFromConfig(cfg, WithLogger(logger.NewZapLoggerFromCore(core)))
	require.NoError(t, err)
	assert.Equal(t, config.RegistryVersion+"+local", lib.Registry().Version())

	f, err := lib.GetBuilder("tcgld")
	require.NoError(t, err)
	assert.Equal(t, chainID, f.Network().ChainID)

	b, err := f.From("0xed01843b9aca0083b8a1a08080809494c3e6675015d8479b648657e7ddfcd938489d0d6484f83d08ba82aef28080")
	require.NoError(t, err)
	require.NoError(t, b.Source("0x19645032c7f1533395d44a629462e751084d3e4c"))
	_, err = b.Build(context.Background())
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("builder dispatched").Len())
	built := logs.FilterMessage("transaction built").AllUntimed()
	require.Len(t, built, 1)
	assert.Equal(t, "tcgld", built[0].ContextMap()["coin"])
	assert.Equal(t, "StakingLock", built[0].ContextMap()["type"])

	_, err = NewFromConfig(&config.Config{Networks: map[string]config.NetworkOverride{"btc": {}}})
	require.Error(t, err)
}

func TestGetVersion(t *testing.T) {
	info := GetVersion()
	assert.Equal(t, Version, info["library_version"])
	assert.Equal(t, config.RegistryVersion, info["registry_version"])
	assert.Contains(t, info["supported_transaction_types"], "StakingVote")
}
