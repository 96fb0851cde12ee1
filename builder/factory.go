package builder

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FabianSimtlix/bitgo-account-lib/codec"
	"github.com/FabianSimtlix/bitgo-account-lib/logger"
	"github.com/FabianSimtlix/bitgo-account-lib/metrics"
	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

var validate = validator.New()

// Factory hands out builders for one network. It is immutable and safe for concurrent
// use; the builders it returns are not.
type Factory struct {
	network    types.Network
	codec      codec.Codec
	classifier *payload.Classifier
	logger     logger.Logger
	metrics    metrics.Recorder
}

// NewFactory returns a factory for network. A nil logger or recorder disables logging
// or metrics.
func NewFactory(network types.Network, log logger.Logger, rec metrics.Recorder) (*Factory, error) {
	c, err := codec.New(network.Layout)
	if err != nil {
		return nil, err
	}
	classifier, err := payload.NewClassifier(network)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	log = logger.WithFields(log, map[string]any{"coin": network.Name})
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Factory{
		network:    network.Clone(),
		codec:      c,
		classifier: classifier,
		logger:     log,
		metrics:    rec,
	}, nil
}

// Network returns a copy of the factory's network constants.
func (f *Factory) Network() types.Network {
	return f.network.Clone()
}

// Type returns a builder for t.
func (f *Factory) Type(t types.TransactionType) (TransactionBuilder, error) {
	var (
		b   TransactionBuilder
		err error
	)
	switch t {
	case types.Send:
		b = f.Send()
	case types.WalletInitialization:
		b = f.WalletInitialization()
	case types.AddressInitialization:
		b = f.AddressInitialization()
	case types.StakingLock:
		b, err = f.StakingLock()
	case types.StakingVote:
		b, err = f.StakingVote()
	default:
		err = types.NewUnsupportedError("unsupported transaction type: %s", t)
	}
	if err != nil {
		f.logger.Warn("builder dispatch failed", map[string]any{"type": t.String(), "error": err})
		return nil, err
	}
	return b, nil
}

func (f *Factory) Send() *SendBuilder {
	b := &SendBuilder{}
	b.init(f, types.Send, b)
	f.dispatched(types.Send)
	return b
}

func (f *Factory) WalletInitialization() *WalletInitializationBuilder {
	b := &WalletInitializationBuilder{}
	b.init(f, types.WalletInitialization, b)
	f.dispatched(types.WalletInitialization)
	return b
}

func (f *Factory) AddressInitialization() *AddressInitializationBuilder {
	b := &AddressInitializationBuilder{}
	b.init(f, types.AddressInitialization, b)
	f.dispatched(types.AddressInitialization)
	return b
}

// StakingLock fails with an unsupported error on networks without a lock contract.
func (f *Factory) StakingLock() (*StakingLockBuilder, error) {
	if !f.network.SupportsStaking(types.StakingOperationLock) {
		return nil, types.NewUnsupportedError("staking lock is not supported on %s", f.network.Name)
	}
	b := &StakingLockBuilder{}
	b.init(f, types.StakingLock, b)
	f.dispatched(types.StakingLock)
	return b, nil
}

// StakingVote fails with an unsupported error on networks without an election
// contract.
func (f *Factory) StakingVote() (*StakingVoteBuilder, error) {
	if !f.network.SupportsStaking(types.StakingOperationVote) {
		return nil, types.NewUnsupportedError("staking vote is not supported on %s", f.network.Name)
	}
	b := &StakingVoteBuilder{}
	b.init(f, types.StakingVote, b)
	f.dispatched(types.StakingVote)
	return b, nil
}

// Classify decodes raw and returns the transaction type of its payload.
func (f *Factory) Classify(raw string) (types.TransactionType, error) {
	data, _, err := f.decode(raw)
	if err != nil {
		return 0, err
	}
	return f.classifier.Classify(data.Data)
}

// From classifies raw and returns a builder of the matching type loaded from it.
func (f *Factory) From(raw string) (TransactionBuilder, error) {
	t, err := f.Classify(raw)
	if err != nil {
		f.observeParse("unknown", err)
		return nil, err
	}
	f.logger.Debug("raw transaction classified", map[string]any{"type": t.String()})

	b, err := f.Type(t)
	if err != nil {
		return nil, err
	}
	if err := b.From(raw); err != nil {
		return nil, err
	}
	return b, nil
}

// decode parses raw as wire hex or JSON. wire reports which form was found.
func (f *Factory) decode(raw string) (data *types.TxData, wire bool, err error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, false, types.NewParseError("raw transaction is empty")
	case utils.IsHexString(raw):
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return nil, true, types.WrapError(types.ErrParse, err, "malformed hex transaction")
		}
		data, err := f.codec.Decode(b, f.network.ChainID)
		if err != nil {
			return nil, true, err
		}
		return data, true, nil
	case strings.HasPrefix(raw, "{"):
		data, err := types.ParseTxJSON([]byte(raw))
		if err != nil {
			return nil, false, err
		}
		if err := f.verifySigner(data); err != nil {
			return nil, false, err
		}
		return data, false, nil
	default:
		return nil, false, types.NewParseError("raw transaction is neither hex nor JSON")
	}
}

// verifySigner replaces the sender of a JSON transaction with the one recovered from
// its signature.
func (f *Factory) verifySigner(data *types.TxData) error {
	data.From = nil
	if data.Signature == nil {
		return nil
	}
	enc, err := f.codec.Encode(data)
	if err != nil {
		return types.WrapError(types.ErrParse, err, "invalid transaction JSON")
	}
	decoded, err := f.codec.Decode(enc, f.network.ChainID)
	if err != nil {
		return err
	}
	data.From = decoded.From
	return nil
}

func (f *Factory) labels(typeName string) map[string]string {
	return map[string]string{"coin": f.network.Name, "type": typeName}
}

func (f *Factory) dispatched(t types.TransactionType) {
	f.logger.Debug("builder dispatched", map[string]any{"type": t.String()})
}

func (f *Factory) observeBuild(t types.TransactionType, start time.Time, tx *Transaction, err error) {
	labels := f.labels(t.String())
	f.metrics.ObserveLatency(metrics.EventBuild, time.Since(start), labels)
	if err != nil {
		f.metrics.IncCounter(metrics.EventBuildFailure, labels)
		f.logger.Warn("transaction build failed", map[string]any{
			"type":  t.String(),
			"kind":  types.ErrorCode(err),
			"error": err,
		})
		return
	}
	f.metrics.IncCounter(metrics.EventBuild, labels)
	f.logger.Debug("transaction built", map[string]any{
		"type":   t.String(),
		"signed": tx.IsSigned(),
	})
}

func (f *Factory) observeParse(typeName string, err error) {
	labels := f.labels(typeName)
	if err != nil {
		f.metrics.IncCounter(metrics.EventParseFailure, labels)
		f.logger.Warn("transaction parse failed", map[string]any{
			"type":  typeName,
			"kind":  types.ErrorCode(err),
			"error": err,
		})
		return
	}
	f.metrics.IncCounter(metrics.EventParse, labels)
}
