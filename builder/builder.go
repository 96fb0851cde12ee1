// Package builder assembles, signs and parses account transactions. A Factory seeded
// with one network's constants hands out a builder per transaction type; each builder
// accumulates envelope and payload fields and produces an immutable Transaction.
package builder

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// TransactionBuilder is the behaviour shared by every transaction type.
//
// Setters validate their input immediately. Cross-field checks run in Validate and
// Build, in the order fee, chain id, counter, source, then the type-specific fields.
// A builder must not be used from several goroutines at once.
type TransactionBuilder interface {
	Type() types.TransactionType

	Fee(fee types.Fee) error
	ChainID(chainID int64) error
	Counter(counter int64) error
	Source(address string) error

	// Sign attaches the key that signs the transaction during Build. Only one key may
	// be attached.
	Sign(key string) error

	// From loads the builder from a wire hex or JSON transaction.
	From(raw string) error

	Validate() error
	Build(ctx context.Context) (*Transaction, error)
}

// variant is the type-specific half of a builder.
type variant interface {
	validate(n types.Network) error
	encode(n types.Network, bc buildContext) (*payloadFields, error)

	// load decodes tx into a pending state. Nothing is changed until commit is called.
	load(n types.Network, tx *types.TxData) (commit func(), err error)

	deployedAddress(bc buildContext) *common.Address
}

// signGuard is implemented by variants that refuse a signing key in some states.
type signGuard interface {
	checkSign() error
}

type buildContext struct {
	source common.Address
	nonce  uint64
}

// payloadFields are the parts of a transaction derived from its payload.
type payloadFields struct {
	to    *common.Address
	value *big.Int
	data  []byte
}

func (p *payloadFields) copy() *payloadFields {
	out := &payloadFields{data: common.CopyBytes(p.data)}
	if p.to != nil {
		to := *p.to
		out.to = &to
	}
	if p.value != nil {
		out.value = new(big.Int).Set(p.value)
	}
	return out
}

type fee struct {
	gasPrice *big.Int
	gasLimit *uint64
}

// core is the envelope state common to all builders.
type core struct {
	factory *Factory
	txType  types.TransactionType
	variant variant

	fee     *fee
	chainID *big.Int
	counter *uint64
	source  *common.Address
	key     *ecdsa.PrivateKey

	// State loaded by From. parsed is the payload base until a type-specific setter
	// runs; signature and signer hold only while the envelope is unchanged.
	parsed    *payloadFields
	signature *types.SignatureParts
	signer    *common.Address
}

func (c *core) init(f *Factory, t types.TransactionType, v variant) {
	c.factory = f
	c.txType = t
	c.variant = v
}

func (c *core) Type() types.TransactionType {
	return c.txType
}

// Fee sets the gas price and, optionally, the gas limit.
func (c *core) Fee(f types.Fee) error {
	if err := validate.Struct(&f); err != nil {
		return types.WrapError(types.ErrValidation, err, "invalid fee")
	}
	price, err := utils.ValidateAmount(f.Amount)
	if err != nil {
		return err
	}
	next := &fee{gasPrice: price}
	if f.GasLimit != "" {
		limit, err := utils.ValidateUint64(f.GasLimit)
		if err != nil {
			return err
		}
		next.gasLimit = &limit
	}
	c.fee = next
	c.dropSignature()
	return nil
}

func (c *core) ChainID(chainID int64) error {
	if chainID < 0 {
		return types.NewValidationError("invalid chain id: %d", chainID)
	}
	c.chainID = big.NewInt(chainID)
	c.dropSignature()
	return nil
}

// Counter sets the account nonce of the source address.
func (c *core) Counter(counter int64) error {
	if counter < 0 {
		return types.NewValidationError("invalid counter: %d", counter)
	}
	n := uint64(counter)
	c.counter = &n
	c.dropSignature()
	return nil
}

// Source sets the address paying for the transaction. It is not made a wallet owner.
func (c *core) Source(address string) error {
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return err
	}
	c.source = &addr
	return nil
}

func (c *core) Sign(key string) error {
	if c.key != nil {
		return types.NewSigningError("cannot sign multiple times a non send-type transaction")
	}
	if g, ok := c.variant.(signGuard); ok {
		if err := g.checkSign(); err != nil {
			return err
		}
	}
	priv, err := utils.ParsePrivateKey(key)
	if err != nil {
		return err
	}
	c.key = priv
	return nil
}

// Validate runs the build time checks without building.
func (c *core) Validate() error {
	switch {
	case c.fee == nil:
		return types.NewValidationError("invalid transaction: missing fee")
	case c.fee.gasLimit == nil:
		return types.NewValidationError("invalid transaction: missing gas limit")
	case c.chainID == nil:
		return types.NewValidationError("invalid transaction: missing chain id")
	case c.counter == nil:
		return types.NewValidationError("invalid transaction: missing address counter")
	case c.source == nil:
		return types.NewValidationError("invalid transaction: missing source")
	}
	if c.parsed != nil {
		return nil
	}
	return c.variant.validate(c.factory.network)
}

// Build assembles, signs when a key is attached, and serializes the transaction. It
// does not modify the builder.
func (c *core) Build(ctx context.Context) (tx *Transaction, err error) {
	start := time.Now()
	defer func() { c.factory.observeBuild(c.txType, start, tx, err) }()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	bc := buildContext{source: *c.source, nonce: *c.counter}
	fields := c.parsed
	if fields == nil {
		fields, err = c.variant.encode(c.factory.network, bc)
		if err != nil {
			return nil, err
		}
	}
	fields = fields.copy()

	data := &types.TxData{
		Nonce:           *c.counter,
		GasPrice:        new(big.Int).Set(c.fee.gasPrice),
		GasLimit:        *c.fee.gasLimit,
		To:              fields.to,
		Value:           fields.value,
		Data:            fields.data,
		ChainID:         new(big.Int).Set(c.chainID),
		DeployedAddress: c.variant.deployedAddress(bc),
	}
	if data.Value == nil {
		data.Value = new(big.Int)
	}
	if c.signature != nil {
		data.Signature = c.signature.Copy()
		if c.signer != nil {
			signer := *c.signer
			data.From = &signer
		}
	}

	if c.key != nil {
		if err := ctx.Err(); err != nil {
			return nil, types.WrapError(types.ErrSigning, err, "build cancelled before signing")
		}
		data, err = c.factory.codec.Sign(data, c.key)
		if err != nil {
			return nil, err
		}
	}

	raw, err := c.factory.codec.Encode(data)
	if err != nil {
		return nil, err
	}
	return newTransaction(c.txType, data, raw), nil
}

// From loads the builder from raw. On failure the builder is left unchanged.
func (c *core) From(raw string) (err error) {
	defer func() { c.factory.observeParse(c.txType.String(), err) }()

	data, wire, err := c.factory.decode(raw)
	if err != nil {
		return err
	}
	if wire {
		t, err := c.factory.classifier.Classify(data.Data)
		if err != nil {
			return err
		}
		if t != c.txType {
			return types.NewParseError("transaction is %s, builder is %s", t, c.txType)
		}
	}

	commit, err := c.variant.load(c.factory.network, data)
	if err != nil {
		return err
	}

	gasLimit := data.GasLimit
	nonce := data.Nonce
	parsed := &payloadFields{to: data.To, value: data.Value, data: data.Data}

	commit()
	c.fee = &fee{gasPrice: new(big.Int).Set(data.GasPrice), gasLimit: &gasLimit}
	c.chainID = new(big.Int).Set(data.ChainID)
	c.counter = &nonce
	c.parsed = parsed.copy()
	c.signature = data.Signature.Copy()
	c.signer = nil
	if data.Signature != nil && data.From != nil {
		from := *data.From
		c.signer = &from
		c.source = &from
	}
	return nil
}

func (c *core) dropSignature() {
	c.signature = nil
	c.signer = nil
}

// touch is called by type-specific setters: the loaded payload no longer describes
// the builder.
func (c *core) touch() {
	c.parsed = nil
	c.dropSignature()
}
