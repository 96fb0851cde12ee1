package builder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/payload"
	"github.com/FabianSimtlix/bitgo-account-lib/types"
	"github.com/FabianSimtlix/bitgo-account-lib/utils"
)

// StakingBuilder collects the arguments of one staking operation.
type StakingBuilder struct {
	op      types.StakingOperation
	amount  *big.Int
	group   *common.Address
	lesser  common.Address
	greater common.Address

	onChange func()
}

// StakingDetails is a snapshot of a StakingBuilder.
type StakingDetails struct {
	Operation types.StakingOperation
	Amount    *big.Int
	Group     *common.Address
	Lesser    common.Address
	Greater   common.Address
}

func newStakingBuilder(op types.StakingOperation, onChange func()) *StakingBuilder {
	return &StakingBuilder{op: op, onChange: onChange}
}

// Operation is the staking method this builder calls.
func (s *StakingBuilder) Operation() types.StakingOperation {
	return s.op
}

// Amount sets the amount locked or voted, in base units.
func (s *StakingBuilder) Amount(amount string) error {
	if s.op == types.StakingOperationActivate {
		return types.NewValidationError("amount is not used by %s", s.op)
	}
	v, err := utils.ValidateAmount(amount)
	if err != nil {
		return types.WrapError(types.ErrValidation, err, "invalid value for stake transaction")
	}
	s.amount = v
	s.changed()
	return nil
}

// For sets the validator group to vote for or activate.
func (s *StakingBuilder) For(group string) error {
	if s.op == types.StakingOperationLock {
		return types.NewValidationError("validator group is not used by %s", s.op)
	}
	addr, err := utils.ParseAddress(group)
	if err != nil {
		return types.WrapError(types.ErrValidation, err, "invalid address to activate/vote for")
	}
	s.group = &addr
	s.changed()
	return nil
}

// Lesser sets the group ranked just below the voted group after the vote. It defaults
// to the zero address.
func (s *StakingBuilder) Lesser(address string) error {
	addr, err := s.tieBreak(address, "lesser")
	if err != nil {
		return err
	}
	s.lesser = addr
	s.changed()
	return nil
}

// Greater sets the group ranked just above the voted group after the vote. It defaults
// to the zero address.
func (s *StakingBuilder) Greater(address string) error {
	addr, err := s.tieBreak(address, "greater")
	if err != nil {
		return err
	}
	s.greater = addr
	s.changed()
	return nil
}

func (s *StakingBuilder) tieBreak(address, name string) (common.Address, error) {
	if s.op != types.StakingOperationVote {
		return common.Address{}, types.NewValidationError("%s is not used by %s", name, s.op)
	}
	addr, err := utils.ParseAddress(address)
	if err != nil {
		return common.Address{}, types.WrapError(types.ErrValidation, err, "invalid address for %s", name)
	}
	return addr, nil
}

func (s *StakingBuilder) Details() StakingDetails {
	d := StakingDetails{Operation: s.op, Lesser: s.lesser, Greater: s.greater}
	if s.amount != nil {
		d.Amount = new(big.Int).Set(s.amount)
	}
	if s.group != nil {
		g := *s.group
		d.Group = &g
	}
	return d
}

func (s *StakingBuilder) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *StakingBuilder) validate() error {
	switch s.op {
	case types.StakingOperationLock:
		if s.amount == nil {
			return types.NewValidationError("missing staking amount")
		}
	case types.StakingOperationVote:
		if s.group == nil {
			return types.NewValidationError("missing group to activate/vote for")
		}
		if s.amount == nil {
			return types.NewValidationError("missing staking amount")
		}
		if s.lesser == s.greater {
			return types.NewValidationError("greater and lesser values should not be the same")
		}
	case types.StakingOperationActivate:
		if s.group == nil {
			return types.NewValidationError("missing group to activate/vote for")
		}
	default:
		return types.NewValidationError("invalid staking operation: %s", s.op)
	}
	return nil
}

func (s *StakingBuilder) build(n types.Network) (*types.StakingCall, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	switch s.op {
	case types.StakingOperationLock:
		return payload.EncodeLock(n, s.amount)
	case types.StakingOperationVote:
		return payload.EncodeVote(n, payload.Vote{
			Group:   *s.group,
			Amount:  s.amount,
			Lesser:  s.lesser,
			Greater: s.greater,
		})
	default:
		return payload.EncodeActivate(n, *s.group)
	}
}

func stakingFields(call *types.StakingCall) *payloadFields {
	to := call.TargetContractAddress
	return &payloadFields{to: &to, value: call.Amount, data: call.EncodedPayload}
}

// checkTarget verifies that a decoded staking call goes to the registered contract.
func checkTarget(n types.Network, op types.StakingOperation, tx *types.TxData) error {
	m := n.Staking[op]
	if tx.To == nil || *tx.To != m.ContractAddress {
		return types.NewParseError("%s call must target %s", op, utils.FormatAddress(m.ContractAddress))
	}
	return nil
}

// StakingLockBuilder builds a transaction locking native funds for staking.
type StakingLockBuilder struct {
	core
	staking *StakingBuilder
}

// Lock returns the lock sub-builder, creating it on first use.
func (b *StakingLockBuilder) Lock() *StakingBuilder {
	if b.staking == nil {
		b.staking = newStakingBuilder(types.StakingOperationLock, b.touch)
	}
	return b.staking
}

func (b *StakingLockBuilder) validate(types.Network) error {
	if b.staking == nil {
		return types.NewValidationError("no staking information set")
	}
	return b.staking.validate()
}

func (b *StakingLockBuilder) encode(n types.Network, _ buildContext) (*payloadFields, error) {
	call, err := b.staking.build(n)
	if err != nil {
		return nil, err
	}
	return stakingFields(call), nil
}

func (b *StakingLockBuilder) load(n types.Network, tx *types.TxData) (func(), error) {
	if err := payload.DecodeLock(n, tx.Data); err != nil {
		return nil, err
	}
	if err := checkTarget(n, types.StakingOperationLock, tx); err != nil {
		return nil, err
	}
	amount := new(big.Int)
	if tx.Value != nil {
		amount.Set(tx.Value)
	}
	return func() {
		b.staking = newStakingBuilder(types.StakingOperationLock, b.touch)
		b.staking.amount = amount
	}, nil
}

func (b *StakingLockBuilder) deployedAddress(buildContext) *common.Address {
	return nil
}

// StakingVoteBuilder builds election calls: votes for a validator group and
// activation of pending votes.
type StakingVoteBuilder struct {
	core
	staking *StakingBuilder
}

// Vote returns the vote sub-builder. It replaces a pending activate operation.
func (b *StakingVoteBuilder) Vote() *StakingBuilder {
	return b.operation(types.StakingOperationVote)
}

// Activate returns the activate sub-builder. It replaces a pending vote operation.
func (b *StakingVoteBuilder) Activate() *StakingBuilder {
	return b.operation(types.StakingOperationActivate)
}

func (b *StakingVoteBuilder) operation(op types.StakingOperation) *StakingBuilder {
	if b.staking == nil || b.staking.op != op {
		b.staking = newStakingBuilder(op, b.touch)
		b.touch()
	}
	return b.staking
}

func (b *StakingVoteBuilder) validate(types.Network) error {
	if b.staking == nil {
		return types.NewValidationError("no staking information set")
	}
	return b.staking.validate()
}

func (b *StakingVoteBuilder) encode(n types.Network, _ buildContext) (*payloadFields, error) {
	call, err := b.staking.build(n)
	if err != nil {
		return nil, err
	}
	return stakingFields(call), nil
}

func (b *StakingVoteBuilder) load(n types.Network, tx *types.TxData) (func(), error) {
	m, err := b.factory.classifier.Match(tx.Data)
	if err != nil {
		return nil, err
	}
	if m.Type != types.StakingVote {
		return nil, types.NewParseError("invalid staking bytecode: %s is not a vote or activate call", m.Name)
	}
	if tx.Value != nil && tx.Value.Sign() != 0 {
		return nil, types.NewParseError("%s call cannot transfer value", m.Staking)
	}
	if err := checkTarget(n, m.Staking, tx); err != nil {
		return nil, err
	}

	next := newStakingBuilder(m.Staking, b.touch)
	switch m.Staking {
	case types.StakingOperationVote:
		v, err := payload.DecodeVote(n, tx.Data)
		if err != nil {
			return nil, err
		}
		next.group = &v.Group
		next.amount = v.Amount
		next.lesser = v.Lesser
		next.greater = v.Greater
	case types.StakingOperationActivate:
		group, err := payload.DecodeActivate(n, tx.Data)
		if err != nil {
			return nil, err
		}
		next.group = &group
	}
	return func() { b.staking = next }, nil
}

func (b *StakingVoteBuilder) deployedAddress(buildContext) *common.Address {
	return nil
}
