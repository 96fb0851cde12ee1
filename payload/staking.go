package payload

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// Vote is a validator group election vote. Lesser and Greater are the neighbours of
// Group in the sorted group list after the vote is applied.
type Vote struct {
	Group   common.Address
	Amount  *big.Int
	Lesser  common.Address
	Greater common.Address
}

func stakingMethod(n types.Network, op types.StakingOperation) (types.ContractMethod, error) {
	m, ok := n.Staking[op]
	if !ok {
		return types.ContractMethod{}, types.NewUnsupportedError("staking %s is not supported on %s", op, n.Name)
	}
	return m, nil
}

// EncodeLock returns the call locking amount of native coin.
func EncodeLock(n types.Network, amount *big.Int) (*types.StakingCall, error) {
	m, err := stakingMethod(n, types.StakingOperationLock)
	if err != nil {
		return nil, err
	}
	data, err := pack(Selector(m.Method), m.ArgumentTypes)
	if err != nil {
		return nil, err
	}
	return &types.StakingCall{
		Amount:                new(big.Int).Set(bigOrZero(amount)),
		TargetContractAddress: m.ContractAddress,
		EncodedPayload:        data,
	}, nil
}

// DecodeLock checks that data is exactly a lock call.
func DecodeLock(n types.Network, data []byte) error {
	m, err := stakingMethod(n, types.StakingOperationLock)
	if err != nil {
		return err
	}
	_, err = unpack(Selector(m.Method), m.ArgumentTypes, data)
	return err
}

// EncodeVote returns the election call for v. Argument order is group, amount, lesser,
// greater.
func EncodeVote(n types.Network, v Vote) (*types.StakingCall, error) {
	m, err := stakingMethod(n, types.StakingOperationVote)
	if err != nil {
		return nil, err
	}
	data, err := pack(Selector(m.Method), m.ArgumentTypes, v.Group, bigOrZero(v.Amount), v.Lesser, v.Greater)
	if err != nil {
		return nil, err
	}
	return &types.StakingCall{
		Amount:                new(big.Int),
		TargetContractAddress: m.ContractAddress,
		EncodedPayload:        data,
	}, nil
}

// DecodeVote recovers a vote from election call data.
func DecodeVote(n types.Network, data []byte) (*Vote, error) {
	m, err := stakingMethod(n, types.StakingOperationVote)
	if err != nil {
		return nil, err
	}
	values, err := unpack(Selector(m.Method), m.ArgumentTypes, data)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, types.NewParseError("vote takes 4 arguments, decoded %d", len(values))
	}
	group, ok1 := values[0].(common.Address)
	amount, ok2 := values[1].(*big.Int)
	lesser, ok3 := values[2].(common.Address)
	greater, ok4 := values[3].(common.Address)
	if !(ok1 && ok2 && ok3 && ok4) {
		return nil, types.NewParseError("unexpected vote argument types")
	}
	return &Vote{Group: group, Amount: amount, Lesser: lesser, Greater: greater}, nil
}

// EncodeActivate returns the election call activating pending votes for group.
func EncodeActivate(n types.Network, group common.Address) (*types.StakingCall, error) {
	m, err := stakingMethod(n, types.StakingOperationActivate)
	if err != nil {
		return nil, err
	}
	data, err := pack(Selector(m.Method), m.ArgumentTypes, group)
	if err != nil {
		return nil, err
	}
	return &types.StakingCall{
		Amount:                new(big.Int),
		TargetContractAddress: m.ContractAddress,
		EncodedPayload:        data,
	}, nil
}

// DecodeActivate recovers the validator group from activate call data.
func DecodeActivate(n types.Network, data []byte) (common.Address, error) {
	m, err := stakingMethod(n, types.StakingOperationActivate)
	if err != nil {
		return common.Address{}, err
	}
	values, err := unpack(Selector(m.Method), m.ArgumentTypes, data)
	if err != nil {
		return common.Address{}, err
	}
	if len(values) != 1 {
		return common.Address{}, types.NewParseError("activate takes 1 argument, decoded %d", len(values))
	}
	group, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, types.NewParseError("unexpected activate argument type %T", values[0])
	}
	return group, nil
}
