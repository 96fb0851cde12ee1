package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		is   func(error) bool
	}{
		{"validation", NewValidationError("bad fee %s", "-1"), ErrValidation, IsValidationError},
		{"parse", NewParseError("bad hex"), ErrParse, IsParseError},
		{"signing", NewSigningError("twice"), ErrSigning, IsSigningError},
		{"unsupported", NewUnsupportedError("no staking on %s", "eth"), ErrUnsupported, IsUnsupportedError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
			assert.True(t, tt.is(tt.err))

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.code, ErrorCode(wrapped))
			assert.True(t, tt.is(wrapped))
		})
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("rlp: too short")
	err := WrapError(ErrParse, cause, "decode %s", "tx")

	assert.Equal(t, "decode tx: rlp: too short", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsParseError(err))
	assert.False(t, IsValidationError(err))
}

func TestErrorCodeOfPlainError(t *testing.T) {
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
	assert.Equal(t, "", ErrorCode(nil))
}

func TestParseTransactionType(t *testing.T) {
	for _, typ := range []TransactionType{Send, WalletInitialization, AddressInitialization, StakingLock, StakingVote} {
		got, err := ParseTransactionType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
		assert.True(t, typ.IsValid())
	}

	_, err := ParseTransactionType("ContractCall")
	require.Error(t, err)
	assert.True(t, IsUnsupportedError(err))

	assert.False(t, TransactionType(42).IsValid())
	assert.Equal(t, "TransactionType(42)", TransactionType(42).String())
}
