package utils

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

var (
	hexPattern     = regexp.MustCompile(`^(0x)?[0-9a-fA-F]+$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	integerPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateAmount parses a non-negative integer amount in base units. Only plain
// decimal digits are accepted: "1.0" and "1e3" are rejected.
func ValidateAmount(amount string) (*big.Int, error) {
	if amount == "" {
		return nil, types.NewValidationError("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, types.WrapError(types.ErrValidation, err, "invalid amount format %q", amount)
	}

	if dec.IsNegative() {
		return nil, types.NewValidationError("amount cannot be negative: %s", amount)
	}

	if !integerPattern.MatchString(amount) {
		return nil, types.NewValidationError("amount must be an integer number of base units: %s", amount)
	}

	return dec.BigInt(), nil
}

// ValidateUint64 parses a non-negative integer that fits in 64 bits, such as a gas limit.
func ValidateUint64(value string) (uint64, error) {
	v, err := ValidateAmount(value)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, types.NewValidationError("value out of range: %s", value)
	}
	return v.Uint64(), nil
}

// IsHexString reports whether s is hex digits with an optional 0x prefix.
func IsHexString(s string) bool {
	return hexPattern.MatchString(s)
}

// IsValidAddress reports whether s is a 0x-prefixed 20 byte hex address. Mixed case is
// accepted without checksum verification.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ParseAddress validates and converts s.
func ParseAddress(s string) (common.Address, error) {
	if !IsValidAddress(s) {
		return common.Address{}, types.NewValidationError("invalid address: %s", s)
	}
	return common.HexToAddress(s), nil
}

// NormalizeAddress returns the lower case form of a valid address, or "" when s is not
// one.
func NormalizeAddress(s string) string {
	if !IsValidAddress(s) {
		return ""
	}
	return strings.ToLower(s)
}

// FormatAddress renders a as lower case 0x hex.
func FormatAddress(a common.Address) string {
	return strings.ToLower(a.Hex())
}
