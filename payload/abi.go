// Package payload encodes and decodes the contract call data carried by account
// transactions, and classifies call data back into a transaction type.
package payload

import (
	"bytes"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// SelectorLength is the size of a method selector in bytes.
const SelectorLength = 4

// Selector returns the method id of a canonical method signature such as
// "lock()".
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:SelectorLength]
}

// arguments builds an abi argument list from type names.
func arguments(typeNames []string) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(typeNames))
	for _, name := range typeNames {
		t, err := abi.NewType(name, "", nil)
		if err != nil {
			return nil, types.WrapError(types.ErrValidation, err, "invalid abi type %q", name)
		}
		args = append(args, abi.Argument{Type: t})
	}
	return args, nil
}

// methodArgumentTypes extracts the argument type list from a canonical signature.
func methodArgumentTypes(signature string) []string {
	open := strings.IndexByte(signature, '(')
	if open < 0 || !strings.HasSuffix(signature, ")") {
		return nil
	}
	inner := signature[open+1 : len(signature)-1]
	if inner == "" {
		return nil
	}
	return strings.Split(inner, ",")
}

// pack encodes values against typeNames and prepends prefix.
func pack(prefix []byte, typeNames []string, values ...any) ([]byte, error) {
	args, err := arguments(typeNames)
	if err != nil {
		return nil, err
	}
	if len(values) != len(args) {
		return nil, types.NewValidationError("expected %d arguments, got %d", len(args), len(values))
	}
	encoded, err := args.Pack(values...)
	if err != nil {
		return nil, types.WrapError(types.ErrValidation, err, "failed to encode arguments")
	}
	out := make([]byte, 0, len(prefix)+len(encoded))
	out = append(out, prefix...)
	return append(out, encoded...), nil
}

// unpack strips prefix from data and decodes the remainder against typeNames. The
// remainder must be exactly the canonical encoding of the decoded values, so payloads
// with missing or extra arguments are rejected.
func unpack(prefix []byte, typeNames []string, data []byte) ([]any, error) {
	if !bytes.HasPrefix(data, prefix) {
		return nil, types.NewParseError("payload does not start with 0x%x", prefix)
	}
	args, err := arguments(typeNames)
	if err != nil {
		return nil, err
	}
	body := data[len(prefix):]
	if len(args) == 0 {
		if len(body) != 0 {
			return nil, types.NewParseError("unexpected %d argument bytes after 0x%x", len(body), prefix)
		}
		return nil, nil
	}

	values, err := args.Unpack(body)
	if err != nil {
		return nil, types.WrapError(types.ErrParse, err, "failed to decode arguments")
	}
	if len(values) != len(args) {
		return nil, types.NewParseError("expected %d arguments, decoded %d", len(args), len(values))
	}
	canonical, err := args.Pack(values...)
	if err != nil || !bytes.Equal(canonical, body) {
		return nil, types.NewParseError("argument encoding does not match %d arguments of %s", len(args), strings.Join(typeNames, ","))
	}
	return values, nil
}
