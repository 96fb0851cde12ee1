package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Uint64 is a counter such as a nonce or chain id. It marshals as a JSON number and
// unmarshals from a number or a quoted decimal string.
type Uint64 uint64

func (u *Uint64) UnmarshalJSON(input []byte) error {
	s := string(input)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(input, &s); err != nil {
			return err
		}
	}
	v, ok := math.ParseUint64(s)
	if s == "" || !ok {
		return fmt.Errorf("invalid unsigned integer %s", input)
	}
	*u = Uint64(v)
	return nil
}

// ToJSON renders d in the interchange form: decimal strings for amounts, lower case
// addresses and 0x hex for call data and signature parts.
func (d *TxData) ToJSON() TxJSON {
	out := TxJSON{
		Nonce:    Uint64(d.Nonce),
		GasPrice: bigString(d.GasPrice),
		GasLimit: new(big.Int).SetUint64(d.GasLimit).String(),
		Value:    bigString(d.Value),
		Data:     hexutil.Encode(d.Data),
	}
	if d.ChainID != nil {
		out.ChainID = Uint64(d.ChainID.Uint64())
	}
	if d.To != nil {
		out.To = lowerHex(*d.To)
	}
	if d.Signature != nil {
		out.V = hexutil.EncodeBig(d.Signature.V)
		out.R = hexutil.EncodeBig(d.Signature.R)
		out.S = hexutil.EncodeBig(d.Signature.S)
	}
	if d.From != nil {
		out.From = lowerHex(*d.From)
	}
	if d.DeployedAddress != nil {
		out.DeployedAddress = lowerHex(*d.DeployedAddress)
	}
	return out
}

// ParseTxJSON decodes and validates the interchange form.
func ParseTxJSON(raw []byte) (*TxData, error) {
	var j TxJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, WrapError(ErrParse, err, "there was an error parsing the JSON string")
	}
	return j.TxData()
}

// TxData validates j and converts it to the structured form. From is carried over
// as given; callers that need an authoritative sender recover it from the signature.
func (j TxJSON) TxData() (*TxData, error) {
	if err := validate.Struct(&j); err != nil {
		return nil, WrapError(ErrParse, err, "invalid transaction JSON")
	}

	d := &TxData{
		Nonce:   uint64(j.Nonce),
		ChainID: new(big.Int).SetUint64(uint64(j.ChainID)),
		Value:   new(big.Int),
	}

	var ok bool
	if d.GasPrice, ok = new(big.Int).SetString(j.GasPrice, 10); !ok {
		return nil, NewParseError("invalid gasPrice %q", j.GasPrice)
	}
	gasLimit, ok := new(big.Int).SetString(j.GasLimit, 10)
	if !ok || !gasLimit.IsUint64() {
		return nil, NewParseError("invalid gasLimit %q", j.GasLimit)
	}
	d.GasLimit = gasLimit.Uint64()
	if j.Value != "" {
		if d.Value, ok = new(big.Int).SetString(j.Value, 10); !ok {
			return nil, NewParseError("invalid value %q", j.Value)
		}
	}

	if j.Data != "" && j.Data != "0x" {
		data, err := hexutil.Decode(j.Data)
		if err != nil {
			return nil, WrapError(ErrParse, err, "invalid data")
		}
		d.Data = data
	} else {
		d.Data = []byte{}
	}

	d.To = optionalAddress(j.To)
	d.From = optionalAddress(j.From)
	d.DeployedAddress = optionalAddress(j.DeployedAddress)

	if j.V != "" {
		sig := &SignatureParts{}
		var err error
		if sig.V, err = hexutil.DecodeBig(j.V); err != nil {
			return nil, WrapError(ErrParse, err, "invalid signature v")
		}
		if sig.R, err = hexutil.DecodeBig(j.R); err != nil {
			return nil, WrapError(ErrParse, err, "invalid signature r")
		}
		if sig.S, err = hexutil.DecodeBig(j.S); err != nil {
			return nil, WrapError(ErrParse, err, "invalid signature s")
		}
		switch {
		case sig.R.Sign() != 0 && sig.S.Sign() != 0:
			d.Signature = sig
		case sig.R.Sign() != 0 || sig.S.Sign() != 0:
			return nil, NewParseError("incomplete signature: r and s must both be set")
		}
	}
	return d, nil
}

func optionalAddress(s string) *common.Address {
	if s == "" {
		return nil
	}
	a := common.HexToAddress(s)
	return &a
}

func lowerHex(a common.Address) string {
	return strings.ToLower(a.Hex())
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
