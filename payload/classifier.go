package payload

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// Match is a registered payload prefix and the intent it stands for.
type Match struct {
	Name   string
	Prefix []byte
	Type   types.TransactionType

	// Staking is set for staking calls.
	Staking types.StakingOperation
}

// Classifier maps call data to a transaction type by its leading bytes.
type Classifier struct {
	matches []Match
}

// NewClassifier registers the payload prefixes of n. It fails when one prefix is a
// prefix of another, since classification would then depend on registration order.
func NewClassifier(n types.Network) (*Classifier, error) {
	c := &Classifier{}
	c.add(Match{Name: "wallet", Prefix: n.WalletBytecode, Type: types.WalletInitialization})
	c.add(Match{Name: n.SendMultiSigMethod.Method, Prefix: Selector(n.SendMultiSigMethod.Method), Type: types.Send})
	c.add(Match{Name: n.ForwarderMethod, Prefix: Selector(n.ForwarderMethod), Type: types.AddressInitialization})

	ops := make([]string, 0, len(n.Staking))
	for op := range n.Staking {
		ops = append(ops, string(op))
	}
	sort.Strings(ops)
	for _, name := range ops {
		op := types.StakingOperation(name)
		typ := types.StakingVote
		if op == types.StakingOperationLock {
			typ = types.StakingLock
		}
		m := n.Staking[op]
		c.add(Match{Name: m.Method, Prefix: Selector(m.Method), Type: typ, Staking: op})
	}

	for i, a := range c.matches {
		if len(a.Prefix) == 0 {
			return nil, types.NewValidationError("%s: empty payload prefix for %s", n.Name, a.Name)
		}
		for _, b := range c.matches[i+1:] {
			if bytes.HasPrefix(a.Prefix, b.Prefix) || bytes.HasPrefix(b.Prefix, a.Prefix) {
				return nil, types.NewValidationError("%s: ambiguous payload prefixes for %s (0x%x) and %s (0x%x)",
					n.Name, a.Name, a.Prefix, b.Name, b.Prefix)
			}
		}
	}
	return c, nil
}

func (c *Classifier) add(m Match) {
	c.matches = append(c.matches, m)
}

// Match returns the registered entry whose prefix data starts with.
func (c *Classifier) Match(data []byte) (Match, error) {
	if len(data) == 0 {
		return Match{}, types.NewParseError("empty transaction payload cannot be classified")
	}
	for _, m := range c.matches {
		if bytes.HasPrefix(data, m.Prefix) {
			return m, nil
		}
	}
	return Match{}, types.NewParseError("unrecognized payload prefix %s", prefixHex(data))
}

// Classify returns the transaction type data stands for.
func (c *Classifier) Classify(data []byte) (types.TransactionType, error) {
	m, err := c.Match(data)
	if err != nil {
		return 0, err
	}
	return m.Type, nil
}

// Matches returns a copy of the registered entries.
func (c *Classifier) Matches() []Match {
	out := make([]Match, len(c.matches))
	copy(out, c.matches)
	return out
}

func prefixHex(data []byte) string {
	if len(data) > SelectorLength {
		data = data[:SelectorLength]
	}
	return fmt.Sprintf("0x%x", data)
}
