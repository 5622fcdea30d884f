// fork from github.com/tendermint/tendermint/types/validator_set.go
package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"dbftcore/wire"
)

// ValidatorSet is the fixed, ordered committee for a height (§3: N = len,
// F = (N-1)/3, M = N-F). Order is significant: it is the order primary
// rotation and payload-slot indexing are defined over.
//
// NOTE: not goroutine-safe. The Context that embeds one is single-actor
// owned per §5.
type ValidatorSet struct {
	Validators []*Validator `json:"validators"`
}

// NewValidatorSet copies valz into a new set. A nil/empty valz yields an
// empty set, not a nil one.
func NewValidatorSet(valz []*Validator) *ValidatorSet {
	vals := &ValidatorSet{Validators: make([]*Validator, 0, len(valz))}
	vals.Validators = append(vals.Validators, valz...)
	return vals
}

func (vals *ValidatorSet) ValidateBasic() error {
	if vals.IsNilOrEmpty() {
		return errors.New("validator set is nil or empty")
	}
	for idx, val := range vals.Validators {
		if err := val.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid validator #%d: %w", idx, err)
		}
	}
	return nil
}

func (vals *ValidatorSet) IsNilOrEmpty() bool {
	return vals == nil || len(vals.Validators) == 0
}

func (vals *ValidatorSet) Copy() *ValidatorSet {
	cp := make([]*Validator, len(vals.Validators))
	for i, val := range vals.Validators {
		cp[i] = val.Copy()
	}
	return &ValidatorSet{Validators: cp}
}

// HasAddress reports whether address belongs to a member of the set.
func (vals *ValidatorSet) HasAddress(address Address) bool {
	idx, _ := vals.GetByAddress(address)
	return idx >= 0
}

// GetByAddress returns the index and a copy of the validator owning
// address, or (-1, nil) if none matches. Reset(0) does not use it: it
// locates my_index by walking Iterate and asking the wallet for each
// member's public key (§4.5).
func (vals *ValidatorSet) GetByAddress(address Address) (index int, val *Validator) {
	for idx, v := range vals.Validators {
		if bytes.Equal(v.Address, address) {
			return idx, v.Copy()
		}
	}
	return -1, nil
}

// GetByIndex returns the validator at index, or nil if out of range.
func (vals *ValidatorSet) GetByIndex(index int) *Validator {
	if index < 0 || index >= len(vals.Validators) {
		return nil
	}
	return vals.Validators[index].Copy()
}

// Size is N, the committee size for the height.
func (vals *ValidatorSet) Size() int {
	return len(vals.Validators)
}

// F is the maximum number of Byzantine faults tolerated: (N-1)/3.
func (vals *ValidatorSet) F() int {
	return (vals.Size() - 1) / 3
}

// M is the honest quorum size: N-F (>= 2F+1).
func (vals *ValidatorSet) M() int {
	return vals.Size() - vals.F()
}

// Hash is the Merkle root over validator bytes, used to derive the
// next-consensus multisig address for a height.
func (vals *ValidatorSet) Hash() Hash256 {
	bzs := make([][]byte, len(vals.Validators))
	for i, val := range vals.Validators {
		bzs[i] = val.Bytes()
	}
	return MerkleRoot(bzs)
}

// Script is the M-of-N verification script this committee's block
// witness must be checked against: the quorum size, the committee size,
// and every member's public key, in committee order. A verifier recomputes
// this independently from the ValidatorSet it already trusts; it is never
// taken on faith from the witness itself.
func (vals *ValidatorSet) Script() []byte {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteU16(uint16(vals.M()))
	w.WriteU16(uint16(vals.Size()))
	for _, val := range vals.Validators {
		w.WriteVarBytes(val.PubKey.Bytes())
	}
	return buf.Bytes()
}

func (vals *ValidatorSet) Iterate(fn func(index int, val *Validator) bool) {
	for i, val := range vals.Validators {
		if fn(i, val.Copy()) {
			break
		}
	}
}

func (vals *ValidatorSet) String() string { return vals.StringIndented("") }

func (vals *ValidatorSet) StringIndented(indent string) string {
	if vals == nil {
		return "nil-ValidatorSet"
	}
	var valStrings []string
	vals.Iterate(func(index int, val *Validator) bool {
		valStrings = append(valStrings, val.String())
		return false
	})
	return fmt.Sprintf("ValidatorSet{\n%s  Validators:\n%s    %v\n%s}",
		indent, indent, strings.Join(valStrings, "\n"+indent+"    "), indent)
}
