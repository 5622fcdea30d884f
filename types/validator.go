// fork from github.com/tendermint/tendermint/types/validator.go
package types

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// PublicKey is a validator's BLS identity, opaque to this package. It is
// implemented by crypto/bls.PublicKey; kept as bytes here so types has no
// dependency on the signing package (mirrors how the teacher keeps
// tendermint's crypto.PubKey interface at the types layer).
type PublicKey interface {
	Bytes() []byte
	Equals(other PublicKey) bool
	fmt.Stringer
}

// Validator is one member of the N-sized committee for a height (§3).
type Validator struct {
	Address Address   `json:"address"`
	PubKey  PublicKey `json:"pub_key"`
}

// NewValidator builds a Validator from a public key, deriving its address.
func NewValidator(pubKey PublicKey) *Validator {
	return &Validator{
		Address: Address(SumHash256(pubKey.Bytes())[:20]),
		PubKey:  pubKey,
	}
}

func (v *Validator) ValidateBasic() error {
	if v == nil {
		return errors.New("nil validator")
	}
	if v.PubKey == nil {
		return errors.New("validator does not have a public key")
	}
	if len(v.Address) == 0 {
		return errors.New("validator has no address")
	}
	return nil
}

// Copy returns a shallow copy; the public key is immutable so sharing it is safe.
func (v *Validator) Copy() *Validator {
	vCopy := *v
	return &vCopy
}

func (v *Validator) String() string {
	if v == nil {
		return "nil-Validator"
	}
	return fmt.Sprintf("Validator{%v %v}", v.Address, v.PubKey)
}

// Bytes is the canonical encoding hashed into the validator-set Merkle root.
func (v *Validator) Bytes() []byte {
	pk, err := json.Marshal(v.PubKey.Bytes())
	if err != nil {
		panic(err)
	}
	return pk
}
