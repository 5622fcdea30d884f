// fork from github.com/tendermint/tendermint/types + chainbft_demo/types/address.go
package types

import (
	"bytes"
	"encoding/hex"

	"github.com/tendermint/tendermint/crypto"
)

// Address is a validator or contract address: a byte slice with the same
// shape as tendermint's crypto.Address, but derived here from a BLS public
// key or multisig script hash (wallet.FileAccount, ValidatorSet.Script)
// rather than from an ed25519 crypto.PubKey.
type Address crypto.Address

// Equal reports whether two addresses hold the same bytes. A nil address
// never equals anything, including another nil address, matching the
// zero-means-absent convention used for the block's next-consensus field.
func (a Address) Equal(other Address) bool {
	if a == nil || other == nil {
		return false
	}
	return bytes.Equal(a, other)
}

// IsZero reports whether the address is the all-zero placeholder written to
// the wire when a field is logically null (§4.6).
func (a Address) IsZero() bool {
	if len(a) == 0 {
		return true
	}
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

func (a Address) String() string {
	return hex.EncodeToString(a)
}

func (a Address) Bytes() []byte {
	return []byte(a)
}
