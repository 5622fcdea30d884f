// Package wallet plays the role of chainbft_demo/privval: it is the
// signing collaborator the Context borrows read-only per §5, restructured
// from a single always-signing PrivValidator into the wallet contract
// §6 describes (GetAccount/HasKey/GetKey/Sign over possibly many
// accounts, most of which are watch-only).
package wallet

import (
	"dbftcore/crypto/bls"
	"dbftcore/types"
)

// KeyPair is the signing material for one validator identity.
type KeyPair struct {
	Private bls.PrivateKey
	Public  bls.PublicKey
}

// Account is one entry in a Wallet: a public key, optionally paired with
// the private key needed to sign as it.
type Account interface {
	PublicKey() types.PublicKey
	HasKey() bool
	GetKey() (KeyPair, error)
}

// Wallet is the collaborator contract §6 describes. A node's wallet may
// hold zero, one, or several accounts; Reset(0) scans validators for the
// first one this wallet can sign as (§4.5).
type Wallet interface {
	// GetAccount returns the account for pub, or (nil, false) if the
	// wallet does not know that key — the watch-only case.
	GetAccount(pub types.PublicKey) (Account, bool)
	// Sign produces a signature over payload using account's key.
	// Returns an error if account has no private key or the underlying
	// key store rejects the operation; the caller (Message Factory)
	// converts that into an unsigned payload rather than propagating it
	// (§4.3, §7).
	Sign(account Account, payload []byte) ([]byte, error)
}

// ErrNoKey is returned by Sign when the account cannot sign, e.g. a
// watch-only account or one whose key failed to load.
type ErrNoKey struct{ Address types.Address }

func (e ErrNoKey) Error() string {
	return "wallet: no signing key for account " + e.Address.String()
}
