// fork from chainbft_demo/privval/file.go
package wallet

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/tempfile"

	"dbftcore/crypto/bls"
	"dbftcore/types"
)

// fileAccountKey is the on-disk shape of one account, mirroring
// FilePVKey's Address/PubKey/PrivKey trio.
type fileAccountKey struct {
	Address types.Address `json:"address"`
	PubKey  []byte        `json:"pub_key"`
	PrivKey []byte        `json:"priv_key,omitempty"`

	pub  bls.PublicKey
	priv *bls.PrivateKey
}

// FileAccount is a Wallet account backed by a JSON key file. Watch-only
// accounts have PrivKey unset and priv == nil.
type FileAccount struct {
	key fileAccountKey
}

func (a *FileAccount) PublicKey() types.PublicKey { return a.key.pub }
func (a *FileAccount) Address() types.Address     { return a.key.Address }
func (a *FileAccount) HasKey() bool               { return a.key.priv != nil }
func (a *FileAccount) GetKey() (KeyPair, error) {
	if a.key.priv == nil {
		return KeyPair{}, ErrNoKey{Address: a.key.Address}
	}
	return KeyPair{Private: *a.key.priv, Public: a.key.pub}, nil
}

// FileWallet holds every account a node knows about, indexed by address,
// loaded from one JSON file listing all accounts (LoadFileWallet,
// LoadWatchOnlySet).
type FileWallet struct {
	accounts map[string]*FileAccount
}

// NewFileWallet returns an empty wallet; use AddAccount/GenAccount to
// populate it.
func NewFileWallet() *FileWallet {
	return &FileWallet{accounts: make(map[string]*FileAccount)}
}

func (w *FileWallet) GetAccount(pub types.PublicKey) (Account, bool) {
	for _, a := range w.accounts {
		if a.key.pub.Equals(pub) {
			return a, true
		}
	}
	return nil, false
}

func (w *FileWallet) Sign(account Account, payload []byte) ([]byte, error) {
	kp, err := account.GetKey()
	if err != nil {
		return nil, err
	}
	return kp.Private.Sign(payload)
}

// AddAccount registers a signing account.
func (w *FileWallet) AddAccount(priv bls.PrivateKey) *FileAccount {
	pub := priv.PubKey()
	addr := types.Address(types.SumHash256(pub.Bytes())[:20])
	acc := &FileAccount{key: fileAccountKey{
		Address: addr,
		pub:     pub,
		priv:    &priv,
	}}
	w.accounts[addr.String()] = acc
	return acc
}

// AddWatchOnly registers an account this wallet can observe but never
// sign for.
func (w *FileWallet) AddWatchOnly(pub bls.PublicKey) *FileAccount {
	addr := types.Address(types.SumHash256(pub.Bytes())[:20])
	acc := &FileAccount{key: fileAccountKey{Address: addr, pub: pub}}
	w.accounts[addr.String()] = acc
	return acc
}

// Accounts returns every account this wallet holds, signing or
// watch-only, in no particular order.
func (w *FileWallet) Accounts() []*FileAccount {
	out := make([]*FileAccount, 0, len(w.accounts))
	for _, a := range w.accounts {
		out = append(out, a)
	}
	return out
}

// GenAccount generates a fresh signing account and adds it to the wallet.
func (w *FileWallet) GenAccount() *FileAccount {
	return w.AddAccount(bls.GenPrivKey())
}

// Save persists the address and public key of every account in this
// wallet, signing or watch-only, to path as JSON, using an atomic write
// the way FilePVKey.Save does. No private key material is written.
func (w *FileWallet) Save(path string) error {
	type entry struct {
		Address types.Address `json:"address"`
		PubKey  []byte        `json:"pub_key"`
	}
	out := make([]entry, 0, len(w.accounts))
	for _, a := range w.accounts {
		out = append(out, entry{Address: a.key.Address, PubKey: a.key.pub.Bytes()})
	}
	bz, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal wallet")
	}
	return tempfile.WriteFileAtomic(path, bz, 0600)
}

// SaveKeys persists every signing account's private key material to
// path, the file format a node's own dbft-tool gen-validator writes and
// LoadFileWallet reads back — distinct from Save's watch-only export,
// which is safe to hand to peers.
func (w *FileWallet) SaveKeys(path string) error {
	type entry struct {
		Address types.Address `json:"address"`
		PubKey  []byte        `json:"pub_key"`
		PrivKey []byte        `json:"priv_key,omitempty"`
	}
	out := make([]entry, 0, len(w.accounts))
	for _, a := range w.accounts {
		e := entry{Address: a.key.Address, PubKey: a.key.pub.Bytes()}
		if a.key.priv != nil {
			e.PrivKey, _ = a.key.priv.Scalar().MarshalBinary()
		}
		out = append(out, e)
	}
	bz, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal wallet")
	}
	return tempfile.WriteFileAtomic(path, bz, 0600)
}

// LoadFileWallet loads a wallet previously written by SaveKeys, including
// any private key material it carries. An absent file yields an empty
// wallet, matching LoadWatchOnlySet's first-run behavior.
func LoadFileWallet(path string) (*FileWallet, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFileWallet(), nil
		}
		return nil, errors.Wrap(err, "read wallet file")
	}
	type entry struct {
		PubKey  []byte `json:"pub_key"`
		PrivKey []byte `json:"priv_key,omitempty"`
	}
	var entries []entry
	if err := json.Unmarshal(bz, &entries); err != nil {
		return nil, errors.Wrap(err, "unmarshal wallet file")
	}
	w := NewFileWallet()
	for _, e := range entries {
		if len(e.PrivKey) == 0 {
			pub, err := bls.PublicKeyFromBytes(e.PubKey)
			if err != nil {
				return nil, errors.Wrap(err, "decode watch-only public key")
			}
			w.AddWatchOnly(pub)
			continue
		}
		scalar := bls.Suite().G2().Scalar()
		if err := scalar.UnmarshalBinary(e.PrivKey); err != nil {
			return nil, errors.Wrap(err, "decode private key")
		}
		w.AddAccount(bls.PrivateKeyFromScalar(scalar))
	}
	return w, nil
}

// LoadWatchOnlySet loads a set of public keys (no private material) from
// path, e.g. a validator-set snapshot every node ships alongside genesis.
func LoadWatchOnlySet(path string) (*FileWallet, error) {
	bz, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFileWallet(), nil
		}
		return nil, errors.Wrap(err, "read wallet file")
	}
	type entry struct {
		PubKey []byte `json:"pub_key"`
	}
	var entries []entry
	if err := json.Unmarshal(bz, &entries); err != nil {
		return nil, errors.Wrap(err, "unmarshal wallet file")
	}
	w := NewFileWallet()
	for _, e := range entries {
		pub, err := bls.PublicKeyFromBytes(e.PubKey)
		if err != nil {
			return nil, errors.Wrap(err, "decode watch-only public key")
		}
		w.AddWatchOnly(pub)
	}
	return w, nil
}
