// Package bls wraps go.dedis.ch/kyber/v3's BLS signature scheme for
// per-validator identity keys and the aggregate signatures a block
// witness combines them into (§4.4). It plays the role chainbft_demo's
// (unretrieved) crypto/bls package plays for privval/file.go: a thin,
// deterministic-suite wrapper so the rest of the module never imports
// kyber directly.
package bls

import (
	"crypto/cipher"

	"github.com/pkg/errors"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing/bn256"
	"go.dedis.ch/kyber/v3/sign/bls"
	kyberutil "go.dedis.ch/kyber/v3/util/random"

	"dbftcore/types"
)

// suite is the pairing group every key and signature in this module is
// drawn from. It is package-global because two keys from different
// suites can never be aggregated or verified against each other.
var suite = bn256.NewSuite()

// Suite exposes the shared pairing suite to wallet, which needs it to
// decode a private key's raw scalar bytes back into a signing key.
func Suite() *bn256.Suite { return suite }

// PublicKey is a validator's BLS public key.
type PublicKey struct {
	point kyber.Point
}

func (pk PublicKey) Bytes() []byte {
	b, err := pk.point.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

func (pk PublicKey) Equals(other types.PublicKey) bool {
	if other == nil {
		return false
	}
	a, b := pk.Bytes(), other.Bytes()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (pk PublicKey) String() string {
	return "bls:" + kyberHex(pk.Bytes())
}

// PublicKeyFromBytes decodes a public key previously produced by
// PublicKey.Bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	p := suite.G2().Point()
	if err := p.UnmarshalBinary(b); err != nil {
		return PublicKey{}, errors.Wrap(err, "unmarshal bls public key")
	}
	return PublicKey{point: p}, nil
}

// PrivateKey is a validator's BLS private scalar.
type PrivateKey struct {
	scalar kyber.Scalar
	pub    PublicKey
}

// GenPrivKey draws a fresh keypair from the suite's default random source.
// The spec's random source for the block nonce is explicitly
// non-cryptographic (§5, §9); key generation is not that source and still
// uses a proper CSPRNG.
func GenPrivKey() PrivateKey {
	return GenPrivKeyWithReader(kyberutil.New())
}

// GenPrivKeyWithReader draws a keypair from an injected randomness
// source, mirroring the teacher's GenPrivKeyWithSeed hook used to make
// cluster key generation deterministic in tests.
func GenPrivKeyWithReader(r cipher.Stream) PrivateKey {
	scalar, point := bls.NewKeyPair(suite, r)
	return PrivateKey{scalar: scalar, pub: PublicKey{point: point}}
}

// PrivateKeyFromScalar wraps a scalar produced elsewhere (e.g. a
// threshold share) as a signing key.
func PrivateKeyFromScalar(s kyber.Scalar) PrivateKey {
	return PrivateKey{scalar: s, pub: PublicKey{point: suite.G2().Point().Mul(s, nil)}}
}

func (sk PrivateKey) PubKey() PublicKey { return sk.pub }

func (sk PrivateKey) Scalar() kyber.Scalar { return sk.scalar }

// Sign produces a BLS signature over msg.
func (sk PrivateKey) Sign(msg []byte) ([]byte, error) {
	sig, err := bls.Sign(suite, sk.scalar, msg)
	if err != nil {
		return nil, errors.Wrap(err, "bls sign")
	}
	return sig, nil
}

// Verify checks a BLS signature against a public key.
func Verify(pub PublicKey, msg, sig []byte) error {
	return bls.Verify(suite, pub.point, msg, sig)
}

// AggregateSignatures combines independent BLS signatures over the same
// message into one, used where the block witness aggregates plain
// (non-threshold) signatures.
func AggregateSignatures(sigs ...[]byte) ([]byte, error) {
	agg, err := bls.AggregateSignatures(suite, sigs...)
	if err != nil {
		return nil, errors.Wrap(err, "bls aggregate")
	}
	return agg, nil
}

// AggregatePublicKeys sums independent public keys into the aggregate
// public key an AggregateSignatures output from exactly those signers
// verifies against — the standard BLS pairing property that Verify(sum of
// pubkeys, msg, sum of sigs) holds whenever every signer signed the same
// msg. pubs must each be a bls.PublicKey value from this package.
func AggregatePublicKeys(pubs ...types.PublicKey) (PublicKey, error) {
	if len(pubs) == 0 {
		return PublicKey{}, errors.New("bls: cannot aggregate zero public keys")
	}
	agg := suite.G2().Point().Null()
	for _, p := range pubs {
		bp, ok := p.(PublicKey)
		if !ok {
			return PublicKey{}, errors.Errorf("bls: %T is not a bls public key", p)
		}
		agg = agg.Add(agg, bp.point)
	}
	return PublicKey{point: agg}, nil
}

func kyberHex(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hextable[c>>4]
		out[i*2+1] = hextable[c&0x0f]
	}
	return string(out)
}
