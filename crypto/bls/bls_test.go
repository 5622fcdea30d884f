package bls_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/crypto/bls"
)

func TestSignAndVerify(t *testing.T) {
	sk := bls.GenPrivKey()
	msg := []byte("dbft consensus payload")

	sig, err := sk.Sign(msg)
	require.NoError(t, err)
	require.NoError(t, bls.Verify(sk.PubKey(), msg, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk := bls.GenPrivKey()
	other := bls.GenPrivKey()
	msg := []byte("payload")

	sig, err := sk.Sign(msg)
	require.NoError(t, err)
	require.Error(t, bls.Verify(other.PubKey(), msg, sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	sk := bls.GenPrivKey()
	sig, err := sk.Sign([]byte("original"))
	require.NoError(t, err)
	require.Error(t, bls.Verify(sk.PubKey(), []byte("tampered"), sig))
}

func TestPublicKeyBytesRoundTrip(t *testing.T) {
	sk := bls.GenPrivKey()
	got, err := bls.PublicKeyFromBytes(sk.PubKey().Bytes())
	require.NoError(t, err)
	require.True(t, sk.PubKey().Equals(got))
}

func TestAggregateSignaturesCombinesIndependentSigners(t *testing.T) {
	msg := []byte("same message every signer commits to")
	n := 4
	sigs := make([][]byte, n)
	for i := 0; i < n; i++ {
		sk := bls.GenPrivKey()
		sig, err := sk.Sign(msg)
		require.NoError(t, err)
		sigs[i] = sig
	}

	agg, err := bls.AggregateSignatures(sigs...)
	require.NoError(t, err)
	require.NotEmpty(t, agg)
	require.NotEqual(t, sigs[0], agg)
}

func TestEqualsIsFalseForDifferentKeys(t *testing.T) {
	a := bls.GenPrivKey().PubKey()
	b := bls.GenPrivKey().PubKey()
	require.False(t, a.Equals(b))
	require.True(t, a.Equals(a))
}
