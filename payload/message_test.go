package payload_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/payload"
	"dbftcore/types"
	"dbftcore/wire"
)

func roundTrip(t *testing.T, msg payload.ConsensusMessage) payload.ConsensusMessage {
	t.Helper()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	msg.Encode(w)
	require.NoError(t, w.Err())

	got := newBlank(t, msg.Type())
	r := wire.NewReader(&buf)
	got.Decode(r)
	require.NoError(t, r.Err())
	return got
}

func newBlank(t *testing.T, typ payload.MessageType) payload.ConsensusMessage {
	t.Helper()
	switch typ {
	case payload.MessageChangeView:
		return &payload.ChangeView{}
	case payload.MessagePrepareRequest:
		return &payload.PrepareRequest{}
	case payload.MessagePrepareResponse:
		return &payload.PrepareResponse{}
	case payload.MessageCommit:
		return &payload.Commit{}
	case payload.MessageRecoveryRequest:
		return &payload.RecoveryRequest{}
	default:
		t.Fatalf("unexpected message type %d", typ)
		return nil
	}
}

func TestChangeViewRoundTrip(t *testing.T) {
	want := &payload.ChangeView{ViewNumber: 2, NewViewNumber: 3, Timestamp: 12345, Reason: payload.CVTxRejectedByPolicy}
	got := roundTrip(t, want).(*payload.ChangeView)
	require.Equal(t, want, got)
}

func TestPrepareRequestRoundTrip(t *testing.T) {
	want := &payload.PrepareRequest{
		ViewNumber: 1,
		Timestamp:  99,
		Nonce:      0xabcdef,
		TransactionHashes: []types.Hash256{
			types.SumHash256([]byte("a")),
			types.SumHash256([]byte("b")),
		},
	}
	got := roundTrip(t, want).(*payload.PrepareRequest)
	require.Equal(t, want.ViewNumber, got.ViewNumber)
	require.Equal(t, want.Timestamp, got.Timestamp)
	require.Equal(t, want.Nonce, got.Nonce)
	require.Len(t, got.TransactionHashes, 2)
	require.Equal(t, want.TransactionHashes[0].String(), got.TransactionHashes[0].String())
}

func TestPrepareRequestEmptyHashes(t *testing.T) {
	want := &payload.PrepareRequest{ViewNumber: 0, Timestamp: 1, Nonce: 2}
	got := roundTrip(t, want).(*payload.PrepareRequest)
	require.Empty(t, got.TransactionHashes)
}

func TestPrepareResponseRoundTrip(t *testing.T) {
	want := &payload.PrepareResponse{ViewNumber: 4, PreparationHash: types.SumHash256([]byte("hash"))}
	got := roundTrip(t, want).(*payload.PrepareResponse)
	require.Equal(t, want.ViewNumber, got.ViewNumber)
	require.Equal(t, want.PreparationHash.String(), got.PreparationHash.String())
}

func TestCommitRoundTrip(t *testing.T) {
	sig := bytes.Repeat([]byte{0xab}, payload.SignatureSize)
	want := &payload.Commit{ViewNumber: 3, Signature: sig}
	got := roundTrip(t, want).(*payload.Commit)
	require.Equal(t, want.ViewNumber, got.ViewNumber)
	require.Equal(t, sig, got.Signature)
}

func TestRecoveryRequestRoundTrip(t *testing.T) {
	want := &payload.RecoveryRequest{ViewNumber: 5, Timestamp: 555}
	got := roundTrip(t, want).(*payload.RecoveryRequest)
	require.Equal(t, want, got)
}
