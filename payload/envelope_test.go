package payload_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/payload"
	"dbftcore/types"
	"dbftcore/wire"
)

func TestConsensusPayloadRoundTrip(t *testing.T) {
	p := &payload.ConsensusPayload{
		Version:        0,
		PrevHash:       types.SumHash256([]byte("prev")),
		BlockIndex:     7,
		ValidatorIndex: 2,
		Message: &payload.PrepareResponse{
			ViewNumber:      1,
			PreparationHash: types.SumHash256([]byte("prep")),
		},
		Witness: &types.Witness{Script: []byte{0x01, 0x02}, Signature: bytes.Repeat([]byte{0xcd}, payload.SignatureSize)},
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	p.Encode(w)
	require.NoError(t, w.Err())

	r := wire.NewReader(&buf)
	got := payload.DecodePayload(r)
	require.NoError(t, r.Err())

	require.Equal(t, p.Version, got.Version)
	require.Equal(t, p.PrevHash.String(), got.PrevHash.String())
	require.Equal(t, p.BlockIndex, got.BlockIndex)
	require.Equal(t, p.ValidatorIndex, got.ValidatorIndex)
	require.IsType(t, &payload.PrepareResponse{}, got.Message)
	require.Equal(t, p.Witness.Script, got.Witness.Script)
	require.Equal(t, p.Witness.Signature, got.Witness.Signature)
}

func TestConsensusPayloadWithoutWitness(t *testing.T) {
	p := &payload.ConsensusPayload{
		Version:        0,
		PrevHash:       types.SumHash256([]byte("prev")),
		BlockIndex:     1,
		ValidatorIndex: 0,
		Message:        &payload.RecoveryRequest{ViewNumber: 0, Timestamp: 1},
		Witness:        nil,
	}

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	p.Encode(w)

	r := wire.NewReader(&buf)
	got := payload.DecodePayload(r)
	require.NoError(t, r.Err())
	require.Nil(t, got.Witness)
}

// Hash must be stable across calls and change with the signature payload.
func TestConsensusPayloadHashIsStableAndSensitiveToContent(t *testing.T) {
	base := func(ts uint64) *payload.ConsensusPayload {
		return &payload.ConsensusPayload{
			Version:        0,
			PrevHash:       types.SumHash256([]byte("prev")),
			BlockIndex:     1,
			ValidatorIndex: 0,
			Message:        &payload.ChangeView{ViewNumber: 0, NewViewNumber: 1, Timestamp: ts},
		}
	}

	p1 := base(100)
	h1a := p1.Hash()
	h1b := p1.Hash()
	require.Equal(t, h1a.String(), h1b.String())

	p2 := base(200)
	require.NotEqual(t, p1.Hash().String(), p2.Hash().String())
}
