package dbft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/dbft"
	"dbftcore/ledger"
	"dbftcore/store"
	"dbftcore/types"
	"dbftcore/wallet"
)

// committeeContexts builds one independently-owned Context per validator,
// all Reset(0) against the same chain, so a test can drive several
// validators' Make* calls the way separate node processes would.
func committeeContexts(t *testing.T, n int) ([]*dbft.Context, *ledger.MockChain, *types.ValidatorSet) {
	t.Helper()
	vals, privs := buildCommittee(t, n)
	vs := types.NewValidatorSet(vals)
	genesis := &types.Header{Version: 0, Index: 0}
	chain := ledger.NewMockChain(genesis, vs)

	ctxs := make([]*dbft.Context, n)
	for i := 0; i < n; i++ {
		w := wallet.NewFileWallet()
		w.AddAccount(privs[i])
		ctxs[i] = dbft.NewContext(chain, w, store.NewMemStore())
		require.NoError(t, ctxs[i].Reset(0))
		require.EqualValues(t, i, ctxs[i].MyIndex)
	}
	return ctxs, chain, vs
}

// mirrorProposal copies the primary's proposed block fields onto a
// backup's Context, standing in for that backup having received and
// accepted the PrepareRequest (out of scope here, §1).
func mirrorProposal(backup, primary *dbft.Context) {
	backup.Block.ConsensusData = primary.Block.ConsensusData
	backup.Block.Timestamp = primary.Block.Timestamp
	backup.TransactionHashes = primary.TransactionHashes
	backup.Transactions = primary.Transactions
}

func TestCreateBlockProducesVerifiableWitness(t *testing.T) {
	ctxs, _, vs := committeeContexts(t, 4)
	primary := ctxs[1] // PrimaryIndex(v=0) = (1-0) mod 4 = 1
	require.True(t, primary.IsPrimary())
	require.EqualValues(t, 3, primary.M())

	primary.MakePrepareRequest()

	signers := []int{0, 1, 2}
	for _, i := range signers {
		if ctxs[i] != primary {
			mirrorProposal(ctxs[i], primary)
		}
		c := ctxs[i].MakeCommit()
		if ctxs[i] != primary {
			primary.CommitPayloads[i] = c
		}
	}

	block := primary.CreateBlock()
	require.NotNil(t, block.Witness)
	require.ElementsMatch(t, []uint16{0, 1, 2}, block.Witness.Signers)
	require.NoError(t, dbft.VerifyBlockWitness(vs, block))
}

func TestVerifyBlockWitnessRejectsBelowQuorumSigners(t *testing.T) {
	ctxs, _, vs := committeeContexts(t, 4)
	primary := ctxs[1]
	primary.MakePrepareRequest()

	for _, i := range []int{0, 1, 2} {
		if ctxs[i] != primary {
			mirrorProposal(ctxs[i], primary)
		}
		c := ctxs[i].MakeCommit()
		if ctxs[i] != primary {
			primary.CommitPayloads[i] = c
		}
	}
	block := primary.CreateBlock()

	block.Witness.Signers = block.Witness.Signers[:len(block.Witness.Signers)-1]
	require.Error(t, dbft.VerifyBlockWitness(vs, block))
}

func TestVerifyBlockWitnessRejectsForgedSignerSet(t *testing.T) {
	ctxs, _, vs := committeeContexts(t, 4)
	primary := ctxs[1]
	primary.MakePrepareRequest()

	for _, i := range []int{0, 1, 2} {
		if ctxs[i] != primary {
			mirrorProposal(ctxs[i], primary)
		}
		c := ctxs[i].MakeCommit()
		if ctxs[i] != primary {
			primary.CommitPayloads[i] = c
		}
	}
	block := primary.CreateBlock()

	// The signature was aggregated over {0,1,2}; claiming {1,2,3} instead
	// must fail even though {1,2,3} is also a valid-looking M-sized subset.
	block.Witness.Signers = []uint16{1, 2, 3}
	require.Error(t, dbft.VerifyBlockWitness(vs, block))
}

func TestCreateBlockPanicsWithoutQuorum(t *testing.T) {
	ctxs, _, _ := committeeContexts(t, 4)
	primary := ctxs[1]
	primary.MakePrepareRequest()
	primary.MakeCommit()

	require.Panics(t, func() { primary.CreateBlock() })
}

func TestMakePrepareResponsePanicsBeforeRequestReceived(t *testing.T) {
	ctxs, _, _ := committeeContexts(t, 4)
	backup := ctxs[0]
	require.False(t, backup.IsPrimary())
	require.Panics(t, func() { backup.MakePrepareResponse() })
}
