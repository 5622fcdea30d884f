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

// §4.6/§6: Save then, after a process restart simulated by a brand new
// Context sharing the same store, Reset(0) followed by Load recovers the
// exact in-flight state.
func TestSaveLoadRoundTrip(t *testing.T) {
	vals, privs := buildCommittee(t, 4)
	vs := types.NewValidatorSet(vals)
	genesis := &types.Header{Version: 0, Index: 0}
	chain := ledger.NewMockChain(genesis, vs)

	w := wallet.NewFileWallet()
	w.AddAccount(privs[1])
	db := store.NewMemStore()

	ctx := dbft.NewContext(chain, w, db)
	require.NoError(t, ctx.Reset(0))
	_ = ctx.MakePrepareRequest()
	_ = ctx.MakeCommit()
	require.NoError(t, ctx.Save())

	restarted := dbft.NewContext(chain, w, db)
	require.NoError(t, restarted.Reset(0))
	ok, err := restarted.Load()
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, ctx.ViewNumber, restarted.ViewNumber)
	require.NotNil(t, restarted.CommitPayloads[1])
}

// An empty store has nothing to recover: Load must report (false, nil),
// never an error, so startup proceeds via a normal Reset(0).
func TestLoadEmptyStore(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 1)
	ok, err := ctx.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

// A checkpoint containing garbage must never surface a decode panic;
// Load degrades to (false, nil) and lets startup fall back to Reset(0).
func TestLoadDiscardsUnusableCheckpoint(t *testing.T) {
	vals, privs := buildCommittee(t, 4)
	vs := types.NewValidatorSet(vals)
	genesis := &types.Header{Version: 0, Index: 0}
	chain := ledger.NewMockChain(genesis, vs)

	w := wallet.NewFileWallet()
	w.AddAccount(privs[1])
	db := store.NewMemStore()
	require.NoError(t, db.PutSync(0xf4, []byte{}, []byte{0xff, 0xff, 0xff}))

	ctx := dbft.NewContext(chain, w, db)
	require.NoError(t, ctx.Reset(0))
	ok, err := ctx.Load()
	require.NoError(t, err)
	require.False(t, ok)
}
