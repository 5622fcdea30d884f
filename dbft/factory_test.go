package dbft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/dbft"
	"dbftcore/ledger"
	"dbftcore/payload"
	"dbftcore/store"
	"dbftcore/types"
	"dbftcore/wallet"
)

// S5 — Commit idempotence: two MakeCommit calls return the same payload
// instance and commit_payloads[my_index] is set exactly once.
func TestMakeCommitIdempotent(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 1)
	_ = ctx.MakePrepareRequest()

	first := ctx.MakeCommit()
	second := ctx.MakeCommit()
	require.Same(t, first, second)
	require.Same(t, first, ctx.CommitPayloads[ctx.MyIndex])
}

// S4 — Timestamp monotonicity: block.timestamp = max(now_ms,
// prev_header.timestamp + 1).
func TestPrepareRequestTimestampMonotonic(t *testing.T) {
	vals, privs := buildCommittee(t, 4)
	vs := types.NewValidatorSet(vals)

	// The parent timestamp is seeded to 1000ms, per S4. The first chain
	// below has a zero-timestamp genesis; it is replaced by a second chain
	// whose genesis header (index 0) carries Timestamp=1000, so Reset(0)
	// sees PrevHash's header with Timestamp=1000.
	genesisAtHeightZero := &types.Header{Version: 0, Index: 0}
	chain := ledger.NewMockChain(genesisAtHeightZero, vs)
	parent := &types.Header{Version: 0, Index: 0, Timestamp: 1000}
	chain = ledger.NewMockChain(parent, vs)

	w := wallet.NewFileWallet()
	w.AddAccount(privs[1])

	now := uint64(500)
	ctx := dbft.NewContext(chain, w, store.NewMemStore(), dbft.WithTimeProvider(func() uint64 { return now }))
	require.NoError(t, ctx.Reset(0))
	require.True(t, ctx.IsPrimary())

	p := ctx.MakePrepareRequest()
	require.NotNil(t, p)
	require.EqualValues(t, 1001, ctx.Block.Timestamp)

	now = 2000
	require.NoError(t, ctx.Reset(0))
	require.True(t, ctx.IsPrimary())
	_ = ctx.MakePrepareRequest()
	require.EqualValues(t, 2000, ctx.Block.Timestamp)
}

func TestMakeChangeViewStoresBySlot(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 2)
	p := ctx.MakeChangeView(payload.CVTxNotFound)
	require.Same(t, p, ctx.ChangeViewPayloads[ctx.MyIndex])
	cv := p.Message.(*payload.ChangeView)
	require.EqualValues(t, ctx.ViewNumber+1, cv.NewViewNumber)
}

func TestMakeRecoveryMessageOmitsCommitsWhenNotSent(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 2)
	_ = ctx.MakeChangeView(payload.CVTimeout)

	p := ctx.MakeRecoveryMessage()
	rm := p.Message.(*payload.RecoveryMessage)
	require.Empty(t, rm.CommitMessages, "a node that has not committed must not leak others' commits")
}
