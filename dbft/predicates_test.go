package dbft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/payload"
)

func TestCountCommittedAndMoreThanF(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 1) // N=4, F=1, M=3

	// Simulate every validator having been heard from at the current
	// height, isolating count_failed at zero so only count_committed
	// drives the safety valve below.
	for i := range ctx.LastSeenMessage {
		ctx.LastSeenMessage[i] = int64(ctx.Block.Index)
	}

	require.Equal(t, 0, ctx.CountCommitted())
	require.False(t, ctx.MoreThanFNodesCommittedOrLost())

	_ = ctx.MakePrepareRequest()
	_ = ctx.MakeCommit()
	require.True(t, ctx.CommitSent())
	require.Equal(t, 1, ctx.CountCommitted())
	require.False(t, ctx.MoreThanFNodesCommittedOrLost(), "F=1: a single commit must not trip the safety valve")

	ctx.CommitPayloads[0] = ctx.CommitPayloads[1]
	require.Equal(t, 2, ctx.CountCommitted())
	require.True(t, ctx.MoreThanFNodesCommittedOrLost(), "F=1: two commits must trip the safety valve")
}

func TestResponseSentRequiresPreparationSlot(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 2) // N=4, index=1 => primary=1, backup
	require.False(t, ctx.IsPrimary())
	require.True(t, ctx.IsBackup())
	require.False(t, ctx.ResponseSent())
}

func TestViewChangingPredicate(t *testing.T) {
	ctx, _, _, _ := newHeightContext(t, 4, 2)
	require.False(t, ctx.ViewChanging())

	p := ctx.MakeChangeView(payload.CVTimeout)
	require.NotNil(t, p)
	require.True(t, ctx.ViewChanging())
}
