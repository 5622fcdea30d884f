package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbftcore/policy"
	"dbftcore/types"
)

func txsOfSize(sizes ...int) []*types.Transaction {
	out := make([]*types.Transaction, len(sizes))
	for i, n := range sizes {
		out[i] = types.NewTransaction(make([]byte, n), nil)
	}
	return out
}

func TestMaxTransactionsPerBlockTruncatesTail(t *testing.T) {
	txs := txsOfSize(1, 1, 1, 1, 1)
	got := policy.MaxTransactionsPerBlock(3).FilterForBlock(txs)
	require.Len(t, got, 3)
	require.Same(t, txs[0], got[0])
	require.Same(t, txs[2], got[2])
}

func TestMaxTransactionsPerBlockUnderLimitIsNoOp(t *testing.T) {
	txs := txsOfSize(1, 1)
	got := policy.MaxTransactionsPerBlock(10).FilterForBlock(txs)
	require.Len(t, got, 2)
}

func TestMaxBlockBytesDropsOnceBudgetExceeded(t *testing.T) {
	txs := txsOfSize(10, 10, 10, 10)
	got := policy.MaxBlockBytes(25).FilterForBlock(txs)
	// 10, 20, 30(over) -> keep first two
	require.Len(t, got, 2)
}

func TestChainComposesLeftToRight(t *testing.T) {
	txs := txsOfSize(1, 1, 1, 1, 1, 1)
	got := policy.Chain([]policy.Policy{
		policy.MaxTransactionsPerBlock(4),
		policy.MaxBlockBytes(2),
	}, txs)
	require.Len(t, got, 2, "each policy narrows the previous policy's output")
}

func TestChainWithNoPoliciesIsIdentity(t *testing.T) {
	txs := txsOfSize(1, 2, 3)
	got := policy.Chain(nil, txs)
	require.Equal(t, txs, got)
}
