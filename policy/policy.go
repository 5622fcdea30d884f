// Package policy is the pluggable transaction-admission chain
// MakePrepareRequest filters the mempool's sorted transaction list
// through before proposing a block (§4.3, §6: "each exposes
// filter_for_block(iter<Transaction>) -> iter<Transaction>; composed
// left-to-right by registration order"). chainbft_demo has no equivalent
// plugin seam of its own — its block content was fixed by the SmallBank
// benchmark — so this package is new, built in the teacher's
// functional-option idiom (consensus/state.go's ConsensusOption,
// mempool/list_mempool.go's ListMempoolOption).
package policy

import "dbftcore/types"

// Policy filters a candidate transaction list down to the ones a block
// may include. Implementations must not reorder transactions they keep.
type Policy interface {
	FilterForBlock(txs []*types.Transaction) []*types.Transaction
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(txs []*types.Transaction) []*types.Transaction

func (f PolicyFunc) FilterForBlock(txs []*types.Transaction) []*types.Transaction { return f(txs) }

// Chain composes policies left-to-right: each policy's output feeds the
// next one's input, the registration-order composition §4.3 requires.
func Chain(policies []Policy, txs []*types.Transaction) []*types.Transaction {
	for _, p := range policies {
		txs = p.FilterForBlock(txs)
	}
	return txs
}

// MaxTransactionsPerBlock caps the number of transactions a block may
// carry at the caller-chosen max, keeping the first max. It is separate
// from payload.MaxTransactionsPerBlock, the fixed bound the checkpoint
// decoder checks the wire format's tx_count field against (§4.6).
func MaxTransactionsPerBlock(max int) Policy {
	return PolicyFunc(func(txs []*types.Transaction) []*types.Transaction {
		if len(txs) <= max {
			return txs
		}
		return txs[:max]
	})
}

// MaxBlockBytes caps the total encoded transaction size a block may
// carry, dropping transactions from the tail once the budget is spent.
func MaxBlockBytes(max int64) Policy {
	return PolicyFunc(func(txs []*types.Transaction) []*types.Transaction {
		var total int64
		for i, tx := range txs {
			total += tx.Size()
			if total > max {
				return txs[:i]
			}
		}
		return txs
	})
}
