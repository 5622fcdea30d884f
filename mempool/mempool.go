// Package mempool adapts chainbft_demo/mempool's list-based pending
// transaction pool to back the ledger.MemPool contract MakePrepareRequest
// draws from (§4.3, §6). Transaction admission and conflict checking
// belong to this package, not to the consensus core (§1 Non-goals).
package mempool

import "dbftcore/types"

// TxInfo carries metadata about where a transaction came from, mirroring
// the teacher's TxInfo passed to CheckTx. SenderP2PID is dropped: p2p
// gossip is out of scope here (§1).
type TxInfo struct {
	SenderID uint16
}

// PreCheckFunc lets an admission caller reject a transaction before it
// enters the pool, e.g. on size grounds, mirroring the teacher's
// PreCheckFunc hook.
type PreCheckFunc func(data []byte) error

// Mempool is the pending-transaction pool contract, generalized from the
// teacher's Mempool interface: ReapTxs/ReapMaxTxs collapse into
// GetSortedVerifiedTransactions so the pool satisfies ledger.MemPool
// directly, and LockTxs/ReleaseTxs (precommit-conflict bookkeeping the
// teacher never finished) are dropped rather than left half-built.
type Mempool interface {
	// CheckTx validates and admits a transaction.
	CheckTx(data []byte, info TxInfo) error

	// GetSortedVerifiedTransactions returns every admitted transaction
	// not yet removed by Update, in the order the Block Assembler should
	// consider them.
	GetSortedVerifiedTransactions() []*types.Transaction

	// Lock/Unlock guard the pool while a caller updates it, matching the
	// teacher's updateMtx contract.
	Lock()
	Unlock()

	// Update removes committed transactions after a block lands.
	Update(committed []types.Hash256) error

	// Flush empties the pool and its dedup cache.
	Flush()

	// Size returns the number of pending transactions.
	Size() int

	// TxsBytes returns the total size in bytes of pending transactions.
	TxsBytes() int64
}
