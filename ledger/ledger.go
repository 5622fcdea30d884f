// Package ledger is the narrow blockchain-snapshot collaborator the core
// consumes (§1: "Blockchain ledger access beyond a narrow snapshot
// interface" is out of scope; §6 lists the exact surface needed). It
// generalizes chainbft_demo/state's Store/BlockExecutor pair, which mixed
// snapshot reads with block application — application belongs to the
// ledger implementation, not to this module.
package ledger

import "dbftcore/types"

// Snapshot is a scoped, read-consistent view of the chain as of the
// parent block (§3 "snapshot", §5 lifecycle: acquired in Reset(0),
// released on Dispose or the next Reset(0)).
type Snapshot interface {
	// Height is the current chain height (the parent block's index).
	Height() uint32
	// CurrentBlockHash is the hash of the block at Height.
	CurrentBlockHash() types.Hash256
	// GetHeader looks up a previously committed header by hash.
	GetHeader(hash types.Hash256) (*types.Header, error)
	// Validators is the committee that produced the block at Height.
	Validators() *types.ValidatorSet
	// NextBlockValidators is the committee for Height+1, the set a new
	// Reset(0) should adopt (§4.5).
	NextBlockValidators() *types.ValidatorSet
	// ConsensusAddress derives the next-consensus multisig address for
	// a given validator set.
	ConsensusAddress(vals *types.ValidatorSet) types.Address
	// Release returns the snapshot's underlying resources (e.g. a
	// storage-engine read transaction). Idempotent.
	Release()
}

// MemPool is the narrow slice of the mempool contract Blockchain.MemPool
// exposes to MakePrepareRequest (§6).
type MemPool interface {
	GetSortedVerifiedTransactions() []*types.Transaction
}

// Blockchain is the collaborator a Context is constructed with: it can
// mint a fresh Snapshot on demand and exposes the mempool bound to it.
type Blockchain interface {
	Snapshot() (Snapshot, error)
	MemPool() MemPool
}
