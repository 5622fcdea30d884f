// fork from chainbft_demo/types/tx.go
package types

import "github.com/tendermint/tendermint/crypto/merkle"

// Transaction is the narrow shape the consensus core needs: an opaque
// payload plus the identity hash the mempool already computed and
// verified. Full transaction semantics (fields, execution) belong to the
// mempool/ledger collaborators (§1 Non-goals: no transaction validation
// beyond what the memory pool provides).
type Transaction struct {
	data []byte
	hash Hash256
}

// NewTransaction wraps raw transaction bytes together with their
// already-computed hash, as handed back by the mempool's sorted-verified
// list (§6).
func NewTransaction(data []byte, hash Hash256) *Transaction {
	return &Transaction{data: data, hash: hash}
}

func (tx *Transaction) Bytes() []byte { return tx.data }

func (tx *Transaction) Hash() Hash256 {
	if tx.hash == nil {
		tx.hash = SumHash256(tx.data)
	}
	return tx.hash
}

func (tx *Transaction) Size() int64 { return int64(len(tx.data)) }

// Transactions is an ordered list, matching a block's transaction_hashes
// order.
type Transactions []*Transaction

// MerkleRoot hashes the list's transaction hashes into one root, in the
// same order they appear.
func (txs Transactions) MerkleRoot() Hash256 {
	leaves := make([][]byte, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.Hash()
	}
	return Hash256(merkle.HashFromByteSlices(leaves))
}
