package types

import (
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	"github.com/tendermint/tendermint/crypto/merkle"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

// Hash256 is a 32-byte hash, used for block, transaction and payload
// identity throughout the wire format in §4.6.
type Hash256 = tmbytes.HexBytes

// Hash160 is a 20-byte address-sized hash, used for the next-consensus
// multisig address embedded in a block header.
type Hash160 = tmbytes.HexBytes

// HashKeySize is the fixed array length used to turn a Hash256 into a map
// key, matching tmhash.Sum's output size.
const HashKeySize = tmhash.Size

// SumHash256 hashes data the way the teacher's tmhash-based helpers do.
func SumHash256(data []byte) Hash256 {
	return Hash256(tmhash.Sum(data))
}

// MerkleRoot computes the root of the tree built over leaves, in the same
// order they are given. An empty leaf set hashes to the empty-tree root.
func MerkleRoot(leaves [][]byte) Hash256 {
	return Hash256(merkle.HashFromByteSlices(leaves))
}
