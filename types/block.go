package types

// ConsensusData is the fixed-size portion of a header carrying dBFT-specific
// bookkeeping: which validator proposed under the current view, and the
// nonce the primary drew for MakePrepareRequest (§4.3). It has a fixed
// on-wire size (12 bytes, §4.6) so it can be embedded without a length
// prefix.
type ConsensusData struct {
	PrimaryIndex uint32
	Nonce        uint64
}

// Hash is the value EnsureHeader folds the Merkle root of the transaction
// hashes onto (§4.4). It intentionally does not depend on the Merkle root
// itself, breaking the circularity of a header hashing its own root.
func (cd ConsensusData) Hash() Hash256 {
	buf := make([]byte, 12)
	putUint32(buf[0:4], cd.PrimaryIndex)
	putUint64(buf[4:12], cd.Nonce)
	return SumHash256(buf)
}

// Header is the block-in-progress skeleton (§3). NextConsensus is set by
// Reset(0) from the snapshot's committee; a zero address on the wire
// round-trips to nil (§4.6).
type Header struct {
	Version       uint32
	Index         uint32
	Timestamp     uint64 // milliseconds since epoch
	PrevHash      Hash256
	NextConsensus Address
	ConsensusData ConsensusData
	MerkleRoot    Hash256
	Witness       *Witness
}

// EnsureHeader lazily computes MerkleRoot from ConsensusData.Hash() and the
// given transaction hashes (§4.4). It is idempotent: once MerkleRoot is
// set it is never recomputed. Returns false if hashes is nil, matching
// the "returns null if transaction_hashes is null" contract. Not
// internally synchronized: the Context that owns a Header is single-actor
// (§5), so no lock is needed, and Header/Block must never be copied by
// value across goroutines regardless.
func (h *Header) EnsureHeader(hashes []Hash256) bool {
	if hashes == nil {
		return false
	}
	if h.MerkleRoot != nil {
		return true
	}
	leaves := make([][]byte, len(hashes)+1)
	leaves[0] = h.ConsensusData.Hash()
	for i, hh := range hashes {
		leaves[i+1] = hh
	}
	h.MerkleRoot = MerkleRoot(leaves)
	return true
}

// SignaturePayload is the byte string a validator signs when committing to
// this header: everything except the witness itself.
func (h *Header) SignaturePayload() []byte {
	buf := make([]byte, 0, 4+4+8+32+20+12+32)
	buf = appendUint32(buf, h.Version)
	buf = appendUint32(buf, h.Index)
	buf = appendUint64(buf, h.Timestamp)
	buf = append(buf, h.PrevHash...)
	buf = append(buf, h.NextConsensus.Bytes()...)
	cdHash := h.ConsensusData.Hash()
	buf = append(buf, cdHash...)
	buf = append(buf, h.MerkleRoot...)
	return buf
}

// Hash is the header's own identity hash, computed over the signature
// payload only; the witness does not affect it.
func (h *Header) Hash() Hash256 {
	return SumHash256(h.SignaturePayload())
}

// Block is the in-progress proposal under construction by the Context
// (§3). Transactions and Witness are both nil until CreateBlock
// succeeds. The proposed transaction
// hashes themselves live on the Context, not here, since they are needed
// before EnsureHeader has anything to attach them to.
type Block struct {
	Header
	Transactions []*Transaction
}

// ValidateBasic performs the shallow well-formedness checks a peer runs
// before touching consensus state: it is not a substitute for the ledger's
// full transaction/block validation (out of scope, §1).
func (b *Block) ValidateBasic() error {
	if b.Index == 0 {
		return errBlockNoIndex
	}
	return nil
}

var errBlockNoIndex = blockError("block has no index")

type blockError string

func (e blockError) Error() string { return string(e) }

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	putUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	putUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
