package dbft

import (
	"bytes"

	"dbftcore/payload"
	"dbftcore/types"
	"dbftcore/wire"
)

// Encode writes the deterministic checkpoint format (§4.6). It does not
// include the snapshot, wallet, or store — those are collaborators
// rebuilt by Reset(0), not persisted state.
func (c *Context) Encode() []byte {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	w.WriteU32(c.Block.Version)
	w.WriteU32(c.Block.Index)
	w.WriteU64(c.Block.Timestamp)
	if c.Block.NextConsensus.IsZero() {
		w.WriteFixedBytes(nil, 20)
	} else {
		w.WriteFixedBytes(c.Block.NextConsensus.Bytes(), 20)
	}
	w.WriteU32(c.Block.ConsensusData.PrimaryIndex)
	w.WriteU64(c.Block.ConsensusData.Nonce)
	w.WriteU8(c.ViewNumber)

	if c.TransactionHashes == nil {
		w.WriteU32(0)
	} else {
		w.WriteU32(uint32(len(c.TransactionHashes)))
		for _, h := range c.TransactionHashes {
			w.WriteFixedBytes(h, types.HashKeySize)
		}
	}

	txs := c.transactionsList()
	w.WriteVarUint(uint64(len(txs)))
	for _, tx := range txs {
		w.WriteVarBytes(tx.Bytes())
	}

	encodeSlots(w, c.PreparationPayloads)
	encodeSlots(w, c.CommitPayloads)
	encodeSlots(w, c.ChangeViewPayloads)
	encodeSlots(w, c.LastChangeViewPayloads)

	return buf.Bytes()
}

func encodeSlots(w *wire.Writer, slots []*payload.ConsensusPayload) {
	w.WriteVarUint(uint64(len(slots)))
	for _, p := range slots {
		if p == nil {
			w.WriteU8(0)
			continue
		}
		w.WriteU8(1)
		p.Encode(w)
	}
}

// Decode fills c from a stream previously produced by Encode. The
// caller must have already called Reset(0) so c.Block/Validators/
// Snapshot reflect the current chain height (§4.6 "On deserialize:
// First call Reset(0)"); Decode then validates the persisted record
// against that freshly-established state.
func (c *Context) Decode(data []byte) error {
	r := wire.NewReader(bytes.NewReader(data))

	version := r.ReadU32()
	index := r.ReadU32()
	timestamp := r.ReadU64()
	nextConsensus := r.ReadBytes(20)
	primaryIndex := r.ReadU32()
	nonce := r.ReadU64()
	viewNumber := r.ReadU8()

	if r.Err() != nil {
		return errFormat(r.Err())
	}
	if version != c.Block.Version {
		return ErrFormat
	}
	if index != c.Block.Index {
		return ErrStateMismatch
	}

	c.Block.Timestamp = timestamp
	if isZero(nextConsensus) {
		c.Block.NextConsensus = nil
	} else {
		c.Block.NextConsensus = types.Address(nextConsensus)
	}
	c.Block.ConsensusData.PrimaryIndex = primaryIndex
	c.Block.ConsensusData.Nonce = nonce
	c.ViewNumber = viewNumber

	hashCount := r.ReadU32()
	if r.Err() != nil {
		return errFormat(r.Err())
	}
	if hashCount > payload.MaxTransactionsPerBlock {
		return ErrFormat
	}
	if hashCount == 0 {
		c.TransactionHashes = nil
	} else {
		c.TransactionHashes = make([]types.Hash256, hashCount)
		for i := range c.TransactionHashes {
			c.TransactionHashes[i] = types.Hash256(r.ReadBytes(types.HashKeySize))
		}
	}

	txCount := r.ReadVarUintBounded(payload.MaxTransactionsPerBlock)
	if r.Err() != nil {
		return errFormat(r.Err())
	}
	if txCount == 0 {
		c.Transactions = nil
	} else {
		c.Transactions = make(map[string]*types.Transaction, txCount)
		for i := uint64(0); i < txCount; i++ {
			data := r.ReadVarBytes(1 << 24)
			tx := types.NewTransaction(data, nil)
			c.Transactions[tx.Hash().String()] = tx
		}
	}

	var err error
	if c.PreparationPayloads, err = decodeSlots(r); err != nil {
		return err
	}
	if c.CommitPayloads, err = decodeSlots(r); err != nil {
		return err
	}
	if c.ChangeViewPayloads, err = decodeSlots(r); err != nil {
		return err
	}
	if c.LastChangeViewPayloads, err = decodeSlots(r); err != nil {
		return err
	}
	if r.Err() != nil {
		return errFormat(r.Err())
	}
	return nil
}

func decodeSlots(r *wire.Reader) ([]*payload.ConsensusPayload, error) {
	count := r.ReadVarUintBounded(payload.MaxValidators)
	if r.Err() != nil {
		return nil, errFormat(r.Err())
	}
	slots := make([]*payload.ConsensusPayload, count)
	for i := range slots {
		present := r.ReadU8()
		if r.Err() != nil {
			return nil, errFormat(r.Err())
		}
		if present == 0 {
			continue
		}
		slots[i] = payload.DecodePayload(r)
	}
	if r.Err() != nil {
		return nil, errFormat(r.Err())
	}
	return slots, nil
}

func isZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

func errFormat(err error) error {
	if err == wire.ErrCountTooLarge {
		return ErrFormat
	}
	return ErrFormat
}
