package dbft

import (
	"dbftcore/payload"
	"dbftcore/types"
)

// Reset drives the two modes described in §4.5: v == 0 starts a new
// height, v > 0 bumps the view within the current height.
func (c *Context) Reset(v byte) error {
	if v == 0 {
		if err := c.resetHeight(); err != nil {
			return err
		}
	} else {
		c.resetView(v)
	}

	c.ViewNumber = v
	c.viewStartedAt = c.now()
	if c.viewGauge != nil {
		c.viewGauge.Update(int64(v))
	}
	c.Block.ConsensusData.PrimaryIndex = c.PrimaryIndex(v)
	c.Block.MerkleRoot = nil
	c.Block.Timestamp = 0
	c.Block.Transactions = nil
	c.TransactionHashes = nil
	c.Transactions = nil
	c.PreparationPayloads = make([]*payload.ConsensusPayload, c.N())

	if c.MyIndex >= 0 {
		c.LastSeenMessage[c.MyIndex] = int64(c.Block.Index)
	}
	return nil
}

// resetHeight implements the v == 0 mode: reacquire the ledger
// snapshot, rebuild the block skeleton, rediscover my_index, and
// allocate fresh per-height arrays (§4.5).
func (c *Context) resetHeight() error {
	c.Dispose()

	snap, err := c.chain.Snapshot()
	if err != nil {
		return err
	}
	c.Snapshot = snap

	// next-consensus is derived from the snapshot's own committee, while
	// my_index is discovered against the upcoming height's committee
	// (§4.5: two distinct validator views).
	c.Block = types.Block{
		Header: types.Header{
			Version:       0,
			Index:         snap.Height() + 1,
			PrevHash:      snap.CurrentBlockHash(),
			NextConsensus: snap.ConsensusAddress(snap.Validators()),
		},
	}

	validators := snap.NextBlockValidators()
	c.Validators = validators

	c.MyIndex = -1
	c.KeyPair = nil
	validators.Iterate(func(index int, val *types.Validator) bool {
		account, ok := c.wal.GetAccount(val.PubKey)
		if !ok || !account.HasKey() {
			return false
		}
		kp, err := account.GetKey()
		if err != nil {
			return false
		}
		c.MyIndex = int32(index)
		c.KeyPair = &kp
		return true
	})

	n := c.N()
	c.CommitPayloads = make([]*payload.ConsensusPayload, n)
	c.ChangeViewPayloads = make([]*payload.ConsensusPayload, n)
	c.LastChangeViewPayloads = make([]*payload.ConsensusPayload, n)
	if c.LastSeenMessage == nil {
		c.LastSeenMessage = make([]int64, n)
		for i := range c.LastSeenMessage {
			c.LastSeenMessage[i] = -1
		}
	}
	return nil
}

// resetView implements the v > 0 mode: preserve cross-view ChangeView
// evidence, without reacquiring the snapshot or rediscovering my_index
// (§4.5).
func (c *Context) resetView(v byte) {
	for i, p := range c.ChangeViewPayloads {
		if p == nil {
			c.LastChangeViewPayloads[i] = nil
			continue
		}
		cv, ok := p.Message.(*payload.ChangeView)
		if ok && cv.NewViewNumber >= v {
			c.LastChangeViewPayloads[i] = p
		} else {
			c.LastChangeViewPayloads[i] = nil
		}
	}
}
