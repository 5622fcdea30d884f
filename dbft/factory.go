package dbft

import (
	"dbftcore/payload"
	"dbftcore/types"
	"dbftcore/wallet"
)

// newEnvelope stamps the common ConsensusPayload fields every factory
// method shares (§4.3: "version, prev-hash, block index, validator index,
// consensus message"). It replaces the ad hoc field-by-field
// construction each Make* method in chainbft_demo repeated inline.
func (c *Context) newEnvelope(msg payload.ConsensusMessage) *payload.ConsensusPayload {
	return &payload.ConsensusPayload{
		Version:        c.Block.Version,
		PrevHash:       c.Block.PrevHash,
		BlockIndex:     c.Block.Index,
		ValidatorIndex: uint16(c.MyIndex),
		Message:        msg,
	}
}

// sign asks the wallet to witness p. Per §4.3/§7, a signing failure is
// not propagated as an error: the payload is returned unsigned (Witness
// stays nil) and the boolean result reports whether signing succeeded.
// The Make* methods discard that result and return only the payload; a
// caller tells an unsigned payload apart by its nil Witness.
func (c *Context) sign(p *payload.ConsensusPayload) (signed bool) {
	if c.KeyPair == nil {
		return false
	}
	sig, err := c.wal.Sign(keyPairAccount{*c.KeyPair}, p.SignaturePayload())
	if err != nil {
		return false
	}
	p.Witness = &types.Witness{Script: c.KeyPair.Public.Bytes(), Signature: sig}
	return true
}

// keyPairAccount adapts the KeyPair discovered at Reset(0) time to
// wallet.Account, so the Context can ask the wallet to sign without
// holding a live Account reference across the height.
type keyPairAccount struct {
	kp wallet.KeyPair
}

func (a keyPairAccount) PublicKey() types.PublicKey        { return a.kp.Public }
func (a keyPairAccount) HasKey() bool                      { return true }
func (a keyPairAccount) GetKey() (wallet.KeyPair, error)   { return a.kp, nil }

// MakeChangeView constructs a ChangeView requesting the next view
// (§4.3). Stores it in change_view_payloads[my_index] and returns it.
func (c *Context) MakeChangeView(reason payload.ChangeViewReason) *payload.ConsensusPayload {
	if c.WatchOnly() {
		panic("dbft: MakeChangeView called on a watch-only context")
	}
	msg := &payload.ChangeView{
		ViewNumber:    c.ViewNumber,
		NewViewNumber: c.ViewNumber + 1,
		Timestamp:     c.now(),
		Reason:        reason,
	}
	p := c.newEnvelope(msg)
	c.sign(p)
	c.ChangeViewPayloads[c.MyIndex] = p
	return p
}

// MakePrepareRequest builds and signs this node's block proposal
// (§4.3). It is a programmer error to call this when not primary.
func (c *Context) MakePrepareRequest() *payload.ConsensusPayload {
	if !c.IsPrimary() {
		panic("dbft: MakePrepareRequest called by a non-primary context")
	}

	var nonce [8]byte
	c.rand.Read(nonce[:])
	c.Block.ConsensusData.Nonce = leU64(nonce)

	txs := policyFilter(c, c.chain.MemPool().GetSortedVerifiedTransactions())

	c.TransactionHashes = make([]types.Hash256, len(txs))
	c.Transactions = make(map[string]*types.Transaction, len(txs))
	for i, tx := range txs {
		c.TransactionHashes[i] = tx.Hash()
		c.Transactions[tx.Hash().String()] = tx
	}

	prevTimestamp := c.prevHeaderTimestamp()
	now := c.now()
	if now > prevTimestamp+1 {
		c.Block.Timestamp = now
	} else {
		c.Block.Timestamp = prevTimestamp + 1
	}

	msg := &payload.PrepareRequest{
		ViewNumber:        c.ViewNumber,
		Timestamp:         c.Block.Timestamp,
		Nonce:             c.Block.ConsensusData.Nonce,
		TransactionHashes: c.TransactionHashes,
	}
	p := c.newEnvelope(msg)
	c.sign(p)
	c.PreparationPayloads[c.MyIndex] = p
	return p
}

// prevHeaderTimestamp looks up the parent block's timestamp via the
// ledger snapshot, so MakePrepareRequest can enforce strict
// monotonicity (§4.3 S4).
func (c *Context) prevHeaderTimestamp() uint64 {
	header, err := c.Snapshot.GetHeader(c.Block.PrevHash)
	if err != nil || header == nil {
		return 0
	}
	return header.Timestamp
}

// MakePrepareResponse endorses the current primary's proposal by hash
// (§4.3). It is a programmer error to call this when watch-only.
func (c *Context) MakePrepareResponse() *payload.ConsensusPayload {
	if c.WatchOnly() {
		panic("dbft: MakePrepareResponse called on a watch-only context")
	}
	primaryIdx := c.Block.ConsensusData.PrimaryIndex
	primaryPayload := c.PreparationPayloads[primaryIdx]
	if primaryPayload == nil {
		panic("dbft: MakePrepareResponse called before RequestSentOrReceived")
	}

	msg := &payload.PrepareResponse{
		ViewNumber:      c.ViewNumber,
		PreparationHash: primaryPayload.Hash(),
	}
	p := c.newEnvelope(msg)
	c.sign(p)
	c.PreparationPayloads[c.MyIndex] = p
	return p
}

// MakeCommit is idempotent: a prior commit in this height's commit slot
// is returned unchanged (§4.3, S5). The slot is cleared only by Reset(0),
// so a commit made at an earlier view of the same height is returned too.
func (c *Context) MakeCommit() *payload.ConsensusPayload {
	if c.WatchOnly() {
		panic("dbft: MakeCommit called on a watch-only context")
	}
	if existing := c.CommitPayloads[c.MyIndex]; existing != nil {
		return existing
	}

	c.Block.EnsureHeader(c.TransactionHashes)
	sig, err := c.wal.Sign(keyPairAccount{*c.KeyPair}, c.Block.Header.SignaturePayload())
	msg := &payload.Commit{ViewNumber: c.ViewNumber}
	if err == nil {
		msg.Signature = sig
	}
	p := c.newEnvelope(msg)
	c.sign(p)
	c.CommitPayloads[c.MyIndex] = p
	if c.commitGauge != nil {
		c.commitGauge.Update(int64(c.CountCommitted()))
	}
	return p
}

// MakeRecoveryRequest builds a signed request soliciting recovery from
// peers (§4.3).
func (c *Context) MakeRecoveryRequest() *payload.ConsensusPayload {
	msg := &payload.RecoveryRequest{ViewNumber: c.ViewNumber, Timestamp: c.now()}
	p := c.newEnvelope(msg)
	c.sign(p)
	return p
}

// MakeRecoveryMessage bundles this node's consensus view for a peer
// (§4.3). The ChangeView/preparation asymmetry — at most M ChangeView
// compacts, but all preparation compacts — is intentional (§9 open
// question) and preserved exactly here.
func (c *Context) MakeRecoveryMessage() *payload.ConsensusPayload {
	msg := &payload.RecoveryMessage{
		ViewNumber:          c.ViewNumber,
		ChangeViewMessages:  c.changeViewCompacts(),
		PreparationPayloads: c.preparationCompacts(),
		CommitMessages:      c.commitCompacts(),
	}

	primaryIdx := c.Block.ConsensusData.PrimaryIndex
	if primary := c.PreparationPayloads[primaryIdx]; primary != nil {
		if pr, ok := primary.Message.(*payload.PrepareRequest); ok {
			msg.PrepareRequest = pr
		}
	}
	if msg.PrepareRequest == nil {
		if hash := c.pluralityPreparationHash(); hash != nil {
			msg.PreparationHash = hash
		}
	}

	p := c.newEnvelope(msg)
	c.sign(p)
	return p
}

// changeViewCompacts collects up to M entries from last_change_view_payloads
// (§4.3: "up to M ChangeView compacts").
func (c *Context) changeViewCompacts() map[uint16]*payload.ChangeViewCompact {
	out := make(map[uint16]*payload.ChangeViewCompact)
	for i, p := range c.LastChangeViewPayloads {
		if len(out) >= c.M() {
			break
		}
		if p == nil {
			continue
		}
		cv, ok := p.Message.(*payload.ChangeView)
		if !ok {
			continue
		}
		out[uint16(i)] = &payload.ChangeViewCompact{
			ValidatorIndex:     uint16(i),
			OriginalViewNumber: cv.ViewNumber,
			Timestamp:          cv.Timestamp,
			Reason:             cv.Reason,
			InvocationScript:   witnessScript(p),
		}
	}
	return out
}

// preparationCompacts compacts every non-nil preparation slot
// (§4.3: "all preparation compacts").
func (c *Context) preparationCompacts() map[uint16]*payload.PreparationCompact {
	out := make(map[uint16]*payload.PreparationCompact)
	for i, p := range c.PreparationPayloads {
		if p == nil {
			continue
		}
		out[uint16(i)] = &payload.PreparationCompact{
			ValidatorIndex:   uint16(i),
			InvocationScript: witnessScript(p),
		}
	}
	return out
}

// commitCompacts returns commit compacts only if this node has itself
// committed (CommitSent); otherwise an empty mapping, so a node
// that has not committed never leaks others' commits as if certified
// (§4.3).
func (c *Context) commitCompacts() map[uint16]*payload.CommitCompact {
	out := make(map[uint16]*payload.CommitCompact)
	if !c.CommitSent() {
		return out
	}
	for i, p := range c.CommitPayloads {
		if p == nil {
			continue
		}
		commit, ok := p.Message.(*payload.Commit)
		if !ok {
			continue
		}
		out[uint16(i)] = &payload.CommitCompact{
			ViewNumber:       commit.ViewNumber,
			ValidatorIndex:   uint16(i),
			Signature:        commit.Signature,
			InvocationScript: witnessScript(p),
		}
	}
	return out
}

// pluralityPreparationHash groups current PrepareResponses by
// preparation_hash and returns the most common one (§4.3: "group by
// preparation_hash, order by count descending, take first").
func (c *Context) pluralityPreparationHash() *types.Hash256 {
	counts := make(map[string]int)
	first := make(map[string]types.Hash256)
	for _, p := range c.PreparationPayloads {
		if p == nil {
			continue
		}
		pr, ok := p.Message.(*payload.PrepareResponse)
		if !ok {
			continue
		}
		key := pr.PreparationHash.String()
		counts[key]++
		if _, seen := first[key]; !seen {
			first[key] = pr.PreparationHash
		}
	}
	var best string
	bestCount := 0
	for key, n := range counts {
		if n > bestCount {
			best, bestCount = key, n
		}
	}
	if bestCount == 0 {
		return nil
	}
	h := first[best]
	return &h
}

func witnessScript(p *payload.ConsensusPayload) []byte {
	if p.Witness == nil {
		return nil
	}
	return p.Witness.Script
}

func policyFilter(c *Context, txs []*types.Transaction) []*types.Transaction {
	for _, pl := range c.policies {
		txs = pl.FilterForBlock(txs)
	}
	return txs
}

func leU64(b [8]byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
