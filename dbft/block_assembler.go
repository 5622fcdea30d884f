package dbft

import (
	"bytes"
	"time"

	"github.com/pkg/errors"

	"dbftcore/crypto/bls"
	"dbftcore/payload"
	"dbftcore/types"
)

// CreateBlock assembles the final block once quorum is reached (§4.4).
// Preconditions: TransactionHashes non-null and count_committed (at the
// current view) >= M; violating either is a programmer error, since the
// caller is responsible for checking CountCommitted against M before
// calling (§7 "Quorum unreachable"). The resulting witness records
// exactly which validators' commit signatures were folded into it, so
// VerifyBlockWitness (or any peer) can check it without trusting the
// producer's bookkeeping (§4.4/S6).
func (c *Context) CreateBlock() *types.Block {
	if c.TransactionHashes == nil {
		panic("dbft: CreateBlock called before a transaction list was proposed")
	}

	c.Block.EnsureHeader(c.TransactionHashes)

	sigs := make([][]byte, 0, c.M())
	signers := make([]uint16, 0, c.M())
	for i, p := range c.CommitPayloads {
		if len(sigs) >= c.M() {
			break
		}
		if p == nil {
			continue
		}
		commit, ok := p.Message.(*payload.Commit)
		if !ok || commit.ViewNumber != c.ViewNumber {
			continue
		}
		if len(commit.Signature) == 0 {
			continue
		}
		sigs = append(sigs, commit.Signature)
		signers = append(signers, uint16(i))
	}
	if len(sigs) < c.M() {
		panic("dbft: CreateBlock called without a reachable quorum of commits")
	}

	if c.commitGauge != nil {
		c.commitGauge.Update(int64(len(sigs)))
	}
	if c.quorumTimer != nil {
		c.quorumTimer.Update(time.Duration(c.now()-c.viewStartedAt) * time.Millisecond)
	}

	agg, err := bls.AggregateSignatures(sigs...)
	if err != nil {
		panic(err)
	}
	c.Block.Witness = &types.Witness{
		Script:    c.Validators.Script(),
		Signers:   signers,
		Signature: agg,
	}
	c.Block.Transactions = c.transactionsList()

	block := c.Block
	return &block
}

// VerifyBlockWitness checks that block's witness genuinely proves
// agreement from at least M members of vals (§4.4/S6): Signers names the
// exact subset whose signatures were folded into Signature, Script must
// match the verification script vals itself derives, and Signature must
// verify against the aggregate public key of exactly that subset — not
// against the committee as a whole, which is what makes an unqualified
// aggregate signature unverifiable.
func VerifyBlockWitness(vals *types.ValidatorSet, block *types.Block) error {
	w := block.Witness
	if w.IsEmpty() {
		return errors.New("dbft: block has no witness")
	}
	if len(w.Signers) < vals.M() {
		return errors.Errorf("dbft: witness has %d signers, need at least %d", len(w.Signers), vals.M())
	}
	if !bytes.Equal(w.Script, vals.Script()) {
		return errors.New("dbft: witness script does not match the validator set")
	}

	seen := make(map[uint16]bool, len(w.Signers))
	pubs := make([]types.PublicKey, 0, len(w.Signers))
	for _, idx := range w.Signers {
		if seen[idx] {
			return errors.Errorf("dbft: witness lists signer %d more than once", idx)
		}
		seen[idx] = true
		val := vals.GetByIndex(int(idx))
		if val == nil {
			return errors.Errorf("dbft: witness signer %d is out of range", idx)
		}
		pubs = append(pubs, val.PubKey)
	}

	aggPub, err := bls.AggregatePublicKeys(pubs...)
	if err != nil {
		return err
	}
	return bls.Verify(aggPub, block.Header.SignaturePayload(), w.Signature)
}
