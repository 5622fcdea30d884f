package types

// Witness is the multisignature evidence attached to a finalized block or
// consensus payload (§4.4). It replaces the teacher's single-signer
// Quorum/Commit pair: a dBFT block is witnessed by an aggregate BLS
// signature, not by a chain of per-block Commit pointers.
//
// On a single ConsensusPayload, Witness proves that one validator (named
// by the payload's own ValidatorIndex) produced Signature: Script is that
// validator's own public key and Signers is unused.
//
// On a finalized Block, Witness proves that at least M validators agreed:
// Script is the M-of-N verification script ValidatorSet.Script derives
// from the committee, Signers names the exact subset of validator indices
// whose signatures were folded into Signature, and Signature is only
// valid against the aggregate public key of that subset — not against
// Script's committee as a whole. See dbft.VerifyBlockWitness.
type Witness struct {
	Script    []byte
	Signers   []uint16
	Signature []byte
}

// IsEmpty reports whether no signature has been aggregated yet.
func (w *Witness) IsEmpty() bool {
	return w == nil || len(w.Signature) == 0
}
