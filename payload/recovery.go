package payload

import (
	"dbftcore/types"
	"dbftcore/wire"
)

// ChangeViewCompact is one validator's evidence entry inside a
// RecoveryMessage, carrying just enough to reconstruct that validator's
// ChangeView without re-sending the whole signed payload.
type ChangeViewCompact struct {
	ValidatorIndex     uint16
	OriginalViewNumber byte
	Timestamp          uint64
	Reason             ChangeViewReason
	InvocationScript   []byte
}

func (c *ChangeViewCompact) encode(w *wire.Writer) {
	w.WriteU16(c.ValidatorIndex)
	w.WriteU8(c.OriginalViewNumber)
	w.WriteU64(c.Timestamp)
	w.WriteU8(byte(c.Reason))
	w.WriteVarBytes(c.InvocationScript)
}

func (c *ChangeViewCompact) decode(r *wire.Reader) {
	c.ValidatorIndex = r.ReadU16()
	c.OriginalViewNumber = r.ReadU8()
	c.Timestamp = r.ReadU64()
	c.Reason = ChangeViewReason(r.ReadU8())
	c.InvocationScript = r.ReadVarBytes(1 << 16)
}

// PreparationCompact records that a validator sent a PrepareResponse (or
// is the primary and sent the PrepareRequest); the recovering peer
// re-derives the actual message from the PrepareRequest carried
// alongside, per §4.3.
type PreparationCompact struct {
	ValidatorIndex   uint16
	InvocationScript []byte
}

func (c *PreparationCompact) encode(w *wire.Writer) {
	w.WriteU16(c.ValidatorIndex)
	w.WriteVarBytes(c.InvocationScript)
}

func (c *PreparationCompact) decode(r *wire.Reader) {
	c.ValidatorIndex = r.ReadU16()
	c.InvocationScript = r.ReadVarBytes(1 << 16)
}

// CommitCompact carries one validator's commit signature.
type CommitCompact struct {
	ViewNumber       byte
	ValidatorIndex   uint16
	Signature        []byte
	InvocationScript []byte
}

func (c *CommitCompact) encode(w *wire.Writer) {
	w.WriteU8(c.ViewNumber)
	w.WriteU16(c.ValidatorIndex)
	w.WriteFixedBytes(c.Signature, SignatureSize)
	w.WriteVarBytes(c.InvocationScript)
}

func (c *CommitCompact) decode(r *wire.Reader) {
	c.ViewNumber = r.ReadU8()
	c.ValidatorIndex = r.ReadU16()
	c.Signature = r.ReadBytes(SignatureSize)
	c.InvocationScript = r.ReadVarBytes(1 << 16)
}

// RecoveryMessage bundles a node's consensus view for a peer that fell
// behind (§4.3 MakeRecoveryMessage). The ChangeView/preparation asymmetry
// (at most M change-view compacts, but all preparation compacts) is
// intentional and must be preserved exactly for wire compatibility (§
// Design Notes open question).
type RecoveryMessage struct {
	ViewNumber byte

	ChangeViewMessages map[uint16]*ChangeViewCompact
	PrepareRequest     *PrepareRequest
	PreparationHash    *types.Hash256
	PreparationPayloads map[uint16]*PreparationCompact
	CommitMessages     map[uint16]*CommitCompact
}

func (m *RecoveryMessage) Type() MessageType   { return MessageRecoveryMessage }
func (m *RecoveryMessage) GetViewNumber() byte { return m.ViewNumber }

func (m *RecoveryMessage) Encode(w *wire.Writer) {
	w.WriteU8(m.ViewNumber)

	w.WriteVarUint(uint64(len(m.ChangeViewMessages)))
	for _, idx := range sortedU16Keys(m.ChangeViewMessages) {
		m.ChangeViewMessages[idx].encode(w)
	}

	w.WriteBool(m.PrepareRequest != nil)
	if m.PrepareRequest != nil {
		m.PrepareRequest.Encode(w)
	}

	w.WriteBool(m.PreparationHash != nil)
	if m.PreparationHash != nil {
		w.WriteFixedBytes(*m.PreparationHash, types.HashKeySize)
	}

	w.WriteVarUint(uint64(len(m.PreparationPayloads)))
	for _, idx := range sortedPrepKeys(m.PreparationPayloads) {
		m.PreparationPayloads[idx].encode(w)
	}

	w.WriteVarUint(uint64(len(m.CommitMessages)))
	for _, idx := range sortedCommitKeys(m.CommitMessages) {
		m.CommitMessages[idx].encode(w)
	}
}

func (m *RecoveryMessage) Decode(r *wire.Reader) {
	m.ViewNumber = r.ReadU8()

	cvCount := r.ReadVarUintBounded(MaxValidators)
	m.ChangeViewMessages = make(map[uint16]*ChangeViewCompact, cvCount)
	for i := uint64(0); i < cvCount; i++ {
		c := &ChangeViewCompact{}
		c.decode(r)
		m.ChangeViewMessages[c.ValidatorIndex] = c
	}

	if r.ReadBool() {
		m.PrepareRequest = &PrepareRequest{}
		m.PrepareRequest.Decode(r)
	}

	if r.ReadBool() {
		h := types.Hash256(r.ReadBytes(types.HashKeySize))
		m.PreparationHash = &h
	}

	prepCount := r.ReadVarUintBounded(MaxValidators)
	m.PreparationPayloads = make(map[uint16]*PreparationCompact, prepCount)
	for i := uint64(0); i < prepCount; i++ {
		c := &PreparationCompact{}
		c.decode(r)
		m.PreparationPayloads[c.ValidatorIndex] = c
	}

	commitCount := r.ReadVarUintBounded(MaxValidators)
	m.CommitMessages = make(map[uint16]*CommitCompact, commitCount)
	for i := uint64(0); i < commitCount; i++ {
		c := &CommitCompact{}
		c.decode(r)
		m.CommitMessages[c.ValidatorIndex] = c
	}
}

func sortedU16Keys(m map[uint16]*ChangeViewCompact) []uint16 {
	out := make([]uint16, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortU16(out)
	return out
}

func sortedPrepKeys(m map[uint16]*PreparationCompact) []uint16 {
	out := make([]uint16, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortU16(out)
	return out
}

func sortedCommitKeys(m map[uint16]*CommitCompact) []uint16 {
	out := make([]uint16, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortU16(out)
	return out
}

func sortU16(s []uint16) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
