// Package payload defines the dBFT wire messages the Message Factory
// builds (§4.3) and the Codec serializes as part of a Context checkpoint
// (§4.6). It replaces chainbft_demo/types' Proposal/Vote pair — dBFT's
// message set is richer (six tagged variants, not two) — while keeping
// the teacher's pattern of a tagged struct plus explicit
// Encode/Decode(*wire.Writer/*wire.Reader) methods rather than virtual
// dispatch (§ Design Notes: "no virtual dispatch").
package payload

import (
	"dbftcore/types"
	"dbftcore/wire"
)

// MessageType tags a ConsensusMessage's concrete variant, taking the
// place of runtime type-switches when decoding off the wire.
type MessageType byte

const (
	MessageChangeView MessageType = iota
	MessagePrepareRequest
	MessagePrepareResponse
	MessageCommit
	MessageRecoveryRequest
	MessageRecoveryMessage
)

// MaxValidators bounds every var_int slot/validator count decoded off
// the wire (§4.6 "bounded by MaxValidators").
const MaxValidators = 1024

// MaxTransactionsPerBlock bounds the transaction-hash and transaction
// counts decoded off the wire (§4.6).
const MaxTransactionsPerBlock = 1 << 16

// ConsensusMessage is the tagged-variant contract every message type
// below satisfies.
type ConsensusMessage interface {
	Type() MessageType
	GetViewNumber() byte
	Encode(w *wire.Writer)
	Decode(r *wire.Reader)
}

// ChangeView is a validator's request to abandon the current view
// (§4.3 MakeChangeView).
type ChangeView struct {
	ViewNumber    byte
	NewViewNumber byte
	Timestamp     uint64
	Reason        ChangeViewReason
}

// ChangeViewReason enumerates why a validator asked to abandon a view,
// carried for diagnostics; it never changes wire-level behavior.
type ChangeViewReason byte

const (
	CVTimeout ChangeViewReason = iota
	CVChangeAgreement
	CVTxNotFound
	CVTxRejectedByPolicy
	CVTxInvalid
	CVBlockRejectedByPolicy
)

func (m *ChangeView) Type() MessageType   { return MessageChangeView }
func (m *ChangeView) GetViewNumber() byte { return m.ViewNumber }

func (m *ChangeView) Encode(w *wire.Writer) {
	w.WriteU8(m.ViewNumber)
	w.WriteU8(m.NewViewNumber)
	w.WriteU64(m.Timestamp)
	w.WriteU8(byte(m.Reason))
}

func (m *ChangeView) Decode(r *wire.Reader) {
	m.ViewNumber = r.ReadU8()
	m.NewViewNumber = r.ReadU8()
	m.Timestamp = r.ReadU64()
	m.Reason = ChangeViewReason(r.ReadU8())
}

// PrepareRequest is the primary's proposal of a transaction set
// (§4.3 MakePrepareRequest).
type PrepareRequest struct {
	ViewNumber        byte
	Timestamp         uint64
	Nonce             uint64
	TransactionHashes []types.Hash256
}

func (m *PrepareRequest) Type() MessageType   { return MessagePrepareRequest }
func (m *PrepareRequest) GetViewNumber() byte { return m.ViewNumber }

func (m *PrepareRequest) Encode(w *wire.Writer) {
	w.WriteU8(m.ViewNumber)
	w.WriteU64(m.Timestamp)
	w.WriteU64(m.Nonce)
	w.WriteVarUint(uint64(len(m.TransactionHashes)))
	for _, h := range m.TransactionHashes {
		w.WriteFixedBytes(h, types.HashKeySize)
	}
}

func (m *PrepareRequest) Decode(r *wire.Reader) {
	m.ViewNumber = r.ReadU8()
	m.Timestamp = r.ReadU64()
	m.Nonce = r.ReadU64()
	n := r.ReadVarUintBounded(MaxTransactionsPerBlock)
	m.TransactionHashes = make([]types.Hash256, n)
	for i := range m.TransactionHashes {
		m.TransactionHashes[i] = types.Hash256(r.ReadBytes(types.HashKeySize))
	}
}

// PrepareResponse is a backup's endorsement of the primary's proposal by
// hash (§4.3 MakePrepareResponse).
type PrepareResponse struct {
	ViewNumber      byte
	PreparationHash types.Hash256
}

func (m *PrepareResponse) Type() MessageType   { return MessagePrepareResponse }
func (m *PrepareResponse) GetViewNumber() byte { return m.ViewNumber }

func (m *PrepareResponse) Encode(w *wire.Writer) {
	w.WriteU8(m.ViewNumber)
	w.WriteFixedBytes(m.PreparationHash, types.HashKeySize)
}

func (m *PrepareResponse) Decode(r *wire.Reader) {
	m.ViewNumber = r.ReadU8()
	m.PreparationHash = types.Hash256(r.ReadBytes(types.HashKeySize))
}

// Commit is a validator's signature over the proposed block header
// (§4.3 MakeCommit, §4.4).
type Commit struct {
	ViewNumber byte
	Signature  []byte
}

func (m *Commit) Type() MessageType   { return MessageCommit }
func (m *Commit) GetViewNumber() byte { return m.ViewNumber }

func (m *Commit) Encode(w *wire.Writer) {
	w.WriteU8(m.ViewNumber)
	w.WriteFixedBytes(m.Signature, SignatureSize)
}

func (m *Commit) Decode(r *wire.Reader) {
	m.ViewNumber = r.ReadU8()
	m.Signature = r.ReadBytes(SignatureSize)
}

// SignatureSize is the fixed BLS signature width (a G1 point as
// marshaled by go.dedis.ch/kyber/v3's bn256 suite).
const SignatureSize = 64

// RecoveryRequest solicits recovery from peers (§4.3 MakeRecoveryRequest).
type RecoveryRequest struct {
	ViewNumber byte
	Timestamp  uint64
}

func (m *RecoveryRequest) Type() MessageType   { return MessageRecoveryRequest }
func (m *RecoveryRequest) GetViewNumber() byte { return m.ViewNumber }

func (m *RecoveryRequest) Encode(w *wire.Writer) {
	w.WriteU8(m.ViewNumber)
	w.WriteU64(m.Timestamp)
}

func (m *RecoveryRequest) Decode(r *wire.Reader) {
	m.ViewNumber = r.ReadU8()
	m.Timestamp = r.ReadU64()
}
