package payload

import (
	"bytes"

	"dbftcore/types"
	"dbftcore/wire"
)

// ConsensusPayload is the common envelope every outbound message rides
// in (§4.3: "version, prev-hash, block index, validator index, consensus
// message"), signed as a whole by the wallet.
type ConsensusPayload struct {
	Version         uint32
	PrevHash        types.Hash256
	BlockIndex      uint32
	ValidatorIndex  uint16
	Message         ConsensusMessage
	Witness         *types.Witness

	hash types.Hash256
}

// SignaturePayload is the byte string the wallet signs and Verify
// checks, covering everything except the witness itself.
func (p *ConsensusPayload) SignaturePayload() []byte {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	p.encodeUnsigned(w)
	return buf.Bytes()
}

// Hash identifies this payload for preparation-hash comparisons
// (§4.3 MakePrepareResponse) and RecoveryMessage compacting.
func (p *ConsensusPayload) Hash() types.Hash256 {
	if p.hash == nil {
		p.hash = types.SumHash256(p.SignaturePayload())
	}
	return p.hash
}

func (p *ConsensusPayload) encodeUnsigned(w *wire.Writer) {
	w.WriteU32(p.Version)
	w.WriteFixedBytes(p.PrevHash, types.HashKeySize)
	w.WriteU32(p.BlockIndex)
	w.WriteU16(p.ValidatorIndex)
	w.WriteU8(byte(p.Message.Type()))
	p.Message.Encode(w)
}

// Encode writes the full payload including its witness.
func (p *ConsensusPayload) Encode(w *wire.Writer) {
	p.encodeUnsigned(w)
	if p.Witness.IsEmpty() {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteVarBytes(p.Witness.Script)
	w.WriteVarBytes(p.Witness.Signature)
}

// DecodePayload reads a payload previously written by Encode. newMessage
// constructs the empty ConsensusMessage for msgType before decoding into it.
func DecodePayload(r *wire.Reader) *ConsensusPayload {
	p := &ConsensusPayload{}
	p.Version = r.ReadU32()
	p.PrevHash = types.Hash256(r.ReadBytes(types.HashKeySize))
	p.BlockIndex = r.ReadU32()
	p.ValidatorIndex = r.ReadU16()
	msgType := MessageType(r.ReadU8())
	p.Message = newMessage(msgType)
	if p.Message != nil {
		p.Message.Decode(r)
	}
	if r.ReadBool() {
		p.Witness = &types.Witness{
			Script:    r.ReadVarBytes(1 << 16),
			Signature: r.ReadVarBytes(1 << 16),
		}
	}
	return p
}

func newMessage(t MessageType) ConsensusMessage {
	switch t {
	case MessageChangeView:
		return &ChangeView{}
	case MessagePrepareRequest:
		return &PrepareRequest{}
	case MessagePrepareResponse:
		return &PrepareResponse{}
	case MessageCommit:
		return &Commit{}
	case MessageRecoveryRequest:
		return &RecoveryRequest{}
	case MessageRecoveryMessage:
		return &RecoveryMessage{}
	default:
		return nil
	}
}
