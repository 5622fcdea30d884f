// Package wire is the hand-rolled deterministic binary codec the block,
// payload, and checkpoint formats are built on (§4.6). A reflection-based
// codec (e.g. the teacher pack's linearcodec-style libraries) cannot
// guarantee the exact, peer-compatible byte layout the wire format
// demands, so this package plays that role directly: a small
// Writer/Reader pair in the style of Bitcoin/NEO's BinWriter/BinReader,
// which chainbft_demo approximated with ad hoc encoding/binary calls
// scattered through types/*.go.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

// ErrCountTooLarge is returned by ReadVarBytes/ReadArray-style callers
// when a length prefix exceeds the caller-supplied bound, the format
// error §7 requires for "count exceeding bound".
var ErrCountTooLarge = errors.New("wire: count exceeds bound")

// Writer accumulates a deterministic little-endian encoding.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error encountered, if any; once set, every
// subsequent Write* call is a no-op.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

func (w *Writer) WriteBool(b bool) {
	if b {
		w.write([]byte{1})
	} else {
		w.write([]byte{0})
	}
}

func (w *Writer) WriteU8(v uint8) { w.write([]byte{v}) }

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.write(b[:])
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.write(b[:])
}

// WriteVarUint writes v using the standard blockchain var_int encoding:
// values below 0xfd encode as a single byte; larger values are prefixed
// by a marker byte selecting a 2/4/8-byte little-endian field.
func (w *Writer) WriteVarUint(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteU8(uint8(v))
	case v <= 0xffff:
		w.WriteU8(0xfd)
		w.WriteU16(uint16(v))
	case v <= 0xffffffff:
		w.WriteU8(0xfe)
		w.WriteU32(uint32(v))
	default:
		w.WriteU8(0xff)
		w.WriteU64(v)
	}
}

// WriteBytes writes p with no length prefix, for fixed-size fields.
func (w *Writer) WriteBytes(p []byte) { w.write(p) }

// WriteVarBytes writes a var_int length prefix followed by p.
func (w *Writer) WriteVarBytes(p []byte) {
	w.WriteVarUint(uint64(len(p)))
	w.write(p)
}

// WriteFixedBytes writes exactly n bytes of p, zero-padding or truncating
// as needed — used for u160/u256 fields that must always occupy a fixed
// width regardless of the in-memory slice length.
func (w *Writer) WriteFixedBytes(p []byte, n int) {
	buf := make([]byte, n)
	copy(buf, p)
	w.write(buf)
}

// Reader consumes a stream written by Writer, accumulating the first
// error the way BinReader does so callers can chain calls without
// checking after every field.
type Reader struct {
	r   *bufio.Reader
	err error
}

func NewReader(r io.Reader) *Reader { return &Reader{r: bufio.NewReader(r)} }

func (r *Reader) Err() error { return r.err }

func (r *Reader) read(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
	}
	return buf
}

func (r *Reader) ReadBool() bool { return r.read(1)[0] != 0 }

func (r *Reader) ReadU8() uint8 { return r.read(1)[0] }

func (r *Reader) ReadU16() uint16 { return binary.LittleEndian.Uint16(r.read(2)) }

func (r *Reader) ReadU32() uint32 { return binary.LittleEndian.Uint32(r.read(4)) }

func (r *Reader) ReadU64() uint64 { return binary.LittleEndian.Uint64(r.read(8)) }

// ReadVarUint decodes the var_int encoding WriteVarUint produces.
func (r *Reader) ReadVarUint() uint64 {
	marker := r.ReadU8()
	switch marker {
	case 0xfd:
		return uint64(r.ReadU16())
	case 0xfe:
		return uint64(r.ReadU32())
	case 0xff:
		return r.ReadU64()
	default:
		return uint64(marker)
	}
}

// ReadVarUintBounded is ReadVarUint with a caller-supplied ceiling,
// surfacing ErrCountTooLarge as a format error rather than letting a
// malicious length prefix drive an unbounded allocation.
func (r *Reader) ReadVarUintBounded(max uint64) uint64 {
	v := r.ReadVarUint()
	if r.err == nil && v > max {
		r.err = ErrCountTooLarge
	}
	return v
}

func (r *Reader) ReadBytes(n int) []byte { return r.read(n) }

// ReadVarBytes decodes a var_int length prefix followed by that many
// bytes, bounded by max.
func (r *Reader) ReadVarBytes(max uint64) []byte {
	n := r.ReadVarUintBounded(max)
	if r.err != nil {
		return nil
	}
	return r.read(int(n))
}
