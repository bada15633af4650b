// Package codec implements the canonical, non-self-describing binary
// format that every wire type in the runtime is serialized with: fixed
// width little-endian integers, length-prefixed byte strings, and
// key-sorted maps. Two independent implementations of this format must
// produce byte-identical output for the same value, because the format is
// what a verifier hashes and compares against a committed digest — it is
// deliberately not reused from a generic encoder like RLP or Borsh.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// Encoder accumulates canonical bytes for a single wire value.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the accumulated canonical encoding.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// WriteUint64 appends n as 8 fixed-width little-endian bytes.
func (e *Encoder) WriteUint64(n uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	e.buf.Write(b[:])
}

// WriteUint32 appends n as 4 fixed-width little-endian bytes.
func (e *Encoder) WriteUint32(n uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	e.buf.Write(b[:])
}

// WriteBytes appends a length-prefixed byte string: a uint64 length
// followed by the raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUint64(uint64(len(b)))
	e.buf.Write(b)
}

// WriteString appends a length-prefixed UTF-8 string.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// WriteFixed appends raw fixed-size bytes with no length prefix, for
// values whose width is already known to both sides (digests, addresses).
func (e *Encoder) WriteFixed(b []byte) {
	e.buf.Write(b)
}

// WriteRaw splices in bytes already produced by another Encoder, for
// composing nested canonical values without an extra copy boundary.
func (e *Encoder) WriteRaw(b []byte) {
	e.buf.Write(b)
}

// writeCount writes a map's entry count as a uint64, ahead of the entries
// WriteStringKeyedMap emits.
func (e *Encoder) writeCount(n int) {
	e.WriteUint64(uint64(n))
}

// WriteStringKeyedMap writes keys in sorted order, calling emit(key) for
// each to append the value bytes; this is used for storage_reads /
// storage_writes, both keyed by string storage keys.
func (e *Encoder) WriteStringKeyedMap(keys []string, emit func(key string)) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	e.writeCount(len(sorted))
	for _, k := range sorted {
		e.WriteString(k)
		emit(k)
	}
}

// Decoder reads canonical bytes in the same order an Encoder wrote them.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps b for canonical decoding.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// ErrShortBuffer is returned whenever the decoder runs past the end of the
// input; it always indicates a malformed request/outcome.
var ErrShortBuffer = fmt.Errorf("codec: unexpected end of buffer")

func (d *Decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, ErrShortBuffer
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadUint64 reads 8 little-endian bytes.
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadUint32 reads 4 little-endian bytes.
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadBytes reads a length-prefixed byte string.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	b, err := d.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadFixed reads exactly n raw bytes with no length prefix.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadCount reads the entry count written by WriteStringKeyedMap.
func (d *Decoder) ReadCount() (int, error) {
	n, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Remaining reports how many unread bytes are left; a well-formed
// message leaves none.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}
