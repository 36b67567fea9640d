// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the canonical binary serialization used for
// hashing, disk storage and (eventually) wire transport of the core's
// data structures. A single deterministic byte form underpins all three:
// integers are little-endian fixed width, variable length integers use the
// compact ("CompactSize") encoding, and vectors are length-prefixed with a
// compact size.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MaxVarIntPayload is the maximum payload size for a variable length
// integer.
const MaxVarIntPayload = 9

var littleEndian = binary.LittleEndian

var errNonCanonicalVarInt = "non-canonical varint %x - discriminant %x must " +
	"encode a value greater than %x"

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64.
func ReadVarInt(r io.Reader) (uint64, error) {
	var buf [9]byte
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, err
	}
	discriminant := buf[0]

	var rv uint64
	switch discriminant {
	case 0xff:
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return 0, err
		}
		rv = littleEndian.Uint64(buf[:8])
		if min := uint64(0x100000000); rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(errNonCanonicalVarInt, rv, discriminant, min))
		}
	case 0xfe:
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint32(buf[:4]))
		if min := uint64(0x10000); rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(errNonCanonicalVarInt, rv, discriminant, min))
		}
	case 0xfd:
		if _, err := io.ReadFull(r, buf[:2]); err != nil {
			return 0, err
		}
		rv = uint64(littleEndian.Uint16(buf[:2]))
		if min := uint64(0xfd); rv < min {
			return 0, messageError("ReadVarInt", fmt.Sprintf(errNonCanonicalVarInt, rv, discriminant, min))
		}
	default:
		rv = uint64(discriminant)
	}

	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes
// depending on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}
	if val <= math.MaxUint16 {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	}
	if val <= math.MaxUint32 {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	}
	buf := make([]byte, 9)
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= math.MaxUint16:
		return 3
	case val <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// ReadVarBytes reads a variable length byte array. It is encoded as a
// CompactSize containing the length of the array followed by the bytes
// themselves. maxAllowed bounds the length to guard against memory
// exhaustion from malformed input.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, messageError("ReadVarBytes", fmt.Sprintf(
			"%s is larger than the max allowed size [count %d, max %d]",
			fieldName, count, maxAllowed))
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes serializes a variable length byte array to w as a
// CompactSize length followed by the bytes themselves.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// WriteUint32 writes a little-endian uint32 to w. Exported for use by
// packages that persist fixed-width fields outside of a Transaction or
// Block (block index records, TxDB scalar pointers).
func WriteUint32(w io.Writer, v uint32) error { return writeUint32(w, v) }

// ReadUint32 reads a little-endian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) { return readUint32(r) }

// WriteUint64 writes a little-endian uint64 to w.
func WriteUint64(w io.Writer, v uint64) error { return writeUint64(w, v) }

// ReadUint64 reads a little-endian uint64 from r.
func ReadUint64(r io.Reader) (uint64, error) { return readUint64(r) }

// WriteInt64 writes a little-endian int64 to w.
func WriteInt64(w io.Writer, v int64) error { return writeInt64(w, v) }

// ReadInt64 reads a little-endian int64 from r.
func ReadInt64(r io.Reader) (int64, error) { return readInt64(r) }

// WriteInt32 writes a little-endian int32 to w.
func WriteInt32(w io.Writer, v int32) error { return writeInt32(w, v) }

// ReadInt32 reads a little-endian int32 from r.
func ReadInt32(r io.Reader) (int32, error) { return readInt32(r) }

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return littleEndian.Uint32(buf[:]), nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return littleEndian.Uint64(buf[:]), nil
}

func writeInt64(w io.Writer, v int64) error {
	return writeUint64(w, uint64(v))
}

func readInt64(r io.Reader) (int64, error) {
	v, err := readUint64(r)
	return int64(v), err
}

func writeInt32(w io.Writer, v int32) error {
	return writeUint32(w, uint32(v))
}

func readInt32(r io.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

// messageError is a generic error used throughout the wire package for
// malformed data.
type messageErr struct {
	op  string
	err string
}

func (e *messageErr) Error() string {
	if e.op == "" {
		return e.err
	}
	return e.op + ": " + e.err
}

func messageError(op, str string) error {
	return &messageErr{op: op, err: str}
}
