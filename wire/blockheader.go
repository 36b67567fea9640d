// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/novacore/novad/chainhash"
)

// BlockHeaderLen is the number of bytes in a serialized block header: the
// first six fields described in §4.1, which is also everything the
// memory-hard proof-of-work hash is computed over.
const BlockHeaderLen = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4 + 4

// BlockHeader defines the canonical header fields every block carries,
// independent of proof-of-work or proof-of-stake status.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  time.Time
	Bits       uint32
	Nonce      uint32
}

// BlockHash returns the SHA-256d hash of the header, used as the block's
// identity for indexing purposes. It is distinct from the memory-hard
// proof-of-work hash computed by the external PoW collaborator, which is
// used only to validate the work itself (§9, GLOSSARY "memory-hard hash").
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	buf.Grow(BlockHeaderLen)
	_ = writeBlockHeader(&buf, h)
	return chainhash.HashH(buf.Bytes())
}

// Serialize encodes the header fields to w in canonical form.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Deserialize decodes the header fields from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, h)
}

func writeBlockHeader(w io.Writer, h *BlockHeader) error {
	if err := writeInt32(w, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeUint32(w, h.Bits); err != nil {
		return err
	}
	return writeUint32(w, h.Nonce)
}

func readBlockHeader(r io.Reader, h *BlockHeader) error {
	version, err := readInt32(r)
	if err != nil {
		return err
	}
	h.Version = version

	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}

	ts, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(ts), 0)

	bits, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Bits = bits

	nonce, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Nonce = nonce
	return nil
}
