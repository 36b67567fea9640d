// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/novacore/novad/chainhash"
)

// MaxBlockSize is the maximum number of bytes allowed in a serialized
// block, measured over the full serialization including the
// proof-of-stake signature.
const MaxBlockSize = 1000000

// MaxTxPerBlock bounds the number of transactions accepted when
// deserializing a block.
const MaxTxPerBlock = MaxBlockSize / 60 // cheapest possible tx is ~60 bytes

// MaxBlockSigSize bounds the size of a deserialized coin-stake signature.
const MaxBlockSigSize = 160

// Block is a header plus its transactions and, for proof-of-stake blocks,
// a signature over the header by the key controlling one of the
// coin-stake's outputs (§3).
type Block struct {
	Header         BlockHeader
	Transactions   []*Transaction
	BlockSignature []byte
}

// NewBlock returns a new block with the provided header and no
// transactions.
func NewBlock(header *BlockHeader) *Block {
	return &Block{Header: *header}
}

// IsProofOfStake reports whether the block's second transaction is a
// coin-stake, i.e. the block was minted rather than mined.
func (b *Block) IsProofOfStake() bool {
	return len(b.Transactions) > 1 && b.Transactions[1].IsCoinStake()
}

// BlockHash returns the block's identity hash, delegating to the header.
func (b *Block) BlockHash() chainhash.Hash {
	return b.Header.BlockHash()
}

// BuildMerkleRoot computes the SHA-256d Merkle root over the block's
// transaction hashes, duplicating the final leaf at each level that has
// an odd count, and stores it into the header. It is the caller's
// responsibility to call this after mutating Transactions and before
// relying on Header.MerkleRoot or hashing the header.
func (b *Block) BuildMerkleRoot() chainhash.Hash {
	if len(b.Transactions) == 0 {
		b.Header.MerkleRoot = chainhash.Hash{}
		return b.Header.MerkleRoot
	}

	leaves := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		leaves[i] = tx.TxHash()
	}

	for len(leaves) > 1 {
		if len(leaves)%2 != 0 {
			leaves = append(leaves, leaves[len(leaves)-1])
		}
		next := make([]chainhash.Hash, len(leaves)/2)
		var buf [2 * chainhash.HashSize]byte
		for i := range next {
			copy(buf[:chainhash.HashSize], leaves[2*i][:])
			copy(buf[chainhash.HashSize:], leaves[2*i+1][:])
			next[i] = chainhash.HashH(buf[:])
		}
		leaves = next
	}

	b.Header.MerkleRoot = leaves[0]
	return leaves[0]
}

// Serialize encodes the full block (mode 1 of §4.1: network/disk, full
// fidelity) to w: header, transaction vector, then the signature as a
// length-prefixed byte vector (written for every block; empty for PoW).
func (b *Block) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(b.Transactions))); err != nil {
		return err
	}
	for _, tx := range b.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return WriteVarBytes(w, b.BlockSignature)
}

// Deserialize decodes a full block from r, the inverse of Serialize.
func (b *Block) Deserialize(r io.Reader) error {
	if err := b.Header.Deserialize(r); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxTxPerBlock {
		return messageError("Block.Deserialize", "too many transactions in block")
	}
	b.Transactions = make([]*Transaction, count)
	for i := range b.Transactions {
		tx := new(Transaction)
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		b.Transactions[i] = tx
	}

	sig, err := ReadVarBytes(r, MaxBlockSigSize, "block signature")
	if err != nil {
		return err
	}
	b.BlockSignature = sig
	return nil
}

// SerializeHeaderOnly encodes only the header (mode 2 of §4.1), omitting
// both the transaction vector and the signature. Used when only header
// continuity needs to be checked or relayed.
func (b *Block) SerializeHeaderOnly(w io.Writer) error {
	return b.Header.Serialize(w)
}

// SerializeSize returns the number of bytes it would take to fully
// serialize the block.
func (b *Block) SerializeSize() int {
	n := BlockHeaderLen
	n += VarIntSerializeSize(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		n += tx.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(b.BlockSignature))) + len(b.BlockSignature)
	return n
}

// SerializeGetHash encodes the block in GetHash mode (mode 3 of §4.1):
// the header bytes only, with no leading protocol-version envelope, so
// that SerializeHash(block) is stable across wire-protocol version
// bumps. For a Block this coincides with the header-only form, since the
// header itself carries no outer envelope in this core.
func (b *Block) SerializeGetHash(w io.Writer) error {
	return b.Header.Serialize(w)
}

// bufPool-free helper retained for callers that need a byte slice rather
// than a Writer, e.g. hashing or disk append.
func (b *Block) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(b.SerializeSize())
	if err := b.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
