// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txdb persists the transaction index and the block index to a
// storage.Database: the `(txid -> tx-index record)` and `(block-hash ->
// disk-block-index record)` maps plus the scalar chain pointers of §4.4.
package txdb

import (
	"bytes"
	"io"
	"math/big"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/wire"
)

// NullFileNo marks a DiskPos as not referring to any real location
// (§3: "null ⇔ fileNo = UINT32_MAX").
const NullFileNo uint32 = 0xffffffff

// DiskPos locates a record within the block-file set: which file, the
// byte offset of the block within it, and the byte offset of the
// transaction within the block.
type DiskPos struct {
	FileNo   uint32
	BlockPos uint32
	TxPos    uint32
}

// IsNull reports whether the position is the null sentinel.
func (d DiskPos) IsNull() bool { return d.FileNo == NullFileNo }

// NullDiskPos is the null sentinel DiskPos.
var NullDiskPos = DiskPos{FileNo: NullFileNo}

func (d *DiskPos) serialize(w io.Writer) error {
	if err := wire.WriteUint32(w, d.FileNo); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, d.BlockPos); err != nil {
		return err
	}
	return wire.WriteUint32(w, d.TxPos)
}

func (d *DiskPos) deserialize(r io.Reader) error {
	fileNo, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	blockPos, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	txPos, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	d.FileNo, d.BlockPos, d.TxPos = fileNo, blockPos, txPos
	return nil
}

// TxIndex is the on-disk record of where a transaction lives and which of
// its outputs have been spent (§3). Length of Spent is fixed at creation
// to the producing transaction's vout count.
type TxIndex struct {
	Pos   DiskPos
	Spent []DiskPos
}

// NewTxIndex returns a TxIndex for a transaction at pos with numOutputs
// initially-unspent outputs.
func NewTxIndex(pos DiskPos, numOutputs int) *TxIndex {
	spent := make([]DiskPos, numOutputs)
	for i := range spent {
		spent[i] = NullDiskPos
	}
	return &TxIndex{Pos: pos, Spent: spent}
}

// IsSpent reports whether output i has been marked spent.
func (t *TxIndex) IsSpent(i int) bool {
	return i >= 0 && i < len(t.Spent) && !t.Spent[i].IsNull()
}

// Serialize encodes the TxIndex in canonical form.
func (t *TxIndex) Serialize(w io.Writer) error {
	if err := t.Pos.serialize(w); err != nil {
		return err
	}
	if err := wire.WriteVarInt(w, uint64(len(t.Spent))); err != nil {
		return err
	}
	for i := range t.Spent {
		if err := t.Spent[i].serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a TxIndex, the inverse of Serialize.
func (t *TxIndex) Deserialize(r io.Reader) error {
	if err := t.Pos.deserialize(r); err != nil {
		return err
	}
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return err
	}
	t.Spent = make([]DiskPos, count)
	for i := range t.Spent {
		if err := t.Spent[i].deserialize(r); err != nil {
			return err
		}
	}
	return nil
}

// DiskBlockIndex is the serialized form of a BlockIndex node: it carries
// HashPrev/HashNext explicitly since in-memory pointer links cannot be
// persisted, and it persists its own BlockHash (§3).
type DiskBlockIndex struct {
	BlockHash   chainhash.Hash
	HashPrev    chainhash.Hash
	HashNext    chainhash.Hash
	Height      int32
	ChainTrust  *big.Int
	Mint        int64
	MoneySupply int64

	Flags                    uint32
	StakeModifier            uint64
	StakeModifierChecksum    uint32
	PrevoutStakeHash         chainhash.Hash
	PrevoutStakeIndex        uint32
	StakeTime                uint32
	ProofOfStakeHash         chainhash.Hash

	Header wire.BlockHeader
}

// Block index flag bits (§3, BlockIndex.flags).
const (
	FlagProofOfStake             uint32 = 1 << 0
	FlagEntropyBit                      = 1 << 1
	FlagStakeModifierRegenerated        = 1 << 2
)

// IsProofOfStake reports whether FlagProofOfStake is set.
func (d *DiskBlockIndex) IsProofOfStake() bool {
	return d.Flags&FlagProofOfStake != 0
}

// Serialize encodes the DiskBlockIndex in canonical form.
func (d *DiskBlockIndex) Serialize(w io.Writer) error {
	if _, err := w.Write(d.BlockHash[:]); err != nil {
		return err
	}
	if _, err := w.Write(d.HashPrev[:]); err != nil {
		return err
	}
	if _, err := w.Write(d.HashNext[:]); err != nil {
		return err
	}
	if err := wire.WriteInt32(w, d.Height); err != nil {
		return err
	}
	trustBytes := d.ChainTrust.Bytes()
	if err := wire.WriteVarBytes(w, trustBytes); err != nil {
		return err
	}
	if err := wire.WriteInt64(w, d.Mint); err != nil {
		return err
	}
	if err := wire.WriteInt64(w, d.MoneySupply); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, d.Flags); err != nil {
		return err
	}
	if err := wire.WriteUint64(w, d.StakeModifier); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, d.StakeModifierChecksum); err != nil {
		return err
	}
	if _, err := w.Write(d.PrevoutStakeHash[:]); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, d.PrevoutStakeIndex); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, d.StakeTime); err != nil {
		return err
	}
	if _, err := w.Write(d.ProofOfStakeHash[:]); err != nil {
		return err
	}
	return d.Header.Serialize(w)
}

// Deserialize decodes a DiskBlockIndex, the inverse of Serialize.
func (d *DiskBlockIndex) Deserialize(r io.Reader) error {
	if _, err := io.ReadFull(r, d.BlockHash[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, d.HashPrev[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, d.HashNext[:]); err != nil {
		return err
	}
	height, err := wire.ReadInt32(r)
	if err != nil {
		return err
	}
	d.Height = height

	trustBytes, err := wire.ReadVarBytes(r, 32, "chainTrust")
	if err != nil {
		return err
	}
	d.ChainTrust = new(big.Int).SetBytes(trustBytes)

	mint, err := wire.ReadInt64(r)
	if err != nil {
		return err
	}
	d.Mint = mint

	moneySupply, err := wire.ReadInt64(r)
	if err != nil {
		return err
	}
	d.MoneySupply = moneySupply

	flags, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	d.Flags = flags

	sm, err := wire.ReadUint64(r)
	if err != nil {
		return err
	}
	d.StakeModifier = sm

	smc, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	d.StakeModifierChecksum = smc

	if _, err := io.ReadFull(r, d.PrevoutStakeHash[:]); err != nil {
		return err
	}
	psi, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	d.PrevoutStakeIndex = psi

	st, err := wire.ReadUint32(r)
	if err != nil {
		return err
	}
	d.StakeTime = st

	if _, err := io.ReadFull(r, d.ProofOfStakeHash[:]); err != nil {
		return err
	}

	return d.Header.Deserialize(r)
}

// Bytes serializes d to a byte slice.
func (d *DiskBlockIndex) Bytes() []byte {
	var buf bytes.Buffer
	_ = d.Serialize(&buf)
	return buf.Bytes()
}
