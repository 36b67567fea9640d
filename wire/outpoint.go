// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/novacore/novad/chainhash"
)

// MaxPrevOutIndex is the maximum allowed previous output index for a
// transaction input that does not reference a real output (the coinbase
// input).
const MaxPrevOutIndex uint32 = 0xffffffff

// OutPoint defines a single previous-transaction output that a transaction
// input references. It is the Hash of the referenced transaction together
// with the index of the specific output.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint point with the provided
// hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// IsNull returns whether or not the outpoint is considered null, which
// marks a transaction input as a coinbase input.
func (o *OutPoint) IsNull() bool {
	return o.Index == MaxPrevOutIndex && o.Hash == chainhash.ZeroHash
}

// String returns the OutPoint in the human readable form "hash:index".
func (o OutPoint) String() string {
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = fmt.Appendf(buf, "%d", o.Index)
	return string(buf)
}

func readOutPoint(r io.Reader, op *OutPoint) error {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return err
	}
	idx, err := readUint32(r)
	if err != nil {
		return err
	}
	op.Index = idx
	return nil
}

func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return writeUint32(w, op.Index)
}
