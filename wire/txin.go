// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MaxScriptSigSize is the largest allowed signature script size accepted
// when deserializing a transaction input, guarding against memory
// exhaustion from malformed data.
const MaxScriptSigSize = 1 << 20 // 1 MiB

// MaxTxInSequenceNum is the maximum sequence number a transaction input
// can have; an input with this value is final, so it does not hold the
// transaction back by its lock time.
const MaxTxInSequenceNum uint32 = 0xffffffff

// TxIn defines a transaction input, referencing a previous transaction
// output and a signature script proving the right to redeem it.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a new transaction input with the provided previous
// outpoint and signature script.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// outpoint hash + index (4) + varint + script + sequence (4)
	return 32 + 4 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript) + 4
}

func (t *TxIn) deserialize(r io.Reader) error {
	if err := readOutPoint(r, &t.PreviousOutPoint); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, MaxScriptSigSize, "signature script")
	if err != nil {
		return err
	}
	t.SignatureScript = script
	seq, err := readUint32(r)
	if err != nil {
		return err
	}
	t.Sequence = seq
	return nil
}

func (t *TxIn) serialize(w io.Writer) error {
	if err := writeOutPoint(w, &t.PreviousOutPoint); err != nil {
		return err
	}
	if err := WriteVarBytes(w, t.SignatureScript); err != nil {
		return err
	}
	return writeUint32(w, t.Sequence)
}
