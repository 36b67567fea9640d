// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MaxPkScriptSize bounds the size of a deserialized output script.
const MaxPkScriptSize = 1 << 16 // 64 KiB

// TxOut defines a transaction output, carrying a value in the smallest
// monetary unit and the script that must be satisfied to spend it.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a new transaction output with the provided value and
// public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

func (t *TxOut) deserialize(r io.Reader) error {
	val, err := readInt64(r)
	if err != nil {
		return err
	}
	t.Value = val
	script, err := ReadVarBytes(r, MaxPkScriptSize, "public key script")
	if err != nil {
		return err
	}
	t.PkScript = script
	return nil
}

func (t *TxOut) serialize(w io.Writer) error {
	if err := writeInt64(w, t.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, t.PkScript)
}
