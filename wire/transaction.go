// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/novacore/novad/chainhash"
)

// TxVersion is the version used when constructing new transactions.
const TxVersion = 1

// MaxTxInPerMessage and MaxTxOutPerMessage bound the number of inputs and
// outputs accepted when deserializing a transaction, guarding against
// memory exhaustion from malformed data. They are intentionally loose:
// block size is the real limiter.
const (
	MaxTxInPerMessage  = 100000
	MaxTxOutPerMessage = 100000
)

// Transaction is the core monetary record: a set of inputs redeeming prior
// outputs and a set of outputs creating new ones. Identity is the
// SHA-256d of its canonical serialization.
//
// Time is the Unix timestamp the transaction was created; it takes part
// in consensus (coin-age, §4.9) unlike ordinary UTXO-model coins.
type Transaction struct {
	Version  int32
	Time     uint32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32

	cachedHash *chainhash.Hash
}

// NewTransaction returns a new transaction with the default version.
func NewTransaction() *Transaction {
	return &Transaction{
		Version: TxVersion,
		TxIn:    make([]*TxIn, 0, 1),
		TxOut:   make([]*TxOut, 0, 1),
	}
}

// AddTxIn appends the provided input to the transaction's list of inputs
// and invalidates any cached hash.
func (tx *Transaction) AddTxIn(ti *TxIn) {
	tx.TxIn = append(tx.TxIn, ti)
	tx.cachedHash = nil
}

// AddTxOut appends the provided output to the transaction's list of
// outputs and invalidates any cached hash.
func (tx *Transaction) AddTxOut(to *TxOut) {
	tx.TxOut = append(tx.TxOut, to)
	tx.cachedHash = nil
}

// IsCoinBase determines whether the transaction is a coinbase transaction,
// per §3: exactly one input with a null previous outpoint.
func (tx *Transaction) IsCoinBase() bool {
	return len(tx.TxIn) == 1 && tx.TxIn[0].PreviousOutPoint.IsNull()
}

// IsCoinStake determines whether the transaction is a proof-of-stake
// coin-stake transaction, per §3: at least one non-null input, at least
// two outputs, and an empty first output.
func (tx *Transaction) IsCoinStake() bool {
	if len(tx.TxIn) == 0 || tx.TxIn[0].PreviousOutPoint.IsNull() {
		return false
	}
	if len(tx.TxOut) < 2 {
		return false
	}
	return tx.TxOut[0].Value == 0 && len(tx.TxOut[0].PkScript) == 0
}

// TxHash returns the SHA-256d of the canonical serialization of the
// transaction, i.e. its identity. The result is cached; callers must not
// mutate a Transaction after taking its hash without going through AddTxIn
// / AddTxOut, which invalidate the cache.
func (tx *Transaction) TxHash() chainhash.Hash {
	if tx.cachedHash != nil {
		return *tx.cachedHash
	}
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	_ = tx.Serialize(&buf)
	h := chainhash.HashH(buf.Bytes())
	tx.cachedHash = &h
	return h
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (tx *Transaction) SerializeSize() int {
	n := 4 + 4 + 4 // version + time + lockTime
	n += VarIntSerializeSize(uint64(len(tx.TxIn)))
	for _, ti := range tx.TxIn {
		n += ti.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(tx.TxOut)))
	for _, to := range tx.TxOut {
		n += to.SerializeSize()
	}
	return n
}

// Serialize encodes the transaction to w in canonical network/disk form
// (mode 1 of §4.1): version, time, vin, vout, lockTime, each field in
// declaration order.
func (tx *Transaction) Serialize(w io.Writer) error {
	if err := writeInt32(w, tx.Version); err != nil {
		return err
	}
	if err := writeUint32(w, tx.Time); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(tx.TxIn))); err != nil {
		return err
	}
	for _, ti := range tx.TxIn {
		if err := ti.serialize(w); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(tx.TxOut))); err != nil {
		return err
	}
	for _, to := range tx.TxOut {
		if err := to.serialize(w); err != nil {
			return err
		}
	}
	return writeUint32(w, tx.LockTime)
}

// Deserialize decodes a transaction from r in canonical form, the inverse
// of Serialize.
func (tx *Transaction) Deserialize(r io.Reader) error {
	version, err := readInt32(r)
	if err != nil {
		return err
	}
	tx.Version = version

	t, err := readUint32(r)
	if err != nil {
		return err
	}
	tx.Time = t

	inCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if inCount > MaxTxInPerMessage {
		return messageError("Transaction.Deserialize", "too many transaction inputs")
	}
	tx.TxIn = make([]*TxIn, inCount)
	for i := range tx.TxIn {
		ti := new(TxIn)
		if err := ti.deserialize(r); err != nil {
			return err
		}
		tx.TxIn[i] = ti
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if outCount > MaxTxOutPerMessage {
		return messageError("Transaction.Deserialize", "too many transaction outputs")
	}
	tx.TxOut = make([]*TxOut, outCount)
	for i := range tx.TxOut {
		to := new(TxOut)
		if err := to.deserialize(r); err != nil {
			return err
		}
		tx.TxOut[i] = to
	}

	lockTime, err := readUint32(r)
	if err != nil {
		return err
	}
	tx.LockTime = lockTime
	tx.cachedHash = nil
	return nil
}

// Copy returns a deep copy of the transaction suitable for mutation
// without aliasing the original's slices.
func (tx *Transaction) Copy() *Transaction {
	cp := &Transaction{
		Version:  tx.Version,
		Time:     tx.Time,
		LockTime: tx.LockTime,
		TxIn:     make([]*TxIn, len(tx.TxIn)),
		TxOut:    make([]*TxOut, len(tx.TxOut)),
	}
	for i, ti := range tx.TxIn {
		sig := make([]byte, len(ti.SignatureScript))
		copy(sig, ti.SignatureScript)
		cp.TxIn[i] = &TxIn{
			PreviousOutPoint: ti.PreviousOutPoint,
			SignatureScript:  sig,
			Sequence:         ti.Sequence,
		}
	}
	for i, to := range tx.TxOut {
		script := make([]byte, len(to.PkScript))
		copy(script, to.PkScript)
		cp.TxOut[i] = &TxOut{Value: to.Value, PkScript: script}
	}
	return cp
}
