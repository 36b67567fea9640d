// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/wire"
)

// stubFetcher resolves every outpoint to a fixed, large value with a
// standard P2PKH-shaped script, so tests can focus on pool bookkeeping
// rather than UTXO plumbing.
type stubFetcher struct {
	value int64
}

func (s stubFetcher) FetchUtxo(wire.OutPoint) (*UtxoEntry, error) {
	script := append([]byte{0x76, 0xa9, 0x14}, make([]byte, 20)...)
	script = append(script, 0x88, 0xac)
	return &UtxoEntry{Value: s.value, PkScript: script}, nil
}

func spendableTx(prevout wire.OutPoint, value, outValue int64) *wire.Transaction {
	tx := wire.NewTransaction()
	tx.Time = 1700000000
	script := append([]byte{0x76, 0xa9, 0x14}, make([]byte, 20)...)
	script = append(script, 0x88, 0xac)
	tx.AddTxIn(wire.NewTxIn(&prevout, nil))
	tx.AddTxOut(wire.NewTxOut(outValue, script))
	return tx
}

func TestAcceptAndLookup(t *testing.T) {
	p := New()
	prevout := wire.OutPoint{Hash: chainhash.HashH([]byte("coin")), Index: 0}
	tx := spendableTx(prevout, 1000000, 900000)

	if err := p.Accept(tx, stubFetcher{value: 1000000}, nil, 1700000100); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	txid := tx.TxHash()
	if !p.Exists(txid) {
		t.Fatalf("expected transaction to exist in pool")
	}
	if got := p.Lookup(txid); got.TxHash() != txid {
		t.Fatalf("Lookup returned wrong transaction")
	}
	if p.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", p.Size())
	}
}

func TestAcceptRejectsConflictingClaim(t *testing.T) {
	p := New()
	prevout := wire.OutPoint{Hash: chainhash.HashH([]byte("coin")), Index: 0}
	tx1 := spendableTx(prevout, 1000000, 900000)
	tx2 := spendableTx(prevout, 1000000, 800000)

	if err := p.Accept(tx1, stubFetcher{value: 1000000}, nil, 1700000100); err != nil {
		t.Fatalf("Accept(tx1): %v", err)
	}
	err := p.Accept(tx2, stubFetcher{value: 1000000}, nil, 1700000100)
	if err == nil {
		t.Fatalf("expected second spender of the same outpoint to be rejected")
	}
	if re, ok := err.(interface{ Error() string }); !ok || re == nil {
		t.Fatalf("expected an error value")
	}
}

func TestAcceptRejectsInsufficientFee(t *testing.T) {
	p := New()
	prevout := wire.OutPoint{Hash: chainhash.HashH([]byte("coin")), Index: 0}
	tx := spendableTx(prevout, 1000000, 1000000) // zero fee

	err := p.Accept(tx, stubFetcher{value: 1000000}, nil, 1700000100)
	if err == nil {
		t.Fatalf("expected zero-fee transaction to be rejected")
	}
}

func TestRemove(t *testing.T) {
	p := New()
	prevout := wire.OutPoint{Hash: chainhash.HashH([]byte("coin")), Index: 0}
	tx := spendableTx(prevout, 1000000, 900000)

	if err := p.Accept(tx, stubFetcher{value: 1000000}, nil, 1700000100); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	p.Remove(tx)
	if p.Exists(tx.TxHash()) {
		t.Fatalf("expected transaction to be removed")
	}
	if _, ok := p.conflictingClaim(prevout); ok {
		t.Fatalf("expected outpoint claim to be released after removal")
	}
}

func TestIsFinalTransaction(t *testing.T) {
	tx := wire.NewTransaction()
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex}, nil))
	tx.AddTxOut(wire.NewTxOut(100, nil))

	if !IsFinalTransaction(tx, 10, 1700000000) {
		t.Fatalf("zero lockTime must always be final")
	}

	tx.TxIn[0].Sequence = 0
	tx.LockTime = 20
	if IsFinalTransaction(tx, 10, 1700000000) {
		t.Fatalf("lockTime in the future (by height) must not be final")
	}
	if !IsFinalTransaction(tx, 25, 1700000000) {
		t.Fatalf("lockTime in the past (by height) must be final")
	}
}
