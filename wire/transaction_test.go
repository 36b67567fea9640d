// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/novacore/novad/chainhash"
)

func sampleTx() *Transaction {
	tx := NewTransaction()
	tx.Time = 1700000000
	tx.AddTxIn(NewTxIn(&OutPoint{Index: MaxPrevOutIndex}, []byte{0x51, 0x51}))
	tx.AddTxOut(NewTxOut(5000000000, []byte{0x76, 0xa9, 0x14}))
	return tx
}

func TestTransactionSerializeRoundTrip(t *testing.T) {
	tx := sampleTx()

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != tx.SerializeSize() {
		t.Fatalf("SerializeSize mismatch: got %d want %d", tx.SerializeSize(), buf.Len())
	}

	var got Transaction
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.TxHash() != tx.TxHash() {
		t.Fatalf("round-tripped transaction hash mismatch")
	}
	if got.Version != tx.Version || got.Time != tx.Time || got.LockTime != tx.LockTime {
		t.Fatalf("round-tripped scalar fields mismatch:\nwant: %s\ngot:  %s", spew.Sdump(tx), spew.Sdump(&got))
	}
}

func TestIsCoinBase(t *testing.T) {
	tx := sampleTx()
	if !tx.IsCoinBase() {
		t.Fatalf("expected coinbase transaction")
	}

	tx.TxIn[0].PreviousOutPoint.Hash = chainhash.HashH([]byte("not null"))
	if tx.IsCoinBase() {
		t.Fatalf("expected non-coinbase transaction once prevout is non-null")
	}
}

func TestIsCoinStake(t *testing.T) {
	tx := NewTransaction()
	tx.AddTxIn(NewTxIn(&OutPoint{Hash: chainhash.HashH([]byte("prevout")), Index: 0}, nil))
	tx.AddTxOut(NewTxOut(0, nil))
	tx.AddTxOut(NewTxOut(100, []byte{0x51}))

	if !tx.IsCoinStake() {
		t.Fatalf("expected coin-stake transaction")
	}

	tx.TxOut[0].Value = 1
	if tx.IsCoinStake() {
		t.Fatalf("non-empty first output must not be a coin-stake marker")
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 1 << 40}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		if buf.Len() != VarIntSerializeSize(v) {
			t.Fatalf("VarIntSerializeSize(%d) = %d, wrote %d", v, VarIntSerializeSize(v), buf.Len())
		}
		got, err := ReadVarInt(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("ReadVarInt round trip: got %d want %d", got, v)
		}
	}
}

func TestBlockMerkleRootDuplicatesOddLeaf(t *testing.T) {
	b := NewBlock(&BlockHeader{})
	b.Transactions = []*Transaction{sampleTx(), sampleTx(), sampleTx()}
	b.Transactions[1].Time = 1700000001
	b.Transactions[2].Time = 1700000002

	root := b.BuildMerkleRoot()
	if root == (chainhash.Hash{}) {
		t.Fatalf("expected non-zero merkle root")
	}

	var buf bytes.Buffer
	if err := b.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var got Block
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(got.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d\nwant: %s\ngot:  %s", len(got.Transactions), spew.Sdump(b), spew.Sdump(&got))
	}
}
