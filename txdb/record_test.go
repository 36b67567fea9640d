// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txdb

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/novacore/novad/chainhash"
)

func TestTxIndexSerializeRoundTrip(t *testing.T) {
	idx := NewTxIndex(DiskPos{FileNo: 1, BlockPos: 2, TxPos: 3}, 3)
	idx.Spent[1] = DiskPos{FileNo: 5, BlockPos: 6, TxPos: 7}

	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var got TxIndex
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.Pos != idx.Pos {
		t.Fatalf("Pos mismatch: got %+v want %+v", got.Pos, idx.Pos)
	}
	if len(got.Spent) != 3 {
		t.Fatalf("expected 3 spent slots, got %d", len(got.Spent))
	}
	if got.IsSpent(0) || got.IsSpent(2) {
		t.Fatalf("expected slots 0 and 2 unspent")
	}
	if !got.IsSpent(1) {
		t.Fatalf("expected slot 1 spent")
	}
}

func TestDiskBlockIndexSerializeRoundTrip(t *testing.T) {
	dbi := &DiskBlockIndex{
		BlockHash:   chainhash.HashH([]byte("block")),
		HashPrev:    chainhash.HashH([]byte("prev")),
		Height:      42,
		ChainTrust:  big.NewInt(123456789),
		Mint:        5000000000,
		MoneySupply: 10000000000,
		Flags:       FlagProofOfStake,
	}

	var buf bytes.Buffer
	if err := dbi.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var got DiskBlockIndex
	if err := got.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.BlockHash != dbi.BlockHash || got.HashPrev != dbi.HashPrev {
		t.Fatalf("hash fields mismatch")
	}
	if got.Height != dbi.Height || got.Mint != dbi.Mint || got.MoneySupply != dbi.MoneySupply {
		t.Fatalf("scalar fields mismatch")
	}
	if got.ChainTrust.Cmp(dbi.ChainTrust) != 0 {
		t.Fatalf("chainTrust mismatch: got %s want %s", got.ChainTrust, dbi.ChainTrust)
	}
	if !got.IsProofOfStake() {
		t.Fatalf("expected proof-of-stake flag to round-trip")
	}
}
