// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/mempool"
	"github.com/novacore/novad/storage/ldb"
	"github.com/novacore/novad/wire"
)

func TestCheckBlockRejectsEmptyBlock(t *testing.T) {
	block := wire.NewBlock(&wire.BlockHeader{})
	if err := CheckBlock(block, time.Now().Unix()); err == nil {
		t.Fatalf("expected an empty block to fail CheckBlock")
	}
}

func TestCheckBlockRejectsFutureTimestamp(t *testing.T) {
	block := buildCoinbaseOnlyBlock(chainhashZero(), 0x1e0fffff, time.Now().Add(24*time.Hour))
	if err := CheckBlock(block, time.Now().Unix()); err == nil {
		t.Fatalf("expected a far-future timestamp to fail CheckBlock")
	}
}

func TestProcessBlockExtendsBestChain(t *testing.T) {
	dir := t.TempDir()
	db, err := ldb.Open(filepath.Join(dir, "chain"))
	if err != nil {
		t.Fatalf("ldb.Open: %v", err)
	}
	defer db.Close()

	params := chainparams.TestNetParams
	pool := mempool.New()
	chain, err := New(&params, db, pool, nil, nil, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if chain.BestHeight() != 0 {
		t.Fatalf("BestHeight() = %d, want 0 at genesis", chain.BestHeight())
	}

	genesis := params.GenesisBlock
	childTime := genesis.Header.Timestamp.Unix() + 60
	chain.Now = func() time.Time { return time.Unix(childTime, 0).UTC() }

	block := buildCoinbaseOnlyBlock(params.GenesisHash, genesis.Header.Bits, time.Unix(childTime, 0).UTC())

	if err := chain.ProcessBlock(block, nil); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	if chain.BestHeight() != 1 {
		t.Fatalf("BestHeight() = %d, want 1 after extending the chain", chain.BestHeight())
	}
	if chain.Index().HashBestChain() != block.BlockHash() {
		t.Fatalf("best chain tip did not move to the newly accepted block")
	}
}

func buildCoinbaseOnlyBlock(prevBlock [32]byte, bits uint32, timestamp time.Time) *wire.Block {
	tx := wire.NewTransaction()
	tx.Time = uint32(timestamp.Unix())
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex}, []byte{0x04, 'T', 'e', 's', 't'}))
	tx.AddTxOut(wire.NewTxOut(10000, []byte{0x51}))

	block := wire.NewBlock(&wire.BlockHeader{
		Version:   1,
		PrevBlock: prevBlock,
		Timestamp: timestamp,
		Bits:      bits,
	})
	block.Transactions = []*wire.Transaction{tx}
	block.BuildMerkleRoot()
	return block
}

func chainhashZero() [32]byte {
	return [32]byte{}
}
