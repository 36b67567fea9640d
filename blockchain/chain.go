// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain orchestrates the block-acceptance pipeline (§4.7),
// connect/disconnect/reorg (§4.8), and the surrounding concurrency model
// (§5): a single chain mutex protecting the block-index map, scalar
// best-chain state, and the orphan pool, held throughout ProcessBlock,
// AcceptBlock, ConnectBlock, DisconnectBlock, and SetBestChain.
package blockchain

import (
	"sync"
	"time"

	"github.com/novacore/novad/blockindex"
	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/logger"
	"github.com/novacore/novad/mempool"
	"github.com/novacore/novad/scriptengine"
	"github.com/novacore/novad/storage"
	"github.com/novacore/novad/txdb"
	"github.com/novacore/novad/wire"
)

var log = logger.Logger(logger.TagChain)

// WalletNotifier is the narrow collaborator interface of §6: called on
// mempool accept and on every block connect/disconnect.
type WalletNotifier interface {
	SyncWithWallets(tx *wire.Transaction, block *wire.Block, update bool, connect bool)
}

// PeerNotifier is the opaque peer-layer collaborator of §6: the core
// calls back with Misbehaving(n) when a DoS score is assigned to the
// peer that supplied a block or transaction.
type PeerNotifier interface {
	Misbehaving(node interface{}, score int)
	RequestBlocks(node interface{}, startAfter chainhash.Hash)
}

// NopWalletNotifier and NopPeerNotifier are no-op collaborators for
// callers (tests, standalone validation) that do not need wallet or peer
// integration.
type NopWalletNotifier struct{}

func (NopWalletNotifier) SyncWithWallets(*wire.Transaction, *wire.Block, bool, bool) {}

type NopPeerNotifier struct{}

func (NopPeerNotifier) Misbehaving(interface{}, int)                    {}
func (NopPeerNotifier) RequestBlocks(interface{}, chainhash.Hash) {}

// Chain is the single logical chain-state module design note §9 calls
// for: cs_main, mapBlockIndex, pindexBest and friends, passed by
// reference to every pipeline stage instead of scattered as free
// globals.
type Chain struct {
	mtx sync.Mutex // cs_main

	params *chainparams.Params
	db     *txdb.TxDB
	index  *blockindex.Index
	pool   *mempool.Pool
	scripts *scriptengine.Pool
	verifier *scriptengine.Verifier

	wallets WalletNotifier
	peers   PeerNotifier

	orphans *orphanPool

	// Now is overridable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

// New constructs a Chain. db must already be open; pool is the mempool
// instance ProcessBlock re-queues transactions into during a reorg.
func New(params *chainparams.Params, database storage.Database, pool *mempool.Pool, wallets WalletNotifier, peers PeerNotifier, scriptThreads int) (*Chain, error) {
	tdb := txdb.New(database, params)
	idx, err := tdb.LoadBlockIndex(true)
	if err != nil {
		return nil, err
	}

	if wallets == nil {
		wallets = NopWalletNotifier{}
	}
	if peers == nil {
		peers = NopPeerNotifier{}
	}

	return &Chain{
		params:   params,
		db:       tdb,
		index:    idx,
		pool:     pool,
		scripts:  scriptengine.NewPool(scriptThreads),
		verifier: scriptengine.NewVerifier(),
		wallets:  wallets,
		peers:    peers,
		orphans:  newOrphanPool(chainparams.MaxOrphanTransactions),
		Now:      time.Now,
	}, nil
}

// Index exposes the in-memory block index, e.g. for RPC-style queries
// built on top of this package.
func (c *Chain) Index() *blockindex.Index { return c.index }

// BestHeight returns the current best chain's height.
func (c *Chain) BestHeight() int32 { return c.index.BestHeight() }

func (c *Chain) adjustedNow() int64 { return c.Now().Unix() }

// PastDrift and FutureDrift bound how far a timestamp may lie from the
// adjusted clock (§6: "allowable time drift ±2 * nOneHour").
func PastDrift(adjustedNow int64) int64 {
	return adjustedNow - chainparams.MaxTimeOffset
}

func FutureDrift(adjustedNow int64) int64 {
	return adjustedNow + chainparams.MaxTimeOffset
}
