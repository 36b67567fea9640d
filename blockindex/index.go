// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

import (
	"math/big"
	"sync"

	"github.com/novacore/novad/chainhash"
)

// Index is the in-memory, hash-indexed arena of block-index nodes. It
// owns every Node it has ever created; nodes are never freed for the
// lifetime of the process (§3 "Lifecycles").
type Index struct {
	mtx   sync.RWMutex
	nodes map[chainhash.Hash]*Node

	genesis *Node
	best    *Node

	bestChainTrust  *big.Int
	bestInvalidTrust *big.Int

	hashBestChain chainhash.Hash
	bestHeight    int32

	timeBestReceived int64
	transactionsUpdated uint64

	stakeSeen map[stakeSeenKey]struct{}
}

type stakeSeenKey struct {
	prevout chainhash.Hash
	index   uint32
	time    uint32
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		nodes:            make(map[chainhash.Hash]*Node),
		bestChainTrust:   new(big.Int),
		bestInvalidTrust: new(big.Int),
		stakeSeen:        make(map[stakeSeenKey]struct{}),
	}
}

// LookupNode returns the node for hash, or nil if unknown.
func (idx *Index) LookupNode(hash chainhash.Hash) *Node {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return idx.nodes[hash]
}

// HaveNode reports whether hash is already indexed.
func (idx *Index) HaveNode(hash chainhash.Hash) bool {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	_, ok := idx.nodes[hash]
	return ok
}

// AddNode inserts a newly-created node into the index. The caller must
// have already set the node's ChainTrust.
func (idx *Index) AddNode(n *Node) {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	idx.nodes[n.hash] = n
	if idx.genesis == nil {
		idx.genesis = n
	}
}

// Genesis returns the root node of the index, or nil if none has been
// loaded yet.
func (idx *Index) Genesis() *Node {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return idx.genesis
}

// SetGenesis forces the genesis node, used by LoadBlockIndex(allowNew)
// when bootstrapping an empty TxDB (§8 scenario 1).
func (idx *Index) SetGenesis(n *Node) {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	idx.genesis = n
	idx.nodes[n.hash] = n
}

// Best returns the current best-chain tip, or nil if none is set.
func (idx *Index) Best() *Node {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return idx.best
}

// BestHeight returns the height of the current best-chain tip.
func (idx *Index) BestHeight() int32 {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return idx.bestHeight
}

// BestChainTrust returns the accumulated chain trust of the best chain.
func (idx *Index) BestChainTrust() *big.Int {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return new(big.Int).Set(idx.bestChainTrust)
}

// HashBestChain returns the block hash of the current best-chain tip.
func (idx *Index) HashBestChain() chainhash.Hash {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return idx.hashBestChain
}

// SetBest updates the scalar best-chain pointers in one step. Called by
// SetBestChain once a reorg (or simple extension) has fully and
// successfully applied, and by LoadBlockIndex to restore the tip.
func (idx *Index) SetBest(n *Node, timeReceived int64) {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	idx.best = n
	idx.bestHeight = n.height
	idx.bestChainTrust = new(big.Int).Set(n.ChainTrust)
	idx.hashBestChain = n.hash
	idx.timeBestReceived = timeReceived
	idx.transactionsUpdated++
}

// BestInvalidTrust returns the highest chain trust seen on a chain that
// was ultimately rejected (used only for diagnostics/UI warnings).
func (idx *Index) BestInvalidTrust() *big.Int {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return new(big.Int).Set(idx.bestInvalidTrust)
}

// NoteInvalidTrust records a candidate chain trust value that was not
// adopted, if it exceeds the previously recorded maximum.
func (idx *Index) NoteInvalidTrust(trust *big.Int) {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	if trust.Cmp(idx.bestInvalidTrust) > 0 {
		idx.bestInvalidTrust = new(big.Int).Set(trust)
	}
}

// HasStakeSeen reports whether the given (coin-stake prevout, stake time)
// pair has already been recorded by an accepted or connected block.
func (idx *Index) HasStakeSeen(prevout chainhash.Hash, index uint32, stakeTime uint32) bool {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	_, ok := idx.stakeSeen[stakeSeenKey{prevout, index, stakeTime}]
	return ok
}

// MarkStakeSeen records a (coin-stake prevout, stake time) pair as seen.
func (idx *Index) MarkStakeSeen(prevout chainhash.Hash, index uint32, stakeTime uint32) {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	idx.stakeSeen[stakeSeenKey{prevout, index, stakeTime}] = struct{}{}
}

// UnmarkStakeSeen removes a (coin-stake prevout, stake time) pair,
// called by SetBestChain for each PoS block it disconnects.
func (idx *Index) UnmarkStakeSeen(prevout chainhash.Hash, index uint32, stakeTime uint32) {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	delete(idx.stakeSeen, stakeSeenKey{prevout, index, stakeTime})
}

// TransactionsUpdated returns the monotonically increasing counter bumped
// on every successful SetBest.
func (idx *Index) TransactionsUpdated() uint64 {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return idx.transactionsUpdated
}

// Reset clears every node and scalar pointer, reversing LoadBlockIndex
// in place without copying the mutex embedded in Index.
func (idx *Index) Reset() {
	idx.mtx.Lock()
	defer idx.mtx.Unlock()
	idx.nodes = make(map[chainhash.Hash]*Node)
	idx.genesis = nil
	idx.best = nil
	idx.bestChainTrust = new(big.Int)
	idx.bestInvalidTrust = new(big.Int)
	idx.hashBestChain = chainhash.Hash{}
	idx.bestHeight = 0
	idx.timeBestReceived = 0
	idx.stakeSeen = make(map[stakeSeenKey]struct{})
}

// Len returns the number of nodes currently indexed.
func (idx *Index) Len() int {
	idx.mtx.RLock()
	defer idx.mtx.RUnlock()
	return len(idx.nodes)
}

// AncestorAt walks up from n to the ancestor at the given height, or nil
// if height is negative or exceeds n's own height.
func AncestorAt(n *Node, height int32) *Node {
	if n == nil || height < 0 || height > n.height {
		return nil
	}
	for n != nil && n.height > height {
		n = n.parent
	}
	return n
}

// ForkPoint returns the common ancestor of a and b, walking both back to
// equal height first and then in lock-step by identity (§4.8
// "SetBestChain": "Compute the fork point").
func ForkPoint(a, b *Node) *Node {
	for a != nil && b != nil && a.height > b.height {
		a = a.parent
	}
	for a != nil && b != nil && b.height > a.height {
		b = b.parent
	}
	for a != nil && b != nil && a.hash != b.hash {
		a = a.parent
		b = b.parent
	}
	if a == nil || b == nil {
		return nil
	}
	return a
}
