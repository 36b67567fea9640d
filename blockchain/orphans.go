// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"sync"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/wire"
)

// orphanPool buffers blocks whose parent is not yet known (§4.7 step 4),
// indexed both by their own hash and by the parent hash they are waiting
// on so a newly-accepted block can re-drive its children.
type orphanPool struct {
	mtx     sync.Mutex
	byHash  map[chainhash.Hash]*wire.Block
	byPrev  map[chainhash.Hash][]chainhash.Hash
	maxSize int
}

func newOrphanPool(maxSize int) *orphanPool {
	return &orphanPool{
		byHash:  make(map[chainhash.Hash]*wire.Block),
		byPrev:  make(map[chainhash.Hash][]chainhash.Hash),
		maxSize: maxSize,
	}
}

func (o *orphanPool) has(hash chainhash.Hash) bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	_, ok := o.byHash[hash]
	return ok
}

// add buffers block, evicting an arbitrary entry first if the pool is at
// capacity (§4.7: "cap at a MAX_ORPHAN_TRANSACTIONS-scaled limit").
func (o *orphanPool) add(block *wire.Block) {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	hash := block.BlockHash()
	if _, ok := o.byHash[hash]; ok {
		return
	}
	if len(o.byHash) >= o.maxSize {
		for evict := range o.byHash {
			o.removeLocked(evict)
			break
		}
	}
	o.byHash[hash] = block
	prev := block.Header.PrevBlock
	o.byPrev[prev] = append(o.byPrev[prev], hash)
}

func (o *orphanPool) removeLocked(hash chainhash.Hash) {
	block, ok := o.byHash[hash]
	if !ok {
		return
	}
	delete(o.byHash, hash)
	prev := block.Header.PrevBlock
	children := o.byPrev[prev]
	for i, h := range children {
		if h == hash {
			o.byPrev[prev] = append(children[:i], children[i+1:]...)
			break
		}
	}
	if len(o.byPrev[prev]) == 0 {
		delete(o.byPrev, prev)
	}
}

func (o *orphanPool) remove(hash chainhash.Hash) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.removeLocked(hash)
}

// children returns (and detaches) every orphan directly waiting on
// parentHash, so the caller can attempt to accept each in turn.
func (o *orphanPool) children(parentHash chainhash.Hash) []*wire.Block {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	hashes := o.byPrev[parentHash]
	if len(hashes) == 0 {
		return nil
	}
	blocks := make([]*wire.Block, 0, len(hashes))
	for _, h := range hashes {
		if b, ok := o.byHash[h]; ok {
			blocks = append(blocks, b)
		}
	}
	for _, h := range append([]chainhash.Hash(nil), hashes...) {
		o.removeLocked(h)
	}
	return blocks
}
