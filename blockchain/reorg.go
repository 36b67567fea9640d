// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/novacore/novad/blockindex"
	"github.com/novacore/novad/wire"
)

// setBestChain makes newBest the tip of the main chain (§4.8,
// SetBestChain): compute the fork point, disconnect the old chain above
// it, connect the new chain above it, and only then touch in-memory
// state. Every disconnect/connect in the move shares a single storage
// transaction, so a failure partway through aborts the whole move and
// leaves TxDB exactly as it was (§8, "reorg atomicity"). Assumes c.mtx is
// already held.
func (c *Chain) setBestChain(newBest *blockindex.Node) error {
	cur := c.index.Best()
	if cur != nil && cur.Hash() == newBest.Hash() {
		return nil
	}

	fork := cur
	if cur != nil {
		fork = blockindex.ForkPoint(cur, newBest)
		if fork == nil {
			return fmt.Errorf("blockchain: no common ancestor between %s and %s", cur.Hash(), newBest.Hash())
		}
	}

	oldChain := chainAbove(fork, cur) // tip-first: disconnect order

	newChain := chainAbove(fork, newBest) // tip-first as returned...
	for i, j := 0, len(newChain)-1; i < j; i, j = i+1, j-1 {
		newChain[i], newChain[j] = newChain[j], newChain[i]
	}
	// ...reversed here so connecting/relinking runs fork-first: parents
	// before children.

	txn, err := c.db.Database().Begin()
	if err != nil {
		return err
	}
	defer txn.RollbackUnlessClosed()

	oldBlocks := make([]*wire.Block, len(oldChain))
	for i, n := range oldChain {
		block, found, err := c.db.ReadBlock(txn, n.Hash())
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("blockchain: missing stored block %s while disconnecting", n.Hash())
		}
		oldBlocks[i] = block
		if err := c.disconnectBlock(txn, n, block); err != nil {
			return err
		}
	}

	newBlocks := make([]*wire.Block, len(newChain))
	for i, n := range newChain {
		block, found, err := c.db.ReadBlock(txn, n.Hash())
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("blockchain: missing stored block %s while connecting", n.Hash())
		}
		newBlocks[i] = block
		if err := c.connectBlock(txn, n, block); err != nil {
			return err
		}
	}

	if err := txn.Commit(); err != nil {
		return err
	}

	// From here on every step is in-memory bookkeeping derived from a
	// transaction that has already committed; none of it can fail.
	for i := len(oldChain) - 1; i >= 0; i-- {
		n := oldChain[i]
		if p := n.ParentNode(); p != nil {
			p.SetNextOnMain(nil)
		}
		if n.IsProofOfStake() {
			c.index.UnmarkStakeSeen(n.PrevoutStakeHash, n.PrevoutStakeIndex, n.StakeTime)
		}
	}
	for _, n := range newChain {
		if p := n.ParentNode(); p != nil {
			p.SetNextOnMain(n)
		}
		if n.IsProofOfStake() {
			c.index.MarkStakeSeen(n.PrevoutStakeHash, n.PrevoutStakeIndex, n.StakeTime)
		}
	}
	c.index.SetBest(newBest, c.adjustedNow())

	c.requeueDisconnected(oldBlocks)
	c.dropConfirmed(newBlocks)
	c.notifyWallets(oldBlocks, newBlocks)

	log.Infof("chain tip now %s at height %d (disconnected %d, connected %d)",
		newBest.Hash(), newBest.Height(), len(oldChain), len(newChain))
	return nil
}

// chainAbove returns the nodes strictly above fork, up to and including
// tip, ordered from tip down to (but excluding) fork.
func chainAbove(fork, tip *blockindex.Node) []*blockindex.Node {
	var nodes []*blockindex.Node
	for n := tip; n != nil && (fork == nil || n.Hash() != fork.Hash()); n = n.ParentNode() {
		nodes = append(nodes, n)
	}
	return nodes
}

// requeueDisconnected re-injects every non-coinbase, non-coin-stake
// transaction from the disconnected blocks back into the mempool (§4.8).
// oldBlocks is in tip-first order; iterate in reverse so transactions are
// re-added in their original block order.
func (c *Chain) requeueDisconnected(oldBlocks []*wire.Block) {
	for i := len(oldBlocks) - 1; i >= 0; i-- {
		for j, tx := range oldBlocks[i].Transactions {
			if j == 0 || tx.IsCoinStake() {
				continue
			}
			c.pool.AddUnchecked(tx)
		}
	}
}

// dropConfirmed removes every transaction freshly confirmed by the new
// chain from the mempool.
func (c *Chain) dropConfirmed(newBlocks []*wire.Block) {
	for _, block := range newBlocks {
		for _, tx := range block.Transactions {
			c.pool.RemoveByHash(tx.TxHash())
		}
	}
}

// notifyWallets calls WalletNotifier for every transaction touched by the
// reorg: disconnected transactions first (connect=false), then newly
// connected ones (connect=true), matching the order the original core's
// SetBestChain walks the move in.
func (c *Chain) notifyWallets(oldBlocks, newBlocks []*wire.Block) {
	for i := len(oldBlocks) - 1; i >= 0; i-- {
		block := oldBlocks[i]
		for _, tx := range block.Transactions {
			c.wallets.SyncWithWallets(tx, block, true, false)
		}
	}
	for _, block := range newBlocks {
		for _, tx := range block.Transactions {
			c.wallets.SyncWithWallets(tx, block, true, true)
		}
	}
}
