// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/novacore/novad/blockindex"
	"github.com/novacore/novad/storage"
	"github.com/novacore/novad/txdb"
	"github.com/novacore/novad/wire"
)

// disconnectBlock undoes connectBlock's effect on accessor (§4.8,
// DisconnectBlock): in reverse transaction order, restore every spent
// slot the block's transactions set to null, then erase the block's own
// TxIndex and content records. It does not touch in-memory state; the
// caller updates the block index and re-queues transactions into the
// mempool only after accessor commits.
func (c *Chain) disconnectBlock(accessor storage.DataAccessor, node *blockindex.Node, block *wire.Block) error {
	for i := len(block.Transactions) - 1; i >= 0; i-- {
		tx := block.Transactions[i]
		if i != 0 {
			for _, in := range tx.TxIn {
				prevID := in.PreviousOutPoint.Hash
				rec, found, err := c.db.ReadTxIndex(accessor, prevID)
				if err != nil {
					return err
				}
				if !found {
					continue
				}
				idx := int(in.PreviousOutPoint.Index)
				if idx >= 0 && idx < len(rec.Spent) {
					rec.Spent[idx] = txdb.NullDiskPos
				}
				if err := c.db.WriteTxIndex(accessor, prevID, rec); err != nil {
					return err
				}
			}
		}

		txid := tx.TxHash()
		if err := c.db.EraseTxIndex(accessor, txid); err != nil {
			return err
		}
		if err := c.db.EraseRawTx(accessor, txid); err != nil {
			return err
		}
	}

	if node.IsProofOfStake() {
		if err := c.db.EraseStakeSeen(accessor, node.PrevoutStakeHash, node.PrevoutStakeIndex, node.StakeTime); err != nil {
			return err
		}
	}

	// The node's own DiskBlockIndex record is left in place: the block
	// itself is still valid history, merely no longer on the main chain,
	// and LoadBlockIndex must be able to find it again if a later reorg
	// brings it back.
	return nil
}
