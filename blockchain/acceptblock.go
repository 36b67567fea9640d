// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/novacore/novad/blockindex"
	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/consensus"
	"github.com/novacore/novad/mempool"
	"github.com/novacore/novad/rules"
	"github.com/novacore/novad/txdb"
	"github.com/novacore/novad/wire"
)

// ProcessBlock is the pipeline entrypoint of §4.7: de-dup, CheckBlock,
// AcceptBlock, and orphan buffering/re-drive, in that order. source is an
// opaque handle ProcessBlock passes straight through to c.peers on
// failure; it may be nil.
func (c *Chain) ProcessBlock(block *wire.Block, source interface{}) error {
	hash := block.BlockHash()

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.index.HaveNode(hash) || c.orphans.has(hash) {
		return rules.NewRuleError(rules.ErrDuplicateBlock, 0, "block %s already known", hash)
	}

	if err := CheckBlock(block, c.adjustedNow()); err != nil {
		c.misbehave(source, err)
		return err
	}

	if !c.index.HaveNode(block.Header.PrevBlock) {
		c.orphans.add(block)
		log.Infof("buffered orphan block %s (prev %s unknown)", hash, block.Header.PrevBlock)
		if source != nil {
			c.peers.RequestBlocks(source, block.Header.PrevBlock)
		}
		return nil
	}

	if err := c.acceptBlock(block); err != nil {
		c.misbehave(source, err)
		return err
	}

	c.redriveOrphans(hash)
	return nil
}

func (c *Chain) misbehave(source interface{}, err error) {
	if source == nil {
		return
	}
	if re, ok := rules.AsRuleError(err); ok && re.DoSScore > 0 {
		c.peers.Misbehaving(source, re.DoSScore)
	}
}

// redriveOrphans attempts to accept every orphan directly waiting on
// parentHash, recursively re-driving their own children in turn (§4.7
// step 4).
func (c *Chain) redriveOrphans(parentHash chainhash.Hash) {
	for _, child := range c.orphans.children(parentHash) {
		if err := CheckBlock(child, c.adjustedNow()); err != nil {
			continue
		}
		if err := c.acceptBlock(child); err != nil {
			continue
		}
		c.redriveOrphans(child.BlockHash())
	}
}

// acceptBlock runs §4.7 step 3, assuming CheckBlock has already passed
// and the chain mutex is held.
func (c *Chain) acceptBlock(block *wire.Block) error {
	hash := block.BlockHash()

	parent := c.index.LookupNode(block.Header.PrevBlock)
	if parent == nil {
		return rules.NewRuleError(rules.ErrUnknownParent, rules.DoSStructural,
			"parent block %s not found", block.Header.PrevBlock)
	}

	isPoS := block.IsProofOfStake()
	wantBits := consensus.GetNextTargetRequired(parent, isPoS, c.params)
	if block.Header.Bits != wantBits {
		return rules.NewRuleError(rules.ErrBadDifficultyBits, rules.DoSStructural,
			"block bits %08x does not match required %08x", block.Header.Bits, wantBits)
	}

	medianTimePast := consensus.MedianTimePast(parent)
	ts := block.Header.Timestamp.Unix()
	if ts <= medianTimePast {
		return rules.NewRuleError(rules.ErrTimeTooOld, rules.DoSTimestampPast,
			"block timestamp %d does not exceed median time past %d", ts, medianTimePast)
	}
	if ts <= PastDrift(c.adjustedNow()) {
		return rules.NewRuleError(rules.ErrTimeTooOld, rules.DoSTimestampPast,
			"block timestamp %d is too far in the past", ts)
	}

	height := parent.Height() + 1
	for _, tx := range block.Transactions {
		if !mempool.IsFinalTransaction(tx, height, ts) {
			return rules.NewRuleError(rules.ErrNonFinalTx, rules.DoSStructural,
				"transaction %s is not final at height %d", tx.TxHash(), height)
		}
	}

	var stakePrevout chainhash.Hash
	var stakeIndex, stakeTime uint32
	if isPoS {
		coinStake := block.Transactions[1]
		stakePrevout = coinStake.TxIn[0].PreviousOutPoint.Hash
		stakeIndex = coinStake.TxIn[0].PreviousOutPoint.Index
		stakeTime = coinStake.Time
		if c.index.HasStakeSeen(stakePrevout, stakeIndex, stakeTime) {
			return rules.NewRuleError(rules.ErrStakeSeen, rules.DoSConsensusFatal,
				"coin-stake (prevout %s:%d, time %d) already seen",
				stakePrevout, stakeIndex, stakeTime)
		}
	}

	node := blockindex.NewNode(hash, block.Header, parent, height)
	trust := consensus.AddTrust(parent.ChainTrust, block.Header.Bits, isPoS)
	node.ChainTrust = trust
	if isPoS {
		node.Flags |= blockindex.FlagProofOfStake
		node.PrevoutStakeHash = stakePrevout
		node.PrevoutStakeIndex = stakeIndex
		node.StakeTime = stakeTime
	}

	txn, err := c.db.Database().Begin()
	if err != nil {
		return err
	}
	defer txn.RollbackUnlessClosed()

	if err := c.db.WriteBlock(txn, hash, block); err != nil {
		return err
	}
	dbi := diskBlockIndexFor(node)
	if err := c.db.WriteDiskBlockIndex(txn, dbi); err != nil {
		return err
	}
	if isPoS {
		if err := c.db.WriteStakeSeen(txn, stakePrevout, stakeIndex, stakeTime); err != nil {
			return err
		}
	}
	if err := txn.Commit(); err != nil {
		return err
	}

	c.index.AddNode(node)
	if isPoS {
		c.index.MarkStakeSeen(stakePrevout, stakeIndex, stakeTime)
	}

	// Tie-break of §4.8: strictly greater chain trust displaces the
	// incumbent; an exact tie leaves the incumbent in place.
	best := c.index.Best()
	if best == nil || node.ChainTrust.Cmp(c.index.BestChainTrust()) > 0 {
		if err := c.setBestChain(node); err != nil {
			c.index.NoteInvalidTrust(node.ChainTrust)
			return err
		}
	}

	return nil
}

// diskBlockIndexFor builds the persisted record for a freshly-accepted
// node. HashNext is left zero; it is only meaningful for nodes that have
// since been superseded on the main chain, which this port does not
// persist (NextOnMain is reconstructed on load by chain trust, per
// txdb.LoadBlockIndex).
func diskBlockIndexFor(n *blockindex.Node) *txdb.DiskBlockIndex {
	var hashPrev chainhash.Hash
	if p := n.ParentNode(); p != nil {
		hashPrev = p.Hash()
	}
	return &txdb.DiskBlockIndex{
		BlockHash:             n.Hash(),
		HashPrev:              hashPrev,
		Height:                n.Height(),
		ChainTrust:            n.ChainTrust,
		Mint:                  n.Mint,
		MoneySupply:           n.MoneySupply,
		Flags:                 n.Flags,
		StakeModifier:         n.StakeModifier,
		StakeModifierChecksum: n.StakeModifierChecksum,
		PrevoutStakeHash:      n.PrevoutStakeHash,
		PrevoutStakeIndex:     n.PrevoutStakeIndex,
		StakeTime:             n.StakeTime,
		ProofOfStakeHash:      n.ProofOfStakeHash,
		Header:                n.Header,
	}
}
