// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/mempool"
	"github.com/novacore/novad/rules"
	"github.com/novacore/novad/scriptengine"
	"github.com/novacore/novad/wire"
)

// CheckBlock runs the context-free checks of §4.7 step 2: everything
// derivable from the block alone, with no reference to the block index or
// TxDB. AcceptBlock runs afterward for the checks that need chain
// context.
func CheckBlock(block *wire.Block, adjustedNow int64) error {
	if len(block.Transactions) == 0 {
		return rules.NewRuleError(rules.ErrNoTransactions, rules.DoSStructural,
			"block has no transactions")
	}
	if block.SerializeSize() > chainparams.MaxBlockSize {
		return rules.NewRuleError(rules.ErrBlockTooBig, rules.DoSStructural,
			"block size %d exceeds MAX_BLOCK_SIZE", block.SerializeSize())
	}
	if block.Header.Timestamp.Unix() > FutureDrift(adjustedNow) {
		return rules.NewRuleError(rules.ErrTimeTooNew, rules.DoSTimestampPast,
			"block timestamp %d is too far in the future", block.Header.Timestamp.Unix())
	}

	if !block.Transactions[0].IsCoinBase() {
		return rules.NewRuleError(rules.ErrFirstTxNotCoinbase, rules.DoSStructural,
			"first transaction is not a coinbase")
	}
	for _, tx := range block.Transactions[1:] {
		if tx.IsCoinBase() {
			return rules.NewRuleError(rules.ErrMultipleCoinbases, rules.DoSStructural,
				"more than one coinbase transaction")
		}
	}

	isPoS := block.IsProofOfStake()
	if isPoS {
		if len(block.Transactions) < 2 || !block.Transactions[1].IsCoinStake() {
			return rules.NewRuleError(rules.ErrSecondTxNotCoinStake, rules.DoSStructural,
				"proof-of-stake block's second transaction is not a coin-stake")
		}
		for _, tx := range block.Transactions[2:] {
			if tx.IsCoinStake() {
				return rules.NewRuleError(rules.ErrMultipleCoinStakes, rules.DoSStructural,
					"more than one coin-stake transaction")
			}
		}
		if block.Transactions[1].Time != uint32(block.Header.Timestamp.Unix()) {
			return rules.NewRuleError(rules.ErrBadBlockSignature, rules.DoSStructural,
				"block timestamp does not equal its coin-stake's timestamp")
		}
	} else {
		for _, tx := range block.Transactions {
			if tx.IsCoinStake() {
				return rules.NewRuleError(rules.ErrMultipleCoinStakes, rules.DoSStructural,
					"proof-of-work block carries a coin-stake transaction")
			}
		}
	}

	if !isPoS {
		powHash, err := block.Header.PowHash()
		if err != nil {
			return err
		}
		target := chainparams.CompactToBig(block.Header.Bits)
		if !powHashMeetsTarget(powHash, target) {
			return rules.NewRuleError(rules.ErrHighHash, rules.DoSConsensusFatal,
				"block's proof-of-work hash exceeds the target implied by bits")
		}
	}

	gotRoot := block.BuildMerkleRoot()
	if gotRoot != block.Header.MerkleRoot {
		return rules.NewRuleError(rules.ErrBadMerkleRoot, rules.DoSStructural,
			"computed merkle root does not match the header")
	}

	var sigOps int
	for _, tx := range block.Transactions {
		if err := mempool.CheckTransaction(tx); err != nil {
			return err
		}
		if tx.Time > uint32(block.Header.Timestamp.Unix()) {
			return rules.NewRuleError(rules.ErrTimeTooNew, rules.DoSStructural,
				"transaction %s has a time after its block", tx.TxHash())
		}
		sigOps += countSigOps(tx)
	}
	if sigOps > chainparams.MaxBlockSigOps {
		return rules.NewRuleError(rules.ErrTooManySigOps, rules.DoSStructural,
			"block's sigop count %d exceeds MAX_BLOCK_SIGOPS", sigOps)
	}

	if isPoS {
		if len(block.BlockSignature) == 0 {
			return rules.NewRuleError(rules.ErrBadBlockSignature, rules.DoSConsensusFatal,
				"proof-of-stake block carries no block signature")
		}
		kernelScript := block.Transactions[1].TxOut[1].PkScript
		if err := scriptengine.VerifyBlockSignature(kernelScript, block.BlockHash(), block.BlockSignature); err != nil {
			return rules.NewRuleError(rules.ErrBadBlockSignature, rules.DoSConsensusFatal,
				"block signature does not verify: %v", err)
		}
	} else if len(block.BlockSignature) != 0 {
		return rules.NewRuleError(rules.ErrUnexpectedBlockSignature, rules.DoSStructural,
			"proof-of-work block carries a non-empty block signature")
	}

	return nil
}
