// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"math/big"

	"github.com/novacore/novad/chainparams"
)

// RetargetNode is the minimal view of a block-index node the retargeting
// and coin-age math needs. It is satisfied by *blockindex.Node; kept as
// an interface here so this package has no dependency on the in-memory
// index representation.
type RetargetNode interface {
	Parent() RetargetNode
	Bits() uint32
	Time() int64
	IsProofOfStake() bool
	Height() int32
}

// GetNextTargetRequired walks back from parent skipping blocks of the
// other type, takes the two most recent blocks of the requested type,
// and mixes their actual spacing with the network's target spacing using
// an exponential-moving-average formula (§4.9). Returns the compact bits
// the next block of the requested type must satisfy.
func GetNextTargetRequired(parent RetargetNode, proofOfStake bool, params *chainparams.Params) uint32 {
	limit := params.PowLimit
	if proofOfStake {
		limit = params.PosLimit
	}
	limitBits := chainparams.BigToCompact(limit)

	if parent == nil {
		return limitBits
	}

	last := firstOfType(parent, proofOfStake)
	if last == nil {
		return limitBits
	}
	prevLast := firstOfType(last.Parent(), proofOfStake)
	if prevLast == nil {
		return limitBits
	}

	actualSpacing := last.Time() - prevLast.Time()
	if actualSpacing < 0 {
		actualSpacing = 0
	}

	targetSpacing := params.TargetSpacing
	interval := params.TargetTimespan / targetSpacing

	oldTarget := chainparams.CompactToBig(last.Bits())
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt((interval-1)*targetSpacing+2*actualSpacing))
	denom := big.NewInt((interval + 1) * targetSpacing)
	newTarget.Div(newTarget, denom)

	if newTarget.Sign() <= 0 || newTarget.Cmp(limit) > 0 {
		newTarget = new(big.Int).Set(limit)
	}

	return chainparams.BigToCompact(newTarget)
}

// firstOfType walks up the chain from node (inclusive) to the first
// ancestor whose type (PoW or PoS) matches proofOfStake.
func firstOfType(node RetargetNode, proofOfStake bool) RetargetNode {
	for node != nil && node.IsProofOfStake() != proofOfStake {
		node = node.Parent()
	}
	return node
}

// MedianTimePast returns the median of the timestamps of the last 11
// blocks ending at node (inclusive), the minimum legal timestamp for a
// child of node (§4.9).
func MedianTimePast(node RetargetNode) int64 {
	const numBlocks = 11
	times := make([]int64, 0, numBlocks)
	n := node
	for i := 0; i < numBlocks && n != nil; i++ {
		times = append(times, n.Time())
		n = n.Parent()
	}
	// insertion sort: numBlocks is small and fixed
	for i := 1; i < len(times); i++ {
		v := times[i]
		j := i - 1
		for j >= 0 && times[j] > v {
			times[j+1] = times[j]
			j--
		}
		times[j+1] = v
	}
	return times[len(times)/2]
}
