// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consensus implements the proof-of-work / proof-of-stake math
// that is independent of any particular block-index or storage
// representation: chain trust, retargeting, coin age, and median time
// past (§4.9).
package consensus

import (
	"math/big"

	"github.com/novacore/novad/chainparams"
)

var (
	big1   = big.NewInt(1)
	big2   = big.NewInt(2)
	bigMax = new(big.Int).Lsh(big1, 256)
)

// BlockTrust computes a single block's contribution to chain trust:
// 2^256 / (target + 1), halved for proof-of-work blocks relative to a
// proof-of-stake block of the same target (§4.9).
func BlockTrust(bits uint32, isProofOfStake bool) *big.Int {
	target := chainparams.CompactToBig(bits)
	if target.Sign() <= 0 {
		return new(big.Int)
	}

	denom := new(big.Int).Add(target, big1)
	trust := new(big.Int).Div(bigMax, denom)
	if !isProofOfStake {
		trust.Rsh(trust, 1)
	}
	return trust
}

// AddTrust returns parentTrust + BlockTrust(bits, isProofOfStake), the
// running chainTrust stored on a BlockIndex node.
func AddTrust(parentTrust *big.Int, bits uint32, isProofOfStake bool) *big.Int {
	sum := new(big.Int).Set(parentTrust)
	sum.Add(sum, BlockTrust(bits, isProofOfStake))
	return sum
}
