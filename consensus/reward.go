// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"math/big"

	"github.com/novacore/novad/chainparams"
)

// SecondsPerDay is the divisor used to reduce value-seconds to coin-days
// in the coin-age accumulator (§4.9, GLOSSARY "Coin age").
const SecondsPerDay = 24 * 60 * 60

// CoinAgeInput is the minimal per-input data CoinAge needs: the value and
// production time of the output being spent, and the spending
// transaction's own time.
type CoinAgeInput struct {
	PrevValue int64
	PrevTime  int64
	TxTime    int64
}

// CoinAge computes the coin-stake's coin-age in coin-days: for each
// eligible input (elapsed time since the output was produced is at least
// stakeMinAge), add value * elapsedSeconds to an accumulator, then divide
// by COIN * SecondsPerDay (§4.9).
func CoinAge(inputs []CoinAgeInput, stakeMinAge int64) int64 {
	var bnCentSecond big.Int
	for _, in := range inputs {
		elapsed := in.TxTime - in.PrevTime
		if elapsed < stakeMinAge {
			continue
		}
		weight := new(big.Int).Mul(big.NewInt(in.PrevValue), big.NewInt(elapsed))
		bnCentSecond.Add(&bnCentSecond, weight)
	}

	divisor := big.NewInt(chainparams.COIN * SecondsPerDay)
	coinDays := new(big.Int).Div(&bnCentSecond, divisor)
	return coinDays.Int64()
}

// GetProofOfWorkReward returns the maximum legal coinbase output for a
// PoW block given its bits and the total fees collected from its
// transactions, capped at MaxMintProofOfWork (§6).
func GetProofOfWorkReward(bits uint32, fees int64) int64 {
	subsidy := baseSubsidy(bits)
	if subsidy > chainparams.MaxMintProofOfWork {
		subsidy = chainparams.MaxMintProofOfWork
	}
	return subsidy + fees
}

// baseSubsidy returns the base PoW block reward. The reward is flat:
// every block with a positive target gets MaxMintProofOfWork, and the
// target's size does not change it.
func baseSubsidy(bits uint32) int64 {
	target := chainparams.CompactToBig(bits)
	if target.Sign() <= 0 {
		return chainparams.MaxMintProofOfWork
	}
	// subsidy = MAX_MINT_PROOF_OF_WORK, flat per-block base; retained as
	// a distinct function so a future subsidy curve change (halving,
	// target-scaling) has a single call site.
	return chainparams.MaxMintProofOfWork
}

// GetProofOfStakeReward returns the maximum legal coin-stake output
// (beyond the empty first output): coinAge * CENT / 365, capped at
// MaxMintProofOfStake (§6), plus fees. The bits argument does not
// affect the result.
func GetProofOfStakeReward(coinAge int64, bits uint32, fees int64) int64 {
	const baseRatePerCentDay = chainparams.CENT
	reward := coinAge * baseRatePerCentDay / 365
	if reward > chainparams.MaxMintProofOfStake {
		reward = chainparams.MaxMintProofOfStake
	}
	return reward + fees
}
