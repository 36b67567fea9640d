// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainparams defines the network parameter sets (genesis block,
// consensus constants, checkpoints) that distinguish mainnet from
// testnet deployments of the core.
package chainparams

import (
	"math"
	"math/big"
	"time"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/wire"
)

// Checkpoint identifies a known-good block at a given height, used to
// reject alternate histories below it without full validation.
type Checkpoint struct {
	Height int32
	Hash   chainhash.Hash
}

// Params groups together the consensus-relevant parameters that can
// legally differ between network deployments.
type Params struct {
	Name string

	// Net is a magic number distinguishing blocks and messages of this
	// network from other networks (§6, "block files").
	Net uint32

	GenesisBlock *wire.Block
	GenesisHash  chainhash.Hash

	// PowLimit is the highest (easiest) proof-of-work target permitted,
	// the ceiling retargeting clamps to (§4.9).
	PowLimit *big.Int

	// PosLimit is the proof-of-stake analogue of PowLimit.
	PosLimit *big.Int

	// TargetSpacing is the intended seconds between blocks of one type,
	// used by GetNextTargetRequired (§4.9).
	TargetSpacing int64

	// TargetTimespan is the retargeting interval window.
	TargetTimespan int64

	// StakeMinAge is the minimum coin age, in seconds, an output must
	// accumulate before it is eligible to stake (§4.9, GLOSSARY).
	StakeMinAge int64

	// StakeMaxAge caps the coin-age accumulation window.
	StakeMaxAge int64

	// SubsidyHalvingInterval is the number of PoW blocks between
	// halvings of the base block reward; zero disables halving.
	SubsidyHalvingInterval int32

	// CoinbaseMaturity is the number of confirmations a coinbase or
	// coin-stake output must accumulate before it can be spent.
	CoinbaseMaturity int32

	Checkpoints []Checkpoint
}

// Consensus-wide constants that do not vary by network, listed verbatim
// from §6.
const (
	COIN = 100000000
	CENT = COIN / 100

	MaxBlockSize          = wire.MaxBlockSize
	MaxBlockSigOps        = 20000
	MaxOrphanTransactions = 10000
	MinTxFee              = CENT / 10
	MinRelayTxFee         = CENT / 50
	MinTxoutAmount        = CENT / 100
	MaxMintProofOfWork    = 100 * COIN
	MaxMintProofOfStake   = 1 * COIN
	MaxScriptCheckThreads = 16

	// MaxMoney is the maximum representable positive value (§6): the
	// ceiling on any single amount, not a reachable supply figure, so it
	// is bounded by int64 range rather than derived from per-block
	// reward limits.
	MaxMoney = math.MaxInt64

	OneHour = 3600

	// MaxTimeOffset bounds how far a block's timestamp may lie in the
	// future of the validator's adjusted clock (§6: "±2 * nOneHour").
	MaxTimeOffset = 2 * OneHour
)

func limitFromCompact(bits uint32) *big.Int {
	target := CompactToBig(bits)
	return target
}

// genesisCoinbaseScript and genesisOutputScript are placeholders for the
// arbitrary scriptSig/scriptPubKey embedded in the genesis coinbase; the
// genesis transaction is never spendable so their content is immaterial
// to consensus beyond being well-formed.
var genesisCoinbaseScript = []byte{
	0x04, 'N', 'o', 'v', 'a',
}

func newGenesisBlock(time_ time.Time, nonce uint32, bits uint32, version int32, reward int64) *wire.Block {
	coinbase := wire.NewTransaction()
	coinbase.Time = uint32(time_.Unix())
	coinbase.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex}, genesisCoinbaseScript))
	coinbase.AddTxOut(wire.NewTxOut(reward, []byte{0x51}))

	b := wire.NewBlock(&wire.BlockHeader{
		Version:   version,
		Timestamp: time_,
		Bits:      bits,
		Nonce:     nonce,
	})
	b.Transactions = []*wire.Transaction{coinbase}
	b.BuildMerkleRoot()
	return b
}

// MainNetParams defines the parameters for the main network.
var MainNetParams = makeMainNetParams()

func makeMainNetParams() Params {
	genesis := newGenesisBlock(
		time.Date(2014, time.February, 8, 0, 0, 0, 0, time.UTC),
		0,
		0x1e0fffff,
		1,
		0,
	)

	return Params{
		Name:                   "mainnet",
		Net:                    0xe4e8e9e5,
		GenesisBlock:           genesis,
		GenesisHash:            genesis.BlockHash(),
		PowLimit:               limitFromCompact(0x1e0fffff),
		PosLimit:               limitFromCompact(0x1e00ffff),
		TargetSpacing:          60,
		TargetTimespan:         60 * 40,
		StakeMinAge: 60 * 60 * 24 * 30,
		StakeMaxAge: 60 * 60 * 24 * 90,
		SubsidyHalvingInterval: 1050000,
		CoinbaseMaturity:       500,
		Checkpoints: []Checkpoint{
			{Height: 0, Hash: genesis.BlockHash()},
		},
	}
}

// TestNetParams defines the parameters for the regression/test network:
// a trivially-easy PoW limit and no checkpoints, so fresh chains can be
// constructed in tests without mining real work.
var TestNetParams = makeTestNetParams()

func makeTestNetParams() Params {
	genesis := newGenesisBlock(
		time.Date(2014, time.February, 8, 0, 0, 0, 0, time.UTC),
		0,
		0x1e0fffff,
		1,
		0,
	)

	return Params{
		Name:                   "testnet",
		Net:                    0x0709110b,
		GenesisBlock:           genesis,
		GenesisHash:            genesis.BlockHash(),
		PowLimit:               limitFromCompact(0x1e0fffff),
		PosLimit:               limitFromCompact(0x1e0fffff),
		TargetSpacing:          60,
		TargetTimespan:         60 * 40,
		StakeMinAge:            60 * 60,
		StakeMaxAge:            60 * 60 * 24,
		SubsidyHalvingInterval: 1050000,
		CoinbaseMaturity:       6,
		Checkpoints:            nil,
	}
}
