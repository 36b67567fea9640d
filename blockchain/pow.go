// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/wire"
)

// powHashMeetsTarget reports whether the block's external, memory-hard
// proof-of-work hash (§1, wire.BlockHeader.PowHash), interpreted as a
// little-endian integer (its bytes are reversed before the comparison),
// is at or below target. This is distinct from the
// block's identity hash (BlockHash, SHA-256d) used everywhere else.
func powHashMeetsTarget(hash chainhash.Hash, target *big.Int) bool {
	reversed := make([]byte, chainhash.HashSize)
	for i, b := range hash {
		reversed[chainhash.HashSize-1-i] = b
	}
	hashNum := new(big.Int).SetBytes(reversed)
	return hashNum.Cmp(target) <= 0
}

// countSigOps is a conservative, non-interpreting estimate of a
// transaction's signature-operation cost: each output or input script is
// charged one sigop per occurrence of OP_CHECKSIG/OP_CHECKSIGVERIFY
// (0xac/0xad) and 20 sigops per occurrence of
// OP_CHECKMULTISIG/OP_CHECKMULTISIGVERIFY (0xae/0xaf), matching the legacy (non-accurate-multisig) counting mode the original
// core's mempool/block-acceptance path uses ahead of full script
// execution.
func countSigOps(tx *wire.Transaction) int {
	var n int
	for _, in := range tx.TxIn {
		n += countOpcodeSigOps(in.SignatureScript)
	}
	for _, out := range tx.TxOut {
		n += countOpcodeSigOps(out.PkScript)
	}
	return n
}

func countOpcodeSigOps(script []byte) int {
	var n int
	i := 0
	for i < len(script) {
		op := script[i]
		switch {
		case op == 0xac || op == 0xad: // OP_CHECKSIG(VERIFY)
			n++
			i++
		case op == 0xae || op == 0xaf: // OP_CHECKMULTISIG(VERIFY)
			n += 20
			i++
		case op <= 0x4b:
			i += 1 + int(op)
		case op == 0x4c:
			if i+1 >= len(script) {
				return n
			}
			i += 2 + int(script[i+1])
		case op == 0x4d:
			if i+2 >= len(script) {
				return n
			}
			sz := int(script[i+1]) | int(script[i+2])<<8
			i += 3 + sz
		case op == 0x4e:
			if i+4 >= len(script) {
				return n
			}
			sz := int(script[i+1]) | int(script[i+2])<<8 | int(script[i+3])<<16 | int(script[i+4])<<24
			i += 5 + sz
		default:
			i++
		}
	}
	return n
}
