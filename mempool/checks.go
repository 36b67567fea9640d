// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/rules"
	"github.com/novacore/novad/wire"
)

// LockTimeThreshold is the value above which a transaction's lockTime is
// interpreted as a Unix timestamp rather than a block height, matching
// the convention the original core inherits from Bitcoin.
const LockTimeThreshold = 500000000

// CheckTransaction implements the context-free transaction checks of
// §4.5: non-empty vin/vout, serialized size, value ranges, no duplicate
// prevouts, and the coinbase sigScript length rule.
func CheckTransaction(tx *wire.Transaction) error {
	if len(tx.TxIn) == 0 {
		return rules.NewRuleError(rules.ErrBadTxInOutCount, rules.DoSStructural,
			"transaction has no inputs")
	}
	if len(tx.TxOut) == 0 {
		return rules.NewRuleError(rules.ErrBadTxInOutCount, rules.DoSStructural,
			"transaction has no outputs")
	}
	if tx.SerializeSize() > chainparams.MaxBlockSize {
		return rules.NewRuleError(rules.ErrBlockTooBig, rules.DoSStructural,
			"transaction size %d exceeds MAX_BLOCK_SIZE", tx.SerializeSize())
	}

	isCoinStake := tx.IsCoinStake()

	var valueOut int64
	for i, out := range tx.TxOut {
		if out.Value < 0 {
			return rules.NewRuleError(rules.ErrBadTxOutValue, rules.DoSConsensusFatal,
				"output %d has negative value %d", i, out.Value)
		}
		if out.Value > chainparams.MaxMoney {
			return rules.NewRuleError(rules.ErrBadTxOutValue, rules.DoSConsensusFatal,
				"output %d value %d exceeds MAX_MONEY", i, out.Value)
		}
		isEmptyStakeMarker := isCoinStake && i == 0 && out.Value == 0 && len(out.PkScript) == 0
		if !isEmptyStakeMarker && out.Value < chainparams.MinTxoutAmount {
			return rules.NewRuleError(rules.ErrBadTxOutValue, rules.DoSMinorFormat,
				"output %d value %d below MIN_TXOUT_AMOUNT", i, out.Value)
		}
		valueOut += out.Value
		if valueOut < 0 || valueOut > chainparams.MaxMoney {
			return rules.NewRuleError(rules.ErrBadTxOutValue, rules.DoSConsensusFatal,
				"total output value exceeds MAX_MONEY")
		}
	}

	seen := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
	for _, in := range tx.TxIn {
		if _, dup := seen[in.PreviousOutPoint]; dup {
			return rules.NewRuleError(rules.ErrDuplicatePrevout, rules.DoSConsensusFatal,
				"duplicate prevout %s within one transaction", in.PreviousOutPoint)
		}
		seen[in.PreviousOutPoint] = struct{}{}
	}

	if tx.IsCoinBase() {
		sigLen := len(tx.TxIn[0].SignatureScript)
		if sigLen < 2 || sigLen > 100 {
			return rules.NewRuleError(rules.ErrBadCoinbaseScriptSigLen, rules.DoSStructural,
				"coinbase sigScript length %d outside [2, 100]", sigLen)
		}
	} else {
		for i, in := range tx.TxIn {
			if in.PreviousOutPoint.IsNull() {
				return rules.NewRuleError(rules.ErrBadTxInput, rules.DoSConsensusFatal,
					"non-coinbase input %d has a null prevout", i)
			}
		}
	}

	return nil
}

// IsFinalTransaction reports whether tx is final relative to the given
// block height and block time (§4.7: "Every transaction is final
// relative to (height, blockTime)").
func IsFinalTransaction(tx *wire.Transaction, blockHeight int32, blockTime int64) bool {
	if tx.LockTime == 0 {
		return true
	}

	lockTime := int64(tx.LockTime)
	var cmpTo int64
	if lockTime < LockTimeThreshold {
		cmpTo = int64(blockHeight)
	} else {
		cmpTo = blockTime
	}
	if lockTime < cmpTo {
		return true
	}

	for _, in := range tx.TxIn {
		if in.Sequence != wire.MaxTxInSequenceNum {
			return false
		}
	}
	return true
}

// MaxStandardTxSize and MaxStandardSigScriptSize are the size bounds of
// §4.6.
const (
	MaxStandardTxSize        = 100000
	MaxStandardSigScriptSize = 1650
)

// IsStandardTransaction implements the standardness checks of §4.6: a
// transaction may be consensus-valid in a block yet not standard, in
// which case it is simply never relayed or mined.
func IsStandardTransaction(tx *wire.Transaction) bool {
	if tx.Version != wire.TxVersion {
		return false
	}
	if tx.SerializeSize() > MaxStandardTxSize {
		return false
	}
	for _, in := range tx.TxIn {
		if len(in.SignatureScript) > MaxStandardSigScriptSize {
			return false
		}
		if !isPushOnly(in.SignatureScript) {
			return false
		}
	}
	for _, out := range tx.TxOut {
		if !isStandardPkScript(out.PkScript) {
			return false
		}
	}
	return true
}

// isPushOnly reports whether a script contains only data-push opcodes,
// the form every standard sigScript must take.
func isPushOnly(script []byte) bool {
	i := 0
	for i < len(script) {
		op := script[i]
		switch {
		case op <= 0x4b: // direct push of op bytes
			i += 1 + int(op)
		case op == 0x4c: // OP_PUSHDATA1
			if i+1 >= len(script) {
				return false
			}
			i += 2 + int(script[i+1])
		case op == 0x4d: // OP_PUSHDATA2
			if i+2 >= len(script) {
				return false
			}
			n := int(script[i+1]) | int(script[i+2])<<8
			i += 3 + n
		case op == 0x4e: // OP_PUSHDATA4
			if i+4 >= len(script) {
				return false
			}
			n := int(script[i+1]) | int(script[i+2])<<8 | int(script[i+3])<<16 | int(script[i+4])<<24
			i += 5 + n
		case op >= 0x51 && op <= 0x60: // OP_1..OP_16
			i++
		case op == 0x4f: // OP_1NEGATE
			i++
		default:
			return false
		}
	}
	return i == len(script)
}

// isStandardPkScript recognizes the template families named in §4.6:
// P2PKH, P2SH, multisig with at most 3 keys, bare pubkey, and null-data.
func isStandardPkScript(script []byte) bool {
	switch {
	case isP2PKH(script):
		return true
	case isP2SH(script):
		return true
	case isBarePubKey(script):
		return true
	case isNullData(script):
		return true
	case isMultisig(script, 3):
		return true
	}
	return false
}

func isP2PKH(s []byte) bool {
	// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG
	return len(s) == 25 &&
		s[0] == 0x76 && s[1] == 0xa9 && s[2] == 0x14 &&
		s[23] == 0x88 && s[24] == 0xac
}

func isP2SH(s []byte) bool {
	// OP_HASH160 <20 bytes> OP_EQUAL
	return len(s) == 23 && s[0] == 0xa9 && s[1] == 0x14 && s[22] == 0x87
}

func isBarePubKey(s []byte) bool {
	// <33 or 65 byte pubkey> OP_CHECKSIG
	if len(s) == 35 && s[0] == 0x21 && s[len(s)-1] == 0xac {
		return true
	}
	if len(s) == 67 && s[0] == 0x41 && s[len(s)-1] == 0xac {
		return true
	}
	return false
}

func isNullData(s []byte) bool {
	// OP_RETURN [data...]
	return len(s) >= 1 && s[0] == 0x6a
}

func isMultisig(s []byte, maxKeys int) bool {
	if len(s) < 3 {
		return false
	}
	m := int(s[0]) - 0x50
	n := int(s[len(s)-2]) - 0x50
	if m < 1 || n < 1 || n > maxKeys || m > n {
		return false
	}
	return s[len(s)-1] == 0xae // OP_CHECKMULTISIG
}
