// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rules defines the consensus error vocabulary shared by the
// transaction, block, and chain validators: typed rule violations, the
// DoS-score helper that turns a violation into peer misbehavior, and the
// ErrorCode enumeration used to distinguish one rule from another without
// string-matching.
package rules

import "fmt"

// ErrorCode identifies a kind of rule violation.
type ErrorCode int

const (
	// ErrDuplicateBlock indicates a block was already known.
	ErrDuplicateBlock ErrorCode = iota
	// ErrBlockTooBig indicates the serialized block exceeds MaxBlockSize.
	ErrBlockTooBig
	// ErrNoTransactions indicates a block has no transactions.
	ErrNoTransactions
	// ErrFirstTxNotCoinbase indicates the first transaction is not a coinbase.
	ErrFirstTxNotCoinbase
	// ErrMultipleCoinbases indicates more than one coinbase transaction.
	ErrMultipleCoinbases
	// ErrSecondTxNotCoinStake indicates a PoS block's second tx is not a coin-stake.
	ErrSecondTxNotCoinStake
	// ErrMultipleCoinStakes indicates more than one coin-stake transaction.
	ErrMultipleCoinStakes
	// ErrBadMerkleRoot indicates the computed merkle root does not match the header.
	ErrBadMerkleRoot
	// ErrHighHash indicates the block's proof-of-work hash exceeds the target.
	ErrHighHash
	// ErrBadBlockSignature indicates a PoS block signature failed to verify.
	ErrBadBlockSignature
	// ErrUnexpectedBlockSignature indicates a PoW block carries a non-empty signature.
	ErrUnexpectedBlockSignature
	// ErrTimeTooNew indicates the block timestamp is too far in the future.
	ErrTimeTooNew
	// ErrTimeTooOld indicates the block timestamp does not exceed the parent's median time past.
	ErrTimeTooOld
	// ErrTooManySigOps indicates the block's cumulative sigop count exceeds the limit.
	ErrTooManySigOps
	// ErrBadFees indicates a coinbase or coin-stake output exceeded its allowed reward.
	ErrBadFees
	// ErrBadTxInput indicates a transaction referenced a non-existent or already-spent input.
	ErrBadTxInput
	// ErrMissingTxOut indicates an output's prevout could not be located in the TxDB or mempool.
	ErrMissingTxOut
	// ErrSpentTxOut indicates an input attempted to spend an already-spent output.
	ErrSpentTxOut
	// ErrDoubleSpend indicates two transactions within the same block share a prevout.
	ErrDoubleSpend
	// ErrBadTxOutValue indicates a transaction output value outside the legal range.
	ErrBadTxOutValue
	// ErrBadTxInOutCount indicates an empty or otherwise malformed vin/vout.
	ErrBadTxInOutCount
	// ErrDuplicatePrevout indicates duplicate prevouts within a single transaction.
	ErrDuplicatePrevout
	// ErrBadCoinbaseScriptSigLen indicates a coinbase sigScript outside [2, 100] bytes.
	ErrBadCoinbaseScriptSigLen
	// ErrNonFinalTx indicates a transaction is not final given the block's height and time.
	ErrNonFinalTx
	// ErrUnknownParent indicates the block's prevBlockHash is not in the block index.
	ErrUnknownParent
	// ErrBadDifficultyBits indicates the block's bits field does not match the required retarget.
	ErrBadDifficultyBits
	// ErrStakeSeen indicates a coin-stake's (prevout, time) pair was already seen.
	ErrStakeSeen
	// ErrScriptVerifyFailed indicates a script failed evaluation.
	ErrScriptVerifyFailed
	// ErrInsufficientFee indicates a mempool-bound transaction's fee is below the minimum relay fee.
	ErrInsufficientFee
	// ErrConflictingInput indicates a mempool transaction spends an outpoint another mempool transaction already claims.
	ErrConflictingInput
	// ErrNonStandard indicates a transaction failed the standardness checks of §4.6.
	ErrNonStandard
)

var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:          "ErrDuplicateBlock",
	ErrBlockTooBig:             "ErrBlockTooBig",
	ErrNoTransactions:          "ErrNoTransactions",
	ErrFirstTxNotCoinbase:      "ErrFirstTxNotCoinbase",
	ErrMultipleCoinbases:       "ErrMultipleCoinbases",
	ErrSecondTxNotCoinStake:    "ErrSecondTxNotCoinStake",
	ErrMultipleCoinStakes:      "ErrMultipleCoinStakes",
	ErrBadMerkleRoot:           "ErrBadMerkleRoot",
	ErrHighHash:                "ErrHighHash",
	ErrBadBlockSignature:       "ErrBadBlockSignature",
	ErrUnexpectedBlockSignature: "ErrUnexpectedBlockSignature",
	ErrTimeTooNew:              "ErrTimeTooNew",
	ErrTimeTooOld:              "ErrTimeTooOld",
	ErrTooManySigOps:           "ErrTooManySigOps",
	ErrBadFees:                 "ErrBadFees",
	ErrBadTxInput:              "ErrBadTxInput",
	ErrMissingTxOut:            "ErrMissingTxOut",
	ErrSpentTxOut:              "ErrSpentTxOut",
	ErrDoubleSpend:             "ErrDoubleSpend",
	ErrBadTxOutValue:           "ErrBadTxOutValue",
	ErrBadTxInOutCount:         "ErrBadTxInOutCount",
	ErrDuplicatePrevout:        "ErrDuplicatePrevout",
	ErrBadCoinbaseScriptSigLen: "ErrBadCoinbaseScriptSigLen",
	ErrNonFinalTx:              "ErrNonFinalTx",
	ErrUnknownParent:           "ErrUnknownParent",
	ErrBadDifficultyBits:       "ErrBadDifficultyBits",
	ErrStakeSeen:               "ErrStakeSeen",
	ErrScriptVerifyFailed:      "ErrScriptVerifyFailed",
	ErrInsufficientFee:         "ErrInsufficientFee",
	ErrConflictingInput:        "ErrConflictingInput",
	ErrNonStandard:             "ErrNonStandard",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// RuleError identifies a rule violation. It carries the DoS weight the
// violation is worth (§4.7, §7) so callers can thread it straight into
// the peer's misbehavior score without a second classification pass.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
	DoSScore    int
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments and a dosScore,
// mirroring the core's own `DoS(n, false)` idiom: callers pass the weight
// the violation is worth and get back a single typed error.
func ruleError(c ErrorCode, desc string, dosScore int) RuleError {
	return RuleError{ErrorCode: c, Description: desc, DoSScore: dosScore}
}

// DoS weight tiers from §4.7: "100 for consensus-fatal ..., 50 for
// structural protocol violations, 10 for timestamp-past failures, 1 for
// minor format issues."
const (
	DoSConsensusFatal = 100
	DoSStructural      = 50
	DoSTimestampPast   = 10
	DoSMinorFormat     = 1
)

// NewRuleError is the exported constructor other packages use to report a
// consensus violation with an explicit DoS weight.
func NewRuleError(c ErrorCode, dosScore int, format string, args ...interface{}) RuleError {
	return ruleError(c, fmt.Sprintf(format, args...), dosScore)
}

// AsRuleError extracts a RuleError from err if it is one (or wraps one),
// returning ok=false otherwise. Checkers use this to decide whether a
// sub-call's failure should be merged into the caller's own DoS score.
func AsRuleError(err error) (RuleError, bool) {
	re, ok := err.(RuleError)
	return re, ok
}
