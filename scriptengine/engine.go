// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scriptengine adapts the core's Transaction/TxOut model to the
// real, external script evaluator pinned in §1 as a black-box
// collaborator: github.com/btcsuite/btcd/txscript. It never reimplements
// script evaluation; it only translates between wire shapes and
// constructs the evaluator with the right flags.
package scriptengine

import (
	btcdchainhash "github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	btcdwire "github.com/btcsuite/btcd/wire"

	"github.com/novacore/novad/wire"
)

// Flags re-exports the subset of txscript's standard verify flags the
// core needs to name at its own call sites, so callers outside this
// package never import txscript directly (§1: script evaluator is an
// external collaborator, pinned only here).
const (
	FlagP2SH       = uint32(txscript.ScriptBip16)
	FlagStrictEnc  = uint32(txscript.ScriptVerifyStrictEncoding)
	FlagDERSig     = uint32(txscript.ScriptVerifyDERSignatures)
	FlagNullDummy  = uint32(txscript.ScriptVerifyNullFail)
	FlagCheckLockTimeVerify = uint32(txscript.ScriptVerifyCheckLockTimeVerify)
)

// StandardVerifyFlags are §4.3's STANDARD_SCRIPT_VERIFY_FLAGS.
const StandardVerifyFlags = FlagP2SH | FlagStrictEnc | FlagDERSig

// Verifier implements mempool.ScriptVerifier and blockchain's
// ConnectInputs script-check dependency by delegating to txscript.
type Verifier struct{}

// NewVerifier returns a Verifier using the real external script
// evaluator.
func NewVerifier() *Verifier { return &Verifier{} }

// VerifyInput checks that tx's input inIdx satisfies prevPkScript.
func (v *Verifier) VerifyInput(tx *wire.Transaction, inIdx int, prevPkScript []byte, prevValue int64, flags uint32) error {
	msgTx := toBtcdTx(tx)
	engine, err := txscript.NewEngine(prevPkScript, msgTx, inIdx,
		txscript.ScriptFlags(flags), nil, nil, prevValue, nil)
	if err != nil {
		return err
	}
	return engine.Execute()
}

// toBtcdTx translates our canonical Transaction into the wire shape the
// real txscript package expects. Time and the PoS-specific fields have no
// analogue in btcd's MsgTx and are intentionally dropped: the script
// evaluator only ever consumes the signature-relevant fields.
func toBtcdTx(tx *wire.Transaction) *btcdwire.MsgTx {
	msgTx := btcdwire.NewMsgTx(tx.Version)
	msgTx.LockTime = tx.LockTime

	for _, in := range tx.TxIn {
		prevOut := btcdwire.OutPoint{
			Hash:  btcdchainhash.Hash(in.PreviousOutPoint.Hash),
			Index: in.PreviousOutPoint.Index,
		}
		ti := btcdwire.NewTxIn(&prevOut, in.SignatureScript, nil)
		ti.Sequence = in.Sequence
		msgTx.AddTxIn(ti)
	}
	for _, out := range tx.TxOut {
		msgTx.AddTxOut(btcdwire.NewTxOut(out.Value, out.PkScript))
	}
	return msgTx
}

// ScriptCheck is a single pure, immutable job for the worker pool (§4.2):
// verify one input of txTo against the output it redeems in txFrom.
type ScriptCheck struct {
	TxFrom   *wire.Transaction
	TxTo     *wire.Transaction
	InIdx    int
	Flags    uint32
	Verifier *Verifier
}

// Run executes the check synchronously, used both by worker goroutines
// and by the inline (thread-count-0) fallback path.
func (c *ScriptCheck) Run() error {
	prevOut := c.TxTo.TxIn[c.InIdx].PreviousOutPoint
	if int(prevOut.Index) >= len(c.TxFrom.TxOut) {
		return errOutOfRange
	}
	prev := c.TxFrom.TxOut[prevOut.Index]
	return c.Verifier.VerifyInput(c.TxTo, c.InIdx, prev.PkScript, prev.Value, c.Flags)
}

type scriptRangeError string

func (e scriptRangeError) Error() string { return string(e) }

const errOutOfRange = scriptRangeError("prevout index out of range of txFrom's outputs")
