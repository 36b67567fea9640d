// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool implements the in-memory staging area for unconfirmed
// transactions (§4.3): mapTx and mapNextTx, guarded by a single mutex,
// with the input-conflict discipline that at most one mempool
// transaction may claim any given outpoint.
package mempool

import (
	"sync"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/logger"
	"github.com/novacore/novad/rules"
	"github.com/novacore/novad/wire"
)

var log = logger.Logger(logger.TagMempool)

// UtxoEntry is the view of a spendable output the mempool needs from an
// external source, whether the confirmed UTXO set (TxDB) or another
// mempool transaction.
type UtxoEntry struct {
	Value    int64
	PkScript []byte
	Coinbase bool
}

// InputFetcher resolves an outpoint's producing output. Implementations
// typically consult the mempool itself first, then fall back to TxDB.
type InputFetcher interface {
	FetchUtxo(outpoint wire.OutPoint) (*UtxoEntry, error)
}

// ScriptVerifier checks a single input's signature script against the
// output it redeems. The concrete implementation lives in scriptengine
// and is pinned here only as the interface the mempool depends on.
type ScriptVerifier interface {
	VerifyInput(tx *wire.Transaction, inIdx int, prevPkScript []byte, prevValue int64, flags uint32) error
}

// StandardScriptVerifyFlags are the flags §4.3 requires mempool-bound
// script verification to run with.
const StandardScriptVerifyFlags uint32 = 0

type claim struct {
	txid    chainhash.Hash
	inIndex int
}

// Pool is the mempool itself.
type Pool struct {
	mtx sync.Mutex

	mapTx     map[chainhash.Hash]*wire.Transaction
	mapNextTx map[wire.OutPoint]claim

	minRelayTxFeePerKB int64
}

// New returns an empty Pool using the network's minimum relay fee.
func New() *Pool {
	return &Pool{
		mapTx:               make(map[chainhash.Hash]*wire.Transaction),
		mapNextTx:           make(map[wire.OutPoint]claim),
		minRelayTxFeePerKB:  chainparams.MinRelayTxFee,
	}
}

// Exists reports whether txid is currently in the pool.
func (p *Pool) Exists(txid chainhash.Hash) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	_, ok := p.mapTx[txid]
	return ok
}

// Lookup returns the transaction for txid. The caller must know the
// transaction exists (§4.3: "lookup requires the caller to know the txid
// exists").
func (p *Pool) Lookup(txid chainhash.Hash) *wire.Transaction {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.mapTx[txid]
}

// Size returns the number of transactions currently in the pool.
func (p *Pool) Size() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.mapTx)
}

// QueryHashes returns the txid of every transaction in the pool.
func (p *Pool) QueryHashes() []chainhash.Hash {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	hashes := make([]chainhash.Hash, 0, len(p.mapTx))
	for h := range p.mapTx {
		hashes = append(hashes, h)
	}
	return hashes
}

// Clear removes every transaction from the pool.
func (p *Pool) Clear() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.mapTx = make(map[chainhash.Hash]*wire.Transaction)
	p.mapNextTx = make(map[wire.OutPoint]claim)
}

// FetchUtxo implements InputFetcher by resolving an outpoint against the
// pool's own unconfirmed transactions, so that chained (0-conf) spends
// can be validated without consulting TxDB.
func (p *Pool) FetchUtxo(outpoint wire.OutPoint) (*UtxoEntry, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	tx, ok := p.mapTx[outpoint.Hash]
	if !ok {
		return nil, nil
	}
	if int(outpoint.Index) >= len(tx.TxOut) {
		return nil, nil
	}
	out := tx.TxOut[outpoint.Index]
	return &UtxoEntry{Value: out.Value, PkScript: out.PkScript, Coinbase: tx.IsCoinBase()}, nil
}

// addUnchecked inserts tx into both maps without running any checks. Only
// called once accept (or the block-disconnect re-queue path) has already
// established the transaction's validity.
func (p *Pool) addUnchecked(tx *wire.Transaction) {
	txid := tx.TxHash()
	p.mapTx[txid] = tx
	for i, in := range tx.TxIn {
		p.mapNextTx[in.PreviousOutPoint] = claim{txid: txid, inIndex: i}
	}
}

// AddUnchecked is the exported form of addUnchecked, used by SetBestChain
// to re-queue transactions disconnected from the old best chain.
func (p *Pool) AddUnchecked(tx *wire.Transaction) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.addUnchecked(tx)
}

// Remove deletes tx (identified by its own hash) from the pool, freeing
// the outpoints it claimed.
func (p *Pool) Remove(tx *wire.Transaction) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.remove(tx)
}

func (p *Pool) remove(tx *wire.Transaction) {
	txid := tx.TxHash()
	if _, ok := p.mapTx[txid]; !ok {
		return
	}
	delete(p.mapTx, txid)
	for _, in := range tx.TxIn {
		if c, ok := p.mapNextTx[in.PreviousOutPoint]; ok && c.txid == txid {
			delete(p.mapNextTx, in.PreviousOutPoint)
		}
	}
}

// RemoveByHash removes the transaction identified by txid, if present.
func (p *Pool) RemoveByHash(txid chainhash.Hash) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	tx, ok := p.mapTx[txid]
	if !ok {
		return
	}
	p.remove(tx)
}

// conflictingClaim reports the existing claimant of outpoint, if any.
func (p *Pool) conflictingClaim(outpoint wire.OutPoint) (chainhash.Hash, bool) {
	c, ok := p.mapNextTx[outpoint]
	if !ok {
		return chainhash.Hash{}, false
	}
	return c.txid, true
}

// Accept runs the §4.3 acceptance checks and, on success, inserts tx into
// the pool. fetcher must resolve both confirmed (TxDB) and unconfirmed
// (mempool) outputs; the single-claimant invariant is enforced internally
// against the pool's own outpoint-claim map, so fetcher need not
// duplicate that lookup.
func (p *Pool) Accept(tx *wire.Transaction, fetcher InputFetcher, verifier ScriptVerifier, adjustedNow int64) error {
	if err := CheckTransaction(tx); err != nil {
		return err
	}

	if tx.IsCoinBase() {
		return rules.NewRuleError(rules.ErrFirstTxNotCoinbase, rules.DoSStructural,
			"coinbase transactions are not individually relayable")
	}
	if tx.IsCoinStake() {
		return rules.NewRuleError(rules.ErrSecondTxNotCoinStake, rules.DoSStructural,
			"coin-stake transactions are not individually relayable")
	}
	if !IsFinalTransaction(tx, 0, adjustedNow) {
		return rules.NewRuleError(rules.ErrNonFinalTx, rules.DoSMinorFormat,
			"transaction %s is not final", tx.TxHash())
	}
	if !IsStandardTransaction(tx) {
		return rules.NewRuleError(rules.ErrNonStandard, rules.DoSMinorFormat,
			"transaction %s is not standard", tx.TxHash())
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	txid := tx.TxHash()
	if _, ok := p.mapTx[txid]; ok {
		return rules.NewRuleError(rules.ErrDuplicateBlock, rules.DoSMinorFormat,
			"transaction %s already in pool", txid)
	}

	for _, in := range tx.TxIn {
		if claimant, ok := p.conflictingClaim(in.PreviousOutPoint); ok {
			return rules.NewRuleError(rules.ErrConflictingInput, rules.DoSStructural,
				"output %s already claimed by mempool transaction %s",
				in.PreviousOutPoint, claimant)
		}
	}

	var valueIn int64
	for i, in := range tx.TxIn {
		utxo, err := fetcher.FetchUtxo(in.PreviousOutPoint)
		if err != nil {
			return err
		}
		if utxo == nil {
			return rules.NewRuleError(rules.ErrMissingTxOut, rules.DoSMinorFormat,
				"input %d of %s spends unknown output %s", i, txid, in.PreviousOutPoint)
		}
		if utxo.Coinbase {
			return rules.NewRuleError(rules.ErrBadTxInput, rules.DoSStructural,
				"input %d of %s spends an immature coinbase output", i, txid)
		}
		valueIn += utxo.Value

		if verifier != nil {
			if err := verifier.VerifyInput(tx, i, utxo.PkScript, utxo.Value, StandardScriptVerifyFlags); err != nil {
				return rules.NewRuleError(rules.ErrScriptVerifyFailed, rules.DoSConsensusFatal,
					"input %d of %s failed script verification: %v", i, txid, err)
			}
		}
	}

	var valueOut int64
	for _, out := range tx.TxOut {
		valueOut += out.Value
	}
	if valueOut > valueIn {
		return rules.NewRuleError(rules.ErrBadTxOutValue, rules.DoSConsensusFatal,
			"transaction %s spends more than its inputs provide", txid)
	}

	fee := valueIn - valueOut
	minFee := p.minFeeFor(tx)
	if fee < minFee {
		return rules.NewRuleError(rules.ErrInsufficientFee, rules.DoSMinorFormat,
			"transaction %s pays fee %d, below the minimum relay fee %d", txid, fee, minFee)
	}

	p.addUnchecked(tx)
	log.Debugf("accepted transaction %s (%d inputs, %d outputs, fee %d)",
		txid, len(tx.TxIn), len(tx.TxOut), fee)
	return nil
}

// minFeeFor computes the minimum relay fee a transaction must pay,
// proportional to its serialized size (§6: MinRelayTxFee per kilobyte).
func (p *Pool) minFeeFor(tx *wire.Transaction) int64 {
	size := int64(tx.SerializeSize())
	fee := p.minRelayTxFeePerKB * size / 1000
	if fee == 0 && p.minRelayTxFeePerKB > 0 {
		fee = p.minRelayTxFeePerKB
	}
	return fee
}
