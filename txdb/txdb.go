// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txdb

import (
	"bytes"
	"math/big"

	"github.com/novacore/novad/blockindex"
	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/chainparams"
	"github.com/novacore/novad/consensus"
	"github.com/novacore/novad/logger"
	"github.com/novacore/novad/storage"
	"github.com/novacore/novad/wire"
)

var log = logger.Logger(logger.TagTxDB)

// Bucket prefixes, the tagged byte strings of §6: `"tx" + txid`,
// `"blockindex" + hash`, and the singleton scalar keys.
var (
	txBucket         = storage.Bucket("tx")
	blockIndexBucket = storage.Bucket("blockindex")

	keyHashBestChain    = []byte("hashBestChain")
	keyBestInvalidTrust = []byte("bnBestInvalidTrust")
	keyCheckpoint       = []byte("checkpoint")
	stakeSeenBucket     = storage.Bucket("setStakeSeen")

	// rawTxBucket and rawBlockBucket hold the full canonical serialization
	// of every connected transaction and block, keyed by hash. The
	// original core resolves this content by seeking into flat block
	// files via the TxIndex/DiskBlockIndex DiskPos fields; this port
	// keeps those DiskPos-shaped records for their spent-tracking role
	// (§3) but resolves content directly through the storage.Database
	// instead of reimplementing flat-file block storage on top of it.
	rawTxBucket    = storage.Bucket("rawtx")
	rawBlockBucket = storage.Bucket("rawblock")
)

// TxDB is the persistent store of transaction and block-index records
// plus the scalar chain-state pointers (§4.4).
type TxDB struct {
	db     storage.Database
	params *chainparams.Params
}

// New wraps db as a TxDB for the given network parameters.
func New(db storage.Database, params *chainparams.Params) *TxDB {
	return &TxDB{db: db, params: params}
}

// ReadTxIndex looks up the TxIndex record for txid.
func (t *TxDB) ReadTxIndex(accessor storage.DataAccessor, txid chainhash.Hash) (*TxIndex, bool, error) {
	raw, found, err := accessor.Get(txBucket.Key(txid[:]))
	if err != nil || !found {
		return nil, found, err
	}
	idx := new(TxIndex)
	if err := idx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, false, err
	}
	return idx, true, nil
}

// WriteTxIndex persists the TxIndex record for txid.
func (t *TxDB) WriteTxIndex(accessor storage.DataAccessor, txid chainhash.Hash, idx *TxIndex) error {
	var buf bytes.Buffer
	if err := idx.Serialize(&buf); err != nil {
		return err
	}
	return accessor.Put(txBucket.Key(txid[:]), buf.Bytes())
}

// EraseTxIndex deletes the TxIndex record for txid.
func (t *TxDB) EraseTxIndex(accessor storage.DataAccessor, txid chainhash.Hash) error {
	return accessor.Delete(txBucket.Key(txid[:]))
}

// WriteRawTx persists tx's canonical serialization under its own txid, so
// that later spenders can resolve the full producing transaction (value,
// pkScript, time) rather than just its TxIndex bookkeeping record.
func (t *TxDB) WriteRawTx(accessor storage.DataAccessor, tx *wire.Transaction) error {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return err
	}
	return accessor.Put(rawTxBucket.Key(tx.TxHash().CloneBytes()), buf.Bytes())
}

// ReadRawTx looks up the full transaction content for txid.
func (t *TxDB) ReadRawTx(accessor storage.DataAccessor, txid chainhash.Hash) (*wire.Transaction, bool, error) {
	raw, found, err := accessor.Get(rawTxBucket.Key(txid[:]))
	if err != nil || !found {
		return nil, found, err
	}
	tx := new(wire.Transaction)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, false, err
	}
	return tx, true, nil
}

// EraseRawTx deletes txid's stored content.
func (t *TxDB) EraseRawTx(accessor storage.DataAccessor, txid chainhash.Hash) error {
	return accessor.Delete(rawTxBucket.Key(txid[:]))
}

// WriteBlock persists block's canonical serialization under its header
// hash, so DisconnectBlock and reorg can retrieve an already-connected
// block's full transaction list.
func (t *TxDB) WriteBlock(accessor storage.DataAccessor, hash chainhash.Hash, block *wire.Block) error {
	raw, err := block.Bytes()
	if err != nil {
		return err
	}
	return accessor.Put(rawBlockBucket.Key(hash[:]), raw)
}

// ReadBlock looks up the full block content for hash.
func (t *TxDB) ReadBlock(accessor storage.DataAccessor, hash chainhash.Hash) (*wire.Block, bool, error) {
	raw, found, err := accessor.Get(rawBlockBucket.Key(hash[:]))
	if err != nil || !found {
		return nil, found, err
	}
	block := new(wire.Block)
	if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, false, err
	}
	return block, true, nil
}

// ReadDiskBlockIndex looks up the DiskBlockIndex record for a block hash.
func (t *TxDB) ReadDiskBlockIndex(accessor storage.DataAccessor, hash chainhash.Hash) (*DiskBlockIndex, bool, error) {
	raw, found, err := accessor.Get(blockIndexBucket.Key(hash[:]))
	if err != nil || !found {
		return nil, found, err
	}
	dbi := new(DiskBlockIndex)
	if err := dbi.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, false, err
	}
	return dbi, true, nil
}

// WriteDiskBlockIndex persists a DiskBlockIndex record.
func (t *TxDB) WriteDiskBlockIndex(accessor storage.DataAccessor, dbi *DiskBlockIndex) error {
	return accessor.Put(blockIndexBucket.Key(dbi.BlockHash[:]), dbi.Bytes())
}

// EraseDiskBlockIndex deletes the DiskBlockIndex record for hash.
func (t *TxDB) EraseDiskBlockIndex(accessor storage.DataAccessor, hash chainhash.Hash) error {
	return accessor.Delete(blockIndexBucket.Key(hash[:]))
}

// ReadHashBestChain reads the singleton best-chain-tip pointer.
func (t *TxDB) ReadHashBestChain(accessor storage.DataAccessor) (chainhash.Hash, bool, error) {
	raw, found, err := accessor.Get(keyHashBestChain)
	if err != nil || !found {
		return chainhash.Hash{}, found, err
	}
	var h chainhash.Hash
	if err := h.SetBytes(raw); err != nil {
		return chainhash.Hash{}, false, err
	}
	return h, true, nil
}

// WriteHashBestChain writes the singleton best-chain-tip pointer.
func (t *TxDB) WriteHashBestChain(accessor storage.DataAccessor, hash chainhash.Hash) error {
	return accessor.Put(keyHashBestChain, hash.CloneBytes())
}

// ReadBestInvalidTrust reads the singleton highest-rejected-chain-trust
// pointer, returning zero if never set.
func (t *TxDB) ReadBestInvalidTrust(accessor storage.DataAccessor) (*big.Int, error) {
	raw, found, err := accessor.Get(keyBestInvalidTrust)
	if err != nil {
		return nil, err
	}
	if !found {
		return new(big.Int), nil
	}
	return new(big.Int).SetBytes(raw), nil
}

// WriteBestInvalidTrust writes the singleton highest-rejected-chain-trust
// pointer.
func (t *TxDB) WriteBestInvalidTrust(accessor storage.DataAccessor, trust *big.Int) error {
	return accessor.Put(keyBestInvalidTrust, trust.Bytes())
}

// ReadCheckpoint reads the singleton sync-checkpoint block hash.
func (t *TxDB) ReadCheckpoint(accessor storage.DataAccessor) (chainhash.Hash, bool, error) {
	raw, found, err := accessor.Get(keyCheckpoint)
	if err != nil || !found {
		return chainhash.Hash{}, found, err
	}
	var h chainhash.Hash
	if err := h.SetBytes(raw); err != nil {
		return chainhash.Hash{}, false, err
	}
	return h, true, nil
}

// WriteCheckpoint writes the singleton sync-checkpoint block hash.
func (t *TxDB) WriteCheckpoint(accessor storage.DataAccessor, hash chainhash.Hash) error {
	return accessor.Put(keyCheckpoint, hash.CloneBytes())
}

func stakeSeenKey(prevout chainhash.Hash, index uint32, stakeTime uint32) []byte {
	key := make([]byte, 0, chainhash.HashSize+8)
	key = append(key, prevout[:]...)
	key = append(key, byte(index), byte(index>>8), byte(index>>16), byte(index>>24))
	key = append(key, byte(stakeTime), byte(stakeTime>>8), byte(stakeTime>>16), byte(stakeTime>>24))
	return stakeSeenBucket.Key(key)
}

// WriteStakeSeen persists a (coin-stake prevout, stake time) entry.
func (t *TxDB) WriteStakeSeen(accessor storage.DataAccessor, prevout chainhash.Hash, index, stakeTime uint32) error {
	return accessor.Put(stakeSeenKey(prevout, index, stakeTime), []byte{1})
}

// EraseStakeSeen removes a (coin-stake prevout, stake time) entry.
func (t *TxDB) EraseStakeSeen(accessor storage.DataAccessor, prevout chainhash.Hash, index, stakeTime uint32) error {
	return accessor.Delete(stakeSeenKey(prevout, index, stakeTime))
}

// HasStakeSeen reports whether a (coin-stake prevout, stake time) entry
// is persisted.
func (t *TxDB) HasStakeSeen(accessor storage.DataAccessor, prevout chainhash.Hash, index, stakeTime uint32) (bool, error) {
	return accessor.Has(stakeSeenKey(prevout, index, stakeTime))
}

// LoadBlockIndex scans every DiskBlockIndex record, links them by hash
// into a fresh in-memory Index, computes per-node chainTrust bottom-up,
// and selects the node of maximum trust as the best chain (§4.4). If
// allowNew is true and no records exist, it creates the single genesis
// node instead.
func (t *TxDB) LoadBlockIndex(allowNew bool) (*blockindex.Index, error) {
	idx := blockindex.New()

	cursor, err := t.db.Cursor(blockIndexBucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	type pending struct {
		dbi *DiskBlockIndex
	}
	var records []pending

	ok, err := cursor.First()
	if err != nil {
		return nil, err
	}
	for ok {
		raw, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		dbi := new(DiskBlockIndex)
		if err := dbi.Deserialize(bytes.NewReader(raw)); err != nil {
			return nil, err
		}
		records = append(records, pending{dbi})
		ok = cursor.Next()
	}
	if err := cursor.Error(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		if !allowNew {
			return idx, nil
		}
		genesisHash := t.params.GenesisHash
		genesisTrust := consensus.BlockTrust(t.params.GenesisBlock.Header.Bits, false)
		node := blockindex.NewGenesisNode(genesisHash, t.params.GenesisBlock.Header, genesisTrust)
		idx.SetGenesis(node)
		idx.SetBest(node, t.params.GenesisBlock.Header.Timestamp.Unix())
		log.Infof("initialized block index with genesis block %s", genesisHash)
		return idx, nil
	}

	log.Debugf("loading %d block index records from disk", len(records))

	// First pass: create every node without parent links (hash -> dbi
	// and hash -> node), since records may arrive in any order.
	byHash := make(map[chainhash.Hash]*DiskBlockIndex, len(records))
	nodes := make(map[chainhash.Hash]*blockindex.Node, len(records))
	for _, p := range records {
		byHash[p.dbi.BlockHash] = p.dbi
	}

	var link func(hash chainhash.Hash) *blockindex.Node
	link = func(hash chainhash.Hash) *blockindex.Node {
		if n, ok := nodes[hash]; ok {
			return n
		}
		dbi, ok := byHash[hash]
		if !ok {
			return nil
		}
		var parent *blockindex.Node
		if dbi.HashPrev != (chainhash.Hash{}) {
			parent = link(dbi.HashPrev)
		}
		height := int32(0)
		if parent != nil {
			height = parent.Height() + 1
		}
		n := blockindex.NewNode(hash, dbi.Header, parent, height)

		isPoS := dbi.Flags&blockindex.FlagProofOfStake != 0
		if parent != nil {
			n.ChainTrust = consensus.AddTrust(parent.ChainTrust, dbi.Header.Bits, isPoS)
		} else {
			n.ChainTrust = consensus.BlockTrust(dbi.Header.Bits, isPoS)
		}
		if n.ChainTrust.Cmp(dbi.ChainTrust) != 0 {
			log.Warnf("block %s: recomputed chainTrust %s disagrees with persisted %s, trusting the recomputed value",
				hash, n.ChainTrust, dbi.ChainTrust)
		}

		var parentModifier uint64
		if parent != nil {
			parentModifier = parent.StakeModifier
		}
		n.StakeModifier, n.StakeModifierChecksum = consensus.DeriveStakeModifier(parentModifier, hash)
		if n.StakeModifierChecksum != dbi.StakeModifierChecksum {
			log.Warnf("block %s: recomputed stakeModifierChecksum %08x disagrees with persisted %08x, trusting the recomputed value",
				hash, n.StakeModifierChecksum, dbi.StakeModifierChecksum)
		}

		n.Mint = dbi.Mint
		n.MoneySupply = dbi.MoneySupply
		n.Flags = dbi.Flags
		n.PrevoutStakeHash = dbi.PrevoutStakeHash
		n.PrevoutStakeIndex = dbi.PrevoutStakeIndex
		n.StakeTime = dbi.StakeTime
		n.ProofOfStakeHash = dbi.ProofOfStakeHash
		n.FileNo = 0
		n.FilePos = 0
		nodes[hash] = n
		idx.AddNode(n)
		if parent == nil {
			idx.SetGenesis(n)
		}
		return n
	}

	var bestNode *blockindex.Node
	for hash := range byHash {
		n := link(hash)
		if n != nil && (bestNode == nil || n.ChainTrust.Cmp(bestNode.ChainTrust) > 0) {
			bestNode = n
		}
	}

	// Wire nextOnMain along the winning chain.
	if bestNode != nil {
		n := bestNode
		for p := n.ParentNode(); p != nil; n, p = p, p.ParentNode() {
			p.SetNextOnMain(n)
		}
		hashBest, found, err := t.ReadHashBestChain(t.db)
		if err != nil {
			return nil, err
		}
		if found && hashBest != bestNode.Hash() {
			log.Warnf("persisted hashBestChain %s disagrees with maximum-trust node %s, trusting the latter",
				hashBest, bestNode.Hash())
		}
		idx.SetBest(bestNode, bestNode.Time())
	}

	return idx, nil
}

// UnloadBlockIndex releases every in-memory node, reversing LoadBlockIndex.
func (t *TxDB) UnloadBlockIndex(idx *blockindex.Index) {
	idx.Reset()
}

// Database returns the underlying storage handle, for callers (e.g. the
// blockchain package) that need to begin their own atomic transactions
// spanning multiple TxDB calls.
func (t *TxDB) Database() storage.Database { return t.db }
