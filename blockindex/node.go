// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockindex implements the in-memory tree of block headers with
// parent/child and chain-trust links (§3 "BlockIndex", §9 "Cyclic
// pointer graph"). Nodes are owned by the Index map; Parent and
// NextOnMain are non-owning references resolved back through the map,
// so the structure never needs reference counting or a GC-unfriendly
// cycle.
package blockindex

import (
	"math/big"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/consensus"
	"github.com/novacore/novad/wire"
)

// Node flag bits (§3, BlockIndex.flags). Mirrors txdb.FlagProofOfStake
// and friends bit-for-bit; kept as an independent definition here so this
// package does not need to import txdb to interpret its own in-memory
// flags.
const (
	FlagProofOfStake             uint32 = 1 << 0
	FlagEntropyBit                      = 1 << 1
	FlagStakeModifierRegenerated        = 1 << 2
)

// Node is one block's entry in the in-memory index. It satisfies
// consensus.RetargetNode so the retargeting and median-time-past math in
// the consensus package can walk it without depending on this package.
type Node struct {
	hash       chainhash.Hash
	parent     *Node
	nextOnMain *Node

	FileNo  uint32
	FilePos uint32

	height      int32
	ChainTrust  *big.Int
	Mint        int64
	MoneySupply int64

	Flags                 uint32
	StakeModifier         uint64
	StakeModifierChecksum uint32
	PrevoutStakeHash      chainhash.Hash
	PrevoutStakeIndex     uint32
	StakeTime             uint32
	ProofOfStakeHash      chainhash.Hash

	Header wire.BlockHeader
}

var _ consensus.RetargetNode = (*Node)(nil)

// Hash returns the node's block hash.
func (n *Node) Hash() chainhash.Hash { return n.hash }

// Parent implements consensus.RetargetNode, returning nil (as the
// interface, not a typed nil *Node) at genesis.
func (n *Node) Parent() consensus.RetargetNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// ParentNode returns the typed parent pointer, or nil at genesis. Callers
// that need blockindex-specific fields (rather than the RetargetNode
// view) should use this instead of Parent.
func (n *Node) ParentNode() *Node { return n.parent }

// NextOnMain returns the node's successor on the best chain as of the
// last call to SetNextOnMain, or nil if none (i.e. this is the tip).
func (n *Node) NextOnMain() *Node { return n.nextOnMain }

// SetNextOnMain sets the node's next-on-main-chain link. Called by
// SetBestChain as it walks the new best chain into place, and (with nil)
// by SetBestChain again to clear the links of disconnected blocks.
func (n *Node) SetNextOnMain(next *Node) { n.nextOnMain = next }

// IsProofOfStake reports whether the node's block is a PoS block.
func (n *Node) IsProofOfStake() bool { return n.Flags&FlagProofOfStake != 0 }

// Bits returns the node's compact difficulty target.
func (n *Node) Bits() uint32 { return n.Header.Bits }

// Time returns the node's block timestamp as Unix seconds.
func (n *Node) Time() int64 { return n.Header.Timestamp.Unix() }

// Height returns the node's height above genesis.
func (n *Node) Height() int32 { return n.height }

// NewNode constructs a detached node for the given header, hash, parent
// and height; callers must still link it into an Index and set its
// chain-trust-dependent fields.
func NewNode(hash chainhash.Hash, header wire.BlockHeader, parent *Node, height int32) *Node {
	return &Node{hash: hash, Header: header, parent: parent, height: height}
}

// NewGenesisNode constructs the root node of the index from the genesis
// block header and its consensus-derived chain trust.
func NewGenesisNode(hash chainhash.Hash, header wire.BlockHeader, genesisTrust *big.Int) *Node {
	return &Node{hash: hash, Header: header, height: 0, ChainTrust: genesisTrust}
}
