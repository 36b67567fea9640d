// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

import (
	"math/big"
	"testing"

	"github.com/novacore/novad/chainhash"
	"github.com/novacore/novad/wire"
)

func mkNode(parent *Node, seed byte) *Node {
	h := chainhash.HashH([]byte{seed})
	height := int32(0)
	if parent != nil {
		height = parent.height + 1
	}
	n := NewNode(h, wire.BlockHeader{}, parent, height)
	n.ChainTrust = big.NewInt(int64(height) + 1)
	return n
}

func TestForkPointSharedAncestor(t *testing.T) {
	g := mkNode(nil, 0)
	a1 := mkNode(g, 1)
	a2 := mkNode(a1, 2)
	b1 := mkNode(g, 3)
	b2 := mkNode(b1, 4)
	b3 := mkNode(b2, 5)

	fp := ForkPoint(a2, b3)
	if fp == nil || fp.hash != g.hash {
		t.Fatalf("expected fork point at genesis")
	}
}

func TestForkPointSameNode(t *testing.T) {
	g := mkNode(nil, 0)
	a := mkNode(g, 1)
	fp := ForkPoint(a, a)
	if fp == nil || fp.hash != a.hash {
		t.Fatalf("expected fork point to be the node itself")
	}
}

func TestStakeSeen(t *testing.T) {
	idx := New()
	prevout := chainhash.HashH([]byte("prevout"))

	if idx.HasStakeSeen(prevout, 0, 100) {
		t.Fatalf("expected not seen before marking")
	}
	idx.MarkStakeSeen(prevout, 0, 100)
	if !idx.HasStakeSeen(prevout, 0, 100) {
		t.Fatalf("expected seen after marking")
	}
	idx.UnmarkStakeSeen(prevout, 0, 100)
	if idx.HasStakeSeen(prevout, 0, 100) {
		t.Fatalf("expected not seen after unmarking")
	}
}

func TestAncestorAt(t *testing.T) {
	g := mkNode(nil, 0)
	a := mkNode(g, 1)
	b := mkNode(a, 2)

	if got := AncestorAt(b, 0); got == nil || got.hash != g.hash {
		t.Fatalf("AncestorAt(b, 0) should be genesis")
	}
	if got := AncestorAt(b, 5); got != nil {
		t.Fatalf("AncestorAt beyond tip height should be nil")
	}
}
