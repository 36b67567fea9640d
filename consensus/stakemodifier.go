// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"encoding/binary"

	"github.com/novacore/novad/chainhash"
)

// DeriveStakeModifier computes a node's stake modifier and checksum from
// its parent's modifier and its own block hash. It is a pure function of
// already-validated data, so both block-connect time (blockchain) and
// block-index reload time (txdb.LoadBlockIndex) derive the same value
// independently rather than trusting a persisted copy.
func DeriveStakeModifier(parentModifier uint64, hash chainhash.Hash) (modifier uint64, checksum uint32) {
	var buf [8 + chainhash.HashSize]byte
	binary.LittleEndian.PutUint64(buf[:8], parentModifier)
	copy(buf[8:], hash[:])

	digest := chainhash.HashB(buf[:])
	return binary.LittleEndian.Uint64(digest[:8]), binary.LittleEndian.Uint32(digest[8:12])
}
