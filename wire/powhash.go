// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"golang.org/x/crypto/scrypt"

	"github.com/novacore/novad/chainhash"
)

// PowHash computes the external memory-hard proof-of-work hash pinned in
// §1 as a black-box primitive. It is distinct from BlockHash: BlockHash is
// the SHA-256d identity used for indexing, PowHash is only ever compared
// against the compact difficulty target during proof-of-work validation.
//
// The scrypt parameters (N=1024, r=1, p=1) match the original core's
// choice of a cheap-to-verify, expensive-to-mine memory-hard function.
func (h *BlockHeader) PowHash() (chainhash.Hash, error) {
	var buf [BlockHeaderLen]byte
	w := headerByteWriter{buf: buf[:0]}
	if err := writeBlockHeader(&w, h); err != nil {
		return chainhash.Hash{}, err
	}
	digest, err := scrypt.Key(w.buf, w.buf, 1024, 1, 1, chainhash.HashSize)
	if err != nil {
		return chainhash.Hash{}, err
	}
	var out chainhash.Hash
	copy(out[:], digest)
	return out, nil
}

// headerByteWriter is a minimal io.Writer collecting into a preallocated
// backing array, avoiding the bytes.Buffer allocation on the PoW hash's
// hot path (the proof-of-work check CheckBlock runs on every block).
type headerByteWriter struct {
	buf []byte
}

func (w *headerByteWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
