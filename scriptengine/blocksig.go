// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptengine

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/novacore/novad/chainhash"
)

const opCheckSig = 0xac

// ExtractBarePubKey returns the public key pushed by a "pay to pubkey"
// script (`<push> OP_CHECKSIG`), the template a coin-stake's kernel
// output (vout[1]) carries its signing key in. ok is false for any other
// script template.
func ExtractBarePubKey(pkScript []byte) (pubKey []byte, ok bool) {
	if len(pkScript) < 2 || pkScript[len(pkScript)-1] != opCheckSig {
		return nil, false
	}
	push := pkScript[:len(pkScript)-1]
	if len(push) < 1 {
		return nil, false
	}
	n := int(push[0])
	if n != 33 && n != 65 {
		return nil, false
	}
	if len(push) != 1+n {
		return nil, false
	}
	return push[1:], true
}

// VerifyBlockSignature checks sig as a DER-encoded ECDSA signature over
// hash made by the private key corresponding to kernelPkScript's bare
// public key (§3: "a blockSignature over the header by the key that owns
// one of the coin-stake outputs").
func VerifyBlockSignature(kernelPkScript []byte, hash chainhash.Hash, sig []byte) error {
	pubKeyBytes, ok := ExtractBarePubKey(kernelPkScript)
	if !ok {
		return errNotBarePubKey
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return err
	}
	parsedSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return err
	}
	if !parsedSig.Verify(hash[:], pubKey) {
		return errBadBlockSignature
	}
	return nil
}

type blockSigError string

func (e blockSigError) Error() string { return string(e) }

const (
	errNotBarePubKey     = blockSigError("coin-stake kernel output is not a bare-pubkey script")
	errBadBlockSignature = blockSigError("block signature does not verify against the coin-stake kernel pubkey")
)
