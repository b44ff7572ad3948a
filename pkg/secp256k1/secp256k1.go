// Package secp256k1 wraps btcec/v2 in the shape VeChain signing needs:
// a 32-byte scalar private key, a 64-byte (x||y, no 0x04 prefix)
// public key, and a 65-byte recoverable signature with v in {0,1,2,3}
// and s normalized to the lower half of the curve order.
//
// Built on btcec.PrivKeyFromBytes and styled after
// firefly-signer's SignCompact/RecoverCompact wrapping.
package secp256k1

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/vechain-go/thortx/pkg/txerror"
)

// N is the order of the secp256k1 base point.
var N = mustHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

var halfN = new(big.Int).Rsh(N, 1)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("secp256k1: bad constant")
	}
	return n
}

// GenerateKey returns a private key uniform in [1, N-1].
func GenerateKey() ([]byte, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, &txerror.SignatureError{Detail: "key generation failed: " + err.Error()}
	}
	b := priv.Serialize()
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out, nil
}

// ValidPrivateKey reports whether k is a 32-byte scalar in [1, N-1].
func ValidPrivateKey(k []byte) bool {
	if len(k) != 32 {
		return false
	}
	v := new(big.Int).SetBytes(k)
	if v.Sign() == 0 {
		return false
	}
	return v.Cmp(N) < 0
}

// ToPubKey derives the 64-byte (x||y) uncompressed public key body
// (no leading 0x04) for private key k.
func ToPubKey(k []byte) ([]byte, error) {
	if !ValidPrivateKey(k) {
		return nil, txerror.NewInvalidInput(txerror.InvalidPrivateKey, "private key out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(k)
	pub := priv.PubKey().SerializeUncompressed()
	return pub[1:], nil
}

// CompressedPubKey returns the 33-byte compressed public key for k,
// used by BIP-32 CKDpriv non-hardened derivation.
func CompressedPubKey(k []byte) ([]byte, error) {
	if !ValidPrivateKey(k) {
		return nil, txerror.NewInvalidInput(txerror.InvalidPrivateKey, "private key out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(k)
	return priv.PubKey().SerializeCompressed(), nil
}

// Sign produces a 65-byte recoverable signature r(32)||s(32)||v(1)
// over a 32-byte message hash, with v in {0,1,2,3} and s normalized
// to the lower half of N.
func Sign(msg32, k []byte) ([]byte, error) {
	if len(msg32) != 32 {
		return nil, &txerror.SignatureError{Detail: "message must be 32 bytes"}
	}
	if !ValidPrivateKey(k) {
		return nil, txerror.NewInvalidInput(txerror.InvalidPrivateKey, "private key out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(k)
	compact := ecdsa.SignCompact(priv, msg32, false)
	if len(compact) != 65 {
		return nil, &txerror.SignatureError{Detail: "unexpected compact signature length"}
	}

	recID := int(compact[0]) - 27
	r := compact[1:33]
	s := new(big.Int).SetBytes(compact[33:65])

	if s.Cmp(halfN) > 0 {
		s = new(big.Int).Sub(N, s)
		recID ^= 1
	}

	out := make([]byte, 65)
	copy(out[0:32], r)
	sBytes := s.Bytes()
	copy(out[64-len(sBytes):64], sBytes)
	out[64] = byte(recID)
	return out, nil
}

// Recover returns the 64-byte (x||y) public key that produced sig65
// over msg32, or a SignatureError if the signature is malformed or
// unrecoverable.
func Recover(msg32, sig65 []byte) ([]byte, error) {
	if len(msg32) != 32 {
		return nil, &txerror.SignatureError{Detail: "message must be 32 bytes"}
	}
	if len(sig65) != 65 {
		return nil, &txerror.SignatureError{Detail: "signature must be 65 bytes"}
	}
	v := sig65[64]
	if v > 3 {
		return nil, &txerror.SignatureError{Detail: "recovery id out of range"}
	}

	compact := make([]byte, 65)
	compact[0] = 27 + v
	copy(compact[1:], sig65[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, msg32)
	if err != nil {
		return nil, &txerror.SignatureError{Detail: "unrecoverable signature: " + err.Error()}
	}
	uncompressed := pub.SerializeUncompressed()
	return uncompressed[1:], nil
}

// Verify reports whether sig65 is a valid recoverable signature by
// the holder of pub64 over msg32.
func Verify(msg32, sig65, pub64 []byte) bool {
	recovered, err := Recover(msg32, sig65)
	if err != nil || len(pub64) != 64 {
		return false
	}
	if len(recovered) != len(pub64) {
		return false
	}
	for i := range recovered {
		if recovered[i] != pub64[i] {
			return false
		}
	}
	return true
}
