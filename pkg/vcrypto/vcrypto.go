// Package vcrypto wires the two digest functions VeChain uses and
// insists stay distinct (§4.2): Blake2b-256 for signing hashes and
// transaction ids, Keccak-256 for address derivation, ABI selectors
// and keystore MACs.
package vcrypto

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2b256 returns the unkeyed, unsalted, 32-byte Blake2b digest of
// data. Used for transaction signing hashes and transaction ids.
func Blake2b256(data ...[]byte) [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for a too-long key, and we pass none.
		panic(err)
	}
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Keccak256 returns the Keccak-256 (pre-NIST SHA3) digest of data.
// Used for address derivation, ABI function selectors and keystore MACs.
func Keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
