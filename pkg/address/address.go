// Package address derives and formats 20-byte VeChain/Ethereum-style
// addresses. Address derivation is byte-for-byte identical to Ethereum
// (testable property §8.11): keccak256(pubkey_xy)[12:32], with EIP-55
// checksum casing on output.
//
// Widened with EIP-55 checksum casing on top of plain Ethereum-style
// address derivation.
package address

import (
	"strings"

	"github.com/vechain-go/thortx/pkg/hexutil"
	"github.com/vechain-go/thortx/pkg/txerror"
	"github.com/vechain-go/thortx/pkg/vcrypto"
)

// Length is the size in bytes of a VeChain address.
const Length = 20

// Address is a raw 20-byte account address.
type Address [Length]byte

// FromPubKey derives the address owning the given 64-byte (x||y)
// uncompressed public key body.
func FromPubKey(pub64 []byte) (Address, error) {
	if len(pub64) != 64 {
		return Address{}, txerror.NewInvalidInput(txerror.InvalidPublicKey, "public key must be 64 bytes, got %d", len(pub64))
	}
	hash := vcrypto.Keccak256(pub64)
	var addr Address
	copy(addr[:], hash[12:])
	return addr, nil
}

// Parse decodes a hex address string (with or without 0x, any case),
// validating it is exactly 20 bytes. The EIP-55 checksum, if present,
// is not re-verified — Parse is permissive on input, Checksum is
// canonical on output.
func Parse(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, txerror.NewInvalidInput(txerror.InvalidAddress, "%v", err)
	}
	if len(b) != Length {
		return Address{}, txerror.NewInvalidInput(txerror.InvalidAddress, "address must be %d bytes, got %d", Length, len(b))
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// Bytes returns the raw 20-byte form.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the lowercase 0x-prefixed hex form (no checksum casing).
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

// Checksum returns the EIP-55 checksum-cased representation: each hex
// digit of the lowercase address body is upper-cased if the
// corresponding nibble of keccak256(lowercase_body) is >= 8.
func (a Address) Checksum() string {
	lower := strings.ToLower(hexLower(a[:]))
	hash := vcrypto.Keccak256([]byte(lower))

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= '0' && c <= '9' {
			out[i] = c
			continue
		}
		// nibble i of the hash: high nibble for even i, low nibble for odd i
		var nibble byte
		if i%2 == 0 {
			nibble = hash[i/2] >> 4
		} else {
			nibble = hash[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[i] = c - 'a' + 'A'
		} else {
			out[i] = c
		}
	}
	return "0x" + string(out)
}

// String implements fmt.Stringer as the checksummed form, matching
// how the SDK should render addresses to users.
func (a Address) String() string {
	return a.Checksum()
}

func hexLower(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0f]
	}
	return string(out)
}
