// Package hexutil implements the SDK's canonical hex representation:
// lowercase, 0x-prefixed on output; mixed case with or without the 0x
// prefix accepted on input.
package hexutil

import (
	"encoding/hex"
	"strings"

	"github.com/vechain-go/thortx/pkg/txerror"
)

// Encode returns the lowercase 0x-prefixed hex form of b.
func Encode(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// Decode parses a hex string with or without a 0x/0X prefix, accepting
// mixed case. An odd-length body is rejected.
func Decode(s string) ([]byte, error) {
	body := strip0x(s)
	if len(body)%2 != 0 {
		return nil, txerror.NewInvalidInput(txerror.InvalidHex, "odd-length hex string %q", s)
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return nil, txerror.NewInvalidInput(txerror.InvalidHex, "%v", err)
	}
	return b, nil
}

// MustDecode is a test/constant-table convenience; it panics on error.
func MustDecode(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Has0xPrefix reports whether s starts with "0x" or "0X".
func Has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func strip0x(s string) string {
	if Has0xPrefix(s) {
		return s[2:]
	}
	return s
}

// IsHex reports whether s (with optional 0x prefix) is a valid,
// even-length hex string.
func IsHex(s string) bool {
	body := strip0x(s)
	if len(body)%2 != 0 {
		return false
	}
	return strings.IndexFunc(body, func(r rune) bool {
		return !isHexDigit(r)
	}) == -1
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	default:
		return false
	}
}
