// Package abi implements Ethereum ABI-compatible encoding and
// decoding for VeChain clause calldata (§4.10): canonical type
// strings, head/tail argument encoding, function selectors, and
// indexed/non-indexed event log decoding.
//
// Grounded on the ABI/selector handling scattered across the pack's
// EVM tooling (e.g. txhammer's contract builder, the x402 signer
// clients) but written against math/big and this module's own
// vcrypto/address packages rather than go-ethereum/accounts/abi, since the
// codec itself is core, spec-mandated work, not an ambient concern.
package abi

import (
	"strconv"
	"strings"

	"github.com/vechain-go/thortx/pkg/txerror"
)

// Kind enumerates the canonical ABI type families this package understands.
type Kind int

const (
	KindAddress Kind = iota
	KindUint
	KindInt
	KindBool
	KindBytes      // dynamic bytes
	KindFixedBytes // bytesN
	KindString
	KindArray // T[] or T[N]
	KindTuple
)

// Type is a parsed canonical ABI type.
type Type struct {
	Kind       Kind
	Bits       int    // for uint<N>/int<N>
	Size       int    // N for bytesN and T[N]; -1 for dynamic array T[]
	Elem       *Type  // element type for Array
	Components []Type // field types for Tuple
}

// IsDynamic reports whether values of this type are ABI-dynamic
// (encoded via a 32-byte offset in the head, with the payload in the tail).
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case KindBytes, KindString:
		return true
	case KindArray:
		if t.Size < 0 {
			return true
		}
		return t.Elem.IsDynamic()
	case KindTuple:
		for _, c := range t.Components {
			if c.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// String returns the canonical ABI type string (e.g. "uint256",
// "address[]", "(uint256,address)").
func (t Type) String() string {
	switch t.Kind {
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindUint:
		return "uint" + strconv.Itoa(t.Bits)
	case KindInt:
		return "int" + strconv.Itoa(t.Bits)
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	case KindString:
		return "string"
	case KindArray:
		if t.Size < 0 {
			return t.Elem.String() + "[]"
		}
		return t.Elem.String() + "[" + strconv.Itoa(t.Size) + "]"
	case KindTuple:
		parts := make([]string, len(t.Components))
		for i, c := range t.Components {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "?"
	}
}

// ParseType parses a single canonical ABI type string.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, txerror.NewInvalidInput(txerror.InvalidABIType, "empty type string")
	}

	// Array suffix: peel off trailing [] or [N] repeatedly from the right.
	if idx := strings.LastIndexByte(s, '['); idx != -1 && strings.HasSuffix(s, "]") {
		inner := s[:idx]
		sizeStr := s[idx+1 : len(s)-1]
		elem, err := ParseType(inner)
		if err != nil {
			return Type{}, err
		}
		if sizeStr == "" {
			return Type{Kind: KindArray, Size: -1, Elem: &elem}, nil
		}
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n < 0 {
			return Type{}, txerror.NewInvalidInput(txerror.InvalidABIType, "invalid array size in %q", s)
		}
		return Type{Kind: KindArray, Size: n, Elem: &elem}, nil
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		comps, err := splitTuple(s[1 : len(s)-1])
		if err != nil {
			return Type{}, err
		}
		types := make([]Type, len(comps))
		for i, c := range comps {
			t, err := ParseType(c)
			if err != nil {
				return Type{}, err
			}
			types[i] = t
		}
		return Type{Kind: KindTuple, Components: types}, nil
	}

	switch {
	case s == "address":
		return Type{Kind: KindAddress, Bits: 160}, nil
	case s == "bool":
		return Type{Kind: KindBool}, nil
	case s == "string":
		return Type{Kind: KindString}, nil
	case s == "bytes":
		return Type{Kind: KindBytes}, nil
	case strings.HasPrefix(s, "uint"):
		bits, err := parseWidth(s, "uint", 256)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindUint, Bits: bits}, nil
	case strings.HasPrefix(s, "int"):
		bits, err := parseWidth(s, "int", 256)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindInt, Bits: bits}, nil
	case strings.HasPrefix(s, "bytes"):
		n, err := strconv.Atoi(s[len("bytes"):])
		if err != nil || n < 1 || n > 32 {
			return Type{}, txerror.NewInvalidInput(txerror.InvalidABIType, "invalid fixed bytes type %q", s)
		}
		return Type{Kind: KindFixedBytes, Size: n}, nil
	default:
		return Type{}, txerror.NewInvalidInput(txerror.InvalidABIType, "unrecognized abi type %q", s)
	}
}

func parseWidth(s, prefix string, def int) (int, error) {
	rest := s[len(prefix):]
	if rest == "" {
		return def, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 || n > 256 || n%8 != 0 {
		return 0, txerror.NewInvalidInput(txerror.InvalidABIType, "invalid integer width in %q", s)
	}
	return n, nil
}

// splitTuple splits a comma-separated component list, respecting
// nested parens/brackets.
func splitTuple(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIType, "unbalanced brackets in tuple %q", s)
	}
	parts = append(parts, s[start:])
	return parts, nil
}
