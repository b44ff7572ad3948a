package abi

import (
	"math/big"

	"github.com/vechain-go/thortx/pkg/address"
	"github.com/vechain-go/thortx/pkg/txerror"
)

const wordSize = 32

// Encode ABI-encodes values against their corresponding types, in order.
func Encode(types []Type, values []any) ([]byte, error) {
	if len(types) != len(values) {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected %d values, got %d", len(types), len(values))
	}
	var head, tail []byte
	// headSize is the total size of the head section once all dynamic
	// offsets are accounted for as 32-byte slots.
	headSize := 0
	for _, t := range types {
		headSize += headWordsFor(t) * wordSize
	}

	for i, t := range types {
		if t.IsDynamic() {
			offset := headSize + len(tail)
			head = append(head, encodeUint(big.NewInt(int64(offset)))...)
			enc, err := encodeValue(t, values[i])
			if err != nil {
				return nil, err
			}
			tail = append(tail, enc...)
		} else {
			enc, err := encodeValue(t, values[i])
			if err != nil {
				return nil, err
			}
			head = append(head, enc...)
		}
	}
	return append(head, tail...), nil
}

// headWordsFor returns how many 32-byte words this type's head slot
// occupies: 1 for a static scalar or a dynamic type (offset pointer),
// or the static size for a fixed-size array/tuple of static elements.
func headWordsFor(t Type) int {
	if t.IsDynamic() {
		return 1
	}
	if t.Kind == KindArray {
		return t.Size * headWordsFor(*t.Elem)
	}
	if t.Kind == KindTuple {
		n := 0
		for _, c := range t.Components {
			n += headWordsFor(c)
		}
		return n
	}
	return 1
}

func encodeValue(t Type, v any) ([]byte, error) {
	switch t.Kind {
	case KindAddress:
		addr, err := toAddress(v)
		if err != nil {
			return nil, err
		}
		out := make([]byte, wordSize)
		copy(out[wordSize-address.Length:], addr.Bytes())
		return out, nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected bool for %s", t)
		}
		out := make([]byte, wordSize)
		if b {
			out[wordSize-1] = 1
		}
		return out, nil

	case KindUint:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 {
			return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "negative value for unsigned type %s", t)
		}
		return encodeUint(n), nil

	case KindInt:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return encodeInt(n, t.Bits), nil

	case KindFixedBytes:
		b, err := toFixedBytes(v, t.Size)
		if err != nil {
			return nil, err
		}
		out := make([]byte, wordSize)
		copy(out, b)
		return out, nil

	case KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected []byte for bytes")
		}
		return encodeDynamicBytes(b), nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected string")
		}
		return encodeDynamicBytes([]byte(s)), nil

	case KindArray:
		return encodeArray(t, v)

	case KindTuple:
		return encodeTuple(t, v)

	default:
		return nil, txerror.NewInvalidInput(txerror.InvalidABIType, "unsupported type %s", t)
	}
}

func encodeArray(t Type, v any) ([]byte, error) {
	elems, ok := v.([]any)
	if !ok {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected []any for array type %s", t)
	}
	if t.Size >= 0 && len(elems) != t.Size {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected %d elements for %s, got %d", t.Size, t, len(elems))
	}

	elemTypes := make([]Type, len(elems))
	for i := range elems {
		elemTypes[i] = *t.Elem
	}
	body, err := Encode(elemTypes, elems)
	if err != nil {
		return nil, err
	}

	if t.Size < 0 {
		// dynamic array: length-prefixed, then the (possibly itself
		// head/tail) encoding of the elements as if they were a tuple.
		out := encodeUint(big.NewInt(int64(len(elems))))
		return append(out, body...), nil
	}
	return body, nil
}

func encodeTuple(t Type, v any) ([]byte, error) {
	fields, ok := v.([]any)
	if !ok {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected []any for tuple type %s", t)
	}
	return Encode(t.Components, fields)
}

func encodeUint(n *big.Int) []byte {
	out := make([]byte, wordSize)
	b := n.Bytes()
	copy(out[wordSize-len(b):], b)
	return out
}

// encodeInt produces the two's-complement 32-byte representation of a
// signed integer of the given bit width.
func encodeInt(n *big.Int, bits int) []byte {
	out := make([]byte, wordSize)
	if n.Sign() >= 0 {
		b := n.Bytes()
		copy(out[wordSize-len(b):], b)
		return out
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	twos := new(big.Int).Add(mod, n)
	b := twos.Bytes()
	for i := range out {
		out[i] = 0xff
	}
	copy(out[wordSize-len(b):], b)
	return out
}

func encodeDynamicBytes(b []byte) []byte {
	out := encodeUint(big.NewInt(int64(len(b))))
	out = append(out, b...)
	if pad := (wordSize - len(b)%wordSize) % wordSize; pad > 0 {
		out = append(out, make([]byte, pad)...)
	}
	return out
}

func toAddress(v any) (address.Address, error) {
	switch a := v.(type) {
	case address.Address:
		return a, nil
	case string:
		return address.Parse(a)
	case []byte:
		if len(a) != address.Length {
			return address.Address{}, txerror.NewInvalidInput(txerror.InvalidAddress, "address must be 20 bytes")
		}
		var out address.Address
		copy(out[:], a)
		return out, nil
	default:
		return address.Address{}, txerror.NewInvalidInput(txerror.InvalidAddress, "unsupported address value type")
	}
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case big.Int:
		return &n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "unsupported integer value type")
	}
}

func toFixedBytes(v any, n int) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected []byte for fixed bytes type")
	}
	if len(b) != n {
		return nil, txerror.NewInvalidInput(txerror.InvalidABIValue, "expected %d bytes, got %d", n, len(b))
	}
	return b, nil
}
