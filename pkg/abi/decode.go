package abi

import (
	"math/big"

	"github.com/vechain-go/thortx/pkg/address"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// Decode ABI-decodes data against the given ordered types, mirroring
// the head/tail layout Encode produces.
func Decode(types []Type, data []byte) ([]any, error) {
	out := make([]any, len(types))
	headPos := 0
	for i, t := range types {
		if t.IsDynamic() {
			word, err := readWord(data, headPos)
			if err != nil {
				return nil, err
			}
			offset := int(new(big.Int).SetBytes(word).Int64())
			if offset < 0 || offset > len(data) {
				return nil, &txerror.EncodingError{Path: "abi", Detail: "dynamic offset out of range"}
			}
			v, err := decodeDynamicAt(t, data[offset:])
			if err != nil {
				return nil, err
			}
			out[i] = v
			headPos += wordSize
		} else {
			v, consumed, err := decodeStatic(t, data[headPos:])
			if err != nil {
				return nil, err
			}
			out[i] = v
			headPos += consumed
		}
	}
	return out, nil
}

func readWord(data []byte, pos int) ([]byte, error) {
	if pos+wordSize > len(data) {
		return nil, &txerror.EncodingError{Path: "abi", Detail: "truncated input reading a 32-byte word"}
	}
	return data[pos : pos+wordSize], nil
}

func decodeStatic(t Type, data []byte) (any, int, error) {
	width := headWordsFor(t) * wordSize
	if width > len(data) {
		return nil, 0, &txerror.EncodingError{Path: "abi", Detail: "truncated input decoding " + t.String()}
	}

	switch t.Kind {
	case KindAddress:
		var a address.Address
		copy(a[:], data[wordSize-address.Length:wordSize])
		return a, wordSize, nil

	case KindBool:
		return data[wordSize-1] != 0, wordSize, nil

	case KindUint:
		return new(big.Int).SetBytes(data[:wordSize]), wordSize, nil

	case KindInt:
		return decodeInt(data[:wordSize], t.Bits), wordSize, nil

	case KindFixedBytes:
		out := make([]byte, t.Size)
		copy(out, data[:t.Size])
		return out, wordSize, nil

	case KindArray, KindTuple:
		var comps []Type
		if t.Kind == KindArray {
			comps = repeatType(*t.Elem, t.Size)
		} else {
			comps = t.Components
		}
		values, err := Decode(comps, data[:width])
		if err != nil {
			return nil, 0, err
		}
		return values, width, nil

	default:
		return nil, 0, &txerror.EncodingError{Path: "abi", Detail: "unsupported static type " + t.String()}
	}
}

func decodeDynamicAt(t Type, data []byte) (any, error) {
	switch t.Kind {
	case KindBytes:
		word, err := readWord(data, 0)
		if err != nil {
			return nil, err
		}
		length := int(new(big.Int).SetBytes(word).Int64())
		if wordSize+length > len(data) {
			return nil, &txerror.EncodingError{Path: "abi", Detail: "truncated bytes payload"}
		}
		out := make([]byte, length)
		copy(out, data[wordSize:wordSize+length])
		return out, nil

	case KindString:
		b, err := decodeDynamicAt(Type{Kind: KindBytes}, data)
		if err != nil {
			return nil, err
		}
		return string(b.([]byte)), nil

	case KindArray:
		if t.Size < 0 {
			word, err := readWord(data, 0)
			if err != nil {
				return nil, err
			}
			length := int(new(big.Int).SetBytes(word).Int64())
			return Decode(repeatType(*t.Elem, length), data[wordSize:])
		}
		return Decode(repeatType(*t.Elem, t.Size), data)

	case KindTuple:
		return Decode(t.Components, data)

	default:
		return nil, &txerror.EncodingError{Path: "abi", Detail: "unsupported dynamic type " + t.String()}
	}
}

func decodeInt(word []byte, bits int) *big.Int {
	n := new(big.Int).SetBytes(word)
	signBit := new(big.Int).Lsh(big.NewInt(1), 255)
	if n.Cmp(signBit) < 0 {
		return n
	}
	mod := new(big.Int).Lsh(big.NewInt(1), 256)
	return new(big.Int).Sub(n, mod)
}

func repeatType(t Type, n int) []Type {
	out := make([]Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}
