// Package rlp implements canonical Recursive Length Prefix encoding
// per the Ethereum Yellow Paper, plus the schema-driven Kind/Profiler
// layer VeChain's transaction and clause encoding are built on (§4.4).
//
// The package is split in three layers:
//   - Item: the untyped byte-string/list tree and its canonical
//     encode/decode (the "RLP primitives" component).
//   - Kind: typed, length-bounded leaf codecs (Numeric, HexBlob, ...).
//   - Profile: the schema tree (leaf/array/struct) that the
//     Transaction and Clause models are packed/unpacked through.
//
// There is no reflection-based struct-tag magic here (§9's redesign
// flag calls that out explicitly as a source-language quirk): callers
// build the ordered field-value slice themselves and the
// StructProfile only enforces shape and produces diagnostic paths.
package rlp

import (
	"github.com/vechain-go/thortx/pkg/txerror"
)

// Item is the untyped RLP value: either a byte string or a list of items.
type Item struct {
	IsList bool
	Bytes  []byte
	List   []Item
}

// BytesItem wraps a canonical byte string as a leaf Item.
func BytesItem(b []byte) Item { return Item{Bytes: b} }

// ListItem wraps an ordered sequence of items as a list Item.
func ListItem(items []Item) Item { return Item{IsList: true, List: items} }

// Encode returns the canonical RLP wire bytes for it.
func Encode(it Item) []byte {
	if !it.IsList {
		return encodeBytes(it.Bytes)
	}
	var body []byte
	for _, child := range it.List {
		body = append(body, Encode(child)...)
	}
	return append(encodeLength(len(body), 0xc0), body...)
}

func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return append(encodeLength(len(b), 0x80), b...)
}

// encodeLength produces the canonical length header for a byte string
// (offset=0x80) or list (offset=0xc0) body of the given length.
func encodeLength(length int, offset byte) []byte {
	if length < 56 {
		return []byte{offset + byte(length)}
	}
	lb := minimalBigEndian(uint64(length))
	return append([]byte{offset + 55 + byte(len(lb))}, lb...)
}

func minimalBigEndian(n uint64) []byte {
	if n == 0 {
		return nil
	}
	var buf [8]byte
	i := 8
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	return buf[i:]
}

// Decode parses a single canonical RLP item from the front of data,
// returning the item and the remaining, unconsumed bytes.
func Decode(data []byte) (Item, []byte, error) {
	if len(data) == 0 {
		return Item{}, nil, &txerror.RlpError{Detail: "unexpected end of input"}
	}
	b0 := data[0]

	switch {
	case b0 < 0x80:
		return Item{Bytes: data[0:1]}, data[1:], nil

	case b0 < 0xb8:
		strLen := int(b0 - 0x80)
		content, rest, err := takeContent(data[1:], strLen)
		if err != nil {
			return Item{}, nil, err
		}
		if strLen == 1 && content[0] < 0x80 {
			return Item{}, nil, &txerror.RlpError{Detail: "non-canonical single-byte string encoding"}
		}
		return Item{Bytes: content}, rest, nil

	case b0 < 0xc0:
		lenOfLen := int(b0 - 0xb7)
		lenBytes, rest1, err := takeContent(data[1:], lenOfLen)
		if err != nil {
			return Item{}, nil, err
		}
		if lenBytes[0] == 0 {
			return Item{}, nil, &txerror.RlpError{Detail: "non-canonical length encoding (leading zero)"}
		}
		strLen, err := bytesToLen(lenBytes)
		if err != nil {
			return Item{}, nil, err
		}
		if strLen < 56 {
			return Item{}, nil, &txerror.RlpError{Detail: "non-canonical long-string encoding for short length"}
		}
		content, rest2, err := takeContent(rest1, strLen)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{Bytes: content}, rest2, nil

	case b0 < 0xf8:
		listLen := int(b0 - 0xc0)
		content, rest, err := takeContent(data[1:], listLen)
		if err != nil {
			return Item{}, nil, err
		}
		items, err := decodeAll(content)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{IsList: true, List: items}, rest, nil

	default:
		lenOfLen := int(b0 - 0xf7)
		lenBytes, rest1, err := takeContent(data[1:], lenOfLen)
		if err != nil {
			return Item{}, nil, err
		}
		if lenBytes[0] == 0 {
			return Item{}, nil, &txerror.RlpError{Detail: "non-canonical length encoding (leading zero)"}
		}
		listLen, err := bytesToLen(lenBytes)
		if err != nil {
			return Item{}, nil, err
		}
		if listLen < 56 {
			return Item{}, nil, &txerror.RlpError{Detail: "non-canonical long-list encoding for short length"}
		}
		content, rest2, err := takeContent(rest1, listLen)
		if err != nil {
			return Item{}, nil, err
		}
		items, err := decodeAll(content)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{IsList: true, List: items}, rest2, nil
	}
}

// DecodeExact decodes exactly one item from data and requires no
// trailing bytes remain.
func DecodeExact(data []byte) (Item, error) {
	item, rest, err := Decode(data)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, &txerror.RlpError{Detail: "trailing bytes after top-level item"}
	}
	return item, nil
}

func decodeAll(data []byte) ([]Item, error) {
	var items []Item
	for len(data) > 0 {
		item, rest, err := Decode(data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		data = rest
	}
	return items, nil
}

func takeContent(data []byte, n int) ([]byte, []byte, error) {
	if n > len(data) {
		return nil, nil, &txerror.RlpError{Detail: "declared length exceeds remaining input"}
	}
	return data[:n], data[n:], nil
}

func bytesToLen(b []byte) (int, error) {
	if len(b) > 8 {
		return 0, &txerror.RlpError{Detail: "length field too large"}
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	if v > uint64(^uint(0)>>1) {
		return 0, &txerror.RlpError{Detail: "length overflows int"}
	}
	return int(v), nil
}
