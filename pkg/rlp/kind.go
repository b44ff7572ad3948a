package rlp

import (
	"math/big"

	"github.com/vechain-go/thortx/pkg/hexutil"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// Profile is the common contract every schema node implements: pack a
// Go value into an Item, unpack an Item back into a Go value. path is
// a dotted diagnostic path ("tx.clauses.[2].data") carried through for
// error messages; it never affects encoding.
type Profile interface {
	Encode(value any, path string) (Item, error)
	Decode(item Item, path string) (any, error)
}

func encErr(path, detail string) error {
	return &txerror.EncodingError{Path: path, Detail: detail}
}

// ---- Numeric ----

// Numeric packs non-negative integers (int, int64, uint64, *big.Int,
// or a 0x-hex string) as their canonical big-endian minimal byte
// representation; zero packs to the empty string. MaxBytes, if
// nonzero, bounds the packed length after stripping leading zeros.
type Numeric struct {
	MaxBytes int
}

func (k Numeric) Encode(value any, path string) (Item, error) {
	n, err := toBigInt(value, path)
	if err != nil {
		return Item{}, err
	}
	if n.Sign() < 0 {
		return Item{}, encErr(path, "numeric value must be non-negative")
	}
	b := n.Bytes() // big.Int.Bytes() is already minimal big-endian, empty for zero
	if k.MaxBytes > 0 && len(b) > k.MaxBytes {
		return Item{}, encErr(path, "value exceeds maximum of "+itoa(k.MaxBytes)+" bytes")
	}
	return BytesItem(b), nil
}

func (k Numeric) Decode(item Item, path string) (any, error) {
	if item.IsList {
		return nil, encErr(path, "expected scalar, got list")
	}
	if k.MaxBytes > 0 && len(item.Bytes) > k.MaxBytes {
		return nil, encErr(path, "decoded value exceeds maximum of "+itoa(k.MaxBytes)+" bytes")
	}
	if len(item.Bytes) > 0 && item.Bytes[0] == 0 {
		return nil, encErr(path, "non-canonical integer encoding (leading zero byte)")
	}
	return new(big.Int).SetBytes(item.Bytes), nil
}

func toBigInt(value any, path string) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return big.NewInt(0), nil
	case *big.Int:
		if v == nil {
			return big.NewInt(0), nil
		}
		return v, nil
	case big.Int:
		return &v, nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, encErr(path, "not a valid hex string: "+err.Error())
		}
		return new(big.Int).SetBytes(b), nil
	default:
		return nil, encErr(path, "unsupported numeric value type")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ---- HexBlob ----

// HexBlob packs variable-length byte strings. Input is []byte or a
// 0x-prefixed even-length hex string; output decodes to []byte.
type HexBlob struct{}

func (k HexBlob) Encode(value any, path string) (Item, error) {
	b, err := toBytes(value, path)
	if err != nil {
		return Item{}, err
	}
	return BytesItem(b), nil
}

func (k HexBlob) Decode(item Item, path string) (any, error) {
	if item.IsList {
		return nil, encErr(path, "expected byte string, got list")
	}
	out := make([]byte, len(item.Bytes))
	copy(out, item.Bytes)
	return out, nil
}

func toBytes(value any, path string) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, encErr(path, "not a valid hex string: "+err.Error())
		}
		return b, nil
	default:
		return nil, encErr(path, "unsupported byte-string value type")
	}
}

// ---- FixedHexBlob ----

// FixedHexBlob requires exactly Bytes bytes on both encode and decode.
type FixedHexBlob struct {
	Bytes int
}

func (k FixedHexBlob) Encode(value any, path string) (Item, error) {
	b, err := toBytes(value, path)
	if err != nil {
		return Item{}, err
	}
	if len(b) != k.Bytes {
		return Item{}, encErr(path, "expected exactly "+itoa(k.Bytes)+" bytes, got "+itoa(len(b)))
	}
	return BytesItem(b), nil
}

func (k FixedHexBlob) Decode(item Item, path string) (any, error) {
	if item.IsList {
		return nil, encErr(path, "expected byte string, got list")
	}
	if len(item.Bytes) != k.Bytes {
		return nil, encErr(path, "expected exactly "+itoa(k.Bytes)+" bytes, got "+itoa(len(item.Bytes)))
	}
	out := make([]byte, len(item.Bytes))
	copy(out, item.Bytes)
	return out, nil
}

// ---- CompactFixedHexBlob ----

// CompactFixedHexBlob stores a fixed-width value (e.g. block_ref) but
// writes it to the wire with leading zero bytes stripped, and restores
// the fixed width (left-padding with zeros) on decode.
type CompactFixedHexBlob struct {
	Bytes int
}

func (k CompactFixedHexBlob) Encode(value any, path string) (Item, error) {
	b, err := toBytes(value, path)
	if err != nil {
		return Item{}, err
	}
	if len(b) != k.Bytes {
		return Item{}, encErr(path, "expected exactly "+itoa(k.Bytes)+" bytes, got "+itoa(len(b)))
	}
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return BytesItem(b[i:]), nil
}

func (k CompactFixedHexBlob) Decode(item Item, path string) (any, error) {
	if item.IsList {
		return nil, encErr(path, "expected byte string, got list")
	}
	if len(item.Bytes) > k.Bytes {
		return nil, encErr(path, "decoded value exceeds "+itoa(k.Bytes)+" bytes")
	}
	out := make([]byte, k.Bytes)
	copy(out[k.Bytes-len(item.Bytes):], item.Bytes)
	return out, nil
}

// ---- OptionalFixedHexBlob ----

// OptionalFixedHexBlob maps nil/empty/"0x" to the empty byte string on
// encode, and decodes the empty byte string back to nil; any other
// value delegates to FixedHexBlob. Used for depends_on.
type OptionalFixedHexBlob struct {
	Bytes int
}

func (k OptionalFixedHexBlob) Encode(value any, path string) (Item, error) {
	if isAbsent(value) {
		return BytesItem(nil), nil
	}
	return FixedHexBlob{Bytes: k.Bytes}.Encode(value, path)
}

func (k OptionalFixedHexBlob) Decode(item Item, path string) (any, error) {
	if item.IsList {
		return nil, encErr(path, "expected byte string, got list")
	}
	if len(item.Bytes) == 0 {
		return nil, nil
	}
	return FixedHexBlob{Bytes: k.Bytes}.Decode(item, path)
}

func isAbsent(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case []byte:
		return len(v) == 0
	case string:
		return v == "" || v == "0x" || v == "0X"
	default:
		return false
	}
}
