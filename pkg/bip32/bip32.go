// Package bip32 derives VeChain account keys from a BIP-39 seed using
// BIP-32 hierarchical deterministic derivation, following VeChain's
// registered coin path m/44'/818'/0'/0/{index} (§4.7).
//
// DerivePath splits the path string into child indices and walks
// tyler-smith/go-bip32's NewChildKey one segment at a time; only the
// final key is returned.
package bip32

import (
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// CoinType is VeChain's registered SLIP-44 coin type.
const CoinType = 818

// Key is a derived node: a 32-byte private key plus the chain code
// and bookkeeping needed to derive further children.
type Key struct {
	PrivateKey        []byte
	ChainCode         []byte
	Depth             byte
	ParentFingerprint []byte
	ChildIndex        uint32
}

// DeriveAccountKey derives the private key at m/44'/818'/0'/0/{index}
// from a BIP-39 seed.
func DeriveAccountKey(seed []byte, index uint32) (*Key, error) {
	return DerivePath(seed, Path(index))
}

// Path returns the canonical VeChain derivation path for an account index.
func Path(index uint32) string {
	return "m/44'/" + strconv.Itoa(CoinType) + "'/0'/0/" + strconv.Itoa(int(index))
}

// DerivePath derives a key from a seed following an arbitrary BIP-32
// path such as "m/44'/818'/0'/0/3" or, with the optional leading "m/"
// root dropped, "44'/818'/0'/0/3". Segments suffixed with ' or h are
// hardened.
func DerivePath(seed []byte, path string) (*Key, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "derive master key", Err: err}
	}

	for _, seg := range segments {
		key, err = key.NewChildKey(seg)
		if err != nil {
			return nil, &txerror.KeystoreError{Detail: "derive child key", Err: err}
		}
	}

	return &Key{
		PrivateKey:        append([]byte(nil), key.Key...),
		ChainCode:         append([]byte(nil), key.ChainCode...),
		Depth:             key.Depth,
		ParentFingerprint: append([]byte(nil), key.FingerPrint...),
		ChildIndex:        bytesToUint32(key.ChildNumber),
	}, nil
}

func splitPath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 {
		return nil, txerror.NewInvalidInput(txerror.InvalidPath, "empty path")
	}
	if parts[0] == "m" {
		parts = parts[1:]
	}
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		hardened := false
		if strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") || strings.HasSuffix(p, "H") {
			hardened = true
			p = p[:len(p)-1]
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, txerror.NewInvalidInput(txerror.InvalidPath, "invalid path segment %q", p)
		}
		idx := uint32(n)
		if hardened {
			idx += bip32.FirstHardenedChild
		}
		out = append(out, idx)
	}
	return out, nil
}

func bytesToUint32(b []byte) uint32 {
	var n uint32
	for _, c := range b {
		n = n<<8 | uint32(c)
	}
	return n
}
