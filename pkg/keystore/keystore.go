// Package keystore implements the Web3 Secret Storage v3 format (§4.8)
// for encrypting and recovering a VeChain private key with a
// passphrase: PBKDF2 or Scrypt key derivation, AES-128-CTR encryption
// and a Keccak256 MAC, assembled the way go-ethereum's own keystore
// package does.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pborman/uuid"
	"github.com/vechain-go/thortx/pkg/txerror"
	"github.com/vechain-go/thortx/pkg/vcrypto"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const version = 3

// KDF selects the key derivation function used to stretch a passphrase.
type KDF string

const (
	KDFScrypt KDF = "scrypt"
	KDFPBKDF2 KDF = "pbkdf2"
)

// Scrypt cost parameters, matching go-ethereum's "standard" profile.
const (
	ScryptN = 1 << 18
	ScryptR = 8
	ScryptP = 1

	PBKDF2Iterations = 262144
)

const (
	keyLen  = 32
	ivLen   = 16
	saltLen = 32
)

// CryptoParams is the "crypto" section of a v3 keystore file.
type CryptoParams struct {
	Cipher       string       `json:"cipher"`
	CipherText   string       `json:"ciphertext"`
	CipherParams CipherParams `json:"cipherparams"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

// CipherParams carries the AES-CTR initialization vector.
type CipherParams struct {
	IV string `json:"iv"`
}

// KDFParams carries every field either KDF might need; unused fields
// are omitted from JSON for the KDF not in use.
type KDFParams struct {
	N     int    `json:"n,omitempty"`
	R     int    `json:"r,omitempty"`
	P     int    `json:"p,omitempty"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	C     int    `json:"c,omitempty"`
	PRF   string `json:"prf,omitempty"`
}

// File is the full Web3 Secret Storage v3 document.
type File struct {
	Address string       `json:"address"`
	Crypto  CryptoParams `json:"crypto"`
	ID      string       `json:"id"`
	Version int          `json:"version"`
}

// Encrypt produces a keystore File for privateKey, protected by
// passphrase, using the requested KDF.
func Encrypt(privateKey []byte, address string, passphrase string, kdf KDF) (*File, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, &txerror.KeystoreError{Detail: "generate salt", Err: err}
	}
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, &txerror.KeystoreError{Detail: "generate iv", Err: err}
	}

	derivedKey, kdfParams, err := deriveKey(passphrase, salt, kdf)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(derivedKey[:16])
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "new aes cipher", Err: err}
	}
	cipherText := make([]byte, len(privateKey))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(cipherText, privateKey)

	mac := vcrypto.Keccak256(derivedKey[16:32], cipherText)

	return &File{
		Address: address,
		Crypto: CryptoParams{
			Cipher:       "aes-128-ctr",
			CipherText:   hex.EncodeToString(cipherText),
			CipherParams: CipherParams{IV: hex.EncodeToString(iv)},
			KDF:          string(kdf),
			KDFParams:    kdfParams,
			MAC:          hex.EncodeToString(mac[:]),
		},
		ID:      uuid.NewRandom().String(),
		Version: version,
	}, nil
}

// Decrypt recovers the private key from a keystore File given the passphrase.
func Decrypt(f *File, passphrase string) ([]byte, error) {
	salt, err := hex.DecodeString(f.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "decode salt", Err: err}
	}
	iv, err := hex.DecodeString(f.Crypto.CipherParams.IV)
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "decode iv", Err: err}
	}
	cipherText, err := hex.DecodeString(f.Crypto.CipherText)
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "decode ciphertext", Err: err}
	}
	wantMAC, err := hex.DecodeString(f.Crypto.MAC)
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "decode mac", Err: err}
	}

	derivedKey, _, err := deriveKeyWithParams(passphrase, salt, KDF(f.Crypto.KDF), f.Crypto.KDFParams)
	if err != nil {
		return nil, err
	}

	gotMAC := vcrypto.Keccak256(derivedKey[16:32], cipherText)
	if !constantTimeEqual(gotMAC[:], wantMAC) {
		return nil, &txerror.InvalidPassword{}
	}

	block, err := aes.NewCipher(derivedKey[:16])
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "new aes cipher", Err: err}
	}
	privateKey := make([]byte, len(cipherText))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(privateKey, cipherText)
	return privateKey, nil
}

// ParseFile parses a keystore document from its on-disk JSON form.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &txerror.KeystoreError{Detail: "parse keystore json", Err: err}
	}
	return &f, nil
}

// Marshal renders a keystore document to its on-disk JSON form.
func Marshal(f *File) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, &txerror.KeystoreError{Detail: "marshal keystore json", Err: err}
	}
	return data, nil
}

func deriveKey(passphrase string, salt []byte, kdf KDF) ([]byte, KDFParams, error) {
	switch kdf {
	case KDFScrypt:
		dk, err := scrypt.Key([]byte(passphrase), salt, ScryptN, ScryptR, ScryptP, keyLen)
		if err != nil {
			return nil, KDFParams{}, &txerror.KeystoreError{Detail: "scrypt", Err: err}
		}
		return dk, KDFParams{N: ScryptN, R: ScryptR, P: ScryptP, DKLen: keyLen, Salt: hex.EncodeToString(salt)}, nil
	case KDFPBKDF2:
		dk := pbkdf2Key(passphrase, salt, PBKDF2Iterations, keyLen)
		return dk, KDFParams{C: PBKDF2Iterations, PRF: "hmac-sha256", DKLen: keyLen, Salt: hex.EncodeToString(salt)}, nil
	default:
		return nil, KDFParams{}, &txerror.KeystoreError{Detail: "unsupported kdf " + string(kdf)}
	}
}

func deriveKeyWithParams(passphrase string, salt []byte, kdf KDF, params KDFParams) ([]byte, KDFParams, error) {
	switch kdf {
	case KDFScrypt:
		n, r, p := params.N, params.R, params.P
		if n == 0 {
			n = ScryptN
		}
		if r == 0 {
			r = ScryptR
		}
		if p == 0 {
			p = ScryptP
		}
		dk, err := scrypt.Key([]byte(passphrase), salt, n, r, p, keyLen)
		if err != nil {
			return nil, KDFParams{}, &txerror.KeystoreError{Detail: "scrypt", Err: err}
		}
		return dk, params, nil
	case KDFPBKDF2:
		c := params.C
		if c == 0 {
			c = PBKDF2Iterations
		}
		return pbkdf2Key(passphrase, salt, c, keyLen), params, nil
	default:
		return nil, KDFParams{}, &txerror.KeystoreError{Detail: "unsupported kdf " + string(kdf)}
	}
}

func pbkdf2Key(passphrase string, salt []byte, iterations, dkLen int) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, iterations, dkLen, sha256.New)
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
