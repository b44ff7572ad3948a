// Package bip39 generates and validates mnemonic phrases and derives
// seeds from them (§4.6), wrapping tyler-smith/go-bip39.
package bip39

import (
	gobip39 "github.com/tyler-smith/go-bip39"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// EntropyBits enumerates the entropy sizes this package accepts,
// yielding 12, 15, 18, 21 and 24-word mnemonics respectively.
const (
	Entropy128 = 128
	Entropy160 = 160
	Entropy192 = 192
	Entropy224 = 224
	Entropy256 = 256
)

// NewMnemonic generates a random mnemonic of the requested entropy size.
func NewMnemonic(bits int) (string, error) {
	if err := validEntropyBits(bits); err != nil {
		return "", err
	}
	entropy, err := gobip39.NewEntropy(bits)
	if err != nil {
		return "", &txerror.InvalidInput{Kind: txerror.InvalidEntropyLength, Msg: err.Error()}
	}
	return NewMnemonicFromEntropy(entropy)
}

// NewMnemonicFromEntropy builds a checksummed mnemonic from explicit entropy bytes.
func NewMnemonicFromEntropy(entropy []byte) (string, error) {
	m, err := gobip39.NewMnemonic(entropy)
	if err != nil {
		return "", txerror.NewInvalidInput(txerror.InvalidEntropyLength, "%v", err)
	}
	return m, nil
}

// ValidateMnemonic checks word-count, wordlist membership and checksum.
func ValidateMnemonic(mnemonic string) error {
	words := splitWords(mnemonic)
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return txerror.NewInvalidInput(txerror.InvalidWordCount, "mnemonic must have 12, 15, 18, 21 or 24 words, got %d", len(words))
	}
	for _, w := range words {
		if !wordlistContains(w) {
			return txerror.NewInvalidInput(txerror.InvalidWord, "%q is not in the BIP-39 wordlist", w)
		}
	}
	if !gobip39.IsMnemonicValid(mnemonic) {
		return txerror.NewInvalidInput(txerror.InvalidChecksum, "mnemonic checksum verification failed")
	}
	return nil
}

// SeedFromMnemonic derives the 64-byte PBKDF2-HMAC-SHA512 seed from a
// mnemonic and optional passphrase. The mnemonic is validated first.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	return gobip39.NewSeed(mnemonic, passphrase), nil
}

func validEntropyBits(bits int) error {
	switch bits {
	case Entropy128, Entropy160, Entropy192, Entropy224, Entropy256:
		return nil
	default:
		return txerror.NewInvalidInput(txerror.InvalidEntropyLength, "entropy must be 128, 160, 192, 224 or 256 bits, got %d", bits)
	}
}

func splitWords(mnemonic string) []string {
	var words []string
	start := -1
	for i, r := range mnemonic {
		if r == ' ' {
			if start >= 0 {
				words = append(words, mnemonic[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, mnemonic[start:])
	}
	return words
}

func wordlistContains(word string) bool {
	for _, w := range gobip39.GetWordList() {
		if w == word {
			return true
		}
	}
	return false
}
