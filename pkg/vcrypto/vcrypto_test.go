package vcrypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestBlake2b256_Hello(t *testing.T) {
	want, err := hex.DecodeString("324dcf027dd4a30a932c441f365a25e86b173defa4b8e58948253471b81b72cf")
	if err != nil {
		t.Fatal(err)
	}
	got := Blake2b256([]byte("hello"))
	if !bytes.Equal(got[:], want) {
		t.Errorf("Blake2b256(\"hello\") = %x, want %x", got, want)
	}
}

func TestKeccak256_DiffersFromBlake2b256(t *testing.T) {
	data := []byte("hello")
	if Keccak256(data) == Blake2b256(data) {
		t.Error("Keccak256 and Blake2b256 must never agree on the same input")
	}
}

func TestBlake2b256_MultiArgConcatenation(t *testing.T) {
	combined := Blake2b256([]byte("ab"), []byte("cd"))
	whole := Blake2b256([]byte("abcd"))
	if combined != whole {
		t.Error("Blake2b256 of split args must equal Blake2b256 of the concatenation")
	}
}
