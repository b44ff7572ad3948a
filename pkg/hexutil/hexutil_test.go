package hexutil

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	if got := Encode([]byte{0xde, 0xad, 0xbe, 0xef}); got != "0xdeadbeef" {
		t.Errorf("Encode = %q, want 0xdeadbeef", got)
	}
}

func TestDecode_AcceptsMixedCaseWithOrWithoutPrefix(t *testing.T) {
	for _, s := range []string{"0xDEADbeef", "DEADbeef", "0xdeadbeef"} {
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if !bytes.Equal(got, []byte{0xde, 0xad, 0xbe, 0xef}) {
			t.Errorf("Decode(%q) = %x, want deadbeef", s, got)
		}
	}
}

func TestDecode_RejectsOddLength(t *testing.T) {
	if _, err := Decode("0xabc"); err == nil {
		t.Fatal("expected Decode to reject an odd-length hex string")
	}
}

func TestMustDecode_PanicsOnInvalidInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustDecode to panic on invalid input")
		}
	}()
	MustDecode("0xzz")
}

func TestIsHex(t *testing.T) {
	cases := map[string]bool{
		"0xdeadbeef": true,
		"deadbeef":   true,
		"0xdeadbee":  false,
		"0xg1":       false,
		"0xabc":      false,
	}
	for s, want := range cases {
		if got := IsHex(s); got != want {
			t.Errorf("IsHex(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestHas0xPrefix(t *testing.T) {
	if !Has0xPrefix("0xabc") || !Has0xPrefix("0Xabc") {
		t.Error("expected both 0x and 0X prefixes to be recognized")
	}
	if Has0xPrefix("abc") {
		t.Error("did not expect a bare hex string to have a 0x prefix")
	}
}
