package address

import (
	"encoding/hex"
	"testing"

	"github.com/vechain-go/thortx/pkg/secp256k1"
)

func TestFromPubKey_KnownPrivateKey(t *testing.T) {
	priv, err := hex.DecodeString("5434C159B817C377A55F6BE66369622976014E78BCE2ADFD3E44E5DE88CE502F")
	if err != nil {
		t.Fatal(err)
	}
	pub, err := secp256k1.ToPubKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := FromPubKey(pub)
	if err != nil {
		t.Fatal(err)
	}
	want := "0x769E8AA372c8309c834EA6749B88861FF73581FF"
	if addr.Checksum() != want {
		t.Errorf("Checksum() = %s, want %s", addr.Checksum(), want)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	addr, err := Parse("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	if err != nil {
		t.Fatal(err)
	}
	reparsed, err := Parse(addr.Checksum())
	if err != nil {
		t.Fatal(err)
	}
	if addr != reparsed {
		t.Error("parsing an address's own checksummed form must round-trip")
	}
}

func TestParse_RejectsWrongLength(t *testing.T) {
	if _, err := Parse("0x1234"); err == nil {
		t.Fatal("expected Parse to reject a too-short address")
	}
}
