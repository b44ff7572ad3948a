package secp256k1

import (
	"bytes"
	"testing"
)

func TestSignRecover_RoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	pub, err := ToPubKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	msg := bytes.Repeat([]byte{0xab}, 32)

	sig, err := Sign(msg, priv)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length = %d, want 65", len(sig))
	}
	if sig[64] > 3 {
		t.Errorf("recovery id = %d, want 0-3", sig[64])
	}

	recovered, err := Recover(msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(recovered, pub) {
		t.Error("recovered public key does not match signer's public key")
	}
	if !Verify(msg, sig, pub) {
		t.Error("Verify rejected a valid signature")
	}
}

func TestValidPrivateKey_RejectsZero(t *testing.T) {
	if ValidPrivateKey(make([]byte, 32)) {
		t.Error("expected the all-zero key to be rejected")
	}
}

func TestValidPrivateKey_RejectsWrongLength(t *testing.T) {
	if ValidPrivateKey(make([]byte, 31)) {
		t.Error("expected a 31-byte key to be rejected")
	}
}

func TestRecover_RejectsBadRecoveryID(t *testing.T) {
	msg := bytes.Repeat([]byte{0x01}, 32)
	sig := make([]byte, 65)
	sig[64] = 4
	if _, err := Recover(msg, sig); err == nil {
		t.Fatal("expected Recover to reject a recovery id outside 0-3")
	}
}
