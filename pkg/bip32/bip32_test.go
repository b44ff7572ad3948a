package bip32

import (
	"encoding/hex"
	"testing"
)

func TestDerivePath_Vector1Master(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatal(err)
	}

	master, err := DerivePath(seed, "m")
	if err != nil {
		t.Fatal(err)
	}
	wantPriv := "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35"
	wantChainCode := "873dff81c02f525623fd1fe5167eac3a55a049de3d314bb42ee227ffed37d508"
	if hex.EncodeToString(master.PrivateKey) != wantPriv {
		t.Errorf("master private key = %x, want %s", master.PrivateKey, wantPriv)
	}
	if hex.EncodeToString(master.ChainCode) != wantChainCode {
		t.Errorf("master chain code = %x, want %s", master.ChainCode, wantChainCode)
	}
}

func TestDerivePath_Vector1HardenedChild(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatal(err)
	}

	child, err := DerivePath(seed, "m/0'")
	if err != nil {
		t.Fatal(err)
	}
	wantPriv := "edb2e14f9ee77d26dd93b4ecede8d16ed408ce149b6cd80b0715a2d911a0afea"
	if hex.EncodeToString(child.PrivateKey) != wantPriv {
		t.Errorf("m/0' private key = %x, want %s", child.PrivateKey, wantPriv)
	}
}

func TestPath_MatchesVeChainCoinType(t *testing.T) {
	want := "m/44'/818'/0'/0/3"
	if got := Path(3); got != want {
		t.Errorf("Path(3) = %s, want %s", got, want)
	}
}

func TestDerivePath_LeadingMIsOptional(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatal(err)
	}

	withRoot, err := DerivePath(seed, "m/0'")
	if err != nil {
		t.Fatal(err)
	}
	withoutRoot, err := DerivePath(seed, "0'")
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(withRoot.PrivateKey) != hex.EncodeToString(withoutRoot.PrivateKey) {
		t.Errorf("derivation with and without the leading \"m\" diverged: %x vs %x", withRoot.PrivateKey, withoutRoot.PrivateKey)
	}
}
