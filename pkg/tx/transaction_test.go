package tx

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/vechain-go/thortx/pkg/abi"
	"github.com/vechain-go/thortx/pkg/address"
	"github.com/vechain-go/thortx/pkg/secp256k1"
)

func mustPrivateKey(t *testing.T) []byte {
	t.Helper()
	k, err := secp256k1.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func newTestLegacyTx(t *testing.T) *Transaction {
	t.Helper()
	to := mustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	clause := NewVETTransferClause(to, big.NewInt(10000))
	return NewLegacyTransaction(0x4a, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, 720, []Clause{clause}, 128, 21000, nil, 1)
}

func newTestDynamicFeeTx(t *testing.T) *Transaction {
	t.Helper()
	to := mustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	clause := NewVETTransferClause(to, big.NewInt(10000))
	return NewDynamicFeeTransaction(0x4a, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, 720, []Clause{clause}, big.NewInt(100), big.NewInt(1000), 21000, nil, 1)
}

func TestSigningHash_Deterministic(t *testing.T) {
	tx1 := newTestLegacyTx(t)
	tx2 := newTestLegacyTx(t)

	h1, err := tx1.SigningHash()
	if err != nil {
		t.Fatal(err)
	}
	h2, err := tx2.SigningHash()
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("identical unsigned transactions produced different signing hashes")
	}
}

func TestSigningHash_DiffersByType(t *testing.T) {
	legacy := newTestLegacyTx(t)
	dynamic := newTestDynamicFeeTx(t)

	h1, err := legacy.SigningHash()
	if err != nil {
		t.Fatal(err)
	}
	h2, err := dynamic.SigningHash()
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("legacy and dynamic-fee transactions with the same fields produced the same signing hash")
	}
}

func TestSignAndRecoverOrigin(t *testing.T) {
	priv := mustPrivateKey(t)
	pub, err := secp256k1.ToPubKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	wantOrigin, err := address.FromPubKey(pub)
	if err != nil {
		t.Fatal(err)
	}

	transaction := newTestLegacyTx(t)
	if err := transaction.Sign(priv); err != nil {
		t.Fatal(err)
	}

	origin, err := transaction.Origin()
	if err != nil {
		t.Fatal(err)
	}
	if origin != wantOrigin {
		t.Errorf("recovered origin %s, want %s", origin.Checksum(), wantOrigin.Checksum())
	}
}

func TestEncodeDecodeRoundTrip_Legacy(t *testing.T) {
	priv := mustPrivateKey(t)
	transaction := newTestLegacyTx(t)
	if err := transaction.Sign(priv); err != nil {
		t.Fatal(err)
	}

	wire, err := transaction.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if wire[0] == dynamicFeeTypeByte {
		t.Fatal("legacy transaction encoding must not carry the dynamic-fee type byte")
	}

	decoded, err := Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Type() != Legacy {
		t.Errorf("decoded type = %v, want Legacy", decoded.Type())
	}
	if decoded.ChainTag() != transaction.ChainTag() {
		t.Errorf("chainTag = %x, want %x", decoded.ChainTag(), transaction.ChainTag())
	}
	if decoded.Gas() != transaction.Gas() {
		t.Errorf("gas = %d, want %d", decoded.Gas(), transaction.Gas())
	}
	if decoded.Nonce() != transaction.Nonce() {
		t.Errorf("nonce = %d, want %d", decoded.Nonce(), transaction.Nonce())
	}
	if len(decoded.Clauses()) != 1 {
		t.Fatalf("clauses = %d, want 1", len(decoded.Clauses()))
	}
	if decoded.Clauses()[0].Value.Cmp(transaction.Clauses()[0].Value) != 0 {
		t.Errorf("clause value = %s, want %s", decoded.Clauses()[0].Value, transaction.Clauses()[0].Value)
	}

	wantID, err := transaction.ID()
	if err != nil {
		t.Fatal(err)
	}
	gotID, err := decoded.ID()
	if err != nil {
		t.Fatal(err)
	}
	if wantID != gotID {
		t.Error("decoded transaction id does not match original")
	}
}

func TestEncodeDecodeRoundTrip_DynamicFee(t *testing.T) {
	priv := mustPrivateKey(t)
	transaction := newTestDynamicFeeTx(t)
	if err := transaction.Sign(priv); err != nil {
		t.Fatal(err)
	}

	wire, err := transaction.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if wire[0] != dynamicFeeTypeByte {
		t.Fatal("dynamic-fee transaction must be prefixed with the 0x51 type byte")
	}

	decoded, err := Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Type() != DynamicFee {
		t.Errorf("decoded type = %v, want DynamicFee", decoded.Type())
	}
	if decoded.MaxFeePerGas().Cmp(transaction.MaxFeePerGas()) != 0 {
		t.Errorf("maxFeePerGas = %s, want %s", decoded.MaxFeePerGas(), transaction.MaxFeePerGas())
	}
	if decoded.MaxPriorityFeePerGas().Cmp(transaction.MaxPriorityFeePerGas()) != 0 {
		t.Errorf("maxPriorityFeePerGas = %s, want %s", decoded.MaxPriorityFeePerGas(), transaction.MaxPriorityFeePerGas())
	}
}

func TestVIP191_DelegationRoundTrip(t *testing.T) {
	originPriv := mustPrivateKey(t)
	gasPayerPriv := mustPrivateKey(t)

	gasPayerPub, err := secp256k1.ToPubKey(gasPayerPriv)
	if err != nil {
		t.Fatal(err)
	}
	wantDelegator, err := address.FromPubKey(gasPayerPub)
	if err != nil {
		t.Fatal(err)
	}

	transaction := newTestLegacyTx(t)
	transaction.EnableFeeDelegation()
	if !transaction.IsDelegated() {
		t.Fatal("expected IsDelegated() to be true after EnableFeeDelegation")
	}

	if err := transaction.Sign(originPriv); err != nil {
		t.Fatal(err)
	}
	if err := transaction.CoSign(gasPayerPriv); err != nil {
		t.Fatal(err)
	}
	if len(transaction.Signature()) != 130 {
		t.Fatalf("delegated signature length = %d, want 130", len(transaction.Signature()))
	}

	delegator, err := transaction.Delegator()
	if err != nil {
		t.Fatal(err)
	}
	if delegator == nil {
		t.Fatal("expected a non-nil delegator after CoSign")
	}
	if *delegator != wantDelegator {
		t.Errorf("delegator = %s, want %s", delegator.Checksum(), wantDelegator.Checksum())
	}
}

func TestEncode_RequiresSignature(t *testing.T) {
	transaction := newTestLegacyTx(t)
	if _, err := transaction.Encode(); err == nil {
		t.Fatal("expected Encode to fail on an unsigned transaction")
	}
}

// TestDecode_S1MainnetSamplePrefix exercises spec §8's S1 vector: a
// live mainnet dynamic-fee transaction approving VTHO spend on the
// energy contract, raw hex
// `0x51f901244a88016da36825315ad964f87af85c940000000000000000000000000000456e6572677980b844095ea7b3000000000000000000000000…`.
// The source this hex was distilled from truncates it there ("full
// string in §1 of README"); no README or original source file in this
// repository's reference material carries the remaining bytes (the
// calldata tail, gas, dependsOn, nonce, reserved and the 65-byte
// signature). Reconstructing those fields to exercise a full
// Encode/Decode round trip and the genuine `transaction_id`
// (`0x29e08ec9784c33aeb9be99e3ff22ace0f285cbc338933379688b866c06713db0`)
// would mean fabricating data this SDK has no way to recover, and the
// clauses list length the sample's own header declares (0x7a = 122
// bytes) is larger than this one clause's encoded size (94 bytes),
// meaning the real transaction carries a second clause this truncated
// sample never reaches — so even the clause count cannot be
// reconstructed honestly. What the given bytes do fully pin down — the
// 0x51 type byte, chainTag, blockRef, expiration, and the first
// clause's to/value/selector — is decoded directly below and checked
// against the known VeChain constants it encodes (the energy contract
// address and the approve(address,uint256) selector), so this test
// still exercises the real wire format end-to-end for every field the
// source material actually discloses. The full round trip is covered
// generically by TestEncodeDecodeRoundTrip_DynamicFee.
func TestDecode_S1MainnetSamplePrefix(t *testing.T) {
	raw, err := hex.DecodeString("51f901244a88016da36825315ad964f87af85c940000000000000000000000000000456e6572677980b844095ea7b3")
	if err != nil {
		t.Fatal(err)
	}

	if raw[0] != dynamicFeeTypeByte {
		t.Fatalf("type byte = %#x, want %#x", raw[0], dynamicFeeTypeByte)
	}
	if raw[1] != 0xf9 {
		t.Fatalf("list header = %#x, want a 2-byte-length list (0xf9)", raw[1])
	}

	chainTag := raw[4]
	if chainTag != 0x4a {
		t.Errorf("chainTag = %#x, want %#x (mainnet)", chainTag, 0x4a)
	}

	var blockRef [8]byte
	copy(blockRef[:], raw[6:14])
	wantBlockRef := [8]byte{0x01, 0x6d, 0xa3, 0x68, 0x25, 0x31, 0x5a, 0xd9}
	if blockRef != wantBlockRef {
		t.Errorf("blockRef = %x, want %x", blockRef, wantBlockRef)
	}

	expiration := raw[14]
	if expiration != 0x64 {
		t.Errorf("expiration = %d, want %d", expiration, 0x64)
	}

	clausesPayloadLen := raw[16]
	clause0PayloadLen := raw[18]
	clause0EncodedSize := 2 + int(clause0PayloadLen)
	if int(clausesPayloadLen) <= clause0EncodedSize {
		t.Fatalf("clauses payload length %d leaves no room for more than this one %d-byte clause; the sample is not what this test expects", clausesPayloadLen, clause0EncodedSize)
	}

	to, err := address.Parse(hex.EncodeToString(raw[20:40]))
	if err != nil {
		t.Fatal(err)
	}
	if to != energyContractAddress {
		t.Errorf("first clause's to = %s, want the energy contract %s", to.Checksum(), energyContractAddress.Checksum())
	}

	value := raw[40]
	if value != 0x80 {
		t.Errorf("first clause's value = %#x, want %#x (RLP-encoded zero)", value, 0x80)
	}

	gotSelector := raw[43:47]
	wantSelector := abi.FunctionSelector("approve", []abi.Type{{Kind: abi.KindAddress, Bits: 160}, {Kind: abi.KindUint, Bits: 256}})
	if !bytes.Equal(gotSelector, wantSelector[:]) {
		t.Errorf("first clause's selector = %x, want approve(address,uint256) = %x", gotSelector, wantSelector)
	}
}

func TestVTHOTransferClause_TargetsEnergyContract(t *testing.T) {
	to := mustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	clause, err := NewVTHOTransferClause(to, big.NewInt(500))
	if err != nil {
		t.Fatal(err)
	}
	if *clause.To != energyContractAddress {
		t.Errorf("VTHO clause.To = %s, want energy contract %s", clause.To.Checksum(), energyContractAddress.Checksum())
	}
	if len(clause.Data) != 4+32+32 {
		t.Errorf("VTHO clause.Data length = %d, want %d", len(clause.Data), 4+32+32)
	}
	if !bytes.HasPrefix(clause.Data, []byte{0xa9, 0x05, 0x9c, 0xbb}) {
		t.Errorf("VTHO clause.Data does not start with the transfer(address,uint256) selector")
	}
}
