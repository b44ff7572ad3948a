package abi

import "github.com/vechain-go/thortx/pkg/vcrypto"

// Signature returns the canonical function/event signature string,
// e.g. "transfer(address,uint256)".
func Signature(name string, types []Type) string {
	sig := name + "("
	for i, t := range types {
		if i > 0 {
			sig += ","
		}
		sig += t.String()
	}
	return sig + ")"
}

// FunctionSelector returns the first 4 bytes of Keccak256 of the
// canonical function signature, as used in clause calldata.
func FunctionSelector(name string, types []Type) [4]byte {
	h := vcrypto.Keccak256([]byte(Signature(name, types)))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// EventTopic0 returns the Keccak256 of the canonical event signature,
// used as topics[0] of an event log.
func EventTopic0(name string, types []Type) [32]byte {
	return vcrypto.Keccak256([]byte(Signature(name, types)))
}

// EncodeCall returns the full clause calldata for a function call:
// the 4-byte selector followed by the ABI-encoded arguments.
func EncodeCall(name string, types []Type, values []any) ([]byte, error) {
	args, err := Encode(types, values)
	if err != nil {
		return nil, err
	}
	sel := FunctionSelector(name, types)
	out := make([]byte, 0, 4+len(args))
	out = append(out, sel[:]...)
	out = append(out, args...)
	return out, nil
}
