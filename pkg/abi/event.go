package abi

import (
	"math/big"

	"github.com/vechain-go/thortx/pkg/txerror"
)

// EventParam describes one named parameter of an event's ABI
// signature, including whether it is indexed (and therefore carried
// in a log topic rather than the data blob).
type EventParam struct {
	Name    string
	Type    Type
	Indexed bool
}

// DecodeEventLog decodes a VeChain event log's topics and data against
// the event's parameter list. topics[0] (the event's own signature
// hash) must already be stripped by the caller; topics here holds only
// the indexed parameter values in declaration order.
//
// Indexed dynamic-type parameters (bytes, string, arrays, tuples) are
// not recoverable from their topic: the chain stores Keccak256(value)
// there, not the value itself, so those entries decode to the raw
// 32-byte topic rather than the original value.
func DecodeEventLog(params []EventParam, topics [][32]byte, data []byte) (map[string]any, error) {
	var indexedCount int
	var nonIndexed []Type
	var nonIndexedNames []string
	for _, p := range params {
		if p.Indexed {
			indexedCount++
		} else {
			nonIndexed = append(nonIndexed, p.Type)
			nonIndexedNames = append(nonIndexedNames, p.Name)
		}
	}
	if len(topics) != indexedCount {
		return nil, &txerror.EncodingError{Path: "abi.event", Detail: "topic count does not match indexed parameter count"}
	}

	out := make(map[string]any, len(params))
	topicIdx := 0
	for _, p := range params {
		if !p.Indexed {
			continue
		}
		topic := topics[topicIdx]
		topicIdx++
		if p.Type.IsDynamic() {
			out[p.Name] = topic[:]
			continue
		}
		v, _, err := decodeStatic(p.Type, topic[:])
		if err != nil {
			return nil, err
		}
		out[p.Name] = v
	}

	if len(nonIndexed) > 0 {
		values, err := Decode(nonIndexed, data)
		if err != nil {
			return nil, err
		}
		for i, name := range nonIndexedNames {
			out[name] = values[i]
		}
	}
	return out, nil
}

// topicFromBigInt is a convenience used by callers building topic
// filters for indexed uint/int parameters.
func topicFromBigInt(n *big.Int) [32]byte {
	var out [32]byte
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}
