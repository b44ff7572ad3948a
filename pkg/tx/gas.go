package tx

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// Intrinsic gas constants (§4.9). These are VeChain's own schedule,
// not Ethereum's: a call clause costs 16000, a contract-creation
// clause costs 48000, and each clause's calldata is billed like
// Ethereum's pre-EIP-2028 schedule (4 gas per zero byte, 68 per
// nonzero byte).
const (
	txGas               uint64 = 5000
	clauseGas           uint64 = 16000
	clauseCreationGas   uint64 = 48000
	txDataZeroGas       uint64 = 4
	txDataNonZeroGas    uint64 = 68
)

// IntrinsicGas computes the minimum gas this transaction's clauses
// require, before any EVM execution: a flat base cost plus a
// per-clause cost (higher for contract creation) plus a per-byte
// calldata cost. Overflow-checked the way go-ethereum's own intrinsic
// gas accounting is, since a transaction with enough clauses/data
// could otherwise wrap a uint64.
func (tx *Transaction) IntrinsicGas() (uint64, error) {
	return IntrinsicGas(tx.clauses)
}

// IntrinsicGas computes the intrinsic gas of a standalone clause list,
// useful for estimating before a Transaction is fully constructed.
func IntrinsicGas(clauses []Clause) (uint64, error) {
	gas := txGas
	var overflow bool

	for _, c := range clauses {
		clauseCost := clauseGas
		if c.IsContractCreation() {
			clauseCost = clauseCreationGas
		}
		gas, overflow = math.SafeAdd(gas, clauseCost)
		if overflow {
			return 0, &txerror.EncodingError{Path: "tx.clauses", Detail: "intrinsic gas overflow"}
		}

		var zeros, nonZeros uint64
		for _, b := range c.Data {
			if b == 0 {
				zeros++
			} else {
				nonZeros++
			}
		}

		zeroCost, overflow1 := math.SafeMul(zeros, txDataZeroGas)
		nonZeroCost, overflow2 := math.SafeMul(nonZeros, txDataNonZeroGas)
		if overflow1 || overflow2 {
			return 0, &txerror.EncodingError{Path: "tx.clauses", Detail: "intrinsic gas overflow"}
		}

		gas, overflow = math.SafeAdd(gas, zeroCost)
		if overflow {
			return 0, &txerror.EncodingError{Path: "tx.clauses", Detail: "intrinsic gas overflow"}
		}
		gas, overflow = math.SafeAdd(gas, nonZeroCost)
		if overflow {
			return 0, &txerror.EncodingError{Path: "tx.clauses", Detail: "intrinsic gas overflow"}
		}
	}

	return gas, nil
}
