// Package tx implements the VeChainThor transaction and clause model
// (§4.5-§4.9): multi-clause atomic transactions in both the legacy
// gas-coefficient form and the EIP-1559-style dynamic fee form,
// their canonical RLP wire encoding built on pkg/rlp, Blake2b-256
// signing hashes and transaction ids, intrinsic gas accounting, and
// VIP-191 two-party fee delegation.
//
// The signing/broadcast shape follows a Sign -> broadcast pipeline,
// but the wire format and multi-clause model are VeChain-specific and
// have no analogue in single-clause chains.
package tx

import (
	"math/big"

	"github.com/vechain-go/thortx/pkg/abi"
	"github.com/vechain-go/thortx/pkg/address"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// Clause is one atomic instruction within a transaction: a value
// transfer, a contract call, or (when To is nil) a contract
// deployment. A transaction with multiple clauses either applies all
// of them or none.
type Clause struct {
	To    *address.Address
	Value *big.Int
	Data  []byte
}

// IsContractCreation reports whether this clause deploys new code.
func (c Clause) IsContractCreation() bool {
	return c.To == nil
}

// NewVETTransferClause builds a plain VET transfer clause.
func NewVETTransferClause(to address.Address, value *big.Int) Clause {
	return Clause{To: &to, Value: value, Data: nil}
}

// energyContractAddress is VIP-180's fixed "energy" (VTHO) contract address.
var energyContractAddress = mustParseAddress("0x0000000000000000000000000000456e65726779")

var (
	addressType = abi.Type{Kind: abi.KindAddress, Bits: 160}
	uint256Type = abi.Type{Kind: abi.KindUint, Bits: 256}
)

// NewVTHOTransferClause builds a clause that calls VTHO's
// transfer(address,uint256) on VeChain's built-in energy contract.
func NewVTHOTransferClause(to address.Address, value *big.Int) (Clause, error) {
	data, err := abi.EncodeCall("transfer", []abi.Type{addressType, uint256Type}, []any{to, value})
	if err != nil {
		return Clause{}, err
	}
	dest := energyContractAddress
	return Clause{To: &dest, Value: big.NewInt(0), Data: data}, nil
}

// NewCallClause builds a contract call clause with arbitrary calldata.
func NewCallClause(to address.Address, value *big.Int, data []byte) Clause {
	return Clause{To: &to, Value: value, Data: data}
}

// NewDeploymentClause builds a contract deployment clause. value is
// typically zero; code is the contract's init bytecode.
func NewDeploymentClause(value *big.Int, code []byte) Clause {
	return Clause{To: nil, Value: value, Data: code}
}

func mustParseAddress(s string) address.Address {
	a, err := address.Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func clauseToValues(c Clause) []any {
	var to any
	if c.To != nil {
		to = c.To.Bytes()
	}
	value := c.Value
	if value == nil {
		value = big.NewInt(0)
	}
	return []any{to, value, c.Data}
}

func valuesToClause(path string, values []any) (Clause, error) {
	if len(values) != 3 {
		return Clause{}, &txerror.EncodingError{Path: path, Detail: "clause must have exactly 3 fields"}
	}
	var c Clause
	switch to := values[0].(type) {
	case nil:
		c.To = nil
	case []byte:
		var a address.Address
		copy(a[:], to)
		c.To = &a
	default:
		return Clause{}, &txerror.EncodingError{Path: path, Detail: "unexpected clause.to decoded type"}
	}
	value, ok := values[1].(*big.Int)
	if !ok {
		return Clause{}, &txerror.EncodingError{Path: path, Detail: "unexpected clause.value decoded type"}
	}
	c.Value = value
	data, ok := values[2].([]byte)
	if !ok {
		return Clause{}, &txerror.EncodingError{Path: path, Detail: "unexpected clause.data decoded type"}
	}
	c.Data = data
	return c, nil
}
