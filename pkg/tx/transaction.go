package tx

import (
	"math/big"

	"github.com/vechain-go/thortx/pkg/address"
	"github.com/vechain-go/thortx/pkg/rlp"
	"github.com/vechain-go/thortx/pkg/secp256k1"
	"github.com/vechain-go/thortx/pkg/txerror"
	"github.com/vechain-go/thortx/pkg/vcrypto"
)

// Type distinguishes the two transaction wire formats VeChainThor
// accepts.
type Type int

const (
	// Legacy is the original gas-price-coefficient transaction, RLP
	// encoded with no type-byte envelope.
	Legacy Type = iota
	// DynamicFee is the EIP-1559-style transaction, wrapped in a
	// single 0x51 type byte ahead of its RLP body.
	DynamicFee
)

// dynamicFeeTypeByte is VeChainThor's type-envelope prefix for
// DynamicFee transactions.
const dynamicFeeTypeByte = 0x51

// featureDelegated is reserved[0]'s bit 0: VIP-191 two-party fee
// delegation is in effect for this transaction.
const featureDelegated uint32 = 1

// Transaction is a VeChainThor transaction: a chain tag and
// expiration window binding it to a specific fork and block range, an
// ordered list of clauses applied atomically, and either a legacy gas
// coefficient or a dynamic-fee gas price pair.
type Transaction struct {
	txType Type

	chainTag   byte
	blockRef   [8]byte
	expiration uint32
	clauses    []Clause

	gasPriceCoef byte // Legacy only

	maxPriorityFeePerGas *big.Int // DynamicFee only
	maxFeePerGas         *big.Int // DynamicFee only

	gas        uint64
	dependsOn  *[32]byte
	nonce      uint64
	features   uint32
	unused     [][]byte
	signature  []byte
}

// NewLegacyTransaction builds an unsigned legacy transaction.
func NewLegacyTransaction(chainTag byte, blockRef [8]byte, expiration uint32, clauses []Clause, gasPriceCoef byte, gas uint64, dependsOn *[32]byte, nonce uint64) *Transaction {
	return &Transaction{
		txType:       Legacy,
		chainTag:     chainTag,
		blockRef:     blockRef,
		expiration:   expiration,
		clauses:      clauses,
		gasPriceCoef: gasPriceCoef,
		gas:          gas,
		dependsOn:    dependsOn,
		nonce:        nonce,
	}
}

// NewDynamicFeeTransaction builds an unsigned dynamic-fee transaction.
func NewDynamicFeeTransaction(chainTag byte, blockRef [8]byte, expiration uint32, clauses []Clause, maxPriorityFeePerGas, maxFeePerGas *big.Int, gas uint64, dependsOn *[32]byte, nonce uint64) *Transaction {
	return &Transaction{
		txType:               DynamicFee,
		chainTag:             chainTag,
		blockRef:             blockRef,
		expiration:           expiration,
		clauses:              clauses,
		maxPriorityFeePerGas: maxPriorityFeePerGas,
		maxFeePerGas:         maxFeePerGas,
		gas:                  gas,
		dependsOn:            dependsOn,
		nonce:                nonce,
	}
}

func (tx *Transaction) Type() Type               { return tx.txType }
func (tx *Transaction) ChainTag() byte            { return tx.chainTag }
func (tx *Transaction) BlockRef() [8]byte         { return tx.blockRef }
func (tx *Transaction) Expiration() uint32        { return tx.expiration }
func (tx *Transaction) Clauses() []Clause         { return tx.clauses }
func (tx *Transaction) Gas() uint64               { return tx.gas }
func (tx *Transaction) DependsOn() *[32]byte      { return tx.dependsOn }
func (tx *Transaction) Nonce() uint64             { return tx.nonce }
func (tx *Transaction) GasPriceCoef() byte        { return tx.gasPriceCoef }
func (tx *Transaction) MaxFeePerGas() *big.Int    { return tx.maxFeePerGas }
func (tx *Transaction) MaxPriorityFeePerGas() *big.Int { return tx.maxPriorityFeePerGas }
func (tx *Transaction) Signature() []byte         { return tx.signature }

// IsDelegated reports whether this transaction requests VIP-191
// two-party fee delegation.
func (tx *Transaction) IsDelegated() bool { return tx.features&featureDelegated != 0 }

// EnableFeeDelegation sets the VIP-191 delegation feature bit. Call
// before Sign so the origin signs over a signing hash that commits to
// delegation being requested.
func (tx *Transaction) EnableFeeDelegation() { tx.features |= featureDelegated }

// ---- RLP schema ----

func clauseProfile() rlp.Profile {
	return rlp.StructProfile{Fields: []rlp.Field{
		{Name: "to", Profile: rlp.OptionalFixedHexBlob{Bytes: address.Length}},
		{Name: "value", Profile: rlp.Numeric{MaxBytes: 32}},
		{Name: "data", Profile: rlp.HexBlob{}},
	}}
}

func clausesProfile() rlp.Profile {
	return rlp.ArrayProfile{Item: clauseProfile()}
}

func reservedProfile() rlp.Profile {
	return rlp.ArrayProfile{Item: rlp.HexBlob{}}
}

// schema returns the struct profile for this transaction's type,
// either with or without the trailing signature field: the unsigned
// form is exactly what gets Blake2b-256 hashed to produce the signing
// hash.
func schema(t Type, signed bool) rlp.StructProfile {
	var fields []rlp.Field
	switch t {
	case Legacy:
		fields = []rlp.Field{
			{Name: "chainTag", Profile: rlp.Numeric{MaxBytes: 1}},
			{Name: "blockRef", Profile: rlp.CompactFixedHexBlob{Bytes: 8}},
			{Name: "expiration", Profile: rlp.Numeric{MaxBytes: 4}},
			{Name: "clauses", Profile: clausesProfile()},
			{Name: "gasPriceCoef", Profile: rlp.Numeric{MaxBytes: 1}},
			{Name: "gas", Profile: rlp.Numeric{MaxBytes: 8}},
			{Name: "dependsOn", Profile: rlp.OptionalFixedHexBlob{Bytes: 32}},
			{Name: "nonce", Profile: rlp.Numeric{MaxBytes: 8}},
			{Name: "reserved", Profile: reservedProfile()},
		}
	case DynamicFee:
		fields = []rlp.Field{
			{Name: "chainTag", Profile: rlp.Numeric{MaxBytes: 1}},
			{Name: "blockRef", Profile: rlp.CompactFixedHexBlob{Bytes: 8}},
			{Name: "expiration", Profile: rlp.Numeric{MaxBytes: 4}},
			{Name: "clauses", Profile: clausesProfile()},
			{Name: "maxPriorityFeePerGas", Profile: rlp.Numeric{MaxBytes: 32}},
			{Name: "maxFeePerGas", Profile: rlp.Numeric{MaxBytes: 32}},
			{Name: "gas", Profile: rlp.Numeric{MaxBytes: 8}},
			{Name: "dependsOn", Profile: rlp.OptionalFixedHexBlob{Bytes: 32}},
			{Name: "nonce", Profile: rlp.Numeric{MaxBytes: 8}},
			{Name: "reserved", Profile: reservedProfile()},
		}
	}
	if signed {
		fields = append(fields, rlp.Field{Name: "signature", Profile: rlp.HexBlob{}})
	}
	return rlp.StructProfile{Fields: fields}
}

func (tx *Transaction) fieldValues() []any {
	clauseItems := make([]any, len(tx.clauses))
	for i, c := range tx.clauses {
		clauseItems[i] = clauseToValues(c)
	}

	var dependsOn any
	if tx.dependsOn != nil {
		dependsOn = tx.dependsOn[:]
	}

	values := []any{
		tx.chainTag,
		tx.blockRef[:],
		tx.expiration,
		clauseItems,
	}
	switch tx.txType {
	case Legacy:
		values = append(values, tx.gasPriceCoef)
	case DynamicFee:
		priority := tx.maxPriorityFeePerGas
		if priority == nil {
			priority = big.NewInt(0)
		}
		maxFee := tx.maxFeePerGas
		if maxFee == nil {
			maxFee = big.NewInt(0)
		}
		values = append(values, priority, maxFee)
	}
	values = append(values, tx.gas, dependsOn, tx.nonce, reservedItems(tx.features, tx.unused))
	return values
}

func reservedItems(features uint32, unused [][]byte) []any {
	list := make([][]byte, 0, 1+len(unused))
	if features != 0 || len(unused) > 0 {
		list = append(list, minimalUint32(features))
		list = append(list, unused...)
	}
	for len(list) > 0 && len(list[len(list)-1]) == 0 {
		list = list[:len(list)-1]
	}
	out := make([]any, len(list))
	for i, b := range list {
		out[i] = b
	}
	return out
}

func minimalUint32(n uint32) []byte {
	b := big.NewInt(int64(n)).Bytes()
	return b
}

// Encode returns the canonical wire bytes for this transaction: the
// signed RLP list, prefixed with the 0x51 type byte for DynamicFee
// transactions.
func (tx *Transaction) Encode() ([]byte, error) {
	if len(tx.signature) == 0 {
		return nil, &txerror.MissingField{Name: "signature"}
	}
	item, err := schema(tx.txType, true).Encode(tx.fieldValuesSigned(), "tx")
	if err != nil {
		return nil, err
	}
	body := rlp.Encode(item)
	if tx.txType == DynamicFee {
		return append([]byte{dynamicFeeTypeByte}, body...), nil
	}
	return body, nil
}

func (tx *Transaction) fieldValuesSigned() []any {
	return append(tx.fieldValues(), tx.signature)
}

// Decode parses a transaction from its wire bytes, auto-detecting the
// DynamicFee type envelope.
func Decode(data []byte) (*Transaction, error) {
	if len(data) == 0 {
		return nil, &txerror.RlpError{Detail: "empty transaction payload"}
	}
	t := Legacy
	body := data
	if data[0] == dynamicFeeTypeByte {
		t = DynamicFee
		body = data[1:]
	}

	item, err := rlp.DecodeExact(body)
	if err != nil {
		return nil, err
	}
	decoded, err := schema(t, true).Decode(item, "tx")
	if err != nil {
		return nil, err
	}
	values, ok := decoded.([]any)
	if !ok {
		return nil, &txerror.EncodingError{Path: "tx", Detail: "unexpected decoded transaction shape"}
	}
	return valuesToTransaction(t, values)
}

func valuesToTransaction(t Type, values []any) (*Transaction, error) {
	tx := &Transaction{txType: t}
	i := 0

	chainTag, err := asByte(values[i], "tx.chainTag")
	if err != nil {
		return nil, err
	}
	tx.chainTag = chainTag
	i++

	blockRef, ok := values[i].([]byte)
	if !ok || len(blockRef) != 8 {
		return nil, &txerror.EncodingError{Path: "tx.blockRef", Detail: "expected 8 bytes"}
	}
	copy(tx.blockRef[:], blockRef)
	i++

	expiration, err := asUint32(values[i], "tx.expiration")
	if err != nil {
		return nil, err
	}
	tx.expiration = expiration
	i++

	clauseValues, ok := values[i].([]any)
	if !ok {
		return nil, &txerror.EncodingError{Path: "tx.clauses", Detail: "expected a list"}
	}
	tx.clauses = make([]Clause, len(clauseValues))
	for idx, cv := range clauseValues {
		fields, ok := cv.([]any)
		if !ok {
			return nil, &txerror.EncodingError{Path: "tx.clauses", Detail: "expected clause field list"}
		}
		c, err := valuesToClause("tx.clauses", fields)
		if err != nil {
			return nil, err
		}
		tx.clauses[idx] = c
	}
	i++

	switch t {
	case Legacy:
		coef, err := asByte(values[i], "tx.gasPriceCoef")
		if err != nil {
			return nil, err
		}
		tx.gasPriceCoef = coef
		i++
	case DynamicFee:
		priority, ok := values[i].(*big.Int)
		if !ok {
			return nil, &txerror.EncodingError{Path: "tx.maxPriorityFeePerGas", Detail: "expected integer"}
		}
		tx.maxPriorityFeePerGas = priority
		i++
		maxFee, ok := values[i].(*big.Int)
		if !ok {
			return nil, &txerror.EncodingError{Path: "tx.maxFeePerGas", Detail: "expected integer"}
		}
		tx.maxFeePerGas = maxFee
		i++
	}

	gas, ok := values[i].(*big.Int)
	if !ok {
		return nil, &txerror.EncodingError{Path: "tx.gas", Detail: "expected integer"}
	}
	tx.gas = gas.Uint64()
	i++

	switch dep := values[i].(type) {
	case nil:
		tx.dependsOn = nil
	case []byte:
		var d [32]byte
		copy(d[:], dep)
		tx.dependsOn = &d
	default:
		return nil, &txerror.EncodingError{Path: "tx.dependsOn", Detail: "unexpected type"}
	}
	i++

	nonce, ok := values[i].(*big.Int)
	if !ok {
		return nil, &txerror.EncodingError{Path: "tx.nonce", Detail: "expected integer"}
	}
	tx.nonce = nonce.Uint64()
	i++

	reserved, ok := values[i].([]any)
	if !ok {
		return nil, &txerror.EncodingError{Path: "tx.reserved", Detail: "expected a list"}
	}
	features, unused, err := parseReserved(reserved)
	if err != nil {
		return nil, err
	}
	tx.features = features
	tx.unused = unused
	i++

	if i < len(values) {
		sig, ok := values[i].([]byte)
		if !ok {
			return nil, &txerror.EncodingError{Path: "tx.signature", Detail: "expected bytes"}
		}
		tx.signature = sig
	}

	return tx, nil
}

func parseReserved(items []any) (uint32, [][]byte, error) {
	if len(items) == 0 {
		return 0, nil, nil
	}
	first, ok := items[0].([]byte)
	if !ok {
		return 0, nil, &txerror.EncodingError{Path: "tx.reserved", Detail: "features must be a byte string"}
	}
	if len(first) > 4 {
		return 0, nil, &txerror.EncodingError{Path: "tx.reserved", Detail: "features field too wide"}
	}
	var features uint32
	for _, b := range first {
		features = features<<8 | uint32(b)
	}
	var unused [][]byte
	for _, raw := range items[1:] {
		b, ok := raw.([]byte)
		if !ok {
			return 0, nil, &txerror.EncodingError{Path: "tx.reserved", Detail: "unused reserved entries must be byte strings"}
		}
		unused = append(unused, b)
	}
	return features, unused, nil
}

func asByte(v any, path string) (byte, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return 0, &txerror.EncodingError{Path: path, Detail: "expected integer"}
	}
	if !n.IsUint64() || n.Uint64() > 0xff {
		return 0, &txerror.EncodingError{Path: path, Detail: "value exceeds one byte"}
	}
	return byte(n.Uint64()), nil
}

func asUint32(v any, path string) (uint32, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return 0, &txerror.EncodingError{Path: path, Detail: "expected integer"}
	}
	if !n.IsUint64() || n.Uint64() > 0xffffffff {
		return 0, &txerror.EncodingError{Path: path, Detail: "value exceeds four bytes"}
	}
	return uint32(n.Uint64()), nil
}

// SigningHash returns the Blake2b-256 hash of the unsigned RLP
// encoding, the value every signature in this package is computed
// over. The 0x51 type-byte envelope is a wire-format concern only
// (see Encode/Decode) and never enters the hashed body, for either
// transaction type.
func (tx *Transaction) SigningHash() ([32]byte, error) {
	item, err := schema(tx.txType, false).Encode(tx.fieldValues(), "tx")
	if err != nil {
		return [32]byte{}, err
	}
	body := rlp.Encode(item)
	return vcrypto.Blake2b256(body), nil
}

// DelegatorSigningHash returns the hash a VIP-191 gas payer signs:
// Blake2b-256 of the origin's signing hash concatenated with the
// origin address, in that byte order.
func DelegatorSigningHash(signingHash [32]byte, origin address.Address) [32]byte {
	return vcrypto.Blake2b256(signingHash[:], origin.Bytes())
}

// ID returns the transaction id: Blake2b-256(signing_hash || origin).
func (tx *Transaction) ID() ([32]byte, error) {
	hash, err := tx.SigningHash()
	if err != nil {
		return [32]byte{}, err
	}
	origin, err := tx.Origin()
	if err != nil {
		return [32]byte{}, err
	}
	return vcrypto.Blake2b256(hash[:], origin.Bytes()), nil
}

// Origin recovers the sending address from the transaction's own
// (first 65 bytes of the) signature.
func (tx *Transaction) Origin() (address.Address, error) {
	if len(tx.signature) < 65 {
		return address.Address{}, &txerror.MissingField{Name: "signature"}
	}
	hash, err := tx.SigningHash()
	if err != nil {
		return address.Address{}, err
	}
	pub, err := secp256k1.Recover(hash[:], tx.signature[:65])
	if err != nil {
		return address.Address{}, err
	}
	return address.FromPubKey(pub)
}

// Delegator recovers the VIP-191 gas payer's address from the second
// 65-byte signature segment, or returns (nil, nil) if this
// transaction is not delegated or not yet co-signed.
func (tx *Transaction) Delegator() (*address.Address, error) {
	if !tx.IsDelegated() || len(tx.signature) < 130 {
		return nil, nil
	}
	origin, err := tx.Origin()
	if err != nil {
		return nil, err
	}
	signingHash, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}
	delegatorHash := DelegatorSigningHash(signingHash, origin)
	pub, err := secp256k1.Recover(delegatorHash[:], tx.signature[65:130])
	if err != nil {
		return nil, err
	}
	addr, err := address.FromPubKey(pub)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// Sign signs the transaction as its origin (sender). For a delegated
// transaction this must be called before CoSign.
func (tx *Transaction) Sign(privateKey []byte) error {
	hash, err := tx.SigningHash()
	if err != nil {
		return err
	}
	sig, err := secp256k1.Sign(hash[:], privateKey)
	if err != nil {
		return err
	}
	tx.signature = sig
	return nil
}

// CoSign appends the VIP-191 gas payer's signature to an
// already-origin-signed, delegation-enabled transaction.
func (tx *Transaction) CoSign(gasPayerPrivateKey []byte) error {
	if !tx.IsDelegated() {
		return &txerror.EncodingError{Path: "tx", Detail: "CoSign requires fee delegation to be enabled"}
	}
	if len(gasPayerPrivateKey) == 0 {
		return &txerror.MissingGasPayer{}
	}
	if len(tx.signature) < 65 {
		return &txerror.MissingField{Name: "signature"}
	}
	origin, err := tx.Origin()
	if err != nil {
		return err
	}
	signingHash, err := tx.SigningHash()
	if err != nil {
		return err
	}
	delegatorHash := DelegatorSigningHash(signingHash, origin)
	gasPayerSig, err := secp256k1.Sign(delegatorHash[:], gasPayerPrivateKey)
	if err != nil {
		return err
	}
	tx.signature = append(tx.signature[:65], gasPayerSig...)
	return nil
}
