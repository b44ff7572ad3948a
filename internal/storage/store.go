// Package storage provides the idempotency store the pipeline's
// Broadcast step consults before resubmitting a transaction.
// VeChainThor has no account-sequential nonce to manage and
// AwaitReceipt watches one transaction id at a time rather than a set
// of addresses, so this package holds only a caller-supplied
// idempotency key keyed store.
package storage

import "github.com/vechain-go/thortx/pkg/tx"

// Record is what gets stored against an idempotency key: the
// broadcast transaction and the id the node assigned it.
type Record struct {
	Transaction *tx.Transaction
	ID          [32]byte
}

// TxStore provides idempotent transaction storage keyed by a
// caller-supplied idempotency key, so a retried Send does not
// broadcast the same transaction twice.
type TxStore interface {
	// Get returns a previously stored record by idempotency key, or nil if not found.
	Get(idempotencyKey string) (*Record, error)
	// Put stores a record keyed by idempotency key.
	Put(idempotencyKey string, record *Record) error
}
