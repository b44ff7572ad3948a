// Package pipeline composes the nine steps a VeChainThor transaction
// passes through from construction to a decoded receipt:
// SetChainTag, SetBlockRef, SetExpiration, CalculateGas, Sign, CoSign,
// Broadcast, AwaitReceipt and DecodeReceipt. Most steps are methods on
// *Builder; CalculateGas and DecodeReceipt are standalone functions.
// Callers can run a subset, retry one step, or substitute their own.
//
// Broadcast retries a failed submission after a delay of attempt²
// seconds; AwaitReceipt polls on a ticker until its timeout. Both log
// through slog.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/vechain-go/thortx/internal/storage"
	"github.com/vechain-go/thortx/internal/thorclient"
	"github.com/vechain-go/thortx/pkg/hexutil"
	"github.com/vechain-go/thortx/pkg/tx"
	"github.com/vechain-go/thortx/pkg/txerror"
)

// Config tunes the pipeline's retry and polling behavior.
type Config struct {
	BroadcastMaxRetries int
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration
}

// DefaultConfig returns sensible VeChainThor polling defaults: Thor
// produces a block roughly every 10 seconds.
func DefaultConfig() Config {
	return Config{
		BroadcastMaxRetries: 3,
		ReceiptPollInterval: 2 * time.Second,
		ReceiptTimeout:      2 * time.Minute,
	}
}

// Observer receives a notification after each pipeline step runs, so a
// caller can wire their own metrics/tracing without the pipeline
// depending on any particular telemetry library.
type Observer interface {
	OnStep(step string, transaction *tx.Transaction, err error)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(step string, transaction *tx.Transaction, err error)

// OnStep implements Observer.
func (f ObserverFunc) OnStep(step string, transaction *tx.Transaction, err error) {
	f(step, transaction, err)
}

// Builder threads a transaction through the pipeline, accumulating
// the state each step needs and exposing what it produced.
type Builder struct {
	client   *thorclient.Client
	txs      storage.TxStore
	cfg      Config
	logger   *slog.Logger
	observer Observer

	transaction *tx.Transaction
	chainTag    byte
	blockRef    [8]byte
	expiration  uint32
	id          [32]byte
	sendResult  *thorclient.SendTransactionResult
	receipt     *thorclient.Receipt
}

// WithObserver attaches an Observer notified after every step.
func (b *Builder) WithObserver(observer Observer) *Builder {
	b.observer = observer
	return b
}

func (b *Builder) notify(step string, err error) {
	if b.observer != nil {
		b.observer.OnStep(step, b.transaction, err)
	}
}

// ChainTag returns the chain tag SetChainTag resolved.
func (b *Builder) ChainTag() byte { return b.chainTag }

// BlockRef returns the block reference SetBlockRef resolved.
func (b *Builder) BlockRef() [8]byte { return b.blockRef }

// Expiration returns the expiration window SetExpiration set.
func (b *Builder) Expiration() uint32 { return b.expiration }

// NewBuilder returns a pipeline bound to a Thor client and an
// idempotency store.
func NewBuilder(client *thorclient.Client, txs storage.TxStore, cfg Config) *Builder {
	if cfg.BroadcastMaxRetries <= 0 {
		cfg.BroadcastMaxRetries = 3
	}
	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = 2 * time.Second
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = 2 * time.Minute
	}
	return &Builder{
		client: client,
		txs:    txs,
		cfg:    cfg,
		logger: slog.Default().With("component", "tx_pipeline"),
	}
}

// Transaction returns the transaction under construction.
func (b *Builder) Transaction() *tx.Transaction { return b.transaction }

// Receipt returns the last receipt DecodeReceipt processed, if any.
func (b *Builder) Receipt() *thorclient.Receipt { return b.receipt }

// SetChainTag resolves the network's chain tag from the last byte of
// the genesis block id and records it on the builder (see ChainTag).
// It does not create or modify a transaction; callers supply one with
// SetTransaction.
func (b *Builder) SetChainTag(ctx context.Context) error {
	genesis, err := b.client.GetBlock(ctx, "0")
	if err != nil {
		b.notify("SetChainTag", err)
		return err
	}
	if genesis == nil {
		err := &txerror.NotFoundError{Resource: "genesis block"}
		b.notify("SetChainTag", err)
		return err
	}
	tag, err := chainTagFromBlockID(genesis.ID)
	if err != nil {
		b.notify("SetChainTag", err)
		return err
	}
	b.chainTag = tag
	b.logger.Info("resolved chain tag", "chain_tag", fmt.Sprintf("0x%02x", tag))
	b.notify("SetChainTag", nil)
	return nil
}

// SetTransaction adopts a caller-built transaction, skipping SetChainTag.
func (b *Builder) SetTransaction(transaction *tx.Transaction) {
	b.transaction = transaction
}

func chainTagFromBlockID(blockID string) (byte, error) {
	b, err := hexutil.Decode(blockID)
	if err != nil || len(b) < 32 {
		return 0, &txerror.EncodingError{Path: "pipeline.chainTag", Detail: "malformed genesis block id"}
	}
	return b[31], nil
}

// SetBlockRef fetches the "best" block and derives the 8-byte block
// reference transactions must carry, binding the transaction to the
// chain's recent history.
func (b *Builder) SetBlockRef(ctx context.Context) error {
	best, err := b.client.GetBlock(ctx, "best")
	if err != nil {
		b.notify("SetBlockRef", err)
		return err
	}
	if best == nil {
		err := &txerror.NotFoundError{Resource: "best block"}
		b.notify("SetBlockRef", err)
		return err
	}
	idBytes, err := hexutil.Decode(best.ID)
	if err != nil || len(idBytes) < 8 {
		err := &txerror.EncodingError{Path: "pipeline.blockRef", Detail: "malformed best block id"}
		b.notify("SetBlockRef", err)
		return err
	}
	copy(b.blockRef[:], idBytes[:8])
	b.logger.Info("resolved block ref", "block_number", best.Number)
	b.notify("SetBlockRef", nil)
	return nil
}

// SetExpiration sets the number of blocks after BlockRef during which
// the transaction remains valid. 720 blocks (~2 hours at 10s/block)
// is Thor's conventional default window.
func (b *Builder) SetExpiration(blocks uint32) {
	if blocks == 0 {
		blocks = 720
	}
	b.expiration = blocks
}

// CalculateGas returns a gas limit for the given clauses: their
// intrinsic cost plus a caller-supplied execution budget for any
// contract logic the clauses invoke (0 for plain transfers). It does
// not modify any transaction.
func CalculateGas(clauses []tx.Clause, executionBudget uint64) (uint64, error) {
	intrinsic, err := tx.IntrinsicGas(clauses)
	if err != nil {
		return 0, err
	}
	return intrinsic + executionBudget, nil
}

// Sign signs b.transaction as its origin.
func (b *Builder) Sign(privateKey []byte) error {
	if b.transaction == nil {
		err := &txerror.MissingField{Name: "transaction"}
		b.notify("Sign", err)
		return err
	}
	if err := b.transaction.Sign(privateKey); err != nil {
		b.notify("Sign", err)
		return err
	}
	origin, err := b.transaction.Origin()
	if err != nil {
		b.notify("Sign", err)
		return err
	}
	b.logger.Info("signed transaction", "origin", origin.Checksum())
	b.notify("Sign", nil)
	return nil
}

// CoSign co-signs b.transaction as the VIP-191 gas payer. Only valid
// after Sign and only when the transaction has fee delegation enabled.
func (b *Builder) CoSign(gasPayerPrivateKey []byte) error {
	if b.transaction == nil {
		err := &txerror.MissingField{Name: "transaction"}
		b.notify("CoSign", err)
		return err
	}
	if err := b.transaction.CoSign(gasPayerPrivateKey); err != nil {
		b.notify("CoSign", err)
		return err
	}
	delegator, err := b.transaction.Delegator()
	if err != nil {
		b.notify("CoSign", err)
		return err
	}
	if delegator != nil {
		b.logger.Info("co-signed transaction", "gas_payer", delegator.Checksum())
	}
	b.notify("CoSign", nil)
	return nil
}

// Broadcast submits the signed transaction, retrying any failed
// submission up to BroadcastMaxRetries attempts and waiting attempt²
// seconds after each failure, and deduplicating repeated calls under
// the same idempotency key.
func (b *Builder) Broadcast(ctx context.Context, idempotencyKey string) (*thorclient.SendTransactionResult, error) {
	if b.transaction == nil {
		err := &txerror.MissingField{Name: "transaction"}
		b.notify("Broadcast", err)
		return nil, err
	}

	if existing, err := b.txs.Get(idempotencyKey); err != nil {
		b.notify("Broadcast", err)
		return nil, err
	} else if existing != nil {
		b.logger.Info("duplicate broadcast request, returning existing result",
			"idempotency_key", idempotencyKey,
			"tx_id", hexutil.Encode(existing.ID[:]),
		)
		b.id = existing.ID
		b.notify("Broadcast", nil)
		return &thorclient.SendTransactionResult{ID: hexutil.Encode(existing.ID[:])}, nil
	}

	wire, err := b.transaction.Encode()
	if err != nil {
		b.notify("Broadcast", err)
		return nil, err
	}
	raw := hexutil.Encode(wire)

	var lastErr error
	for attempt := 1; attempt <= b.cfg.BroadcastMaxRetries; attempt++ {
		result, err := b.client.SendTransaction(ctx, raw)
		if err == nil {
			b.sendResult = result
			id, idErr := b.transaction.ID()
			if idErr != nil {
				b.notify("Broadcast", idErr)
				return nil, idErr
			}
			b.id = id
			if putErr := b.txs.Put(idempotencyKey, &storage.Record{Transaction: b.transaction, ID: id}); putErr != nil {
				b.notify("Broadcast", putErr)
				return nil, putErr
			}
			b.logger.Info("broadcast successful", "tx_id", result.ID, "attempt", attempt)
			b.notify("Broadcast", nil)
			return result, nil
		}

		lastErr = err
		b.logger.Warn("broadcast attempt failed", "attempt", attempt, "max_retries", b.cfg.BroadcastMaxRetries, "error", err)

		select {
		case <-time.After(time.Duration(attempt*attempt) * time.Second):
		case <-ctx.Done():
			b.notify("Broadcast", ctx.Err())
			return nil, ctx.Err()
		}
	}
	finalErr := fmt.Errorf("all %d broadcast attempts failed: %w", b.cfg.BroadcastMaxRetries, lastErr)
	b.notify("Broadcast", finalErr)
	return nil, finalErr
}

// AwaitReceipt polls for the transaction's receipt until it appears or
// the configured timeout elapses.
func (b *Builder) AwaitReceipt(ctx context.Context) (*thorclient.Receipt, error) {
	txID := hexutil.Encode(b.id[:])
	ctx, cancel := context.WithTimeout(ctx, b.cfg.ReceiptTimeout)
	defer cancel()

	ticker := time.NewTicker(b.cfg.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := b.client.GetReceipt(ctx, txID)
		if err != nil {
			b.notify("AwaitReceipt", err)
			return nil, err
		}
		if receipt != nil {
			b.receipt = receipt
			b.logger.Info("receipt observed", "tx_id", txID, "reverted", receipt.Reverted, "gas_used", receipt.GasUsed)
			b.notify("AwaitReceipt", nil)
			return receipt, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			err := &txerror.TimeoutError{After: b.cfg.ReceiptTimeout.String()}
			b.notify("AwaitReceipt", err)
			return nil, err
		}
	}
}

// DecodeReceipt inspects a receipt's revert status, returning a
// *txerror.Reverted error when the transaction failed on-chain and
// checkRevert is true, so callers can fail a Send outright rather than
// silently succeeding on a no-op transaction.
func DecodeReceipt(receipt *thorclient.Receipt, checkRevert bool) (*thorclient.Receipt, error) {
	if receipt == nil {
		return nil, &txerror.MissingField{Name: "receipt"}
	}
	if checkRevert && receipt.Reverted {
		reason := "unknown"
		if len(receipt.Outputs) > 0 && receipt.Outputs[0].VMError != "" {
			reason = receipt.Outputs[0].VMError
		}
		return receipt, &txerror.Reverted{Reason: reason}
	}
	return receipt, nil
}

// GasPriceFromBaseFee derives a VIP-251-style maxFeePerGas from a
// base fee and a caller-chosen tip, for dynamic-fee transactions.
func GasPriceFromBaseFee(baseFee, tip *big.Int) *big.Int {
	return new(big.Int).Add(baseFee, tip)
}
