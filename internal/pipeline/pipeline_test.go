package pipeline

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vechain-go/thortx/internal/storage"
	"github.com/vechain-go/thortx/internal/thorclient"
	"github.com/vechain-go/thortx/pkg/address"
	"github.com/vechain-go/thortx/pkg/secp256k1"
	"github.com/vechain-go/thortx/pkg/tx"
	"github.com/vechain-go/thortx/pkg/txerror"
)

func mustPrivateKey(t *testing.T) []byte {
	t.Helper()
	k, err := secp256k1.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func newSignedTx(t *testing.T, priv []byte) *tx.Transaction {
	t.Helper()
	to, err := address.Parse("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	if err != nil {
		t.Fatal(err)
	}
	clause := tx.NewVETTransferClause(to, big.NewInt(1000))
	transaction := tx.NewLegacyTransaction(0x4a, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, 720, []tx.Clause{clause}, 128, 21000, nil, 0)
	if err := transaction.Sign(priv); err != nil {
		t.Fatal(err)
	}
	return transaction
}

func TestBroadcast_Idempotent(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(thorclient.SendTransactionResult{ID: "0x" + "ab"})
	}))
	defer server.Close()

	client := thorclient.New(server.URL)
	txs := storage.NewMemoryTxStore()
	builder := NewBuilder(client, txs, DefaultConfig())

	priv := mustPrivateKey(t)
	builder.SetTransaction(newSignedTx(t, priv))

	ctx := context.Background()
	if _, err := builder.Broadcast(ctx, "key-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := builder.Broadcast(ctx, "key-1"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 HTTP call for a repeated idempotency key, got %d", calls)
	}
}

func TestObserver_NotifiedOnBroadcast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(thorclient.SendTransactionResult{ID: "0xab"})
	}))
	defer server.Close()

	client := thorclient.New(server.URL)
	txs := storage.NewMemoryTxStore()
	builder := NewBuilder(client, txs, DefaultConfig())

	var steps []string
	builder.WithObserver(ObserverFunc(func(step string, _ *tx.Transaction, err error) {
		if err == nil {
			steps = append(steps, step)
		}
	}))

	priv := mustPrivateKey(t)
	builder.SetTransaction(newSignedTx(t, priv))
	if _, err := builder.Broadcast(context.Background(), "observer-key"); err != nil {
		t.Fatal(err)
	}
	if len(steps) != 1 || steps[0] != "Broadcast" {
		t.Errorf("observer steps = %v, want [Broadcast]", steps)
	}
}

func TestBroadcast_RequiresTransaction(t *testing.T) {
	client := thorclient.New("http://unused.example")
	txs := storage.NewMemoryTxStore()
	builder := NewBuilder(client, txs, DefaultConfig())

	if _, err := builder.Broadcast(context.Background(), "key"); err == nil {
		t.Fatal("expected Broadcast to fail with no transaction set")
	}
}

func TestAwaitReceipt_ReturnsOnceAvailable(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(thorclient.SendTransactionResult{ID: "0xab"})
			return
		}
		hits++
		if hits < 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(thorclient.Receipt{GasUsed: 21000, Reverted: false})
	}))
	defer server.Close()

	client := thorclient.New(server.URL)
	txs := storage.NewMemoryTxStore()
	cfg := DefaultConfig()
	builder := NewBuilder(client, txs, cfg)
	priv := mustPrivateKey(t)
	builder.SetTransaction(newSignedTx(t, priv))
	if _, err := builder.Broadcast(context.Background(), "await-key"); err != nil {
		t.Fatal(err)
	}

	receipt, err := builder.AwaitReceipt(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if receipt.GasUsed != 21000 {
		t.Errorf("gasUsed = %d, want 21000", receipt.GasUsed)
	}
}

func TestDecodeReceipt_Reverted(t *testing.T) {
	receipt := &thorclient.Receipt{Reverted: true}
	if _, err := DecodeReceipt(receipt, true); err == nil {
		t.Fatal("expected DecodeReceipt to fail on a reverted receipt when checkRevert is true")
	}
	if _, err := DecodeReceipt(receipt, false); err != nil {
		t.Fatal("expected DecodeReceipt to succeed when checkRevert is false")
	}
}

func TestDecodeReceipt_RevertedCarriesVMError(t *testing.T) {
	receipt := &thorclient.Receipt{
		Reverted: true,
		Outputs:  []thorclient.Output{{VMError: "execution reverted: insufficient balance"}},
	}
	_, err := DecodeReceipt(receipt, true)
	if err == nil {
		t.Fatal("expected DecodeReceipt to fail on a reverted receipt")
	}
	reverted, ok := err.(*txerror.Reverted)
	if !ok {
		t.Fatalf("error = %v (%T), want *txerror.Reverted", err, err)
	}
	if reverted.Reason != "execution reverted: insufficient balance" {
		t.Errorf("reason = %q, want the clause's vmError", reverted.Reason)
	}
}

func TestCalculateGas_VETTransfer(t *testing.T) {
	to, err := address.Parse("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	if err != nil {
		t.Fatal(err)
	}
	clause := tx.NewVETTransferClause(to, big.NewInt(1))
	gas, err := CalculateGas([]tx.Clause{clause}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if gas != 21000 {
		t.Errorf("gas = %d, want 21000", gas)
	}
}
