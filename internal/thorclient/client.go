// Package thorclient is a minimal REST client for five Thor node
// endpoints: block lookup (block reference and chain tag),
// broadcasting a signed transaction, transaction lookup, receipt
// polling, and a read-only account call callers use to estimate
// calldata results before sending.
//
// Grounded on the request/response shape of the pack's Polymarket CLOB
// client (gipsh-polymarket-bot-go/internal/clob/client.go): a struct
// holding the host and an *http.Client with a timeout, one method per
// endpoint building the request by hand and unmarshalling the JSON
// body, non-2xx responses mapped to a typed error.
package thorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vechain-go/thortx/pkg/txerror"
)

// Client is a Thor REST API client bound to a single node.
type Client struct {
	baseURL string
	httpCli *http.Client
}

// New returns a Client targeting baseURL (e.g. "https://mainnet.veblocks.net").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpCli: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient overrides the underlying *http.Client, e.g. to inject
// a custom transport in tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpCli = h
	return c
}

// Block is the subset of GET /blocks/{revision} this SDK needs to
// compute a transaction's block reference and chain tag.
type Block struct {
	Number       uint32 `json:"number"`
	ID           string `json:"id"`
	Timestamp    uint64 `json:"timestamp"`
	GasLimit     uint64 `json:"gasLimit"`
	ParentID     string `json:"parentID"`
}

// GetBlock fetches a block by its revision ("best", a number, or an id).
// Returns (nil, nil) on 404, matching Thor's "block not found" response.
func (c *Client) GetBlock(ctx context.Context, revision string) (*Block, error) {
	var block Block
	found, err := c.get(ctx, "/blocks/"+revision, &block)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &block, nil
}

// SendTransactionRequest is the body of POST /transactions.
type SendTransactionRequest struct {
	Raw string `json:"raw"`
}

// SendTransactionResult is the response of POST /transactions.
type SendTransactionResult struct {
	ID string `json:"id"`
}

// SendTransaction broadcasts the 0x-hex-encoded raw transaction.
func (c *Client) SendTransaction(ctx context.Context, rawHex string) (*SendTransactionResult, error) {
	var result SendTransactionResult
	err := c.post(ctx, "/transactions", SendTransactionRequest{Raw: rawHex}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Transaction is the subset of GET /transactions/{id} needed to check
// a transaction has been included.
type Transaction struct {
	ID       string          `json:"id"`
	ChainTag byte            `json:"chainTag"`
	Meta     TransactionMeta `json:"meta"`
}

// TransactionMeta carries the block a transaction was included in.
type TransactionMeta struct {
	BlockID     string `json:"blockID"`
	BlockNumber uint32 `json:"blockNumber"`
}

// GetTransaction fetches a transaction by id. Returns (nil, nil) on 404.
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var transaction Transaction
	found, err := c.get(ctx, "/transactions/"+id, &transaction)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &transaction, nil
}

// Receipt is the JSON shape of GET /transactions/{id}/receipt.
type Receipt struct {
	GasUsed  uint64       `json:"gasUsed"`
	GasPayer string       `json:"gasPayer"`
	Paid     string       `json:"paid"`
	Reward   string       `json:"reward"`
	Reverted bool         `json:"reverted"`
	Outputs  []Output     `json:"outputs"`
	Meta     ReceiptMeta  `json:"meta"`
}

// Output is one clause's execution result within a Receipt.
type Output struct {
	ContractAddress string     `json:"contractAddress"`
	Events          []Event    `json:"events"`
	Transfers       []Transfer `json:"transfers"`
	VMError         string     `json:"vmError"`
}

// Event is a single emitted event log.
type Event struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// Transfer is a single VET value transfer recorded in a clause's output.
type Transfer struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// ReceiptMeta carries the block context the receipt was produced in.
type ReceiptMeta struct {
	BlockID        string `json:"blockID"`
	BlockNumber    uint32 `json:"blockNumber"`
	BlockTimestamp uint64 `json:"blockTimestamp"`
	TxID           string `json:"txID"`
	TxOrigin       string `json:"txOrigin"`
}

// GetReceipt fetches a transaction's receipt. Returns (nil, nil) if
// the transaction has not yet been included in a block.
func (c *Client) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	var receipt Receipt
	found, err := c.get(ctx, "/transactions/"+id+"/receipt", &receipt)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &receipt, nil
}

// CallClauseRequest is one clause of POST /accounts/{address}, used to
// simulate a call without broadcasting it.
type CallClauseRequest struct {
	To    *string `json:"to"`
	Value string  `json:"value"`
	Data  string  `json:"data"`
}

// CallResult is the response of POST /accounts/{address}.
type CallResult struct {
	Data     string  `json:"data"`
	Events   []Event `json:"events"`
	GasUsed  uint64  `json:"gasUsed"`
	Reverted bool    `json:"reverted"`
	VMError  string  `json:"vmError"`
}

// Call simulates a clause against an account, returning the would-be
// execution result without spending gas on-chain.
func (c *Client) Call(ctx context.Context, address string, clause CallClauseRequest) (*CallResult, error) {
	var result CallResult
	err := c.post(ctx, "/accounts/"+address, clause, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, &txerror.NetworkError{Reason: "build request", Err: err}
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &txerror.NetworkError{Reason: "encode request body", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &txerror.NetworkError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	found, err := c.do(req, out)
	if err != nil {
		return err
	}
	if !found {
		return &txerror.NotFoundError{Resource: path}
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) (bool, error) {
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return false, &txerror.NetworkError{Reason: fmt.Sprintf("%s %s", req.Method, req.URL.Path), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, &txerror.NetworkError{Reason: "read response body", Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &txerror.HTTPError{Status: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, &txerror.NetworkError{Reason: "decode response body", Err: err}
	}
	return true, nil
}
