package playergold

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/playergold/playergold-go/pkg/notifiers"
	"github.com/shopspring/decimal"
)

const (
	opGetBalance        = "get_balance"
	opCreateTransaction = "create_transaction"
	opGetTransaction    = "get_transaction"
	opGetNetworkStatus  = "get_network_status"
)

type balanceResponse struct {
	Address string           `json:"address"`
	Balance *decimal.Decimal `json:"balance"`
}

type transactionBody struct {
	FromAddress string      `json:"from_address"`
	ToAddress   string      `json:"to_address"`
	Amount      json.Number `json:"amount"`
	PrivateKey  string      `json:"private_key"`
	Fee         json.Number `json:"fee"`
}

type transactionResponse struct {
	TransactionHash string `json:"transaction_hash"`
}

// TransactionCreated is the payload of a notifiers.EventTransactionCreated event.
type TransactionCreated struct {
	TransactionHash string          `json:"transaction_hash"`
	FromAddress     string          `json:"from_address"`
	ToAddress       string          `json:"to_address"`
	Amount          decimal.Decimal `json:"amount"`
	Fee             decimal.Decimal `json:"fee"`
}

// GetBalance fetches the balance of address.
func (c *Client) GetBalance(ctx context.Context, address string) (Balance, error) {
	raw, err := c.authenticatedCall(ctx, opGetBalance, http.MethodGet, "/balance/"+url.PathEscape(address), nil)
	if err != nil {
		return Balance{}, err
	}

	var resp balanceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Balance{}, c.decodeFailed(opGetBalance, msgParseBalance, err)
	}
	if resp.Balance == nil {
		return Balance{}, c.decodeFailed(opGetBalance, msgParseBalance, nil)
	}
	observe(opGetBalance, nil)

	if resp.Address == "" {
		resp.Address = address
	}
	return Balance{Address: resp.Address, Amount: *resp.Balance}, nil
}

// CreateTransaction submits a transfer with the configured fee and returns the backend's receipt.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (TransactionReceipt, error) {
	body := transactionBody{
		FromAddress: req.FromAddress,
		ToAddress:   req.ToAddress,
		Amount:      json.Number(req.Amount.String()),
		PrivateKey:  req.PrivateKey,
		Fee:         json.Number(c.fee.String()),
	}
	raw, err := c.authenticatedCall(ctx, opCreateTransaction, http.MethodPost, "/transaction", body)
	if err != nil {
		return TransactionReceipt{}, err
	}

	var resp transactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return TransactionReceipt{}, c.decodeFailed(opCreateTransaction, msgParseTransaction, err)
	}
	if resp.TransactionHash == "" {
		return TransactionReceipt{}, c.decodeFailed(opCreateTransaction, msgParseTransaction, nil)
	}
	observe(opCreateTransaction, nil)

	receipt := TransactionReceipt{TransactionHash: resp.TransactionHash}
	c.publishCreated(TransactionCreated{
		TransactionHash: receipt.TransactionHash,
		FromAddress:     req.FromAddress,
		ToAddress:       req.ToAddress,
		Amount:          req.Amount,
		Fee:             c.fee,
	})
	return receipt, nil
}

// GetTransaction fetches a transaction by hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (TransactionRecord, error) {
	raw, err := c.authenticatedCall(ctx, opGetTransaction, http.MethodGet, "/transaction/"+url.PathEscape(hash), nil)
	if err != nil {
		return TransactionRecord{}, err
	}

	var rec TransactionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return TransactionRecord{}, c.decodeFailed(opGetTransaction, msgParseRecord, err)
	}
	if rec.Hash == "" {
		return TransactionRecord{}, c.decodeFailed(opGetTransaction, msgParseRecord, nil)
	}
	observe(opGetTransaction, nil)
	return rec, nil
}

// GetNetworkStatus fetches the node's view of the chain. It does not trigger
// authentication; a held token is still attached.
func (c *Client) GetNetworkStatus(ctx context.Context) (NetworkStatus, error) {
	raw, err := c.call(ctx, opGetNetworkStatus, http.MethodGet, "/network/status", nil)
	if err != nil {
		if IsTransport(err) {
			observe(opGetNetworkStatus, err)
		}
		return NetworkStatus{}, err
	}

	var status NetworkStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return NetworkStatus{}, c.decodeFailed(opGetNetworkStatus, msgParseNetworkStatus, err)
	}
	if status.Network == "" {
		return NetworkStatus{}, c.decodeFailed(opGetNetworkStatus, msgParseNetworkStatus, nil)
	}
	observe(opGetNetworkStatus, nil)
	return status, nil
}

// authenticatedCall waits for a usable token, then issues the request with
// that token against the config it was issued for.
func (c *Client) authenticatedCall(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	cfg, sess, err := c.ensureSession(ctx)
	if err != nil {
		if IsTransport(err) || IsDecode(err) {
			observeOutcome(op, outcomeAuth)
		}
		return nil, err
	}
	raw, err := c.send(ctx, cfg, sess.Token, op, method, path, body)
	if err != nil && IsTransport(err) {
		observe(op, err)
	}
	return raw, err
}

func (c *Client) decodeFailed(op, msg string, cause error) error {
	derr := &DecodeError{Op: op, Message: msg, Err: cause}
	observe(op, derr)
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	c.log.WarnObj("playergold response decode failed", "decode_error", map[string]any{
		"operation": op,
		"error":     detail,
	})
	return derr
}

// publishCreated forwards the event in the background; failures are logged only.
func (c *Client) publishCreated(payload TransactionCreated) {
	if c.events == nil {
		return
	}
	evt := notifiers.NewEvent(notifiers.EventTransactionCreated, c.Config().BaseURL, payload)
	c.background(func(ctx context.Context) {
		if _, err := c.events.Publish(ctx, evt); err != nil {
			c.log.ErrorObj("transaction event publish failed", "publish_error", map[string]any{
				"event_id":         evt.ID,
				"transaction_hash": payload.TransactionHash,
				"error":            err.Error(),
			})
		}
	})
}
