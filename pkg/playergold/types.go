package playergold

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
)

// ClientConfig identifies the backend a Client talks to.
type ClientConfig struct {
	BaseURL string
	APIKey  string
}

// fingerprint keys persisted sessions and in-flight authentication without exposing the API key.
func (c ClientConfig) fingerprint() string {
	sum := sha256.Sum256([]byte(c.BaseURL + "\x00" + c.APIKey))
	return hex.EncodeToString(sum[:])
}

// Session is the bearer token currently held by a Client. An empty Token means unauthenticated.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Balance is the amount held by an address.
type Balance struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"balance"`
}

// TransactionRequest describes a transfer to submit. The fee is taken from the client options.
type TransactionRequest struct {
	FromAddress string
	ToAddress   string
	Amount      decimal.Decimal
	PrivateKey  string
}

// TransactionReceipt is returned once the backend accepts a transaction.
type TransactionReceipt struct {
	TransactionHash string `json:"transaction_hash"`
}

// TransactionRecord is a transaction as reported by the backend.
type TransactionRecord struct {
	Hash            string          `json:"hash"`
	FromAddress     string          `json:"from_address"`
	ToAddress       string          `json:"to_address"`
	Amount          decimal.Decimal `json:"amount"`
	Fee             decimal.Decimal `json:"fee"`
	Timestamp       float64         `json:"timestamp"`
	Status          string          `json:"status"`
	TransactionType string          `json:"transaction_type"`
}

// Time converts the unix-seconds timestamp.
func (r TransactionRecord) Time() time.Time {
	if r.Timestamp <= 0 {
		return time.Time{}
	}
	sec := int64(r.Timestamp)
	nsec := int64((r.Timestamp - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

// NetworkStatus summarizes the chain as seen by the node serving the API.
type NetworkStatus struct {
	Network             string `json:"network"`
	NodeID              string `json:"node_id"`
	ChainLength         int64  `json:"chain_length"`
	LastBlockIndex      int64  `json:"last_block_index"`
	LastBlockHash       string `json:"last_block_hash"`
	PendingTransactions int64  `json:"pending_transactions"`
	Difficulty          int64  `json:"difficulty"`
	IsMining            bool   `json:"is_mining"`
	ValidatorAddress    string `json:"validator_address"`
	Timestamp           string `json:"timestamp"`
}
