package playergold

import (
	"fmt"
	"time"

	"github.com/playergold/playergold-go/pkg/httpclient"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRenewalWindow is how long before expiry a token is renewed.
	DefaultRenewalWindow = 300 * time.Second
	// DefaultHTTPTimeout bounds a single request when no transport is supplied.
	DefaultHTTPTimeout = 15 * time.Second
)

// DefaultTransactionFee is attached to every transaction unless overridden.
var DefaultTransactionFee = decimal.RequireFromString("0.01")

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout builds the default resty transport with the given timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http = httpclient.NewRestyClient(d)
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}

// WithSessionStore persists sessions so a restarted process can reuse a valid token.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) error {
		if store != nil {
			c.store = store
		}
		return nil
	}
}

// WithEventPublisher forwards created transactions to downstream sinks.
func WithEventPublisher(pub EventPublisher) Option {
	return func(c *Client) error {
		c.events = pub
		return nil
	}
}

// WithTransactionFee overrides the fee sent with CreateTransaction.
func WithTransactionFee(fee decimal.Decimal) Option {
	return func(c *Client) error {
		if fee.IsNegative() {
			return fmt.Errorf("transaction fee must not be negative")
		}
		c.fee = fee
		return nil
	}
}

// WithRenewalWindow sets how long before expiry the token is renewed.
func WithRenewalWindow(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("renewal window must not be negative")
		}
		c.renewal = d
		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) error {
		if now == nil {
			return fmt.Errorf("clock must not be nil")
		}
		c.now = now
		return nil
	}
}

// WithDispatcher controls where asynchronous operations run. The default starts a goroutine.
// Hosts with their own event loop can queue the function there instead.
func WithDispatcher(dispatch func(func())) Option {
	return func(c *Client) error {
		if dispatch == nil {
			return fmt.Errorf("dispatcher must not be nil")
		}
		c.dispatch = dispatch
		return nil
	}
}
