package playergold

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playergold/playergold-go/pkg/httpclient"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Client is an authenticated facade over the PlayerGold REST API.
//
// Every operation except GetNetworkStatus makes sure a usable bearer token is
// held before its request is built. A missing token, or one inside the renewal
// window, triggers authentication and the operation waits for it. Concurrent
// triggers share a single token request.
type Client struct {
	http     httpclient.Client
	log      Logger
	store    SessionStore
	events   EventPublisher
	now      func() time.Time
	fee      decimal.Decimal
	renewal  time.Duration
	dispatch func(func())

	mu         sync.RWMutex
	cfg        ClientConfig
	configured bool
	closed     bool
	session    Session

	auth    singleflight.Group
	pending sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs an unconfigured Client. Call Configure before issuing operations.
func New(opts ...Option) (*Client, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		log:      noopLogger{},
		store:    noopStore{},
		now:      time.Now,
		fee:      DefaultTransactionFee,
		renewal:  DefaultRenewalWindow,
		dispatch: func(f func()) { go f() },
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			cancel()
			return nil, err
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(DefaultHTTPTimeout)
	}
	return c, nil
}

// Configure stores the backend address and API key and starts authenticating
// in the background. A session persisted for the same backend and key is
// reused instead when it is still outside the renewal window.
func (c *Client) Configure(baseURL, apiKey string) error {
	cfg := ClientConfig{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:  strings.TrimSpace(apiKey),
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("api key is required")
	}

	restored, ok := c.restoreSession(cfg)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.cfg = cfg
	c.configured = true
	c.session = restored
	c.mu.Unlock()

	c.log.InfoObj("playergold client configured", "client_config", map[string]any{
		"base_url":         cfg.BaseURL,
		"session_restored": ok,
	})
	if ok {
		return nil
	}

	c.background(func(ctx context.Context) {
		_ = c.renew(ctx, cfg)
	})
	return nil
}

// restoreSession returns a persisted session for cfg if one exists and does not need renewal.
func (c *Client) restoreSession(cfg ClientConfig) (Session, bool) {
	sess, ok, err := c.store.LoadSession(cfg.fingerprint())
	if err != nil {
		c.log.WarnObj("session store load failed", "error", err.Error())
		return Session{}, false
	}
	if !ok || c.needsRenewal(sess) {
		return Session{}, false
	}
	return sess, true
}

// IsAuthenticated reports whether a token is held. It does not check expiry.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token != ""
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Config returns the current backend configuration.
func (c *Client) Config() ClientConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Fee is the fee attached to created transactions.
func (c *Client) Fee() decimal.Decimal { return c.fee }

// Close waits for pending asynchronous work and releases the session store. Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.pending.Wait()
	c.cancel()
	return c.store.Close()
}

// snapshot returns the config and session under the read lock. Work already
// pending when Close is called still gets a snapshot; the lifetime context is
// cancelled only after it drains.
func (c *Client) snapshot() (ClientConfig, Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ctx.Err() != nil {
		return ClientConfig{}, Session{}, ErrClosed
	}
	if !c.configured {
		return ClientConfig{}, Session{}, ErrNotConfigured
	}
	return c.cfg, c.session, nil
}

// background runs fn on a tracked goroutine bound to the client lifetime.
func (c *Client) background(fn func(ctx context.Context)) bool {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return false
	}
	c.pending.Add(1)
	c.mu.RUnlock()

	go func() {
		defer c.pending.Done()
		fn(c.ctx)
	}()
	return true
}

// send issues a request against cfg. A token, when given, is attached as a bearer credential.
func (c *Client) send(ctx context.Context, cfg ClientConfig, token, op, method, path string, body any) ([]byte, error) {
	headers := map[string]string{"Content-Type": "application/json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     cfg.BaseURL + path,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		terr := &TransportError{Op: op, Message: msgRequestFailed, Err: err}
		c.log.WarnObj("playergold request failed", "request_error", map[string]any{
			"operation": op,
			"path":      path,
			"error":     terr.Detail(),
		})
		return nil, terr
	}
	if !resp.IsSuccess() {
		msg := string(resp.Body())
		if msg == "" {
			msg = msgRequestFailed
		}
		terr := &TransportError{Op: op, StatusCode: resp.StatusCode(), Message: msg}
		c.log.WarnObj("playergold request rejected", "request_error", map[string]any{
			"operation": op,
			"path":      path,
			"status":    resp.StatusCode(),
		})
		return nil, terr
	}
	return resp.Body(), nil
}

// call issues a request with whatever token is currently held.
func (c *Client) call(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	cfg, sess, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, cfg, sess.Token, op, method, path, body)
}
