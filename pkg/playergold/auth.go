package playergold

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	opAuthenticate = "authenticate"
	authPath       = "/auth/token"
)

type authRequest struct {
	APIKey string `json:"api_key"`
}

type authResponse struct {
	Token     string   `json:"token"`
	ExpiresIn *float64 `json:"expires_in"`
}

// Authenticate requests a fresh token unconditionally and stores it on success.
// On failure the current session is left untouched.
func (c *Client) Authenticate(ctx context.Context) error {
	cfg, _, err := c.snapshot()
	if err != nil {
		return err
	}
	return c.authenticate(ctx, cfg)
}

func (c *Client) authenticate(ctx context.Context, cfg ClientConfig) error {
	current := c.Session()
	raw, err := c.send(ctx, cfg, current.Token, opAuthenticate, http.MethodPost, authPath, authRequest{APIKey: cfg.APIKey})
	if err == nil {
		err = c.applyAuthResponse(cfg, raw)
	}
	observe(opAuthenticate, err)
	if err != nil {
		c.log.ErrorObj("playergold authentication failed", "auth_error", map[string]any{
			"base_url": cfg.BaseURL,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

func (c *Client) applyAuthResponse(cfg ClientConfig, raw []byte) error {
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return &DecodeError{Op: opAuthenticate, Message: msgParseAuth, Err: err}
	}
	if resp.Token == "" || resp.ExpiresIn == nil {
		return &DecodeError{Op: opAuthenticate, Message: msgParseAuth}
	}

	sess := Session{
		Token:     resp.Token,
		ExpiresAt: c.now().Add(time.Duration(*resp.ExpiresIn * float64(time.Second))),
	}

	c.mu.Lock()
	// a Configure that ran while the request was in flight wins
	stale := c.cfg != cfg
	if !stale {
		c.session = sess
	}
	c.mu.Unlock()
	if stale {
		return nil
	}

	if err := c.store.SaveSession(cfg.fingerprint(), sess); err != nil {
		c.log.WarnObj("session store save failed", "error", err.Error())
	}
	c.log.InfoObj("playergold authenticated", "auth_meta", map[string]any{
		"base_url":   cfg.BaseURL,
		"expires_at": sess.ExpiresAt.UTC(),
	})
	return nil
}

// needsRenewal reports whether sess is empty or inside the renewal window.
func (c *Client) needsRenewal(sess Session) bool {
	if sess.Token == "" {
		return true
	}
	return !c.now().Before(sess.ExpiresAt.Add(-c.renewal))
}

// EnsureAuthenticated renews the token when it is missing or inside the renewal
// window and waits for the result. Other operations call it before every request.
// If renewal fails but the held token has not actually expired, the caller proceeds with it.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	_, _, err := c.ensureSession(ctx)
	return err
}

// maxAuthRounds bounds how often ensureSession follows a Configure that replaced
// the backend while it was waiting.
const maxAuthRounds = 3

// ensureSession returns a config and a usable token for it, taken from the same
// snapshot. A Configure landing mid-wait sends it round again against the new config.
func (c *Client) ensureSession(ctx context.Context) (ClientConfig, Session, error) {
	for round := 0; round < maxAuthRounds; round++ {
		cfg, sess, err := c.snapshot()
		if err != nil {
			return ClientConfig{}, Session{}, err
		}
		if !c.needsRenewal(sess) {
			return cfg, sess, nil
		}

		renewErr := c.renew(ctx, cfg)

		cur, held, err := c.snapshot()
		if err != nil {
			return ClientConfig{}, Session{}, err
		}
		if cur != cfg {
			c.log.InfoObj("client reconfigured during authentication", "auth_meta", map[string]any{
				"base_url": cur.BaseURL,
			})
			continue
		}
		usable := held.Token != "" && c.now().Before(held.ExpiresAt)
		if renewErr != nil {
			if usable {
				c.log.WarnObj("token renewal failed; using current token", "auth_meta", map[string]any{
					"expires_at": held.ExpiresAt.UTC(),
				})
				return cur, held, nil
			}
			return ClientConfig{}, Session{}, renewErr
		}
		if usable {
			return cur, held, nil
		}
	}
	return ClientConfig{}, Session{}, ErrReconfigured
}

// renew joins or starts the shared token request for cfg. The request itself is
// bound to the client lifetime so one caller giving up does not fail the others.
func (c *Client) renew(ctx context.Context, cfg ClientConfig) error {
	ch := c.auth.DoChan(cfg.fingerprint(), func() (any, error) {
		if _, sess, err := c.snapshot(); err == nil && !c.needsRenewal(sess) {
			return nil, nil
		}
		return nil, c.authenticate(c.ctx, cfg)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}
