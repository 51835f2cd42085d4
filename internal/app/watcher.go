package app

import (
	"context"
	"fmt"
	"time"

	"github.com/playergold/playergold-go/internal/logger"
	"github.com/playergold/playergold-go/pkg/notifiers"
	"github.com/playergold/playergold-go/pkg/playergold"
)

// StatusSource is satisfied by *playergold.Client.
type StatusSource interface {
	GetNetworkStatus(ctx context.Context) (playergold.NetworkStatus, error)
}

// Watcher polls network status on an interval and forwards each snapshot to
// the configured notifiers.
type Watcher struct {
	source   StatusSource
	events   playergold.EventPublisher
	interval time.Duration
	origin   string
	log      logger.Logger

	// OnStatus, when set, receives every successful snapshot.
	OnStatus func(playergold.NetworkStatus)
}

// NewWatcher builds a watcher. events may be nil.
func NewWatcher(source StatusSource, events playergold.EventPublisher, interval time.Duration, origin string, log logger.Logger) (*Watcher, error) {
	if source == nil {
		return nil, fmt.Errorf("status source must not be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("watch interval must be positive")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Watcher{
		source:   source,
		events:   events,
		interval: interval,
		origin:   origin,
		log:      log,
	}, nil
}

// Run polls immediately and then on every tick until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.source == nil {
		return fmt.Errorf("watcher is not initialized")
	}

	w.log.InfoObj("watch loop starting", "watch_state", map[string]any{
		"interval": w.interval.String(),
		"origin":   w.origin,
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial status poll failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watch loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled status poll failed", "error", err)
			}
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	status, err := w.source.GetNetworkStatus(ctx)
	if err != nil {
		return err
	}
	w.log.InfoObj("network status", "status_meta", map[string]any{
		"network":              status.Network,
		"chain_length":         status.ChainLength,
		"pending_transactions": status.PendingTransactions,
		"is_mining":            status.IsMining,
		"elapsed_ms":           time.Since(start).Milliseconds(),
	})
	if w.OnStatus != nil {
		w.OnStatus(status)
	}

	if w.events == nil {
		return nil
	}
	evt := notifiers.NewEvent(notifiers.EventNetworkStatus, w.origin, status)
	delivered, err := w.events.Publish(ctx, evt)
	if err != nil {
		w.log.WarnObj("network status publish failed", "publish_error", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}
	return nil
}
