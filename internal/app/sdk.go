package app

import (
	"context"
	"fmt"

	"github.com/playergold/playergold-go/internal/config"
	"github.com/playergold/playergold-go/internal/logger"
	"github.com/playergold/playergold-go/internal/storage"
	"github.com/playergold/playergold-go/pkg/notifiers"
	"github.com/playergold/playergold-go/pkg/playergold"
)

// SDK bundles a configured PlayerGold client with the session store and
// notifier fanout built from the application config.
type SDK struct {
	Client *playergold.Client

	cfg    *config.Config
	fanout *notifiers.Fanout
	log    logger.Logger
}

// NewSDK builds the client runtime from config and starts authenticating.
func NewSDK(ctx context.Context, cfg *config.Config, log logger.Logger, extra ...playergold.Option) (*SDK, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key is required")
	}

	fanout, err := buildFanout(ctx, cfg.NotifiersFile, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.SessionStore, cfg.SessionPath, storage.Options{
		CleanupInterval: cfg.SessionCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	log.InfoObj("session store initialized", "storage_config", map[string]any{
		"type":                     cfg.SessionStore,
		"path":                     cfg.SessionPath,
		"cleanup_interval_seconds": int(cfg.SessionCleanupInterval.Seconds()),
	})

	opts := []playergold.Option{
		playergold.WithHTTPTimeout(cfg.HTTPTimeout),
		playergold.WithTransactionFee(cfg.Fee),
		playergold.WithRenewalWindow(cfg.TokenRenewal),
		playergold.WithSessionStore(store),
		playergold.WithLogger(log),
	}
	if fanout.Size() > 0 {
		opts = append(opts, playergold.WithEventPublisher(fanout))
	}
	opts = append(opts, extra...)

	client, err := playergold.New(opts...)
	if err != nil {
		_ = store.Close()
		_ = fanout.Close()
		return nil, fmt.Errorf("init client: %w", err)
	}
	if err := client.Configure(cfg.APIURL, cfg.APIKey); err != nil {
		_ = client.Close()
		_ = fanout.Close()
		return nil, fmt.Errorf("configure client: %w", err)
	}

	return &SDK{
		Client: client,
		cfg:    cfg,
		fanout: fanout,
		log:    log,
	}, nil
}

// buildFanout loads the notifiers file, if any, and instantiates enabled notifiers.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*notifiers.Fanout, error) {
	if path == "" {
		return notifiers.NewFanout(nil), nil
	}
	reg, err := notifiers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}

	enabled := reg.Enabled()
	built, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	summaries := make([]map[string]any, 0, len(enabled))
	for _, n := range enabled {
		summaries = append(summaries, map[string]any{
			"id":     n.ID,
			"type":   n.Type,
			"events": n.Events,
		})
	}
	log.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(summaries),
		"notifiers": summaries,
	})
	return notifiers.NewFanout(built), nil
}

// Events returns the notifier fanout, or nil when no notifiers are configured.
func (s *SDK) Events() playergold.EventPublisher {
	if s == nil || s.fanout.Size() == 0 {
		return nil
	}
	return s.fanout
}

// Close drains the client and releases notifiers.
func (s *SDK) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if err := s.Client.Close(); err != nil {
		s.log.ErrorObj("client close failed", "error", err)
		firstErr = err
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("notifiers close failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
