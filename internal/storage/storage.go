package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/playergold/playergold-go/pkg/playergold"
)

// Package storage persists SDK sessions between process runs.

// Store persists bearer tokens keyed by a client fingerprint.
type Store interface {
	Close() error
	LoadSession(key string) (playergold.Session, bool, error)
	SaveSession(key string, s playergold.Session) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	CleanupInterval time.Duration
}

const defaultCleanupInterval = 12 * time.Hour

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error { return nil }
func (noopStore) LoadSession(string) (playergold.Session, bool, error) {
	return playergold.Session{}, false, nil
}
func (noopStore) SaveSession(string, playergold.Session) error { return nil }
