package playergold

import (
	"context"

	"github.com/playergold/playergold-go/pkg/notifiers"
)

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

// SessionStore persists sessions across process restarts. Keys are opaque fingerprints.
type SessionStore interface {
	LoadSession(key string) (Session, bool, error)
	SaveSession(key string, s Session) error
	Close() error
}

type noopStore struct{}

func (noopStore) LoadSession(string) (Session, bool, error) { return Session{}, false, nil }
func (noopStore) SaveSession(string, Session) error         { return nil }
func (noopStore) Close() error                              { return nil }

// EventPublisher receives SDK events such as created transactions.
type EventPublisher interface {
	Publish(ctx context.Context, evt notifiers.Event) (int, error)
}
