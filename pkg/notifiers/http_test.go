package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestHTTPNotifierSuccess(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		if got := r.Header.Get("X-Event-Type"); got != EventTransactionCreated {
			t.Errorf("unexpected event type header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := newHTTPNotifier(context.Background(), NotifierConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPNotifierConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Test": "1"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPNotifier: %v", err)
	}

	evt := NewEvent(EventTransactionCreated, "http://node", nil)
	if err := n.Notify(context.Background(), evt); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if received.ID != evt.ID {
		t.Fatalf("server did not receive event, got %#v", received)
	}
}

func TestHTTPNotifierErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	n, err := newHTTPNotifier(context.Background(), NotifierConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPNotifierConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPNotifier: %v", err)
	}

	if err := n.Notify(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestHTTPNotifierRoutesByEventType(t *testing.T) {
	var (
		mu   sync.Mutex
		hits = map[string][]webhookBody{}
		ids  []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body webhookBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		mu.Lock()
		hits[r.URL.Path] = append(hits[r.URL.Path], body)
		ids = append(ids, r.Header.Get("X-Event-ID"))
		mu.Unlock()
		if ua := r.Header.Get("User-Agent"); ua != webhookUserAgent {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := sanitizeNotifierConfig(NotifierConfig{
		ID:   "router",
		Type: TypeHTTP,
		HTTP: &HTTPNotifierConfig{
			URL:       srv.URL + "/default",
			EventURLs: map[string]string{" Network.Status ": srv.URL + "/status", "ignored": " "},
		},
	})
	if err := validateNotifierConfig(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(cfg.HTTP.EventURLs) != 1 {
		t.Fatalf("expected blank route to be dropped, got %v", cfg.HTTP.EventURLs)
	}
	n, err := newHTTPNotifier(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newHTTPNotifier: %v", err)
	}

	status := NewEvent(EventNetworkStatus, "http://node", map[string]any{"network": "testnet"})
	created := NewEvent(EventTransactionCreated, "http://node", map[string]any{"transaction_hash": "0xabc"})
	for _, evt := range []Event{status, created} {
		if err := n.Notify(context.Background(), evt); err != nil {
			t.Fatalf("Notify %s: %v", evt.Type, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hits["/status"]) != 1 || hits["/status"][0].Type != EventNetworkStatus {
		t.Fatalf("status event not routed: %#v", hits)
	}
	if len(hits["/default"]) != 1 || hits["/default"][0].ID != created.ID {
		t.Fatalf("created event not sent to default url: %#v", hits)
	}
	if hits["/default"][0].Notifier != "router" || hits["/default"][0].Source != "http://node" {
		t.Fatalf("envelope fields missing: %#v", hits["/default"][0])
	}
	if len(ids) != 2 || ids[0] != status.ID || ids[1] != created.ID {
		t.Fatalf("unexpected event id headers %v", ids)
	}
}

func TestHTTPNotifierSkipsUnroutedEvents(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := newHTTPNotifier(context.Background(), NotifierConfig{
		ID:   "status-only",
		Type: TypeHTTP,
		HTTP: &HTTPNotifierConfig{
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
			EventURLs:      map[string]string{EventNetworkStatus: srv.URL},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPNotifier: %v", err)
	}
	if err := n.Notify(context.Background(), NewEvent(EventTransactionCreated, "", nil)); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no delivery for unrouted event, got %d", calls)
	}
}
