package playergold

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBackend is an httptest server speaking the PlayerGold REST contract.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	authCalls atomic.Int32
	// authGate, when set, blocks /auth/token until closed.
	authGate  chan struct{}
	authDelay time.Duration
	expiresIn int
	tokens    atomic.Int32

	mu       sync.Mutex
	authCode int
	authBody string
	handlers map[string]http.HandlerFunc
	requests []*recordedRequest
}

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          map[string]any
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:         t,
		expiresIn: 3600,
		handlers:  make(map[string]http.HandlerFunc),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.srv.URL }

// failAuth makes subsequent token requests fail with code and body. A zero code restores success.
func (b *fakeBackend) failAuth(code int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authCode = code
	b.authBody = body
}

func (b *fakeBackend) handle(path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = h
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	rec := &recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	h := b.handlers[r.URL.Path]
	b.mu.Unlock()

	if r.URL.Path == "/auth/token" && h == nil {
		b.serveAuth(w)
		return
	}
	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (b *fakeBackend) serveAuth(w http.ResponseWriter) {
	b.authCalls.Add(1)
	if b.authGate != nil {
		<-b.authGate
	}
	if b.authDelay > 0 {
		time.Sleep(b.authDelay)
	}
	b.mu.Lock()
	code, body := b.authCode, b.authBody
	b.mu.Unlock()
	if code != 0 {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
		return
	}
	n := b.tokens.Add(1)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      "token-" + strconv.Itoa(int(n)),
		"expires_in": b.expiresIn,
	})
}

func (b *fakeBackend) requestsTo(path string) []*recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*recordedRequest
	for _, r := range b.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// manualClock is a settable time source.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// newTestClient builds a configured client and waits for the initial authentication to land.
func newTestClient(t *testing.T, b *fakeBackend, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Configure(b.URL(), "test-key"))
	require.Eventually(t, c.IsAuthenticated, 2*time.Second, 5*time.Millisecond)
	return c
}
