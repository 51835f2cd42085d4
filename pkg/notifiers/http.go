package notifiers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/playergold/playergold-go/pkg/httpclient"
)

const webhookUserAgent = "playergold-go-notifier"

// webhookBody is what a webhook receives. Payload is kept raw so receivers can
// switch on Type before decoding it.
type webhookBody struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	EmittedAt time.Time `json:"emitted_at"`
	Notifier  string    `json:"notifier"`
	Payload   any       `json:"payload"`
}

// httpNotifier posts events to a webhook, optionally routing each event type to its own URL.
type httpNotifier struct {
	id        string
	method    string
	url       string
	eventURLs map[string]string
	headers   map[string]string
	client    *resty.Client
}

func newHTTPNotifier(_ context.Context, cfg NotifierConfig, _ Logger) (Notifier, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("notifier %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("User-Agent", webhookUserAgent)

	return &httpNotifier{
		id:        cfg.ID,
		method:    cfg.HTTP.Method,
		url:       cfg.HTTP.URL,
		eventURLs: cfg.HTTP.EventURLs,
		headers:   cfg.HTTP.Headers,
		client:    client,
	}, nil
}

func (h *httpNotifier) ID() string   { return h.id }
func (h *httpNotifier) Type() string { return TypeHTTP }

// target picks the route for an event type. An empty result means the event has nowhere to go.
func (h *httpNotifier) target(evtType string) string {
	if u, ok := h.eventURLs[strings.ToLower(evtType)]; ok {
		return u
	}
	return h.url
}

func (h *httpNotifier) Notify(ctx context.Context, evt Event) error {
	url := h.target(evt.Type)
	if url == "" {
		return nil
	}

	req := h.client.R().
		SetContext(ctx).
		SetBody(webhookBody{
			ID:        evt.ID,
			Type:      evt.Type,
			Source:    evt.Source,
			EmittedAt: evt.EmittedAt,
			Notifier:  h.id,
			Payload:   evt.Payload,
		})

	if len(h.headers) > 0 {
		req.SetHeaders(h.headers)
	}
	req.SetHeader("Content-Type", "application/json")
	req.SetHeader("X-Event-Type", evt.Type)
	req.SetHeader("X-Event-ID", evt.ID)

	resp, err := req.Execute(h.method, url)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), readBodySnippet(resp.Body()))
	}
	return nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
