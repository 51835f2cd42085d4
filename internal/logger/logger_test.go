package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/playergold/playergold-go/internal/config"
)

func TestInitWritesJSONWithLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := initWithWriter(&config.Config{AppName: "playergold", LogLevel: "warn"}, &buf)
	t.Cleanup(func() { S = nil })

	log.InfoObj("dropped", "k", "v")
	log.WarnObj("kept", "balance_meta", map[string]any{"address": "addr1"})
	_ = Close()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "kept" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["app"] != "playergold" {
		t.Fatalf("expected app field, got %v", entry["app"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field in %v", entry)
	}
	meta, ok := entry["balance_meta"].(map[string]any)
	if !ok || meta["address"] != "addr1" {
		t.Fatalf("structured field missing: %v", entry["balance_meta"])
	}
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("msg", "k", 1)
	ErrorObj("msg", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close before Init: %v", err)
	}
}
