package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "gsmprompt.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogError("broke %d", 7)
	LogRequest("out", "gemini", "flash", "hidden at info level")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "broke 7") {
		t.Fatalf("expected LogError content, got: %s", content)
	}
	if strings.Contains(content, "hidden at info level") {
		t.Fatalf("request payloads should only be logged at debug level, got: %s", content)
	}
}

func TestDebugLogsRequests(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := Init(logPath, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogRequest("out", "", "", map[string]any{"ok": true})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"direction=OUT", "provider=unknown", "model=unknown", `{\"ok\":true}`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in log, got: %s", want, content)
		}
	}
}

func TestRequestFieldsDefaults(t *testing.T) {
	fields := requestFields(" in ", " ", "")
	if fields["direction"] != "IN" {
		t.Fatalf("expected uppercased direction, got: %v", fields["direction"])
	}
	if fields["provider"] != "unknown" || fields["model"] != "unknown" {
		t.Fatalf("expected defaults, got: %v", fields)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}
