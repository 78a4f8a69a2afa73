package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paperarchive/internal/config"
	"paperarchive/internal/logging"
	"paperarchive/internal/services"
)

func TestNewFromConfigWritesStateLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("archive ready", logging.Int("boxes", 3))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.StateDir, "archive.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "archive ready") || !strings.Contains(string(content), "boxes=3") {
		t.Fatalf("unexpected log content: %q", content)
	}
	if strings.Contains(string(content), "\x1b[") {
		t.Fatalf("expected no colour codes in log files, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	logger.Debug("hidden debug line")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(string(content), "hidden debug line") {
		t.Fatalf("expected debug line to be filtered, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrintsComponentPrefix(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "escl").Info("scan job created", logging.String("location", "/eSCL/ScanJobs/1"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, " escl: scan job created") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("expected component to be lifted out of the fields, got %q", line)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("duplicate document", logging.String(logging.FieldDocumentID, "0961090479"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" || payload["msg"] != "duplicate document" || payload["ts"] == nil {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload[logging.FieldDocumentID] != "0961090479" {
		t.Fatalf("expected document id field, got %v", payload)
	}
}

func TestJSONLoggerFormatsArchiveValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("upload failed",
		slog.Any(logging.FieldBoxID, []byte{0x12, 0x04, 0x28, 0x28}),
		logging.Error(services.BackendStatus("/api/documents/post_document/", 401, "invalid token")),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldBoxID] != "12042828" {
		t.Fatalf("expected hex box id, got %v", payload[logging.FieldBoxID])
	}
	ts, _ := payload["ts"].(string)
	if !strings.Contains(ts, ".") || !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC millisecond timestamp, got %q", ts)
	}
	errGroup, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected structured error, got %v", payload["error"])
	}
	if errGroup[logging.FieldEndpoint] != "/api/documents/post_document/" || errGroup["status"] != float64(401) {
		t.Fatalf("unexpected error group: %v", errGroup)
	}
	if msg, _ := errGroup["message"].(string); !strings.Contains(msg, "invalid token") {
		t.Fatalf("expected error message, got %v", errGroup)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

type captureHandler struct {
	records []slog.Record
	attrs   []slog.Attr
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(h.attrs, attrs...)
	return h
}

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func TestWithContextAddsSessionFields(t *testing.T) {
	handler := &captureHandler{}
	ctx := services.WithRequestID(context.Background(), "session-1")
	ctx = services.WithStage(ctx, "split")

	logging.WithContext(ctx, slog.New(handler)).Info("hello")

	keys := map[string]string{}
	for _, a := range handler.attrs {
		keys[a.Key] = a.Value.String()
	}
	if keys[logging.FieldSessionID] != "session-1" || keys[logging.FieldStage] != "split" {
		t.Fatalf("unexpected context attrs: %v", keys)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	handler := &captureHandler{}
	logging.WarnWithContext(slog.New(handler), "extra document", "extra_document", logging.String(logging.FieldImpact, "ignored"))

	if len(handler.records) != 1 {
		t.Fatalf("expected one record, got %d", len(handler.records))
	}
	fields := map[string]string{}
	handler.records[0].Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.String()
		return true
	})
	if fields[logging.FieldEventType] != "extra_document" || fields[logging.FieldImpact] != "ignored" || fields[logging.FieldErrorHint] == "" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
