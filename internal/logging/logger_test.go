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

	"jumpcut/internal/config"
	"jumpcut/internal/logging"
	"jumpcut/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (*slog.Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	f, err := os.Create(logPath)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	logger, err := logging.New(logging.Options{Format: format, Level: level, Writer: f})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	if !strings.Contains(readLog(t, filepath.Join(cfg.Paths.LogDir, "jumpcut.log")), "hello from config") {
		t.Fatal("expected record in jumpcut.log")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")
	logger.Info("message without caller")
	if strings.Contains(readLog(t, path), ".go:") {
		t.Fatalf("expected no caller information in info logs")
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, path := newFileLogger(t, "console", "debug")
	logger.Info("message with caller")
	if !strings.Contains(readLog(t, path), ".go:") {
		t.Fatalf("expected caller information in debug logs")
	}
}

func TestConsoleLoggerRendersComponentAndSubject(t *testing.T) {
	logger, path := newFileLogger(t, "console", "info")
	ctx := services.WithJobID(context.Background(), "0123456789abcdef")
	ctx = services.WithStage(ctx, "render")

	component := logging.NewComponentLogger(logger, "render")
	logging.WithContext(ctx, component).Info("chunk done", logging.Int("chunk", 2))

	content := readLog(t, path)
	for _, want := range []string{"INFO [render] Job 01234567 (render) – chunk done", "- chunk: 2"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "job_id") {
		t.Fatalf("job id should only appear in the subject at info: %q", content)
	}
}

func TestJSONLoggerKeys(t *testing.T) {
	logger, path := newFileLogger(t, "json", "info")
	logger.Info("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, path))), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", "k"} {
		if _, ok := record[key]; !ok {
			t.Fatalf("missing key %q in %v", key, record)
		}
	}
}

func TestNewFileIsAlwaysJSON(t *testing.T) {
	var console bytes.Buffer
	filePath := filepath.Join(t.TempDir(), "nested", "run.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &console, File: filePath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("teed", logging.Int("chunk", 1))

	if !strings.Contains(console.String(), "teed") {
		t.Fatalf("expected console output, got %q", console.String())
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, filePath))), &record); err != nil {
		t.Fatalf("file log is not JSON: %v", err)
	}
	if record["msg"] != "teed" {
		t.Fatalf("msg = %v", record["msg"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, path := newFileLogger(t, "console", "invalid")
	logger.Debug("hidden")
	logger.Info("visible")
	content := readLog(t, path)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "visible") {
		t.Fatalf("expected info level filtering, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, path := newFileLogger(t, "json", "info")
	logging.WarnWithContext(logger, "mask exhausted", "mask_out_of_data", logging.String(logging.FieldImpact, "frames kept"))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, path))), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record[logging.FieldEventType] != "mask_out_of_data" {
		t.Fatalf("event_type = %v", record[logging.FieldEventType])
	}
	if record[logging.FieldImpact] != "frames kept" {
		t.Fatalf("impact = %v", record[logging.FieldImpact])
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error_hint")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := services.WithJobID(context.Background(), "job-1")
	ctx = services.WithStage(ctx, "analyze")
	ctx = services.WithSource(ctx, "/media/in.mkv")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]string{
		logging.FieldJobID:  "job-1",
		logging.FieldStage:  "analyze",
		logging.FieldSource: "/media/in.mkv",
	}
	for key, value := range want {
		if record[key] != value {
			t.Fatalf("field %s = %v, want %q", key, record[key], value)
		}
	}
}
