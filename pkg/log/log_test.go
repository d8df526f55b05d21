package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear", OperationKey, OperationSolve)
	testLogger.Error("failure", fmt.Errorf("boom"), ErrorCodeKey, ErrorSVDFailed)

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsField(OperationKey, OperationSolve) {
		t.Error("Operation field not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "boom") {
		t.Errorf("leading error should be recorded under %q, got %s", ErrAttrKey, buffer.String())
	}

	testLogger.Clear()
	if buffer.Len() != 0 {
		t.Error("Clear should empty the buffer")
	}
}

func TestTestLoggerWithSharesSink(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)
	child := testLogger.With(ModelNameKey, "EOF", ComponentKey, "eof")

	child.Debug("solve finished", SamplesKey, 4, FeaturesKey, 3, ModesKey, 2)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	expected := map[string]interface{}{
		ModelNameKey: "EOF",
		ComponentKey: "eof",
		SamplesKey:   4.0,
		FeaturesKey:  3.0,
		ModesKey:     2.0,
		"level":      "DEBUG",
	}
	for key, want := range expected {
		if got, ok := entries[0][key]; !ok || got != want {
			t.Errorf("field %s: expected %v, got %v", key, want, got)
		}
	}
}

func TestSlogLoggerWritesJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	if err := SetupLoggerWithWriter(&buf, "info"); err != nil {
		t.Fatalf("SetupLoggerWithWriter: %v", err)
	}

	logger := NewSlogLogger(nil).With(ComponentKey, "eof")
	logger.Debug("hidden")
	logger.Error("solve failed", errors.NewValidationError("n_modes", "must be positive", -1))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &record); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", out, err)
	}
	if record["message"] != "solve failed" {
		t.Errorf("expected message key to be renamed, got %v", record)
	}
	if record["severity"] != "ERROR" {
		t.Errorf("expected severity ERROR, got %v", record["severity"])
	}
	if record[ComponentKey] != "eof" {
		t.Errorf("expected component field, got %v", record[ComponentKey])
	}
	if !strings.Contains(fmt.Sprint(record[ErrAttrKey]), "must be positive") {
		t.Errorf("expected error attribute, got %v", record[ErrAttrKey])
	}

	SetLevel(LevelDebug)
	defer SetLevel(LevelInfo)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("SetLevel should lower the threshold of the installed handler")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled")
	}

	logger.Debug("hidden")
	logger.With(ModelNameKey, "EOF").Info("solved", ModesKey, 3)
	logger.Error("failed", fmt.Errorf("svd"), OperationKey, OperationSolve)
	logger.Warn("constant", "warning", errors.NewConstantInputWarning("corr", 1, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 records, got %d: %q", len(lines), buf.String())
	}

	var info, failure, warn map[string]interface{}
	for i, dst := range []*map[string]interface{}{&info, &failure, &warn} {
		if err := json.Unmarshal([]byte(lines[i]), dst); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
	}

	if info[ModelNameKey] != "EOF" || info[ModesKey] != 3.0 {
		t.Errorf("unexpected info record: %v", info)
	}
	if failure["error"] != "svd" || failure[OperationKey] != OperationSolve {
		t.Errorf("unexpected error record: %v", failure)
	}
	obj, ok := warn["warning"].(map[string]interface{})
	if !ok || obj["type"] != "ConstantInputWarning" {
		t.Errorf("expected structured warning object, got %v", warn["warning"])
	}
}

func TestZerologProviderAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(zerolog.New(&buf))
	p.SetLevel(LevelWarn)

	p.GetLoggerWithName("eof").Info("filtered")
	p.GetLoggerWithName("eof").Warn("kept")
	if strings.Contains(buf.String(), "filtered") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected provider output: %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"ml.component":"eof"`) {
		t.Errorf("expected component name, got %q", buf.String())
	}

	buf.Reset()
	InstallZerologWarnings(zerolog.New(&buf))
	defer errors.SetZerologWarnFunc(nil)

	errors.Warn(errors.NewConstantInputWarning("EOF.EOFsAsCorrelation", 2, 1))
	if !strings.Contains(buf.String(), `"type":"ConstantInputWarning"`) {
		t.Errorf("expected warning routed through zerolog, got %q", buf.String())
	}
}

func TestGlobalProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	defer SetProvider(&slogProvider{})

	GetLoggerWithName("preprocessing").Info("named logger message")
	GetLogger().Info("provider test message")

	out := buffer.String()
	for _, want := range []string{"named logger message", "provider test message", "preprocessing"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
