package core

import (
	"bytes"
	"context"
	"log"
	"strings"
	"sync"
	"testing"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields []Field
}

func (l *recordingLogger) record(level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, recordedEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields ...Field) { l.record("DEBUG", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...Field)  { l.record("INFO", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...Field)  { l.record("WARN", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...Field) { l.record("ERROR", msg, fields) }

func (l *recordingLogger) last() (recordedEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return recordedEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// TestDefaultLogger_Rendering verifies the logfmt-style output
// Main test items:
// 1. Lines carry the threadpool prefix, level and quoted message
// 2. Plain field values render unquoted, values with spaces quoted
// 3. Empty values render as ""
func TestDefaultLogger_Rendering(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	logger := NewDefaultLogger()
	logger.Info("worker attached",
		F("pool", "p1"),
		F("worker", "Thread pool worker 0"),
		F("note", ""))

	line := buf.String()
	for _, want := range []string{
		`threadpool: level=INFO msg="worker attached"`,
		`pool=p1`,
		`worker="Thread pool worker 0"`,
		`note=""`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

// TestDefaultPanicHandler_LogsThroughLogger verifies panic routing
// Main test items:
// 1. The report goes to the configured Logger at Error level
// 2. Pool ID, executor and panic value appear as fields
// 3. Without an executor name in ctx, workerID -1 reports "caller"
func TestDefaultPanicHandler_LogsThroughLogger(t *testing.T) {
	logger := &recordingLogger{}
	handler := &DefaultPanicHandler{Logger: logger}

	ctx := withExecutorName(context.Background(), "Thread pool worker 2")
	handler.HandlePanic(ctx, "p1", 2, "boom", []byte("stack"))

	entry, ok := logger.last()
	if !ok {
		t.Fatal("no log entry recorded")
	}
	if entry.level != "ERROR" {
		t.Errorf("level = %s, want ERROR", entry.level)
	}
	got := map[string]any{}
	for _, f := range entry.fields {
		got[f.Key] = f.Value
	}
	if got["pool"] != "p1" {
		t.Errorf("pool field = %v, want p1", got["pool"])
	}
	if got["executor"] != "Thread pool worker 2" {
		t.Errorf("executor field = %v, want worker name", got["executor"])
	}
	if got["panic"] != "boom" {
		t.Errorf("panic field = %v, want boom", got["panic"])
	}

	handler.HandlePanic(context.Background(), "p1", -1, "boom", nil)
	entry, _ = logger.last()
	for _, f := range entry.fields {
		if f.Key == "executor" && f.Value != "caller" {
			t.Errorf("executor field = %v, want caller", f.Value)
		}
	}
}
