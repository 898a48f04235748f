// internal/logging/testing.go
package logging

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger is a Logger that records every entry, down to TraceLevel,
// for assertions in tests.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger creates a recording logger.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(TraceLevel)
	return &TestLogger{
		Logger: &Logger{
			zap:    zap.New(core),
			config: NewDefaultConfig(),
		},
		observed: observed,
	}
}

// Entries returns every recorded entry in order.
func (t *TestLogger) Entries() []observer.LoggedEntry {
	return t.observed.All()
}

// WithMessage returns the entries whose message contains snippet.
func (t *TestLogger) WithMessage(snippet string) []observer.LoggedEntry {
	return t.observed.FilterMessageSnippet(snippet).All()
}

// Clear drops the recorded entries.
func (t *TestLogger) Clear() {
	t.observed.TakeAll()
}

// AssertLogged fails unless an entry at level contains msgContains.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			return
		}
	}
	tb.Errorf("expected log at %v containing %q, logs: %+v", level, msgContains, t.observed.All())
}

// AssertNotLogged fails if any entry at level contains msgContains.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			tb.Errorf("unexpected log at %v containing %q", level, msgContains)
		}
	}
}

// AssertField fails unless an entry matching msg carries key=expected.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected any) {
	tb.Helper()
	for _, entry := range t.WithMessage(msg) {
		if v, ok := entry.ContextMap()[key]; ok && reflect.DeepEqual(v, expected) {
			return
		}
	}
	tb.Errorf("field %q=%v not found in message %q", key, expected, msg)
}

// AssertRunID fails unless every entry matching msg carries a run.id.
func (t *TestLogger) AssertRunID(tb testing.TB, msg string) {
	tb.Helper()
	entries := t.WithMessage(msg)
	if len(entries) == 0 {
		tb.Errorf("no log containing %q", msg)
	}
	for _, entry := range entries {
		if id, _ := entry.ContextMap()["run.id"].(string); id == "" {
			tb.Errorf("log %q has no run.id", entry.Message)
		}
	}
}

// AssertNeverContains fails if text appears in any message or field value.
// Redaction tests use it to check a secret never reached the logs.
func (t *TestLogger) AssertNeverContains(tb testing.TB, text string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if strings.Contains(entry.Message, text) {
			tb.Errorf("log message contains %q: %q", text, entry.Message)
		}
		for k, v := range entry.ContextMap() {
			if strings.Contains(fmt.Sprint(v), text) {
				tb.Errorf("log field %q contains %q", k, text)
			}
		}
	}
}
