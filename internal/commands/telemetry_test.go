package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-profiles/pkg/interfaces"
)

type levelLogger struct {
	infos  []string
	errors []string
}

func (l *levelLogger) Trace(msg string, args ...any) {}
func (l *levelLogger) Debug(msg string, args ...any) {}
func (l *levelLogger) Info(msg string, args ...any)  { l.infos = append(l.infos, msg) }
func (l *levelLogger) Warn(msg string, args ...any)  {}
func (l *levelLogger) Error(msg string, args ...any) { l.errors = append(l.errors, msg) }
func (l *levelLogger) Fatal(msg string, args ...any) {}

func (l *levelLogger) WithContext(ctx context.Context) interfaces.Logger { return l }

func TestDefaultTelemetryLogsWithPlainLeveledLogger(t *testing.T) {
	logger := &levelLogger{}
	telemetry := DefaultTelemetry[testMessage](logger)

	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Command:  "profiles.test.message",
		Fields:   map[string]any{"subject": "abc"},
		Duration: 5 * time.Millisecond,
		Status:   TelemetryStatusSuccess,
	})

	if len(logger.infos) != 1 || logger.infos[0] != "command.execute.success" {
		t.Fatalf("expected one success entry, got %v", logger.infos)
	}
}

func TestDefaultTelemetryLogsFailureOutcome(t *testing.T) {
	logger := &levelLogger{}
	telemetry := DefaultTelemetry[testMessage](logger)

	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Command:  "profiles.test.message",
		Fields:   map[string]any{"subject": "abc"},
		Duration: time.Millisecond,
		Error:    errors.New("boom"),
		Status:   TelemetryStatusFailed,
	})

	if len(logger.errors) != 1 || logger.errors[0] != "command.execute.failed" {
		t.Fatalf("expected one failure entry, got %v", logger.errors)
	}
}
