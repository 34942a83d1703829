package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedSlog(level zapcore.Level) (*slog.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)).Slog(), logs
}

func TestSlogBridge_WritesThroughZap(t *testing.T) {
	logger, logs := newObservedSlog(zapcore.InfoLevel)

	logger.InfoContext(context.Background(), "slot updated", "slotID", "slot-1", "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "slot updated" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}

	fields := entries[0].ContextMap()
	if fields["slotID"] != "slot-1" {
		t.Fatalf("expected slotID field, got %v", fields)
	}
	if fields["error"] != "boom" {
		t.Fatalf("expected error field, got %v", fields)
	}
}

func TestSlogBridge_RespectsLevel(t *testing.T) {
	logger, logs := newObservedSlog(zapcore.WarnLevel)

	logger.Info("ignored")
	logger.Warn("kept")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "kept" {
		t.Fatalf("expected only the warn entry, got %v", entries)
	}
}

func TestSlogBridge_WithAttrsAndGroup(t *testing.T) {
	logger, logs := newObservedSlog(zapcore.DebugLevel)

	logger.With("leagueID", "maplewood-2025").WithGroup("slot").Info("created", "id", "slot-9")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["leagueID"] != "maplewood-2025" {
		t.Fatalf("expected leagueID field, got %v", fields)
	}
	if fields["slot.id"] != "slot-9" {
		t.Fatalf("expected grouped slot.id field, got %v", fields)
	}
}
