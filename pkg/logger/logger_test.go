package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func swapGlobal(t *testing.T, replacement *zap.Logger) {
	t.Helper()
	mu.Lock()
	previous := global
	global = replacement
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		global = previous
		mu.Unlock()
	})
}

func TestInitSetsLevel(t *testing.T) {
	swapGlobal(t, zap.NewNop())

	if err := Init("debug"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !Logger().Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != zapcore.InfoLevel {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := parseLevel(""); got != zapcore.InfoLevel {
		t.Fatalf("expected info fallback for empty level, got %v", got)
	}
	if got := parseLevel("warn"); got != zapcore.WarnLevel {
		t.Fatalf("expected warn, got %v", got)
	}
}

func TestHelpersWriteThroughGlobal(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	swapGlobal(t, zap.New(core))

	Info("user created", zap.String("tenant_id", "t-1"))
	Warn("audit write failed")
	Error("login rejected")
	Debug("override snapshot assembled")

	entries := recorded.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].Message != "user created" {
		t.Fatalf("unexpected first message: %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["tenant_id"]; got != "t-1" {
		t.Fatalf("expected tenant_id field, got %v", got)
	}
	if entries[2].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[2].Level)
	}
}

func TestWithModuleAnnotatesChild(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	swapGlobal(t, zap.New(core))

	WithModule("middleware").Info("tenant resolved")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["module"]; got != "middleware" {
		t.Fatalf("expected module field middleware, got %v", got)
	}
}
