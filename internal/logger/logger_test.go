package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("DebugLevelEnablesDebug", func(t *testing.T) {
		Initialize("debug", "text")
		assert.True(t, Get().Enabled(ctx, slog.LevelDebug))
	})

	t.Run("ErrorLevelSuppressesWarn", func(t *testing.T) {
		Initialize("error", "json")
		assert.False(t, Get().Enabled(ctx, slog.LevelWarn))
		assert.True(t, Get().Enabled(ctx, slog.LevelError))
	})

	t.Run("UnknownLevelFallsBackToInfo", func(t *testing.T) {
		Initialize("verbose", "text")
		assert.False(t, Get().Enabled(ctx, slog.LevelDebug))
		assert.True(t, Get().Enabled(ctx, slog.LevelInfo))
	})

	t.Run("WarningAliasAccepted", func(t *testing.T) {
		Initialize("warning", "text")
		assert.False(t, Get().Enabled(ctx, slog.LevelInfo))
		assert.True(t, Get().Enabled(ctx, slog.LevelWarn))
	})
}

func TestGetInitializesLazily(t *testing.T) {
	defaultLogger = nil
	require.NotNil(t, Get())
}

func TestTraceHelpers(t *testing.T) {
	Initialize("debug", "json")
	boom := errors.New("boom")

	// The helpers build their attribute lists from variadic args; this
	// exercises both the success and error paths.
	EnterMethod("svc.Method", "key", "value")
	ExitMethod("svc.Method", "count", 3)
	ExitMethodWithError("svc.Method", boom, "key", "value")
	DatabaseCall("SELECT", "audit_events", "limit", 10)
	DatabaseResult("SELECT", 5, nil)
	DatabaseResult("SELECT", 0, boom)
	ExternalServiceCall("sendgrid", "Send", "subject", "hi")
	ExternalServiceResult("sendgrid", "Send", nil)
	ExternalServiceResult("sendgrid", "Send", boom)
}
