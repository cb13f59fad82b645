package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctxWithLogger := WithContext(ctx, logger)

	retrievedLogger := FromContext(ctxWithLogger)
	assert.NotNil(t, retrievedLogger)
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)

	// Should return a no-op logger
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	requestID := "req-123"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, requestID, GetRequestID(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()
	requestID := GetRequestID(ctx)
	assert.Empty(t, requestID)
}

func TestContextKeys(t *testing.T) {
	// Verify context keys are unique
	assert.NotEqual(t, LoggerKey, RequestIDKey)
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	logger := FromContext(ctx)

	// Should return a no-op logger when value is wrong type
	assert.NotNil(t, logger)
	// The no-op logger should not panic when used
	logger.Info("test")
}

func TestLoggerFromEnrichedContext(t *testing.T) {
	baseLogger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctx, enrichedLogger := WithRequestID(ctx, baseLogger, "req-test")

	// The logger in context should be the enriched one
	ctxLogger := FromContext(ctx)
	assert.NotNil(t, ctxLogger)

	// Verify it's the enriched logger, not the base logger
	assert.NotEqual(t, baseLogger, enrichedLogger)
}

func TestMultipleWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()

	// First call
	ctx, _ = WithRequestID(ctx, logger, "first-id")
	assert.Equal(t, "first-id", GetRequestID(ctx))

	// Second call should override
	ctx, _ = WithRequestID(ctx, logger, "second-id")
	assert.Equal(t, "second-id", GetRequestID(ctx))
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)

	// These should not panic
	assert.NotPanics(t, func() {
		logger.Info("test message")
		logger.Debug("debug message")
		logger.Warn("warn message")
		logger.Error("error message")
		logger.With(zap.String("key", "value")).Info("with field")
	})
}

// =============================================================================
// ContextLogger Tests
// =============================================================================

func TestL_ReturnsContextLogger(t *testing.T) {
	ctx := context.Background()
	cl := L(ctx)

	assert.NotNil(t, cl)
	assert.NotNil(t, cl.ctx)
	assert.NotNil(t, cl.logger)
}

func TestL_WithLoggerInContext(t *testing.T) {
	baseLogger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), baseLogger)
	cl := L(ctx)

	assert.NotNil(t, cl)
	// Logger should be extracted from context
	assert.NotNil(t, cl.logger)
}

func TestWithLogger_UsesProvidedLogger(t *testing.T) {
	baseLogger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	cl := WithLogger(ctx, baseLogger)

	assert.NotNil(t, cl)
	assert.Equal(t, baseLogger, cl.logger)
}

func TestContextLogger_With(t *testing.T) {
	// Use a real logger (not nop) to test With creates a new logger
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	baseLogger := zap.New(core)

	ctx := context.Background()
	cl := WithLogger(ctx, baseLogger)

	childCl := cl.With(zap.String("key", "value"))

	assert.NotNil(t, childCl)
	assert.Equal(t, ctx, childCl.ctx)
	// Child logger should be different from parent when using a real logger
	assert.NotEqual(t, baseLogger, childCl.logger)
}

func TestContextLogger_LogLevels(t *testing.T) {
	baseLogger := zap.NewNop()
	ctx := context.Background()
	cl := WithLogger(ctx, baseLogger)

	// These should not panic
	assert.NotPanics(t, func() {
		cl.Debug("debug message")
		cl.Info("info message")
		cl.Warn("warn message")
		cl.Error("error message")
	})
}

func TestContextLogger_Zap(t *testing.T) {
	baseLogger := zap.NewNop()
	ctx := context.Background()
	cl := WithLogger(ctx, baseLogger)

	zapLogger := cl.Zap()

	assert.NotNil(t, zapLogger)
	// Should be usable as a zap.Logger
	assert.NotPanics(t, func() {
		zapLogger.Info("test")
	})
}

func TestContextLogger_Sugar(t *testing.T) {
	baseLogger := zap.NewNop()
	ctx := context.Background()
	cl := WithLogger(ctx, baseLogger)

	sugar := cl.Sugar()

	assert.NotNil(t, sugar)
	// Should be usable as a sugared logger
	assert.NotPanics(t, func() {
		sugar.Infof("test %s", "message")
	})
}

func TestContextLogger_EnrichesWithContextFields(t *testing.T) {
	// Create a buffer to capture log output
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	baseLogger := zap.New(core)

	// Build context with a request ID
	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, baseLogger, "req-123")

	// Also add the logger to context so L() can find it
	ctx = WithContext(ctx, baseLogger)

	// Create ContextLogger and log
	cl := L(ctx)
	cl.Info("test message", zap.String("extra_field", "extra_value"))

	// Verify output contains expected fields
	output := buf.String()
	assert.Contains(t, output, `"request_id":"req-123"`)
	assert.Contains(t, output, `"extra_field":"extra_value"`)
	assert.Contains(t, output, `"msg":"test message"`)
}

func TestContextLogger_NilLogger(t *testing.T) {
	ctx := context.Background()
	cl := &ContextLogger{
		ctx:    ctx,
		logger: nil,
	}

	// Should not panic with nil logger - enrichedLogger handles this
	assert.NotPanics(t, func() {
		cl.Info("test")
	})
}

func TestContextLogger_EmptyContextFields(t *testing.T) {
	// Create a buffer to capture log output
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	baseLogger := zap.New(core)

	// Empty context (no fields set)
	ctx := context.Background()

	cl := WithLogger(ctx, baseLogger)
	cl.Info("test")

	// Should not contain the context field keys if they're empty
	output := buf.String()
	assert.Contains(t, output, `"msg":"test"`)
	// Empty request IDs are not added to the log
	assert.NotContains(t, output, `"request_id":""`)
}

func TestContextLogger_WithChaining(t *testing.T) {
	baseLogger := zap.NewNop()
	ctx := context.Background()

	cl := WithLogger(ctx, baseLogger).
		With(zap.String("field1", "value1")).
		With(zap.String("field2", "value2"))

	assert.NotNil(t, cl)
	// Should not panic when logging
	assert.NotPanics(t, func() {
		cl.Info("chained test")
	})
}
