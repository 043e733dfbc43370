package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// 测试WithContext注入的字段会出现在后续日志中
func TestWithContextCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	original := Instance
	Instance = zap.New(core)
	defer func() { Instance = original }()

	ctx := WithContext(context.Background(),
		zap.String("trace_id", "abc123"),
		zap.String("client_ip", "10.0.0.1"),
	)

	Info(ctx, "request handled", zap.Int("status", 200))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc123", fields["trace_id"])
	assert.Equal(t, "10.0.0.1", fields["client_ip"])
	assert.Equal(t, int64(200), fields["status"])
}

// 测试FromContext的回退行为
func TestFromContextFallback(t *testing.T) {
	assert.Same(t, Instance, FromContext(nil))
	assert.Same(t, Instance, FromContext(context.Background()))

	ctx := WithContext(context.Background(), zap.String("key", "value"))
	assert.NotSame(t, Instance, FromContext(ctx))
}
