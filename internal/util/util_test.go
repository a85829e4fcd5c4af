package util

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger("development", "warn", zap.String("session_id", "test")))
	defer SyncLogger()

	assert.False(t, GetLogger().Core().Enabled(zap.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zap.WarnLevel))
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger("development", "loud"))
}

func TestWriteMetrics(t *testing.T) {
	OrdersAddedTotal.Inc()

	path := filepath.Join(t.TempDir(), "flooring.prom")
	require.NoError(t, WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "flooring_orders_added_total")
}

func TestInitTracerWithoutExporter(t *testing.T) {
	tp, err := InitTracer("flooring-test", "")
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := StartSpan(context.Background(), "test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
