package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig_BuildFileOutput(t *testing.T) {
	c := DefaultConfig()
	c.OUTPUT = "file"
	c.Dir = t.TempDir()
	c.Name = "radar.log"
	c.Level = "debug"

	l := c.Build()
	l.Info("scan finished", FieldNetwork("solana"), Int("candidates", 3))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(filepath.Join(c.Dir, c.Name))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scan finished"`)
	assert.Contains(t, string(data), `"network":"solana"`)
	assert.Contains(t, string(data), `"logger":"radar.log"`)
}

func TestConfig_Level(t *testing.T) {
	c := DefaultConfig()
	c.Discard = true
	c.Level = "warn"

	l := c.Build()
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestSetDefault_Nil(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	SetDefault(nil)
	assert.NotNil(t, Default())
	Info("dropped")
}

func TestContextLogger(t *testing.T) {
	l := zap.NewExample()
	ctx := ContextWithLog(context.Background(), l)
	assert.Same(t, l, LogFromContext(ctx))

	assert.Equal(t, context.Background(), ContextWithLog(context.Background(), nil))
	assert.Same(t, Default(), LogFromContext(context.Background()))
}

func TestFieldCost(t *testing.T) {
	f := FieldCost(1500 * 1000)
	assert.Equal(t, "cost", f.Key)
	assert.Equal(t, "1.500", f.String)
}
