package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNopBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("before init", zap.String("k", "v"))
		NewAsynqLogger().Warn("asynq", "warn")
	})
}

func TestInitWithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "escrow.log")
	Init("production", file)
	defer func() { Log = zap.NewNop() }()

	Info("campaign created", zap.String("campaign_id", "c1"))
	Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "campaign created")
	assert.Contains(t, string(data), `"campaign_id":"c1"`)
}
