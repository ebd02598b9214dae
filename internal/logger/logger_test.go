package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInit_Environments(t *testing.T) {
	t.Run("production logs info and above", func(t *testing.T) {
		Init("production")
		assert.NotNil(t, L())
		assert.False(t, L().Core().Enabled(zapcore.DebugLevel))
		assert.True(t, L().Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("development logs debug", func(t *testing.T) {
		Init("development")
		assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
	})
}

func TestL_LazyInit(t *testing.T) {
	log = nil
	t.Setenv("APP_ENV", "production")
	assert.NotNil(t, L())
	Sync()
}
