package logging

import (
	"testing"

	"github.com/evanhutnik/bettermaps-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(tt *testing.T) {
	logger, err := New(config.LogConfig{Level: "warn"})
	require.NoError(tt, err)
	assert.False(tt, logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(tt, logger.Desugar().Core().Enabled(zapcore.WarnLevel))

	dev, err := New(config.LogConfig{Level: "debug", Development: true})
	require.NoError(tt, err)
	assert.True(tt, dev.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BadLevel(tt *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.ErrorContains(tt, err, "loud")
}
