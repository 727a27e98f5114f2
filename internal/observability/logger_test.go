package observability

import (
	"testing"

	"github.com/railzwaylabs/subcommerce/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildLogger(t *testing.T) {
	log, err := buildLogger(config.ObservabilityConfig{LogLevel: "warn", LogFormat: "json"})
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = buildLogger(config.ObservabilityConfig{LogLevel: "loud", LogFormat: "json"})
	require.Error(t, err)
}
