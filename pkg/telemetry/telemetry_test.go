package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDisabledProvider(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Nil(t, p.tracerProvider, "disabled telemetry must not build exporters")
	require.Nil(t, p.meterProvider)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewNilConfigUsesDefaults(t *testing.T) {
	p, err := New(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "certcore", p.config.ServiceName)
	require.False(t, p.config.Enabled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.True(t, cfg.Insecure)
	require.False(t, cfg.Enabled)
}
