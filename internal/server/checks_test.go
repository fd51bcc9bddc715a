package server

import (
	"context"
	"testing"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/config"
	"github.com/namevetter/namevetter/internal/core/platforms"
	"github.com/namevetter/namevetter/internal/observability"
)

func TestPlatformTableCheck(t *testing.T) {
	table, err := platforms.Default()
	require.NoError(t, err)

	assert.NoError(t, PlatformTableCheck(table).CheckHealth(context.Background()))
	assert.Error(t, PlatformTableCheck(emptyTable{}).CheckHealth(context.Background()))
	assert.Error(t, PlatformTableCheck(nil).CheckHealth(context.Background()))
}

func TestTelemetryCheck(t *testing.T) {
	original := observability.TelemetrySystem
	t.Cleanup(func() { observability.TelemetrySystem = original })

	observability.TelemetrySystem = nil
	assert.NoError(t, TelemetryCheck(false).CheckHealth(context.Background()))
	assert.Error(t, TelemetryCheck(true).CheckHealth(context.Background()))

	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: telemetrytesting.NewFakeCollector()})
	require.NoError(t, err)
	observability.TelemetrySystem = sys
	assert.NoError(t, TelemetryCheck(true).CheckHealth(context.Background()))
}

func TestConfigCheck(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	_, err := config.Load(v)
	require.NoError(t, err)

	assert.NoError(t, ConfigCheck().CheckHealth(context.Background()))
}
