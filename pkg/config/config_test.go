package config_test

import (
	"testing"

	"github.com/jhoicas/fabrica-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannelMarkers_ConservaOrden(t *testing.T) {
	markers, err := config.ParseChannelMarkers(" ML=MERCADOLIVRE , SH=SHOPEE,,")
	require.NoError(t, err)
	assert.Equal(t, []config.ChannelMarker{
		{Suffix: "ML", Channel: "MERCADOLIVRE"},
		{Suffix: "SH", Channel: "SHOPEE"},
	}, markers)
}

func TestParseChannelMarkers_Vacio(t *testing.T) {
	markers, err := config.ParseChannelMarkers("")
	require.NoError(t, err)
	assert.Empty(t, markers)
}

func TestParseChannelMarkers_EntradaInvalida(t *testing.T) {
	_, err := config.ParseChannelMarkers("ML")
	assert.Error(t, err)

	_, err = config.ParseChannelMarkers("=SHOPEE")
	assert.Error(t, err)
}

func TestLoad_DriverMemoria(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("SCAN_CHANNEL_MARKERS", "FX=FLEX")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SCAN_LOCK_TTL_SECONDS", "5")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "5s", cfg.Redis.LockTTL.String())
	require.Len(t, cfg.Scan.ChannelMarkers, 1)
	assert.Equal(t, "FLEX", cfg.Scan.ChannelMarkers[0].Channel)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}
