package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.15", cfg.TransportPrice.String())
	assert.Equal(t, "50", cfg.DefaultTieThreshold.String())
	assert.Equal(t, "PP01", cfg.OrderClass)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, "DG", cfg.CenterAliases["0833"])

	params, err := cfg.PlanParams()
	require.NoError(t, err)
	assert.Equal(t, "MCH", params.Centers.Aliases[entities.CenterID("0184")])
	assert.Equal(t, "fixed", params.PriceSource)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TRANSPORT_PRICE_PER_KM", "0.2")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CENTER_ALIASES", "A1=NORTE,B2=SUR")
	t.Setenv("CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.2", cfg.TransportPrice.String())
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, map[string]string{"A1": "NORTE", "B2": "SUR"}, cfg.CenterAliases)
	assert.Equal(t, "sourcing:plan:", cfg.RedisConfig().KeyPrefix)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ORDER_CLASS=ZP02\n"), 0o600))
	// godotenv never overrides variables already set
	t.Setenv("ORDER_CLASS", "")
	os.Unsetenv("ORDER_CLASS")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ZP02", cfg.OrderClass)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown cache backend", "CACHE_BACKEND", "disk"},
		{"unknown price source", "TRANSPORT_PRICE_SOURCE", "auction"},
		{"threshold over 100", "DEFAULT_TIE_THRESHOLD", "150"},
		{"negative price", "TRANSPORT_PRICE_PER_KM", "-1"},
		{"non numeric price", "TRANSPORT_PRICE_PER_KM", "cheap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseThresholds(t *testing.T) {
	th, err := ParseThresholds([]byte("default: 40\nweeks:\n  \"2025-W03\": 30\n  2025-W04: 12.5\n  2025-W05: \"70\"\n"))
	require.NoError(t, err)

	require.NotNil(t, th.Default)
	assert.Equal(t, "40", th.Default.String())
	assert.Equal(t, "30", th.Weeks["2025-W03"].String())
	assert.Equal(t, "12.5", th.Weeks["2025-W04"].String())
	assert.Equal(t, "70", th.Weeks["2025-W05"].String())

	_, err = ParseThresholds([]byte("weeks:\n  2025-W03: [1, 2]\n"))
	assert.Error(t, err)
}

func TestPlanParams_ThresholdsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weeks:\n  2025-W09: 30\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	cfg.ThresholdsFile = path

	params, err := cfg.PlanParams()
	require.NoError(t, err)
	assert.Equal(t, "30", params.Thresholds["2025-W09"].String())
	assert.Equal(t, "50", params.DefaultThreshold.String())
}
