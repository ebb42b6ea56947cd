package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPAddress(t *testing.T) {
	require.Equal(t, ":8080", Config{AppPort: "8080"}.HTTPAddress())
	require.Equal(t, ":9000", Config{AppPort: ":9000"}.HTTPAddress())
}

func TestRegistryConfigured(t *testing.T) {
	require.False(t, Config{}.RegistryConfigured())
	require.False(t, Config{RegistryAddress: "  "}.RegistryConfigured())
	// The frontend shipped with this placeholder before deployment.
	require.False(t, Config{RegistryAddress: "0x..."}.RegistryConfigured())
	require.True(t, Config{RegistryAddress: "0x1111111111111111111111111111111111111111"}.RegistryConfigured())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("POL_JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POL_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.AppPort)
	require.Equal(t, "https://api.deepseek.com", cfg.DeepSeekBaseURL)
	require.Equal(t, "deepseek-chat", cfg.DeepSeekModel)
	require.Equal(t, 700, cfg.DeepSeekMaxTokens)
	require.Equal(t, 50, cfg.ListPageSize)
}
