package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "")
	t.Setenv("ASSISTANT_TIMEOUT", "")
	t.Setenv("TRUSTED_PROXIES", "")
	t.Setenv("ADMIN_ADDR", "")

	cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":5641", cfg.HTTPAddr)
	assert.Equal(t, ":5642", cfg.GRPCAddr)
	assert.Equal(t, ProviderGemini, cfg.ModelProvider)
	assert.Equal(t, "gemini-1.5-flash-latest", cfg.GeminiModel)
	assert.Equal(t, 5*time.Second, cfg.AssistantTimeout)
	assert.Equal(t, 5, cfg.ContactRateLimit)
	assert.Equal(t, time.Hour, cfg.ContactRateWindow)
	assert.Equal(t, "portfolio.leads", cfg.LeadsExchange)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "127.0.0.1:5643", cfg.AdminAddr)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestNewConfig_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.7, 2001:db8::/32")

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
		netip.MustParsePrefix("2001:db8::/32"),
	}, cfg.TrustedProxies)
}

func TestNewConfig_FromEnvFile(t *testing.T) {
	// godotenv не перезаписывает уже заданные переменные, поэтому очищаем их
	for _, key := range []string{"MODEL_PROVIDER", "MISTRAL_API_KEY", "ASSISTANT_TIMEOUT", "CORS_ALLOWED_ORIGINS", "PG_HOST"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "MODEL_PROVIDER=Mistral\n" +
		"MISTRAL_API_KEY=secret\n" +
		"ASSISTANT_TIMEOUT=2500ms\n" +
		"CORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n" +
		"PG_HOST=db\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderMistral, cfg.ModelProvider)
	assert.Equal(t, "secret", cfg.ModelApiKey())
	assert.Equal(t, 2500*time.Millisecond, cfg.AssistantTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.DatabaseEnabled())
	assert.Contains(t, cfg.DatabaseURL(), "host=db port=5432")
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "MODEL_PROVIDER", "openai"},
		{"zero timeout", "ASSISTANT_TIMEOUT", "0s"},
		{"negative rate limit", "CONTACT_RATE_LIMIT", "-1"},
		{"bad trusted proxy", "TRUSTED_PROXIES", "10.0.0.0/8,proxy.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewConfig("")
			assert.Error(t, err)
		})
	}
}

func TestModelApiKeyMissingIsNotFatal(t *testing.T) {
	t.Setenv("MODEL_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := NewConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.ModelApiKey())
}
