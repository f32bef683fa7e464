package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini  = "gemini"
	ProviderMistral = "mistral"
)

type Config struct {
	HTTPAddr       string
	GRPCAddr       string
	AdminAddr      string
	AppEnv         string
	AppVersion     string
	LogLevel       string
	CORSOrigins    []string
	TrustedProxies []netip.Prefix

	ModelProvider    string
	GeminiApiKey     string
	GeminiModel      string
	MistralApiKey    string
	MistralModel     string
	MistralBaseURL   string
	AssistantTimeout time.Duration

	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string
	PgName     string

	RedisAddr         string
	ContactRateLimit  int
	ContactRateWindow time.Duration

	RabbitMQURL   string
	LeadsExchange string
}

// NewConfig читает переменные окружения. Файл path необязателен:
// если его нет, используются только переменные процесса и значения по умолчанию.
func NewConfig(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", path, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	proxies, err := parsePrefixes(splitList(v.GetString("TRUSTED_PROXIES")))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	cfg := &Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		GRPCAddr:       v.GetString("GRPC_ADDR"),
		AdminAddr:      v.GetString("ADMIN_ADDR"),
		AppEnv:         v.GetString("APP_ENV"),
		AppVersion:     v.GetString("APP_VERSION"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		CORSOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		TrustedProxies: proxies,

		ModelProvider:    strings.ToLower(v.GetString("MODEL_PROVIDER")),
		GeminiApiKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		MistralApiKey:    v.GetString("MISTRAL_API_KEY"),
		MistralModel:     v.GetString("MISTRAL_MODEL"),
		MistralBaseURL:   v.GetString("MISTRAL_BASE_URL"),
		AssistantTimeout: v.GetDuration("ASSISTANT_TIMEOUT"),

		PgHost:     v.GetString("PG_HOST"),
		PgPort:     v.GetString("PG_PORT"),
		PgUser:     v.GetString("PG_USER"),
		PgPassword: v.GetString("PG_PASSWORD"),
		PgName:     v.GetString("PG_NAME"),

		RedisAddr:         v.GetString("REDIS_ADDR"),
		ContactRateLimit:  v.GetInt("CONTACT_RATE_LIMIT"),
		ContactRateWindow: v.GetDuration("CONTACT_RATE_WINDOW"),

		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		LeadsExchange: v.GetString("LEADS_EXCHANGE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":5641")
	v.SetDefault("GRPC_ADDR", ":5642")
	v.SetDefault("ADMIN_ADDR", "127.0.0.1:5643")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MODEL_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash-latest")
	v.SetDefault("MISTRAL_MODEL", "mistral-small-latest")
	v.SetDefault("MISTRAL_BASE_URL", "https://api.mistral.ai")
	v.SetDefault("ASSISTANT_TIMEOUT", "5s")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("CONTACT_RATE_LIMIT", 5)
	v.SetDefault("CONTACT_RATE_WINDOW", "1h")
	v.SetDefault("LEADS_EXCHANGE", "portfolio.leads")
}

func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGemini, ProviderMistral:
	default:
		return fmt.Errorf("MODEL_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderMistral, c.ModelProvider)
	}
	if c.AssistantTimeout <= 0 {
		return fmt.Errorf("ASSISTANT_TIMEOUT must be positive, got %s", c.AssistantTimeout)
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.ContactRateLimit <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT must be positive, got %d", c.ContactRateLimit)
	}
	if c.ContactRateWindow <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW must be positive, got %s", c.ContactRateWindow)
	}
	return nil
}

// ModelApiKey возвращает ключ выбранного провайдера
func (c *Config) ModelApiKey() string {
	if c.ModelProvider == ProviderMistral {
		return c.MistralApiKey
	}
	return c.GeminiApiKey
}

// DatabaseEnabled - задан ли хост Postgres. Без базы форма контактов не принимает заявки.
func (c *Config) DatabaseEnabled() bool {
	return c.PgHost != ""
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PgHost, c.PgPort, c.PgUser, c.PgPassword, c.PgName)
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePrefixes принимает CIDR или одиночные адреса
func parsePrefixes(items []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(items))
	for _, item := range items {
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(item)
		if err != nil {
			return nil, err
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}
