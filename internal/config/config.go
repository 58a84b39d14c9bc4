// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// LLMConfig holds the connection settings for a single LLM provider.
// API keys come from the environment; URLs and models have the provider
// defaults baked in so a bare key is enough to activate a provider.
type LLMConfig struct {
	APIKey      string
	APIURL      string
	Model       string
	MaxTokens   int
	Temperature float64
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

type WorkerConfig struct {
	Enabled          bool
	IntervalHours    int
	FreshnessDays    int
	ProgressLogEvery int
}

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	Database DatabaseConfig
	Auth     AuthConfig
	Worker   WorkerConfig

	OpenAI     LLMConfig
	Gemini     LLMConfig
	Anthropic  LLMConfig
	Grok       LLMConfig
	Mistral    LLMConfig
	Perplexity LLMConfig

	// Model used for company extraction and keyword generation.
	ExtractionModel       string
	ExtractionTemperature float64
	ExtractionMaxTokens   int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

func Load() *Config {
	config := &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	dbConfig, err := parseDatabaseConfig()
	if err != nil {
		// If DATABASE_URL parsing fails, try individual env vars as fallback
		dbConfig = DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "rankscope"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
		}
	}
	config.Database = dbConfig

	config.Auth = AuthConfig{
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTLHours: getEnvInt("JWT_TTL_HOURS", 24),
	}

	config.Worker = WorkerConfig{
		Enabled:          getEnvBool("WORKER_ENABLED", false),
		IntervalHours:    getEnvInt("WORKER_INTERVAL_HOURS", 336), // two weeks
		FreshnessDays:    getEnvInt("SERP_FRESHNESS_DAYS", 14),
		ProgressLogEvery: getEnvInt("WORKER_PROGRESS_EVERY", 10),
	}

	config.OpenAI = LLMConfig{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		APIURL:      getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 2000),
		Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
	}
	config.Gemini = LLMConfig{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		APIURL:      getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"),
		Model:       getEnv("GEMINI_MODEL", "gemini-pro"),
		MaxTokens:   getEnvInt("GEMINI_MAX_TOKENS", 2000),
		Temperature: getEnvFloat("GEMINI_TEMPERATURE", 0.7),
	}
	config.Anthropic = LLMConfig{
		APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		APIURL:      getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
		Model:       getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		MaxTokens:   getEnvInt("ANTHROPIC_MAX_TOKENS", 2000),
		Temperature: getEnvFloat("ANTHROPIC_TEMPERATURE", 0.7),
	}
	config.Grok = LLMConfig{
		APIKey:      os.Getenv("GROK_API_KEY"),
		APIURL:      getEnv("GROK_API_URL", "https://api.x.ai/v1/chat/completions"),
		Model:       getEnv("GROK_MODEL", "grok-beta"),
		MaxTokens:   getEnvInt("GROK_MAX_TOKENS", 2000),
		Temperature: getEnvFloat("GROK_TEMPERATURE", 0.7),
	}
	config.Mistral = LLMConfig{
		APIKey:      os.Getenv("MISTRAL_API_KEY"),
		APIURL:      getEnv("MISTRAL_API_URL", "https://api.mistral.ai/v1/chat/completions"),
		Model:       getEnv("MISTRAL_MODEL", "mistral-small-latest"),
		MaxTokens:   getEnvInt("MISTRAL_MAX_TOKENS", 2000),
		Temperature: getEnvFloat("MISTRAL_TEMPERATURE", 0.7),
	}
	config.Perplexity = LLMConfig{
		APIKey:      os.Getenv("PERPLEXITY_API_KEY"),
		APIURL:      getEnv("PERPLEXITY_API_URL", "https://api.perplexity.ai/chat/completions"),
		Model:       getEnv("PERPLEXITY_MODEL", "sonar"),
		MaxTokens:   getEnvInt("PERPLEXITY_MAX_TOKENS", 2000),
		Temperature: getEnvFloat("PERPLEXITY_TEMPERATURE", 0.7),
	}

	config.ExtractionModel = getEnv("EXTRACTION_MODEL", "gpt-4o-mini")
	config.ExtractionTemperature = getEnvFloat("EXTRACTION_TEMPERATURE", 0.3)
	config.ExtractionMaxTokens = getEnvInt("EXTRACTION_MAX_TOKENS", 200)

	return config
}

// LLMConfigByName returns the configured settings for a provider name.
func (c *Config) LLMConfigByName(name string) (LLMConfig, bool) {
	switch name {
	case "openai":
		return c.OpenAI, true
	case "gemini":
		return c.Gemini, true
	case "anthropic":
		return c.Anthropic, true
	case "grok":
		return c.Grok, true
	case "mistral":
		return c.Mistral, true
	case "perplexity":
		return c.Perplexity, true
	}
	return LLMConfig{}, false
}

func parseDatabaseConfig() (DatabaseConfig, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return DatabaseConfig{}, fmt.Errorf("DATABASE_URL not set")
	}

	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	config := DatabaseConfig{
		Host:            parsedURL.Hostname(),
		Port:            5432, // default
		User:            parsedURL.User.Username(),
		Name:            parsedURL.Path[1:], // remove leading slash
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
	}

	if password, ok := parsedURL.User.Password(); ok {
		config.Password = password
	}

	if parsedURL.Port() != "" {
		if port, err := strconv.Atoi(parsedURL.Port()); err == nil {
			config.Port = port
		}
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
