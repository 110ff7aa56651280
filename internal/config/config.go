package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	LogLevel    string `yaml:"log_level"`
	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// Process-wide AI provider keys, used when a user has not configured their own.
	GeminiAPIKey    string        `yaml:"gemini_api_key"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	AITimeout       time.Duration `yaml:"ai_timeout"`

	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins"`
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "5000"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBDriver:        getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:     getEnv("DATABASE_URL", "host=localhost user=streamline password=streamline dbname=streamline_db port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-this"),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AITimeout:       time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

// LoadFile loads the environment configuration and then overlays any
// values set in the YAML file at path.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
