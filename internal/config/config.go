package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string

	// Text generation
	AnthropicAPIKey string
	TextModel       string

	// Image generation
	ImageEndpoint string
	ImageAPIKey   string

	// Rasterizer service (headless chromium over HTTP)
	RasterizerURL     string
	RasterizerTimeout int // seconds

	// Artifact storage root
	OutputDir string

	// Optional TTF used for text on placeholder hero images
	PlaceholderFont string

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		TextModel:       getEnv("TEXT_MODEL", "claude-haiku-4-5-20251001"),

		ImageEndpoint: getEnv("IMAGE_ENDPOINT", ""),
		ImageAPIKey:   getEnv("IMAGE_API_KEY", ""),

		RasterizerURL:     getEnv("RASTERIZER_URL", "http://localhost:9090"),
		RasterizerTimeout: getEnvInt("RASTERIZER_TIMEOUT", 45),

		OutputDir: getEnv("OUTPUT_DIR", "output"),

		PlaceholderFont: getEnv("PLACEHOLDER_FONT", ""),

		// Debug defaults to true outside prod
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment.
// TABLE_PREFIX takes precedence when set.
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
