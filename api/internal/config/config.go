package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultMaxImageBytes = 8 << 20

type Config struct {
	Port    string
	LogMode string

	// LLMName selects the default provider: "gemini" or "gpt".
	LLMName string

	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	TelegramBotToken string
	WebhookURL       string

	PromptFile    string
	MaxImageBytes int
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Load reads the environment, pulling in a .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8000"),
		LogMode: getEnv("LOG_MODE", "dev"),
		LLMName: strings.ToLower(getEnv("LLM_NAME", "gemini")),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("TELEGRAM_WEBHOOK_URL", ""),

		PromptFile:    getEnv("PROMPT_FILE", ""),
		MaxImageBytes: getEnvInt("MAX_IMAGE_BYTES", defaultMaxImageBytes),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the default provider has credentials.
func (c *Config) Validate() error {
	switch c.LLMName {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("missing required env GEMINI_API_KEY for LLM_NAME=%s", c.LLMName)
		}
	case "gpt", "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("missing required env OPENAI_API_KEY for LLM_NAME=%s", c.LLMName)
		}
	default:
		return fmt.Errorf("unknown LLM_NAME %q; use 'gemini' or 'gpt'", c.LLMName)
	}
	return nil
}

func (c *Config) TelegramEnabled() bool { return c.TelegramBotToken != "" }
