package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TelegramConfig holds the optional notification channel credentials
type TelegramConfig struct {
	ClientID    string
	ClientToken string
	ChatID      string
	ThreadID    string
}

// Config represents the process-wide application configuration.
// It is loaded once at startup and treated as immutable afterwards.
type Config struct {
	Port      string
	Mode      string
	Validator *validator.Validate
	Webhooks  []string
	Telegram  TelegramConfig
}

var instance *Config

// App returns the singleton application configuration
func App() *Config {
	if instance == nil {
		instance = &Config{
			Port:      GetEnv("APP_PORT", "3000"),
			Mode:      GetEnv("MODE", "production"),
			Validator: validator.New(),
			Webhooks:  ParseWebhookList(GetEnv("WEBHOOK_URLS", "")),
			Telegram: TelegramConfig{
				ClientID:    GetEnv("TELEGRAM_CLIENT_ID", ""),
				ClientToken: GetEnv("TELEGRAM_CLIENT_TOKEN", ""),
				ChatID:      GetEnv("TELEGRAM_CHAT_ID", ""),
				ThreadID:    GetEnv("TELEGRAM_THREAD_ID", ""),
			},
		}
	}
	return instance
}

// ParseWebhookList splits a comma separated subscriber list, trimming
// whitespace and dropping empty entries. Duplicates are kept.
func ParseWebhookList(raw string) []string {
	if raw == "" {
		return nil
	}
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if url := strings.TrimSpace(part); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
