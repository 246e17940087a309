package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Chat bot
	Telegram     TelegramConfig
	OpenAI       OpenAIConfig
	Conversation ConversationConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string `validate:"oneof=development production"`
}

type HTTPServerConfig struct {
	Port int    `validate:"min=1,max=65535"`
	Mode string `validate:"oneof=debug release test"`
}

type LoggerConfig struct {
	Level        string `validate:"oneof=debug info warn warning error dpanic panic fatal"`
	Mode         string `validate:"oneof=debug development production"`
	Encoding     string `validate:"oneof=console json"`
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken    string `validate:"required"`
	WebhookURL  string `validate:"omitempty,url"`
	SecretToken string `validate:"omitempty,max=256"`
	// NgrokAPIURL is queried for a public tunnel when WebhookURL is empty.
	NgrokAPIURL string `validate:"omitempty,url"`
}

type OpenAIConfig struct {
	BaseURL  string        `validate:"required,url"`
	Model    string        `validate:"required"`
	APIKey   string        `validate:"required"`
	Preamble string        `validate:"required"`
	Timeout  time.Duration `validate:"gt=0"`
}

type ConversationConfig struct {
	MaxHistory     int           `validate:"min=1"`
	RequestTimeout time.Duration `validate:"gt=0"`
	// RecordReplies also stores assistant replies in the history.
	RecordReplies bool
}

type WebhookConfig struct {
	AllowedIPs      []string `validate:"dive,required"`
	TrustedProxies  []string `validate:"dive,required"` // may set X-Forwarded-For; empty trusts none
	RateLimitPerMin int      `validate:"min=0"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
// Every key can be overridden from the environment, e.g. OPENAI_API_KEY.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Chat bot
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = v.GetString("telegram.webhook_url")
	cfg.Telegram.SecretToken = v.GetString("telegram.secret_token")
	cfg.Telegram.NgrokAPIURL = v.GetString("telegram.ngrok_api_url")

	cfg.OpenAI.BaseURL = strings.TrimRight(v.GetString("openai.base_url"), "/")
	cfg.OpenAI.Model = v.GetString("openai.model")
	cfg.OpenAI.APIKey = v.GetString("openai.api_key")
	cfg.OpenAI.Preamble = v.GetString("openai.preamble")
	cfg.OpenAI.Timeout = v.GetDuration("openai.timeout")

	cfg.Conversation.MaxHistory = v.GetInt("conversation.max_history")
	cfg.Conversation.RequestTimeout = v.GetDuration("conversation.request_timeout")
	cfg.Conversation.RecordReplies = v.GetBool("conversation.record_replies")

	// Webhooks
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.AllowedIPs = splitList(v.GetString("webhook.allowed_ips"))
	cfg.Webhook.TrustedProxies = splitList(v.GetString("webhook.trusted_proxies"))

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.preamble", "You are Misaka. Always reply to me as Misaka.")
	v.SetDefault("openai.timeout", "60s")

	v.SetDefault("conversation.max_history", 50)
	v.SetDefault("conversation.request_timeout", "90s")
	v.SetDefault("conversation.record_replies", false)

	v.SetDefault("webhook.rate_limit_per_min", 60)
}

// splitList parses a comma separated list; viper does not split lists
// coming from the environment.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
