package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable Load reads,
// e.g. VOICECARE_PUBSUB_TOPIC.
const EnvPrefix = "VOICECARE"

// ConfigDirEnv names the environment variable pointing at a directory that
// holds config.yaml.
const ConfigDirEnv = "VOICECARE_CONFIG_DIR"

// legacyEnv maps config keys to the unprefixed variable names the services
// have always been deployed with. Prefixed variables win when both are set.
var legacyEnv = map[string]string{
	"server.port":    "PORT",
	"gcp.project_id": "PROJECT_ID",
	"pubsub.topic":   "PUBSUB_TOPIC",
	"livekit.url":    "LIVEKIT_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("pubsub.topic", "voicecare-tasks")
	v.SetDefault("pubsub.dead_letter_topic", "")
	v.SetDefault("pubsub.publish_timeout", 10*time.Second)

	v.SetDefault("livekit.api_key_secret", "LIVEKIT_API_KEY")
	v.SetDefault("livekit.api_secret_secret", "LIVEKIT_API_SECRET")
	v.SetDefault("livekit.client_token_ttl", time.Hour)
	v.SetDefault("livekit.worker_token_ttl", 30*time.Minute)

	v.SetDefault("secrets.provider", "gcp")

	v.SetDefault("worker.identity", "ai-worker")
	v.SetDefault("worker.session_timeout", 30*time.Minute)
	v.SetDefault("worker.max_sessions", 16)
	v.SetDefault("worker.response_delay", time.Second)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")

	// Keys without a default must still be known to viper for AutomaticEnv
	// to pick them up during Unmarshal.
	v.SetDefault("gcp.project_id", "")
	v.SetDefault("livekit.url", "")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if os.Getenv(prefixed) != "" {
			continue
		}
		if value := os.Getenv(name); value != "" {
			v.Set(key, value)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
