package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	GCP     GCPConfig     `mapstructure:"gcp" validate:"required"`
	PubSub  PubSubConfig  `mapstructure:"pubsub" validate:"required"`
	LiveKit LiveKitConfig `mapstructure:"livekit" validate:"required"`
	Secrets SecretsConfig `mapstructure:"secrets" validate:"required"`
	Worker  WorkerConfig  `mapstructure:"worker" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
	// ShutdownTimeout bounds how long in-flight requests get to drain.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// GCPConfig identifies the Google Cloud project hosting Pub/Sub and Secret Manager.
type GCPConfig struct {
	ProjectID string `mapstructure:"project_id" validate:"required"`
}

// PubSubConfig contains the queue settings.
type PubSubConfig struct {
	Topic string `mapstructure:"topic" validate:"required"`
	// DeadLetterTopic receives malformed or unroutable pushes. Empty disables it.
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	PublishTimeout  time.Duration `mapstructure:"publish_timeout" validate:"gt=0"`
}

// LiveKitConfig contains the real-time server location and the names of the
// secrets holding its API key pair. The key pair itself is never configured
// directly.
type LiveKitConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	APIKeySecret    string        `mapstructure:"api_key_secret" validate:"required"`
	APISecretSecret string        `mapstructure:"api_secret_secret" validate:"required"`
	ClientTokenTTL  time.Duration `mapstructure:"client_token_ttl" validate:"gt=0"`
	WorkerTokenTTL  time.Duration `mapstructure:"worker_token_ttl" validate:"gt=0"`
}

// SecretsConfig selects where secrets are resolved from at startup.
type SecretsConfig struct {
	// Provider is "gcp" for Secret Manager or "env" to read environment variables.
	Provider string `mapstructure:"provider" validate:"required,oneof=gcp env"`
}

// WorkerConfig tunes the dispatch worker.
type WorkerConfig struct {
	Identity       string        `mapstructure:"identity" validate:"required"`
	SessionTimeout time.Duration `mapstructure:"session_timeout" validate:"gt=0"`
	MaxSessions    int           `mapstructure:"max_sessions" validate:"gt=0"`
	ResponseDelay  time.Duration `mapstructure:"response_delay" validate:"gte=0"`
}

// LLMConfig enables generated replies for ai_response tasks when an API key is set.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model"`
}
