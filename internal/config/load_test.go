package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
// An empty value hides any value inherited from the outer environment.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// requiredEnv holds the variables that have no default.
func requiredEnv() map[string]string {
	return map[string]string{
		"VOICECARE_GCP_PROJECT_ID": "test-project",
		"VOICECARE_LIVEKIT_URL":    "wss://livekit.example.com",
		"PROJECT_ID":               "",
		"PUBSUB_TOPIC":             "",
		"LIVEKIT_URL":              "",
		"PORT":                     "",
		ConfigDirEnv:               "",
	}
}

func TestLoadDefaults(t *testing.T) {
	setupEnv(t, requiredEnv())
	setupEnv(t, map[string]string{
		"VOICECARE_SERVER_PORT":      "",
		"VOICECARE_SERVER_LOG_LEVEL": "",
		"VOICECARE_PUBSUB_TOPIC":     "",
	})

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, "voicecare-tasks", cfg.PubSub.Topic)
	assert.Equal(t, 10*time.Second, cfg.PubSub.PublishTimeout)
	assert.Equal(t, time.Hour, cfg.LiveKit.ClientTokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.LiveKit.WorkerTokenTTL)
	assert.Equal(t, "LIVEKIT_API_KEY", cfg.LiveKit.APIKeySecret)
	assert.Equal(t, "LIVEKIT_API_SECRET", cfg.LiveKit.APISecretSecret)
	assert.Equal(t, "gcp", cfg.Secrets.Provider)
	assert.Equal(t, "ai-worker", cfg.Worker.Identity)
	assert.Equal(t, 30*time.Minute, cfg.Worker.SessionTimeout)
	assert.Equal(t, time.Second, cfg.Worker.ResponseDelay)
	assert.Empty(t, cfg.PubSub.DeadLetterTopic)
}

func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, requiredEnv())
	setupEnv(t, map[string]string{
		"VOICECARE_SERVER_PORT":              "9090",
		"VOICECARE_SERVER_LOG_LEVEL":         "debug",
		"VOICECARE_SERVER_LOG_FORMAT":        "text",
		"VOICECARE_PUBSUB_TOPIC":             "custom-topic",
		"VOICECARE_PUBSUB_DEAD_LETTER_TOPIC": "custom-dlq",
		"VOICECARE_PUBSUB_PUBLISH_TIMEOUT":   "3s",
		"VOICECARE_LIVEKIT_CLIENT_TOKEN_TTL": "2h",
		"VOICECARE_SECRETS_PROVIDER":         "env",
		"VOICECARE_WORKER_MAX_SESSIONS":      "4",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "text", cfg.Server.LogFormat)
	assert.Equal(t, "test-project", cfg.GCP.ProjectID)
	assert.Equal(t, "custom-topic", cfg.PubSub.Topic)
	assert.Equal(t, "custom-dlq", cfg.PubSub.DeadLetterTopic)
	assert.Equal(t, 3*time.Second, cfg.PubSub.PublishTimeout)
	assert.Equal(t, 2*time.Hour, cfg.LiveKit.ClientTokenTTL)
	assert.Equal(t, "env", cfg.Secrets.Provider)
	assert.Equal(t, 4, cfg.Worker.MaxSessions)
}

func TestLoadLegacyEnvNames(t *testing.T) {
	setupEnv(t, map[string]string{
		"VOICECARE_GCP_PROJECT_ID": "",
		"VOICECARE_LIVEKIT_URL":    "",
		"VOICECARE_PUBSUB_TOPIC":   "",
		"VOICECARE_SERVER_PORT":    "",
		ConfigDirEnv:               "",
		"PROJECT_ID":               "legacy-project",
		"PUBSUB_TOPIC":             "legacy-topic",
		"LIVEKIT_URL":              "https://livekit.example.com",
		"PORT":                     "7070",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "legacy-project", cfg.GCP.ProjectID)
	assert.Equal(t, "legacy-topic", cfg.PubSub.Topic)
	assert.Equal(t, "https://livekit.example.com", cfg.LiveKit.URL)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadPrefixedEnvWinsOverLegacy(t *testing.T) {
	setupEnv(t, requiredEnv())
	setupEnv(t, map[string]string{
		"PUBSUB_TOPIC":           "legacy-topic",
		"VOICECARE_PUBSUB_TOPIC": "prefixed-topic",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "prefixed-topic", cfg.PubSub.Topic)
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
gcp:
  project_id: file-project
livekit:
  url: wss://file.example.com
worker:
  max_sessions: 2
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	setupEnv(t, map[string]string{
		ConfigDirEnv:                    dir,
		"VOICECARE_GCP_PROJECT_ID":      "",
		"VOICECARE_LIVEKIT_URL":         "",
		"VOICECARE_WORKER_MAX_SESSIONS": "",
		"PROJECT_ID":                    "",
		"LIVEKIT_URL":                   "",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "file-project", cfg.GCP.ProjectID)
	assert.Equal(t, "wss://file.example.com", cfg.LiveKit.URL)
	assert.Equal(t, 2, cfg.Worker.MaxSessions)
}

func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name: "Missing project id",
			envVars: map[string]string{
				"VOICECARE_GCP_PROJECT_ID": "",
			},
		},
		{
			name: "Invalid port number",
			envVars: map[string]string{
				"VOICECARE_SERVER_PORT": "999999",
			},
		},
		{
			name: "Invalid log level",
			envVars: map[string]string{
				"VOICECARE_SERVER_LOG_LEVEL": "verbose",
			},
		},
		{
			name: "Invalid secrets provider",
			envVars: map[string]string{
				"VOICECARE_SECRETS_PROVIDER": "vault",
			},
		},
		{
			name: "Invalid livekit url",
			envVars: map[string]string{
				"VOICECARE_LIVEKIT_URL": "not a url",
			},
		},
		{
			name: "Zero max sessions",
			envVars: map[string]string{
				"VOICECARE_WORKER_MAX_SESSIONS": "0",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setupEnv(t, requiredEnv())
			setupEnv(t, tc.envVars)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}
