package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://echodata.epa.gov/echo", cfg.EchoBaseURL)
	assert.Equal(t, 15*time.Second, cfg.EchoTimeout)
	assert.Equal(t, 0, cfg.EchoRetryMax)
	assert.Equal(t, "OK", cfg.State)
	assert.Empty(t, cfg.County)
	assert.Empty(t, cfg.PWSID)
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "pws-settings.db", cfg.SettingsDBPath)
	assert.Empty(t, cfg.CAPScoreURL)
	assert.Equal(t, "PWSID", cfg.CAPPWSIDField)
	assert.Equal(t, "SCORE", cfg.CAPScoreField)
	assert.Equal(t, "UPDATED", cfg.CAPUpdatedField)
	assert.Equal(t, 500, cfg.CAPCacheSize)
	assert.Equal(t, "documents", cfg.DocumentDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "pws-documents", cfg.KafkaDocumentTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ECHO_BASE_URL", "http://echo.local/echo/")
	t.Setenv("DATA_GOV_API_KEY", "key-123")
	t.Setenv("ECHO_TIMEOUT", "5s")
	t.Setenv("ECHO_RETRY_MAX", "2")
	t.Setenv("PWS_STATE", "tx")
	t.Setenv("PWS_COUNTY", "Travis")
	t.Setenv("PWS_ID", " TX2270001 ")
	t.Setenv("REFRESH_INTERVAL", "0")
	t.Setenv("SETTINGS_DB_PATH", "/tmp/settings.db")
	t.Setenv("DEQ_CAP_SCORE_URL", "http://deq.local/cap.csv")
	t.Setenv("DEQ_CAP_PWSID_FIELD", "pws_id")
	t.Setenv("CAP_CACHE_SIZE", "10")
	t.Setenv("DOCUMENT_DIR", "/tmp/docs")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_DOCUMENT_TOPIC", "docs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://echo.local/echo", cfg.EchoBaseURL)
	assert.Equal(t, "key-123", cfg.EchoAPIKey)
	assert.Equal(t, 5*time.Second, cfg.EchoTimeout)
	assert.Equal(t, 2, cfg.EchoRetryMax)
	assert.Equal(t, "TX", cfg.State)
	assert.Equal(t, "Travis", cfg.County)
	assert.Equal(t, "TX2270001", cfg.PWSID)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Equal(t, "/tmp/settings.db", cfg.SettingsDBPath)
	assert.Equal(t, "http://deq.local/cap.csv", cfg.CAPScoreURL)
	assert.Equal(t, "PWS_ID", cfg.CAPPWSIDField)
	assert.Equal(t, 10, cfg.CAPCacheSize)
	assert.Equal(t, "/tmp/docs", cfg.DocumentDir)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "docs", cfg.KafkaDocumentTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"ECHO_TIMEOUT", "bad"},
		{"ECHO_TIMEOUT", "0s"},
		{"ECHO_RETRY_MAX", "-1"},
		{"ECHO_RETRY_MAX", "many"},
		{"REFRESH_INTERVAL", "-5s"},
		{"REFRESH_INTERVAL", "soon"},
		{"CAP_CACHE_SIZE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.env)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
