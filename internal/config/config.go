package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// ECHO data source configuration.
	EchoBaseURL  string
	EchoAPIKey   string
	EchoTimeout  time.Duration
	EchoRetryMax int

	// System filter applied to every fetch.
	State  string
	County string
	PWSID  string

	// RefreshInterval is the auto-refresh period; zero disables polling.
	RefreshInterval time.Duration

	SettingsDBPath string

	// DEQ CAP score source. An empty URL disables lookups.
	CAPScoreURL     string
	CAPPWSIDField   string
	CAPScoreField   string
	CAPUpdatedField string
	CAPCacheSize    int

	DocumentDir string

	// Kafka document sink configuration.
	KafkaBrokers       []string
	KafkaDocumentTopic string
	KafkaEnabled       bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	echoTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("ECHO_TIMEOUT", "15s"))
	if err != nil || echoTimeout <= 0 {
		return nil, errors.New("invalid ECHO_TIMEOUT")
	}

	retryMax, err := strconv.Atoi(sharedcfg.EnvOrDefault("ECHO_RETRY_MAX", "0"))
	if err != nil || retryMax < 0 {
		return nil, errors.New("invalid ECHO_RETRY_MAX")
	}

	refreshInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("REFRESH_INTERVAL", "60s"))
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL")
	}

	capCacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("CAP_CACHE_SIZE", "500"))
	if err != nil || capCacheSize <= 0 {
		return nil, errors.New("invalid CAP_CACHE_SIZE")
	}

	var brokers []string
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EchoBaseURL:  strings.TrimRight(sharedcfg.EnvOrDefault("ECHO_BASE_URL", "https://echodata.epa.gov/echo"), "/"),
		EchoAPIKey:   os.Getenv("DATA_GOV_API_KEY"),
		EchoTimeout:  echoTimeout,
		EchoRetryMax: retryMax,

		State:  strings.ToUpper(sharedcfg.EnvOrDefault("PWS_STATE", "OK")),
		County: os.Getenv("PWS_COUNTY"),
		PWSID:  strings.TrimSpace(os.Getenv("PWS_ID")),

		RefreshInterval: refreshInterval,
		SettingsDBPath:  sharedcfg.EnvOrDefault("SETTINGS_DB_PATH", "pws-settings.db"),

		CAPScoreURL:     strings.TrimSpace(os.Getenv("DEQ_CAP_SCORE_URL")),
		CAPPWSIDField:   strings.ToUpper(sharedcfg.EnvOrDefault("DEQ_CAP_PWSID_FIELD", "PWSID")),
		CAPScoreField:   strings.ToUpper(sharedcfg.EnvOrDefault("DEQ_CAP_SCORE_FIELD", "SCORE")),
		CAPUpdatedField: strings.ToUpper(sharedcfg.EnvOrDefault("DEQ_CAP_UPDATED_FIELD", "UPDATED")),
		CAPCacheSize:    capCacheSize,

		DocumentDir: sharedcfg.EnvOrDefault("DOCUMENT_DIR", "documents"),

		KafkaBrokers:       brokers,
		KafkaDocumentTopic: sharedcfg.EnvOrDefault("KAFKA_DOCUMENT_TOPIC", "pws-documents"),
		KafkaEnabled:       kafkaEnabled,
	}

	if cfg.EchoBaseURL == "" {
		return nil, errors.New("ECHO_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaDocumentTopic == "" {
		return nil, errors.New("KAFKA_DOCUMENT_TOPIC is required")
	}

	return cfg, nil
}
