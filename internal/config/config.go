package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every service setting.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Analyzer AnalyzerConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	analyzerCfg, err := loadAnalyzerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Store: storeCfg, Analyzer: analyzerCfg}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	Driver      string
	PostgresDSN string
}

func loadStoreConfig() (StoreConfig, error) {
	driver := getEnvOrDefault("STORE_DRIVER", StoreDriverMemory)
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))

	switch driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if dsn == "" {
			return StoreConfig{}, fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER value: %q", driver)
	}

	return StoreConfig{Driver: driver, PostgresDSN: dsn}, nil
}

// AnalyzerConfig tunes the simulated crawler.
type AnalyzerConfig struct {
	Delay   time.Duration
	Timeout time.Duration
}

func loadAnalyzerConfig() (AnalyzerConfig, error) {
	delayMS, err := parseOptionalIntEnv("ANALYZER_DELAY_MS")
	if err != nil {
		return AnalyzerConfig{}, err
	}
	delay := time.Duration(0)
	if delayMS != nil {
		if *delayMS < 0 {
			return AnalyzerConfig{}, fmt.Errorf("ANALYZER_DELAY_MS must not be negative")
		}
		delay = time.Duration(*delayMS) * time.Millisecond
	}

	timeoutMS, err := parseOptionalIntEnv("ANALYZER_TIMEOUT_MS")
	if err != nil {
		return AnalyzerConfig{}, err
	}
	timeout := 10 * time.Second
	if timeoutMS != nil {
		if *timeoutMS < 0 {
			return AnalyzerConfig{}, fmt.Errorf("ANALYZER_TIMEOUT_MS must not be negative")
		}
		timeout = time.Duration(*timeoutMS) * time.Millisecond
	}

	return AnalyzerConfig{Delay: delay, Timeout: timeout}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
