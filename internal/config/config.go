package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is resolved once at start-up and never mutated afterwards.
type Config struct {
	OCREndpoint  string
	OCRAPIKey    string
	OCRTimeoutMs int
	UploadPrefix string

	Port      string
	Mode      string
	LogLevel  string
	LogFormat string
}

type fileConfig struct {
	OCREndpoint  string `yaml:"ocr_endpoint"`
	OCRAPIKey    string `yaml:"ocr_api_key"`
	OCRTimeoutMs int    `yaml:"ocr_timeout_ms"`
	UploadPrefix string `yaml:"upload_prefix"`
	Port         string `yaml:"port"`
	Mode         string `yaml:"mode"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// Load reads .env (if present), the environment and then the optional YAML
// file at path. Non-empty file values override the environment. An empty
// path falls back to CONFIG_FILE.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	timeoutMs, err := getEnvInt("OCR_TIMEOUT_MS", 30000)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OCREndpoint:  getEnv("OCR_ENDPOINT", "http://127.0.0.1:5001/ocr"),
		OCRAPIKey:    getEnv("OCR_API_KEY", ""),
		OCRTimeoutMs: timeoutMs,
		UploadPrefix: getEnv("UPLOAD_PREFIX", ""),

		Port:      getEnv("PORT", "8080"),
		Mode:      getEnv("MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if path == "" {
		path = getEnv("CONFIG_FILE", "")
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	override(&c.OCREndpoint, fc.OCREndpoint)
	override(&c.OCRAPIKey, fc.OCRAPIKey)
	override(&c.UploadPrefix, fc.UploadPrefix)
	override(&c.Port, fc.Port)
	override(&c.Mode, fc.Mode)
	override(&c.LogLevel, fc.LogLevel)
	override(&c.LogFormat, fc.LogFormat)
	if fc.OCRTimeoutMs != 0 {
		c.OCRTimeoutMs = fc.OCRTimeoutMs
	}
	return nil
}

// Validate checks the settings the relay cannot run without.
func (c Config) Validate() error {
	var errs []error
	if err := require("OCR_ENDPOINT", c.OCREndpoint); err != nil {
		errs = append(errs, err)
	}
	if err := require("UPLOAD_PREFIX", c.UploadPrefix); err != nil {
		errs = append(errs, err)
	}
	if c.OCRTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("OCR_TIMEOUT_MS must be positive, got %d", c.OCRTimeoutMs))
	}
	return errors.Join(errs...)
}

func require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// OCRTimeout returns the per-call deadline for the OCR service.
func (c Config) OCRTimeout() time.Duration {
	return time.Duration(c.OCRTimeoutMs) * time.Millisecond
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse env var %s=%q: %w", key, value, err)
	}
	return parsed, nil
}
