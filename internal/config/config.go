// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tatvax-tui/internal/i18n"
	"github.com/jeranaias/tatvax-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tatvax configuration.
type Config struct {
	// Server is the backend connection.
	Server ServerConfig `toml:"server" json:"server" yaml:"server"`

	// Session holds defaults for a new session.
	Session SessionConfig `toml:"session" json:"session" yaml:"session"`

	// Audio tunes the playback coordinator.
	Audio AudioConfig `toml:"audio" json:"audio" yaml:"audio"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log" yaml:"log"`
}

// ServerConfig describes how to reach the backend.
type ServerConfig struct {
	// URL is the backend base URL, e.g. http://localhost:5000
	URL string `toml:"url" json:"url" yaml:"url"`
	// TimeoutSecs bounds one request. Voice requests include recording time.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	// RateLimit is the maximum outbound requests per second (0 = unlimited).
	RateLimit float64 `toml:"rate_limit" json:"rate_limit" yaml:"rate_limit"`
	// RateBurst is the limiter burst size.
	RateBurst int `toml:"rate_burst" json:"rate_burst" yaml:"rate_burst"`
	// MaxResponseBytes caps a response body.
	MaxResponseBytes int64 `toml:"max_response_bytes" json:"max_response_bytes" yaml:"max_response_bytes"`
}

// SessionConfig holds session defaults.
type SessionConfig struct {
	// Language is the initial language code.
	Language string `toml:"language" json:"language" yaml:"language"`
}

// AudioConfig tunes server-side audio playback tracking.
type AudioConfig struct {
	PollIntervalMs  int `toml:"poll_interval_ms" json:"poll_interval_ms" yaml:"poll_interval_ms"`
	MaxDurationSecs int `toml:"max_duration_secs" json:"max_duration_secs" yaml:"max_duration_secs"`
	ErrorRecoveryMs int `toml:"error_recovery_ms" json:"error_recovery_ms" yaml:"error_recovery_ms"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// WordWrap is the Markdown wrap width for plain output.
	WordWrap int `toml:"word_wrap" json:"word_wrap" yaml:"word_wrap"`
	// NoticeDurationMs is how long a notification stays visible.
	NoticeDurationMs int `toml:"notice_duration_ms" json:"notice_duration_ms" yaml:"notice_duration_ms"`
	// FeedbackCloseDelayMs is the delay before the feedback form closes
	// after a successful submission.
	FeedbackCloseDelayMs int  `toml:"feedback_close_delay_ms" json:"feedback_close_delay_ms" yaml:"feedback_close_delay_ms"`
	ShowTimestamps       bool `toml:"show_timestamps" json:"show_timestamps" yaml:"show_timestamps"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" json:"level" yaml:"level"`
	// File is the log path (empty = ~/.tatvax/tatvax.log).
	File string `toml:"file" json:"file" yaml:"file"`
}

// Timeout returns the request timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// PollInterval returns the status poll interval.
func (a AudioConfig) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalMs) * time.Millisecond
}

// MaxDuration returns the longest a playback is tracked.
func (a AudioConfig) MaxDuration() time.Duration {
	return time.Duration(a.MaxDurationSecs) * time.Second
}

// ErrorRecovery returns how long the error state is shown.
func (a AudioConfig) ErrorRecovery() time.Duration {
	return time.Duration(a.ErrorRecoveryMs) * time.Millisecond
}

// NoticeDuration returns how long a notification is shown.
func (u UIConfig) NoticeDuration() time.Duration {
	return time.Duration(u.NoticeDurationMs) * time.Millisecond
}

// FeedbackCloseDelay returns the feedback auto-close delay.
func (u UIConfig) FeedbackCloseDelay() time.Duration {
	return time.Duration(u.FeedbackCloseDelayMs) * time.Millisecond
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:              "http://localhost:5000",
			TimeoutSecs:      60,
			RateLimit:        0,
			RateBurst:        1,
			MaxResponseBytes: 4 * 1024 * 1024,
		},
		Session: SessionConfig{
			Language: i18n.DefaultLanguage,
		},
		Audio: AudioConfig{
			PollIntervalMs:  1000,
			MaxDurationSecs: 30,
			ErrorRecoveryMs: 2000,
		},
		UI: UIConfig{
			Theme:                "auto",
			WordWrap:             80,
			NoticeDurationMs:     3000,
			FeedbackCloseDelayMs: 2000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// configFileNames are searched in order by Load.
var configFileNames = []string{"config.toml", "config.json", "config.yaml", "config.yml"}

// ConfigDir returns the tatvax configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tatvax"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns ~/.tatvax/tatvax.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tatvax.log"), nil
}

// FindConfigFile returns the first existing config file in ConfigDir, or ""
// when there is none.
func FindConfigFile() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the first config file found in ConfigDir and
// falls back to defaults. Environment overrides are applied last.
//
// A file that exists but cannot be parsed does not stop startup: the defaults
// are returned together with the load error.
func Load() (*Config, error) {
	if path := FindConfigFile(); path != "" {
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		fallback, ferr := finish(Default())
		if ferr != nil {
			return nil, ferr
		}
		return fallback, err
	}
	return finish(Default())
}

// LoadFromPath loads configuration from a specific file. The format is
// chosen by extension: .json, .yaml/.yml, anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

func decodeFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read JSON file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON file: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read YAML file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML file: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to decode TOML file: %w", err)
		}
	}
	return nil
}

// finish applies env overrides and defaults, then validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	// Server
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = defaults.Server.RateBurst
	}
	if cfg.Server.MaxResponseBytes == 0 {
		cfg.Server.MaxResponseBytes = defaults.Server.MaxResponseBytes
	}

	// Session
	if cfg.Session.Language == "" {
		cfg.Session.Language = defaults.Session.Language
	}

	// Audio
	if cfg.Audio.PollIntervalMs == 0 {
		cfg.Audio.PollIntervalMs = defaults.Audio.PollIntervalMs
	}
	if cfg.Audio.MaxDurationSecs == 0 {
		cfg.Audio.MaxDurationSecs = defaults.Audio.MaxDurationSecs
	}
	if cfg.Audio.ErrorRecoveryMs == 0 {
		cfg.Audio.ErrorRecoveryMs = defaults.Audio.ErrorRecoveryMs
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.WordWrap == 0 {
		cfg.UI.WordWrap = defaults.UI.WordWrap
	}
	if cfg.UI.NoticeDurationMs == 0 {
		cfg.UI.NoticeDurationMs = defaults.UI.NoticeDurationMs
	}
	if cfg.UI.FeedbackCloseDelayMs == 0 {
		cfg.UI.FeedbackCloseDelayMs = defaults.UI.FeedbackCloseDelayMs
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration atomically in the format implied by
// the file extension.
func SaveToPath(cfg *Config, path string) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = append(out, '\n')
	case ".yaml", ".yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = out
	default:
		var buf bytes.Buffer
		buf.WriteString("# tatvax configuration file\n")
		buf.WriteString("# Generated by tatvax - edit with care\n\n")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = []string{"auto", "dark", "light"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if u, err := url.Parse(c.Server.URL); err != nil {
		add("server.url", fmt.Sprintf("invalid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("server.url", "scheme must be http or https")
	} else if u.Host == "" {
		add("server.url", "missing host")
	}
	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		add("server.timeout_secs", "must be between 1 and 600")
	}
	if c.Server.RateLimit < 0 {
		add("server.rate_limit", "must not be negative")
	}
	if c.Server.RateBurst < 1 {
		add("server.rate_burst", "must be at least 1")
	}
	if c.Server.MaxResponseBytes < 1024 {
		add("server.max_response_bytes", "must be at least 1024")
	}

	if !i18n.IsSupported(c.Session.Language) {
		add("session.language", fmt.Sprintf("unsupported language %q", c.Session.Language))
	}

	if c.Audio.PollIntervalMs < 100 {
		add("audio.poll_interval_ms", "must be at least 100")
	}
	if c.Audio.MaxDuration() < c.Audio.PollInterval() {
		add("audio.max_duration_secs", "must not be shorter than the poll interval")
	}
	if c.Audio.ErrorRecoveryMs < 0 {
		add("audio.error_recovery_ms", "must not be negative")
	}

	if !contains(validThemes, c.UI.Theme) {
		add("ui.theme", fmt.Sprintf("must be one of %s", strings.Join(validThemes, ", ")))
	}
	if c.UI.WordWrap < 20 {
		add("ui.word_wrap", "must be at least 20")
	}
	if c.UI.NoticeDurationMs < 0 || c.UI.FeedbackCloseDelayMs < 0 {
		add("ui", "durations must not be negative")
	}

	if !contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		add("log.level", fmt.Sprintf("must be one of %s", strings.Join(validLogLevels, ", ")))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TATVAX_SERVER_URL: overrides server.url
//   - TATVAX_LANGUAGE: overrides session.language
//   - TATVAX_LOG_LEVEL: overrides log.level
//   - TATVAX_LOG_FILE: overrides log.file
//   - TATVAX_TIMEOUT: overrides server.timeout_secs (seconds or a duration like "90s")
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TATVAX_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("TATVAX_LANGUAGE"); v != "" {
		if code, err := i18n.Normalize(v); err == nil {
			c.Session.Language = code
		} else {
			// Validate reports it.
			c.Session.Language = v
		}
	}
	if v := os.Getenv("TATVAX_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("TATVAX_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("TATVAX_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = secs
		} else if d, err := time.ParseDuration(v); err == nil {
			c.Server.TimeoutSecs = int(d.Round(time.Second) / time.Second)
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "server.url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// equivalent ("timeout_secs" -> "TimeoutSecs", "url" -> "Url").
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"server.url",
		"server.timeout_secs",
		"server.rate_limit",
		"server.rate_burst",
		"server.max_response_bytes",
		"session.language",
		"audio.poll_interval_ms",
		"audio.max_duration_secs",
		"audio.error_recovery_ms",
		"ui.theme",
		"ui.word_wrap",
		"ui.notice_duration_ms",
		"ui.feedback_close_delay_ms",
		"ui.show_timestamps",
		"log.level",
		"log.file",
	}
}

// String returns the config as indented JSON for display.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
