package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/markup/internal/errors"
)

const (
	// FileName is the configuration file inside the MarkUp home directory.
	FileName = "config.yaml"

	// DefaultBaseURL is the backend used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds a single backend request.
	DefaultTimeout = 2 * time.Minute

	homeDirName = ".markup"
)

// Config is the persisted CLI configuration.
type Config struct {
	API      APIConfig      `yaml:"api" json:"api"`
	Defaults Defaults       `yaml:"defaults" json:"defaults"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Security SecurityConfig `yaml:"security" json:"security"`
}

// APIConfig points the client at a backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// Defaults holds output defaults applied when flags are not given.
type Defaults struct {
	Format  string `yaml:"format" json:"format"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	EnableFile bool   `yaml:"enable_file" json:"enable_file"`
}

// SecurityConfig controls how the session token is stored at rest.
type SecurityConfig struct {
	// EncryptToken encrypts auth.json when MARKUP_TOKEN_PASSPHRASE is set.
	EncryptToken bool `yaml:"encrypt_token" json:"encrypt_token"`
}

// Env is the set of environment overrides.
type Env struct {
	Home            string `env:"MARKUP_HOME"`
	APIURL          string `env:"MARKUP_API_URL"`
	HTTPTimeout     *time.Duration `env:"MARKUP_HTTP_TIMEOUT"`
	LogLevel        string `env:"MARKUP_LOG_LEVEL"`
	TokenPassphrase string `env:"MARKUP_TOKEN_PASSPHRASE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Defaults: Defaults{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Security: SecurityConfig{
			EncryptToken: true,
		},
	}
}

// ParseEnv reads the MARKUP_* variables from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ParseEnvFrom reads overrides from an explicit variable map.
func ParseEnvFrom(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ResolveHome picks the MarkUp home directory: flag, then MARKUP_HOME, then ~/.markup.
func ResolveHome(flag string, e Env) (string, error) {
	switch {
	case flag != "":
		return expandHome(flag)
	case e.Home != "":
		return expandHome(e.Home)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to get home directory", err)
	}
	return filepath.Join(home, homeDirName), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to get home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Path returns the config file location inside home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Load reads <home>/config.yaml over the defaults. A missing file is not an error.
func Load(home string) (*Config, error) {
	cfg := Default()
	path := Path(home)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config file: %s", path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "YAML", err)
	}
	return cfg, nil
}

// Save writes the configuration to <home>/config.yaml with owner-only permissions.
func Save(home string, cfg *Config) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create directory: %s", home), err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to marshal config", err)
	}

	path := Path(home)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write config file: %s", path), err)
	}
	return nil
}

// ApplyEnv layers environment overrides on top of the file values.
func (c *Config) ApplyEnv(e Env) error {
	if e.APIURL != "" {
		c.API.BaseURL = e.APIURL
	}
	if e.HTTPTimeout != nil {
		if *e.HTTPTimeout < 0 {
			return errors.New(errors.ErrCodeValidationInvalid,
				fmt.Sprintf("MARKUP_HTTP_TIMEOUT must not be negative, got %s", *e.HTTPTimeout))
		}
		c.API.Timeout = *e.HTTPTimeout
	}
	if e.LogLevel != "" {
		c.Logging.Level = e.LogLevel
	}
	return nil
}

// Passphrase returns the token passphrase to use, or "" when the token is stored in plain text.
func (c *Config) Passphrase(e Env) string {
	if !c.Security.EncryptToken {
		return ""
	}
	return e.TokenPassphrase
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

var fields = map[string]field{
	"api.base_url": {
		get: func(c *Config) string { return c.API.BaseURL },
		set: func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout.String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				return fmt.Errorf("invalid duration %q", v)
			}
			c.API.Timeout = d
			return nil
		},
	},
	"defaults.format": {
		get: func(c *Config) string { return c.Defaults.Format },
		set: func(c *Config, v string) error {
			switch v {
			case "text", "json", "yaml":
				c.Defaults.Format = v
				return nil
			}
			return fmt.Errorf("invalid format %q (expected text, json or yaml)", v)
		},
	},
	"defaults.no_color": {
		get: func(c *Config) string { return strconv.FormatBool(c.Defaults.NoColor) },
		set: func(c *Config, v string) error { return setBool(&c.Defaults.NoColor, v) },
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = v; return nil },
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error { c.Logging.Format = v; return nil },
	},
	"logging.enable_file": {
		get: func(c *Config) string { return strconv.FormatBool(c.Logging.EnableFile) },
		set: func(c *Config, v string) error { return setBool(&c.Logging.EnableFile, v) },
	},
	"security.encrypt_token": {
		get: func(c *Config) string { return strconv.FormatBool(c.Security.EncryptToken) },
		set: func(c *Config, v string) error { return setBool(&c.Security.EncryptToken, v) },
	},
}

func setBool(dst *bool, v string) error {
	switch strings.ToLower(v) {
	case "true", "yes", "1", "on":
		*dst = true
	case "false", "no", "0", "off":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean %q", v)
	}
	return nil
}

// Keys lists every dot-notation key accepted by Get and Set.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get retrieves a value using dot notation, e.g. "api.base_url".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", unknownKey(key)
	}
	return f.get(c), nil
}

// Set updates a value using dot notation.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return unknownKey(key)
	}
	if err := f.set(c, value); err != nil {
		return errors.Wrap(errors.ErrCodeValidationInvalid, fmt.Sprintf("cannot set %s", key), err)
	}
	return nil
}

func unknownKey(key string) error {
	return errors.New(errors.ErrCodeValidationInvalid, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Valid keys: " + strings.Join(Keys(), ", "))
}
