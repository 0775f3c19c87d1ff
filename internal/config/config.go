// Package config loads shopctl settings from the config directory, the
// environment and built-in defaults, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/tokenstore"
)

const (
	// EnvConfigDir overrides the config directory.
	EnvConfigDir = "SHOPCTL_CONFIG_DIR"

	settingsFile    = "config.yaml"
	credentialsFile = "credentials.yaml"
)

type Config struct {
	CurrentProfile string           `mapstructure:"current_profile"`
	API            APIConfig        `mapstructure:"api"`
	Catalog        CatalogConfig    `mapstructure:"catalog"`
	TokenStore     TokenStoreConfig `mapstructure:"token_store"`
	Session        SessionConfig    `mapstructure:"session"`
	Logging        LoggingConfig    `mapstructure:"logging"`

	dir string
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	GraphQLURL string        `mapstructure:"graphql_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type CatalogConfig struct {
	// Transport is "rest" or "graphql".
	Transport string `mapstructure:"transport"`
}

type TokenStoreConfig struct {
	Backend  string        `mapstructure:"backend"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type SessionConfig struct {
	ServerLogout bool `mapstructure:"server_logout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		API: APIConfig{
			BaseURL: client.DefaultBaseURL,
			Timeout: client.DefaultTimeout,
		},
		Catalog: CatalogConfig{
			Transport: client.TransportREST,
		},
		TokenStore: TokenStoreConfig{
			Backend:  tokenstore.BackendFile,
			RedisURL: "redis://localhost:6379/0",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// envBindings maps each settable key to the environment variables that
// override it, highest precedence first.
var envBindings = map[string][]string{
	"current_profile":       {"SHOPCTL_PROFILE"},
	"api.base_url":          {"SHOPCTL_API_URL", "NEXT_PUBLIC_API_URL"},
	"api.graphql_url":       {"SHOPCTL_GRAPHQL_URL"},
	"api.timeout":           {"SHOPCTL_API_TIMEOUT"},
	"catalog.transport":     {"SHOPCTL_CATALOG_TRANSPORT"},
	"token_store.backend":   {"SHOPCTL_TOKEN_STORE"},
	"token_store.redis_url": {"SHOPCTL_REDIS_URL"},
	"token_store.ttl":       {"SHOPCTL_TOKEN_TTL"},
	"session.server_logout": {"SHOPCTL_SERVER_LOGOUT"},
	"logging.level":         {"SHOPCTL_LOG_LEVEL"},
	"logging.format":        {"SHOPCTL_LOG_FORMAT"},
}

// Keys lists every key accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(envBindings))
	for k := range envBindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DefaultDir returns $SHOPCTL_CONFIG_DIR, falling back to ~/.shopctl.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".shopctl"), nil
}

// Load reads config.yaml from dir (DefaultDir when empty) and applies
// environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	return load(dir, true)
}

// LoadUnvalidated is Load without Validate, for commands that inspect or
// repair the settings file.
func LoadUnvalidated(dir string) (*Config, error) {
	return load(dir, false)
}

func load(dir string, validate bool) (*Config, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}

	v := viper.New()

	def := Default()
	v.SetDefault("current_profile", def.CurrentProfile)
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.graphql_url", "")
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("catalog.transport", def.Catalog.Transport)
	v.SetDefault("token_store.backend", def.TokenStore.Backend)
	v.SetDefault("token_store.redis_url", def.TokenStore.RedisURL)
	v.SetDefault("token_store.ttl", time.Duration(0))
	v.SetDefault("session.server_logout", false)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetConfigFile(filepath.Join(dir, settingsFile))
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SHOPCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Nested keys need explicit bindings.
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.dir = dir
	cfg.normalize()

	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.GraphQLURL == "" {
		c.API.GraphQLURL = client.DeriveGraphQLURL(c.API.BaseURL)
	}
	c.Catalog.Transport = strings.ToLower(c.Catalog.Transport)
	c.TokenStore.Backend = strings.ToLower(c.TokenStore.Backend)
	if c.CurrentProfile == "" {
		c.CurrentProfile = "default"
	}
}

// checks holds the constraint on each key that has one, in the order
// Validate reports them.
var checks = []struct {
	key   string
	check func(*Config) error
}{
	{"catalog.transport", func(c *Config) error {
		switch c.Catalog.Transport {
		case client.TransportREST, client.TransportGraphQL:
			return nil
		}
		return fmt.Errorf("catalog.transport must be %q or %q, got %q",
			client.TransportREST, client.TransportGraphQL, c.Catalog.Transport)
	}},
	{"token_store.backend", func(c *Config) error {
		switch c.TokenStore.Backend {
		case tokenstore.BackendFile, tokenstore.BackendRedis, tokenstore.BackendMemory:
			return nil
		}
		return fmt.Errorf("unknown token_store.backend %q", c.TokenStore.Backend)
	}},
	{"api.timeout", func(c *Config) error {
		if c.API.Timeout <= 0 {
			return fmt.Errorf("api.timeout must be positive")
		}
		return nil
	}},
	{"token_store.ttl", func(c *Config) error {
		if c.TokenStore.TTL < 0 {
			return fmt.Errorf("token_store.ttl must not be negative")
		}
		return nil
	}},
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	for _, k := range checks {
		if err := k.check(c); err != nil {
			return err
		}
	}
	return nil
}

// validateKey runs the check for key alone, so a file that is already
// broken elsewhere can still be edited.
func (c *Config) validateKey(key string) error {
	for _, k := range checks {
		if k.key == key {
			return k.check(c)
		}
	}
	return nil
}

// apply sets key on c from its string form.
func (c *Config) apply(key, value string) error {
	var err error
	switch key {
	case "current_profile":
		c.CurrentProfile = value
	case "api.base_url":
		c.API.BaseURL = value
	case "api.graphql_url":
		c.API.GraphQLURL = value
	case "api.timeout":
		c.API.Timeout, err = time.ParseDuration(value)
	case "catalog.transport":
		c.Catalog.Transport = value
	case "token_store.backend":
		c.TokenStore.Backend = value
	case "token_store.redis_url":
		c.TokenStore.RedisURL = value
	case "token_store.ttl":
		c.TokenStore.TTL, err = time.ParseDuration(value)
	case "session.server_logout":
		c.Session.ServerLogout, err = strconv.ParseBool(value)
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}

// Dir is the directory settings were loaded from.
func (c *Config) Dir() string { return c.dir }

// Path is the settings file location.
func (c *Config) Path() string { return filepath.Join(c.dir, settingsFile) }

// CredentialsPath is where the file token store keeps tokens.
func (c *Config) CredentialsPath() string { return filepath.Join(c.dir, credentialsFile) }

// Client returns the API client settings.
func (c *Config) Client() client.Config {
	return client.Config{
		BaseURL:    c.API.BaseURL,
		GraphQLURL: c.API.GraphQLURL,
		Timeout:    c.API.Timeout,
	}
}

// Tokens returns the token store settings for profile, or the current
// profile when profile is empty.
func (c *Config) Tokens(profile string) tokenstore.Config {
	if profile == "" {
		profile = c.CurrentProfile
	}
	return tokenstore.Config{
		Backend:  c.TokenStore.Backend,
		Profile:  profile,
		Path:     c.CredentialsPath(),
		RedisURL: c.TokenStore.RedisURL,
		TTL:      c.TokenStore.TTL,
	}
}

// Set writes key=value into the settings file, keeping every other key as
// it is. A value Load would reject is refused and the file is left alone.
// The in-memory Config is not reloaded.
func (c *Config) Set(key, value string) error {
	if _, ok := envBindings[key]; !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	next := *c
	if err := next.apply(key, value); err != nil {
		return err
	}
	next.normalize()
	if err := next.validateKey(key); err != nil {
		return err
	}

	settings := map[string]any{}
	data, err := os.ReadFile(c.Path())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("failed to parse %s: %w", c.Path(), err)
		}
		if settings == nil {
			settings = map[string]any{}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read %s: %w", c.Path(), err)
	}

	setNested(settings, strings.Split(key, "."), value)
	return c.write(settings)
}

// UseProfile makes name the current profile in the settings file.
func (c *Config) UseProfile(name string) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := c.Set("current_profile", name); err != nil {
		return err
	}
	c.CurrentProfile = name
	return nil
}

func setNested(m map[string]any, path []string, value string) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[path[0]] = child
	}
	setNested(child, path[1:], value)
}

func (c *Config) write(settings map[string]any) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path(), data, 0o600)
}
