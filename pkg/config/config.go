// Package config loads drawkit configuration.
//
// Configuration is read from a TOML file and then overridden by
// DRAWKIT_* environment variables. Every field has a default, so a
// missing file is not an error.
//
//	[upload]
//	domain = "netwrck.com"
//	replicas = ["image", "images2"]
//
//	[cache]
//	backend = "file"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Config is the full drawkit configuration.
type Config struct {
	Upload  Upload  `toml:"upload" envPrefix:"UPLOAD_"`
	Stylize Stylize `toml:"stylize" envPrefix:"STYLIZE_"`
	Cache   Cache   `toml:"cache" envPrefix:"CACHE_"`
	Files   Files   `toml:"files" envPrefix:"FILES_"`
	Server  Server  `toml:"server" envPrefix:"SERVER_"`
	Log     Log     `toml:"log" envPrefix:"LOG_"`
	I18n    I18n    `toml:"i18n" envPrefix:"I18N_"`
}

// Upload configures the style-transfer upload client.
type Upload struct {
	Domain              string   `toml:"domain" env:"DOMAIN"`
	Replicas            []string `toml:"replicas" env:"REPLICAS" envSeparator:","`
	Scheme              string   `toml:"scheme" env:"SCHEME"`
	Endpoint            string   `toml:"endpoint" env:"ENDPOINT"`
	MaxAttempts         int      `toml:"max_attempts" env:"MAX_ATTEMPTS"`
	Strength            float64  `toml:"strength" env:"STRENGTH"`
	Timeout             Duration `toml:"timeout" env:"TIMEOUT"`
	RetryDelay          Duration `toml:"retry_delay" env:"RETRY_DELAY"`
	AvoidFailedReplicas bool     `toml:"avoid_failed_replicas" env:"AVOID_FAILED_REPLICAS"`
}

// Stylize configures the style-transfer orchestrator.
type Stylize struct {
	DefaultPrompt string  `toml:"default_prompt" env:"DEFAULT_PROMPT"`
	Canny         bool    `toml:"canny" env:"CANNY"`
	Offset        float64 `toml:"offset" env:"OFFSET"`
}

// Cache selects the upload-result cache backend.
type Cache struct {
	Backend   string   `toml:"backend" env:"BACKEND"` // none, file or redis
	Dir       string   `toml:"dir" env:"DIR"`
	RedisAddr string   `toml:"redis_addr" env:"REDIS_ADDR"`
	TTL       Duration `toml:"ttl" env:"TTL"`
	// Scope prefixes every key so that several boards can share one Redis.
	Scope     string   `toml:"scope" env:"SCOPE"`
}

// Files selects where binary file records are persisted.
type Files struct {
	Backend       string `toml:"backend" env:"BACKEND"` // scene, dir or mongo
	Dir           string `toml:"dir" env:"DIR"`
	MongoURI      string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"MONGO_DATABASE"`
}

// Server configures `drawkit serve`.
type Server struct {
	Addr string `toml:"addr" env:"ADDR"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level" env:"LEVEL"`
}

// I18n selects the message locale.
type I18n struct {
	Locale string `toml:"locale" env:"LOCALE"`
}

// DefaultPrompt is used when no prompt has been set through the prompt channel.
const DefaultPrompt = "artistic sword replica meuseum art best quality weapon gunblade fantasy sword"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Upload: Upload{
			Domain:      "netwrck.com",
			Replicas:    []string{"image", "images2"},
			Scheme:      "https",
			Endpoint:    "/style_transfer_bytes_and_upload_image",
			MaxAttempts: 3,
			Strength:    0.6,
			Timeout:     Duration(2 * time.Minute),
		},
		Stylize: Stylize{
			DefaultPrompt: DefaultPrompt,
			Offset:        8,
		},
		Cache: Cache{
			Backend: "none",
			TTL:     Duration(24 * time.Hour),
		},
		Files:  Files{Backend: "scene", MongoDatabase: "drawkit"},
		Server: Server{Addr: "127.0.0.1:8787"},
		Log:    Log{Level: "info"},
		I18n:   I18n{Locale: "en-US"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/drawkit/config.toml, falling back to
// the user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "drawkit", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "drawkit", "config.toml"), nil
}

// Load reads path (if it exists), applies environment overrides and
// validates the result. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DRAWKIT_"}); err != nil {
		return Config{}, dkerrors.Wrap(dkerrors.ErrCodeInvalidConfig, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults without consulting the environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, dkerrors.Wrap(dkerrors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return dkerrors.Wrap(dkerrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate checks field ranges and enum values.
func (c Config) Validate() error {
	if err := dkerrors.ValidateDomain(c.Upload.Domain); err != nil {
		return dkerrors.Wrap(dkerrors.ErrCodeInvalidConfig, err, "upload.domain")
	}
	if len(c.Upload.Replicas) < 2 {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "upload.replicas: need at least 2 replicas, got %d", len(c.Upload.Replicas))
	}
	for _, r := range c.Upload.Replicas {
		if err := dkerrors.ValidateReplicaName(r); err != nil {
			return dkerrors.Wrap(dkerrors.ErrCodeInvalidConfig, err, "upload.replicas")
		}
	}
	if c.Upload.Scheme != "https" && c.Upload.Scheme != "http" {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "upload.scheme: must be http or https, got %q", c.Upload.Scheme)
	}
	if c.Upload.MaxAttempts < 1 {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "upload.max_attempts: must be at least 1")
	}
	if c.Upload.Strength <= 0 || c.Upload.Strength > 1 {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "upload.strength: must be in (0, 1], got %v", c.Upload.Strength)
	}
	if err := oneOf("cache.backend", c.Cache.Backend, "none", "file", "redis"); err != nil {
		return err
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "cache.redis_addr: required for redis backend")
	}
	if err := oneOf("files.backend", c.Files.Backend, "scene", "dir", "mongo"); err != nil {
		return err
	}
	if c.Files.Backend == "dir" && c.Files.Dir == "" {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "files.dir: required for dir backend")
	}
	if c.Files.Backend == "mongo" && c.Files.MongoURI == "" {
		return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "files.mongo_uri: required for mongo backend")
	}
	if err := oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return dkerrors.New(dkerrors.ErrCodeInvalidConfig, "%s: %q is not one of %v", field, value, allowed)
}

// Duration is a time.Duration that decodes from strings like "90s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for both TOML and env.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
