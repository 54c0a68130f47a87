package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "https://kt.kanazawa-med.ac.jp"
	EnvPrefix      = "KTNET"
)

// Config is the full ktnet configuration.
type Config struct {
	Portal   Portal   `mapstructure:"portal"`
	Download Download `mapstructure:"download"`
	Log      Log      `mapstructure:"log"`
}

// Portal holds the connection settings for the handout portal.
type Portal struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserID         string        `mapstructure:"user_id"`
	Password       string        `mapstructure:"password"`
	VerifyTLS      bool          `mapstructure:"verify_tls"`
	Proxy          string        `mapstructure:"proxy"`
	Interval       time.Duration `mapstructure:"interval"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// Download controls where handout files are written.
type Download struct {
	Dir        string `mapstructure:"dir"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// Log controls the JSON log level and the plain-text archive.
type Log struct {
	Level   string `mapstructure:"level"`
	Archive string `mapstructure:"archive"`
}

// FlagKeys maps command-line flag names to the config keys they override.
// Flags absent from the flag set are ignored.
var FlagKeys = map[string]string{
	"user":      "portal.user_id",
	"password":  "portal.password",
	"base-url":  "portal.base_url",
	"proxy":     "portal.proxy",
	"insecure":  "portal.insecure",
	"interval":  "portal.interval",
	"dir":       "download.dir",
	"retries":   "download.max_retries",
	"log-level": "log.level",
	"log-file":  "log.archive",
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ktnet", "config.yml")
}

// Load reads the configuration and applies any flags set in fs, which may be
// nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	path := os.Getenv(EnvPrefix + "_CONFIG")
	if path == "" {
		path = DefaultPath()
	}
	return LoadFile(path, fs)
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// --insecure is the negative form of verify_tls.
	if v.GetBool("portal.insecure") {
		cfg.Portal.VerifyTLS = false
	}

	cfg.Download.Dir = ExpandHome(cfg.Download.Dir)
	cfg.Log.Archive = ExpandHome(cfg.Log.Archive)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("portal.base_url", DefaultBaseURL)
	v.SetDefault("portal.user_id", "")
	v.SetDefault("portal.password", "")
	v.SetDefault("portal.verify_tls", true)
	v.SetDefault("portal.insecure", false)
	v.SetDefault("portal.proxy", "")
	v.SetDefault("portal.interval", 2*time.Second)
	v.SetDefault("portal.connect_timeout", 5*time.Second)
	v.SetDefault("portal.read_timeout", 5*time.Second)
	v.SetDefault("portal.user_agent", "")
	v.SetDefault("download.dir", "~/ktnet/handouts")
	v.SetDefault("download.max_retries", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.archive", "ktnet.log")
}

// Validate checks values that would otherwise fail late, mid-session.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Portal.BaseURL); err != nil {
		return fmt.Errorf("invalid portal.base_url %q: %w", c.Portal.BaseURL, err)
	}
	if c.Portal.Proxy != "" {
		if _, err := url.Parse(c.Portal.Proxy); err != nil {
			return fmt.Errorf("invalid portal.proxy %q: %w", c.Portal.Proxy, err)
		}
	}
	if c.Portal.Interval < 0 {
		return fmt.Errorf("portal.interval must not be negative, got %s", c.Portal.Interval)
	}
	if c.Portal.ConnectTimeout < 0 || c.Portal.ReadTimeout < 0 {
		return errors.New("portal timeouts must not be negative")
	}
	if c.Download.MaxRetries < 0 {
		return fmt.Errorf("download.max_retries must not be negative, got %d", c.Download.MaxRetries)
	}
	return nil
}

// HasCredentials reports whether both a user id and a password are set.
func (c *Config) HasCredentials() bool {
	return c.Portal.UserID != "" && c.Portal.Password != ""
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
