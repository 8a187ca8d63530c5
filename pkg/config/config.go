// Package config loads gozaim settings from an optional config file, GOZAIM_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/gozaim/pkg/crawler"
)

const EnvPrefix = "GOZAIM"

// Crawler presets.
const (
	PresetDefault     = "default"
	PresetLowResource = "low-resource"
	PresetServerless  = "serverless"
)

const defaultCredentials = ".config/gozaim/credentials.yaml"

type Config struct {
	Credentials CredentialsConfig `mapstructure:"credentials"`
	API         APIConfig         `mapstructure:"api"`
	Crawler     CrawlerConfig     `mapstructure:"crawler"`
}

type CredentialsConfig struct {
	// File is the YAML credential store. Empty means the process environment.
	File string `mapstructure:"file"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type CrawlerConfig struct {
	Preset        string        `mapstructure:"preset"`
	Headless      bool          `mapstructure:"headless"`
	// Nil leaves the preset's choice in place.
	DisableGPU    *bool         `mapstructure:"-"`
	NoSandbox     *bool         `mapstructure:"-"`
	DisableDevShm *bool         `mapstructure:"-"`
	WindowWidth   int           `mapstructure:"window_width"`
	WindowHeight  int           `mapstructure:"window_height"`
	RemoteURL     string        `mapstructure:"remote_url"`
	ExecPath      string        `mapstructure:"exec_path"`
	LoginTimeout  time.Duration `mapstructure:"login_timeout"`
	PageTimeout   time.Duration `mapstructure:"page_timeout"`
	ScrollTimeout time.Duration `mapstructure:"scroll_timeout"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"credentials":    "credentials.file",
	"base-url":       "api.base_url",
	"preset":         "crawler.preset",
	"headless":       "crawler.headless",
	"remote-url":     "crawler.remote_url",
	"exec-path":      "crawler.exec_path",
	"login-timeout":  "crawler.login_timeout",
	"page-timeout":   "crawler.page_timeout",
	"scroll-timeout": "crawler.scroll_timeout",
	"user":           "crawler.user",
}

func setDefaults(v *viper.Viper) {
	d := crawler.DefaultOptions()
	v.SetDefault("credentials.file", "")
	v.SetDefault("api.base_url", "")
	v.SetDefault("crawler.preset", PresetDefault)
	v.SetDefault("crawler.headless", d.Headless)
	v.SetDefault("crawler.window_width", 0)
	v.SetDefault("crawler.window_height", 0)
	v.SetDefault("crawler.remote_url", "")
	v.SetDefault("crawler.exec_path", "")
	v.SetDefault("crawler.login_timeout", d.LoginTimeout)
	v.SetDefault("crawler.page_timeout", d.PageTimeout)
	v.SetDefault("crawler.scroll_timeout", d.ScrollTimeout)
	v.SetDefault("crawler.user", "")
	v.SetDefault("crawler.password", "")
}

// LoadEnvFile loads KEY=value pairs into the process environment without
// overriding variables that are already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Build resolves the configuration. cfgFile may be empty, in which case
// config.yaml is looked up in the working directory and ~/.config/gozaim.
// Only flags the user actually set override file and environment values.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gozaim"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Crawler.DisableGPU = optionalBool(v, "crawler.disable_gpu")
	cfg.Crawler.NoSandbox = optionalBool(v, "crawler.no_sandbox")
	cfg.Crawler.DisableDevShm = optionalBool(v, "crawler.disable_dev_shm")
	return &cfg, nil
}

// optionalBool returns nil for keys that have no default and were not set.
func optionalBool(v *viper.Viper, key string) *bool {
	if !v.IsSet(key) {
		return nil
	}
	b := v.GetBool(key)
	return &b
}

// CredentialsPath expands a leading ~ in the credential file path.
func (c *Config) CredentialsPath() string {
	p := c.Credentials.File
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}

// DefaultCredentialsPath is where `zaim auth --save` writes when no file is
// configured.
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Base(defaultCredentials)
	}
	return filepath.Join(home, defaultCredentials)
}

// CrawlerOptions starts from the configured preset and applies the
// explicit settings on top of it. An explicit false turns off a flag the
// preset enables.
func (c *Config) CrawlerOptions() (crawler.Options, error) {
	var o crawler.Options
	switch strings.ToLower(c.Crawler.Preset) {
	case "", PresetDefault:
		o = crawler.DefaultOptions()
	case PresetLowResource:
		o = crawler.LowResourceOptions()
	case PresetServerless:
		o = crawler.ServerlessOptions()
	default:
		return crawler.Options{}, fmt.Errorf("unknown crawler preset %q", c.Crawler.Preset)
	}

	cc := c.Crawler
	o.Headless = cc.Headless
	if cc.DisableGPU != nil {
		o.DisableGPU = *cc.DisableGPU
	}
	if cc.NoSandbox != nil {
		o.NoSandbox = *cc.NoSandbox
	}
	if cc.DisableDevShm != nil {
		o.DisableDevShm = *cc.DisableDevShm
	}
	if cc.WindowWidth > 0 && cc.WindowHeight > 0 {
		o.WindowWidth, o.WindowHeight = cc.WindowWidth, cc.WindowHeight
	}
	if cc.RemoteURL != "" {
		o.RemoteURL = cc.RemoteURL
	}
	if cc.ExecPath != "" {
		o.ExecPath = cc.ExecPath
	}
	if cc.LoginTimeout > 0 {
		o.LoginTimeout = cc.LoginTimeout
	}
	if cc.PageTimeout > 0 {
		o.PageTimeout = cc.PageTimeout
	}
	if cc.ScrollTimeout > 0 {
		o.ScrollTimeout = cc.ScrollTimeout
	}
	return o, nil
}
