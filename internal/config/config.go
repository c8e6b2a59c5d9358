package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecret is the compiled-in token signing secret. It is public by
// definition; serve logs a warning until auth.secret is overridden.
const DefaultSecret = "dayrunner-insecure-dev-secret"

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type GitHubConfig struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Ref   string `mapstructure:"ref"`
	Token string `mapstructure:"token"`
}

type ExecuteConfig struct {
	PythonBin      string        `mapstructure:"python_bin"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
	MaxTimeout     time.Duration `mapstructure:"max_timeout"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Execute ExecuteConfig `mapstructure:"execute"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("dayrunner")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.dayrunner")

	v.SetEnvPrefix("DAYRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8000)
	v.SetDefault("auth.secret", DefaultSecret)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("storage.db_path", filepath.Join(os.Getenv("HOME"), ".dayrunner", "dayrunner.db"))
	v.SetDefault("github.owner", "ZOROOZZ")
	v.SetDefault("github.repo", "daily-python-progress")
	v.SetDefault("github.ref", "main")
	v.SetDefault("github.token", "")
	v.SetDefault("execute.python_bin", "python3")
	v.SetDefault("execute.default_timeout", 10*time.Second)
	v.SetDefault("execute.max_timeout", 60*time.Second)

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// SecretIsDefault reports whether the signing secret was never overridden.
func (c *Config) SecretIsDefault() bool {
	return c.Auth.Secret == DefaultSecret
}
