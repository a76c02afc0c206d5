package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/creasty/defaults"
	auth "github.com/goliatone/go-auth-cookie"
	"github.com/spf13/viper"
)

// Config holds CLI configuration loaded from a config file, COOKIEJWT_*
// environment variables and flags.
type Config struct {
	Auth     auth.Options `mapstructure:"auth"`
	Addr     string       `mapstructure:"addr" default:":8080"`
	DSN      string       `mapstructure:"dsn" default:"file::memory:?cache=shared"`
	LogLevel string       `mapstructure:"log_level" default:"INFO"`
}

var envKeys = []string{
	"auth.signing_key",
	"auth.session_duration",
	"auth.auto_renew_cookie",
	"auth.renew_expired",
	"auth.issuer",
	"auth.audience",
	"auth.identity_cookie.name",
	"auth.identity_cookie.domain",
	"auth.identity_cookie.secure",
	"addr",
	"dsn",
	"log_level",
}

func loadConfig(v *viper.Viper, file string) (*Config, error) {
	cfg := &Config{Auth: auth.DefaultOptions()}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("COOKIEJWT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("cookiejwt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && file != "" {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "WARN":
		slogLevel = slog.LevelWarn
	case "ERROR":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	return slog.New(h)
}
