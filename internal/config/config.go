// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, command-line flags, and environment variables, in that
// order of increasing precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values applied before any file or flag overrides.
const (
	DefaultListenAddr  = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
)

// Config holds everything the serve command needs to run.
type Config struct {
	ListenAddr  string `koanf:"listen_addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	DatabaseURL string `koanf:"database_url"`
	TokenSecret string `koanf:"token_secret"`
	LogFormat   string `koanf:"log_format"`
}

// Defaults returns a Config populated with built-in defaults.
// DatabaseURL and TokenSecret have no defaults and must be supplied.
func Defaults() *Config {
	return &Config{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		LogFormat:   DefaultLogFormat,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and the given flag set. Flag names use dashes and are
// mapped to the underscore keys used in the file. The DATABASE_URL and
// SPENDLOG_TOKEN_SECRET environment variables override everything else so
// secrets can stay out of files and process listings.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.
				Code("CONFIG_FILE_UNREADABLE").
				With("path", path).
				Wrapf(err, "load config file")
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrapf(err, "load flags")
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrapf(err, "unmarshal config")
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SPENDLOG_TOKEN_SECRET"); v != "" {
		cfg.TokenSecret = v
	}

	return cfg, nil
}

// Validate checks that the configuration is complete and consistent.
func (cfg *Config) Validate() error {
	if cfg.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").New("listen-addr is required")
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").New("database URL is required (set DATABASE_URL or database_url)")
	}
	if cfg.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").New("token secret is required (set SPENDLOG_TOKEN_SECRET or token_secret)")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return oops.
			Code("CONFIG_INVALID").
			With("log_format", cfg.LogFormat).
			New("log-format must be 'json' or 'text'")
	}
	return nil
}
