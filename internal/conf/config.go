// Package conf holds the service configuration, loaded from a YAML file,
// environment variables and command-line flags via Viper.
package conf

import (
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/errors"
)

// Defaults mirroring the data file's historical locations and the asset
// cache naming scheme. CacheGeneration doubles as the version tag: bump it
// to invalidate every previously cached shell asset.
const (
	DefaultListen     = ":8080"
	DefaultGeneration = "smoking-pwa-v1"
	DefaultCacheDir   = "cache"
)

// Settings is the full service configuration.
type Settings struct {
	Listen   string          `mapstructure:"listen"`
	Upstream string          `mapstructure:"upstream"`
	LogLevel string          `mapstructure:"log_level"`
	Catalog  CatalogSettings `mapstructure:"catalog"`
	Gateway  GatewaySettings `mapstructure:"gateway"`
}

// CatalogSettings configures the CSV loader.
type CatalogSettings struct {
	// Candidates are data file paths relative to the upstream origin,
	// tried in order on every load.
	Candidates []string `mapstructure:"candidates"`
	// FetchTimeout bounds each individual candidate fetch.
	FetchTimeout Duration `mapstructure:"fetch_timeout"`
	// RefreshInterval enables periodic background reloads when non-zero.
	RefreshInterval Duration `mapstructure:"refresh_interval"`
}

// GatewaySettings configures the offline asset gateway.
type GatewaySettings struct {
	// Generation names the current cache generation; all other generations
	// are pruned on startup.
	Generation string `mapstructure:"generation"`
	// Dir is where cache generations are persisted between runs.
	Dir string `mapstructure:"dir"`
	// ShellAssets are upstream paths pre-cached at install time so the app
	// shell keeps serving when the origin is unreachable.
	ShellAssets []string `mapstructure:"shell_assets"`
}

func setDefaults() {
	viper.SetDefault("listen", DefaultListen)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("catalog.candidates", []string{"stores.csv", "data/stores.csv", "docs/stores.csv"})
	viper.SetDefault("catalog.fetch_timeout", "10s")
	viper.SetDefault("catalog.refresh_interval", "0s")
	viper.SetDefault("gateway.generation", DefaultGeneration)
	viper.SetDefault("gateway.dir", DefaultCacheDir)
	viper.SetDefault("gateway.shell_assets", []string{
		"/",
		"/index.html",
		"/style.css",
		"/app.js",
		"/manifest.webmanifest",
		"/icons/icon-192.png",
		"/icons/icon-512.png",
	})
}

// Load reads the configuration. cfgFile overrides the default lookup of a
// config.yaml in the working directory; a missing config file is fine, the
// defaults plus environment variables then apply.
func Load(cfgFile string) (*Settings, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SMOKINGAREA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file").
				Component("conf").
				Category(errors.CategoryConfig).
				Build()
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, errors.Wrap(err, "decoding config").
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings invariants that would otherwise surface as
// confusing runtime failures.
func (s *Settings) Validate() error {
	if s.Upstream == "" {
		return errors.Newf("upstream origin URL is required").
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}
	u, err := url.Parse(s.Upstream)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Newf("invalid upstream origin URL %q", s.Upstream).
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}
	if len(s.Catalog.Candidates) == 0 {
		return errors.Newf("at least one catalog candidate path is required").
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}
	if s.Gateway.Generation == "" {
		return errors.Newf("gateway cache generation must not be empty").
			Component("conf").
			Category(errors.CategoryConfig).
			Build()
	}
	return nil
}
