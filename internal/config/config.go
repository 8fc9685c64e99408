// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the typed settings object from paper-digest.yaml
// plus the environment. API keys resolve from {PROVIDER}_API_KEY env
// vars or .secrets/ files; HTTPS_PROXY/HTTP_PROXY fill the browser
// proxy when the file leaves it empty.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/secrets"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const secretsDir = ".secrets/"

// Load reads the configuration. cfgFile, when non-empty, names an
// explicit YAML file; otherwise paper-digest.yaml is searched in the
// working directory and ~/.config/paper-digest/. A missing file is not
// an error: defaults apply.
func Load(cfgFile string) (types.Config, error) {
	// .env is optional; environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("paper-digest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "paper-digest"))
		}
	}

	v.SetEnvPrefix("PAPER_DIGEST")
	v.AutomaticEnv()

	cfg := types.Default()

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return cfg, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if err := v.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	resolveAPIKey(&cfg)
	resolveProxy(&cfg)

	return cfg, nil
}

// resolveAPIKey fills cfg.API.APIKey from the text provider's key,
// falling back to the VL provider's key.
func resolveAPIKey(cfg *types.Config) {
	loaded, err := secrets.Load(secretsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		loaded = map[string]string{}
	}

	if key := secrets.APIKey(cfg.API.Text.Provider, loaded); key != "" {
		cfg.API.APIKey = key
		return
	}
	if key := secrets.APIKey(cfg.API.VL.Provider, loaded); key != "" {
		cfg.API.APIKey = key
	}
}

// resolveProxy fills the browser proxy from HTTPS_PROXY or HTTP_PROXY
// when the config leaves it empty.
func resolveProxy(cfg *types.Config) {
	if cfg.Browser.Proxy != "" {
		return
	}
	if p := os.Getenv("HTTPS_PROXY"); p != "" {
		cfg.Browser.Proxy = p
		return
	}
	cfg.Browser.Proxy = os.Getenv("HTTP_PROXY")
}
