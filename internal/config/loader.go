package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load layers configuration sources, lowest to highest precedence:
//  1. defaults (New)
//  2. YAML file named by KICKABOUT_CONFIG, if set
//  3. environment variables with the KICKABOUT_ prefix
//
// Env keys map flat: KICKABOUT_K_FACTOR -> k_factor, KICKABOUT_ADDR -> addr.
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv("KICKABOUT_CONFIG")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("KICKABOUT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "kickabout_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.CostMode != "tag-value" && cfg.CostMode != "tag-count" {
		return nil, errors.New("cost_mode must be tag-value or tag-count")
	}
	return &cfg, nil
}
