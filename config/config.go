package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/storefleet/dispatch/core/dispatch"
	"github.com/storefleet/dispatch/core/metrics"
	"github.com/storefleet/dispatch/simulator"
)

type Config struct {
	Dispatch dispatch.Config  `json:"dispatch"`
	Metrics  metrics.Config   `json:"metrics"`
	Journal  JournalConfig    `json:"journal"`
	Fleet    simulator.Config `json:"fleet"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SD_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Dispatch.SetDefaults()
	cfg.Journal.SetDefaults()
	cfg.Fleet.SetDefaults()
	if err := cfg.Dispatch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Journal.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
