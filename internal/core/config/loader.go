package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"layered/internal/core/errors"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	cfg.Observability.SampleRateSet = meta.IsDefined("observability", "sample_rate")

	ApplyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.AddContext(errors.Wrap(stderrors.Join(errs...), errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}

	return &cfg, nil
}

// LoadOrDefault loads path. When path is the implicit default file and it
// does not exist, defaults are returned instead.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.IsCode(err, errors.CodeNotFound) {
		cfg = &Config{}
		ApplyEnvOverrides(cfg)
		applyDefaults(cfg)
		if errs := Validate(cfg); len(errs) > 0 {
			return nil, errors.Wrap(stderrors.Join(errs...), errors.CodeValidationError, "invalid environment overrides")
		}
		return cfg, nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"src"}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"target", ".git"}
	}

	if strings.TrimSpace(cfg.Expand.Marker) == "" {
		cfg.Expand.Marker = "layers"
	}
	if strings.TrimSpace(cfg.Expand.DependsOn) == "" {
		cfg.Expand.DependsOn = "depends_on"
	}
	if strings.TrimSpace(cfg.Expand.Namespace) == "" {
		cfg.Expand.Namespace = "crate_"
	}
	if strings.TrimSpace(cfg.Expand.OutputDir) == "" {
		cfg.Expand.OutputDir = "target/layered"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.Rate == 0 {
		cfg.Watch.Rate = 4
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 1
	}

	if !cfg.Observability.SampleRateSet && cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}
}
