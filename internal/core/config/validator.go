package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateExpand(cfg *Config) []error {
	var errs []error
	check := func(name, value string) {
		if !identifierPattern.MatchString(value) {
			errs = append(errs, fmt.Errorf("expand.%s must be an identifier, got %q", name, value))
		}
	}
	check("marker", cfg.Expand.Marker)
	check("depends_on", cfg.Expand.DependsOn)
	check("namespace", cfg.Expand.Namespace)

	if cfg.Expand.Marker == cfg.Expand.DependsOn {
		errs = append(errs, fmt.Errorf("expand.marker and expand.depends_on must differ, both are %q", cfg.Expand.Marker))
	}
	return errs
}

func validateExclude(cfg *Config) []error {
	var errs []error
	for i, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("exclude.dirs[%d] %q: %w", i, pattern, err))
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("exclude.files[%d] %q: %w", i, pattern, err))
		}
	}
	return errs
}

func validateOutput(cfg *Config) error {
	outputs := make(map[string]string)
	checkConflict := func(path, name string) error {
		if path == "" {
			return nil
		}
		path = filepath.Clean(path)
		if owner, exists := outputs[path]; exists {
			return fmt.Errorf("output conflict: %s and %s share the same path %q", owner, name, path)
		}
		outputs[path] = name
		return nil
	}

	if err := checkConflict(cfg.Output.SARIF, "output.sarif"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.DOT, "output.dot"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.Mermaid, "output.mermaid"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.TSV, "output.tsv"); err != nil {
		return err
	}
	return nil
}

func validateWatch(cfg *Config) []error {
	var errs []error
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce))
	}
	if cfg.Watch.Rate <= 0 {
		errs = append(errs, fmt.Errorf("watch.rate must be > 0, got %v", cfg.Watch.Rate))
	}
	if cfg.Watch.Burst < 1 {
		errs = append(errs, fmt.Errorf("watch.burst must be >= 1, got %d", cfg.Watch.Burst))
	}
	return errs
}

func validateObservability(cfg *Config) []error {
	var errs []error
	if rate := cfg.Observability.SampleRate; rate < 0 || rate > 1 {
		errs = append(errs, fmt.Errorf("observability.sample_rate must be within [0, 1], got %v", rate))
	}
	if addr := strings.TrimSpace(cfg.Observability.MetricsAddr); addr != "" && !strings.Contains(addr, ":") {
		errs = append(errs, fmt.Errorf("observability.metrics_addr must be host:port, got %q", addr))
	}
	return errs
}

func validatePaths(cfg *Config) []error {
	var errs []error
	for i, path := range cfg.Paths {
		if strings.TrimSpace(path) == "" {
			errs = append(errs, fmt.Errorf("paths[%d] must not be empty", i))
		}
	}
	return errs
}

// Validate returns every problem found in cfg.
func Validate(cfg *Config) []error {
	var errs []error

	if err := validateVersion(cfg); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validatePaths(cfg)...)
	errs = append(errs, validateExclude(cfg)...)
	errs = append(errs, validateExpand(cfg)...)
	if err := validateOutput(cfg); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validateWatch(cfg)...)
	errs = append(errs, validateObservability(cfg)...)

	return errs
}
