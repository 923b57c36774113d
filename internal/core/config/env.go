package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: LAYERED_[SECTION]_[KEY] (e.g., LAYERED_EXPAND_IN_PLACE).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.ProjectRoot, "LAYERED_PROJECT_ROOT")

	// Expand
	setEnvString(&cfg.Expand.Marker, "LAYERED_EXPAND_MARKER")
	setEnvString(&cfg.Expand.DependsOn, "LAYERED_EXPAND_DEPENDS_ON")
	setEnvString(&cfg.Expand.Namespace, "LAYERED_EXPAND_NAMESPACE")
	setEnvString(&cfg.Expand.OutputDir, "LAYERED_EXPAND_OUTPUT_DIR")
	setEnvBool(&cfg.Expand.InPlace, "LAYERED_EXPAND_IN_PLACE")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "LAYERED_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.Rate, "LAYERED_WATCH_RATE")
	setEnvInt(&cfg.Watch.Burst, "LAYERED_WATCH_BURST")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "LAYERED_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "LAYERED_OBSERVABILITY_OTLP_ENDPOINT")
	if setEnvFloat64(&cfg.Observability.SampleRate, "LAYERED_OBSERVABILITY_SAMPLE_RATE") {
		cfg.Observability.SampleRateSet = true
	}
}

func setEnvString(target *string, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
		return true
	}
	return false
}

func setEnvInt(target *int, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
			return true
		}
		slog.Warn("ignoring invalid env override", "key", key, "value", val)
	}
	return false
}

func setEnvBool(target *bool, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
			return true
		}
		slog.Warn("ignoring invalid env override", "key", key, "value", val)
	}
	return false
}

func setEnvFloat64(target *float64, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
			return true
		}
		slog.Warn("ignoring invalid env override", "key", key, "value", val)
	}
	return false
}

func setEnvDuration(target *time.Duration, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
			return true
		}
		slog.Warn("ignoring invalid env override", "key", key, "value", val)
	}
	return false
}
