package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"layered/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1
paths = ["crates/core/src", "crates/cli/src"]

[exclude]
dirs = ["target", "vendor"]
files = ["*_generated.rs"]

[expand]
marker = "layered"
depends_on = "uses"
namespace = "deps_"
output_dir = "out"
in_place = true

[output]
sarif = "layered.sarif"
dot = "layers.dot"
mermaid = "layers.mmd"
tsv = "layers.tsv"

[watch]
debounce = "1s"
rate = 2.5
burst = 3

[observability]
metrics_addr = "127.0.0.1:9464"
otlp_endpoint = "localhost:4317"
sample_rate = 0.25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Paths) != 2 || cfg.Paths[1] != "crates/cli/src" {
		t.Errorf("unexpected paths: %v", cfg.Paths)
	}
	if len(cfg.Exclude.Dirs) != 2 || cfg.Exclude.Dirs[1] != "vendor" {
		t.Errorf("unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}
	if cfg.Expand.Marker != "layered" || cfg.Expand.DependsOn != "uses" || cfg.Expand.Namespace != "deps_" {
		t.Errorf("unexpected expand names: %+v", cfg.Expand)
	}
	if !cfg.Expand.InPlace || cfg.Expand.OutputDir != "out" {
		t.Errorf("unexpected expand output: %+v", cfg.Expand)
	}
	if cfg.Output.SARIF != "layered.sarif" || cfg.Output.TSV != "layers.tsv" {
		t.Errorf("unexpected output: %+v", cfg.Output)
	}
	if cfg.Watch.Debounce != time.Second || cfg.Watch.Rate != 2.5 || cfg.Watch.Burst != 3 {
		t.Errorf("unexpected watch: %+v", cfg.Watch)
	}
	if cfg.Observability.SampleRate != 0.25 {
		t.Errorf("expected sample rate 0.25, got %v", cfg.Observability.SampleRate)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0] != "src" {
		t.Errorf("expected default paths [src], got %v", cfg.Paths)
	}
	if strings.Join(cfg.Exclude.Dirs, ",") != "target,.git" {
		t.Errorf("unexpected default exclude dirs: %v", cfg.Exclude.Dirs)
	}
	if cfg.Expand.Marker != "layers" || cfg.Expand.DependsOn != "depends_on" || cfg.Expand.Namespace != "crate_" {
		t.Errorf("unexpected default expand names: %+v", cfg.Expand)
	}
	if cfg.Expand.OutputDir != "target/layered" || cfg.Expand.InPlace {
		t.Errorf("unexpected default expand output: %+v", cfg.Expand)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond || cfg.Watch.Rate != 4 || cfg.Watch.Burst != 1 {
		t.Errorf("unexpected default watch: %+v", cfg.Watch)
	}
	if cfg.Observability.SampleRate != 1.0 {
		t.Errorf("expected default sample rate 1.0, got %v", cfg.Observability.SampleRate)
	}
}

func TestLoadExplicitZeroSampleRate(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[observability]\nsample_rate = 0.0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Observability.SampleRate != 0 {
		t.Errorf("expected explicit sample rate 0 to be kept, got %v", cfg.Observability.SampleRate)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	_, err = Load(writeConfig(t, "paths = [\n"))
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR for malformed toml, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"version", "version = 3\n", "unsupported config version 3"},
		{"marker", "[expand]\nmarker = \"not an ident\"\n", "expand.marker must be an identifier"},
		{"namespace", "[expand]\nnamespace = \"1abc\"\n", "expand.namespace must be an identifier"},
		{"same names", "[expand]\nmarker = \"x\"\ndepends_on = \"x\"\n", "must differ"},
		{"glob", "[exclude]\nfiles = [\"[\"]\n", "exclude.files[0]"},
		{"rate", "[watch]\nrate = -1.0\n", "watch.rate must be > 0"},
		{"burst", "[watch]\nburst = -2\n", "watch.burst must be >= 1"},
		{"sample rate", "[observability]\nsample_rate = 1.5\n", "observability.sample_rate"},
		{"metrics addr", "[observability]\nmetrics_addr = \"localhost\"\n", "observability.metrics_addr"},
		{"output conflict", "[output]\ndot = \"g.out\"\nmermaid = \"g.out\"\n", "output conflict: output.dot and output.mermaid"},
		{"empty path", "paths = [\"src\", \" \"]\n", "paths[1] must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultFile)

	cfg, err := LoadOrDefault(missing, false)
	if err != nil {
		t.Fatalf("expected defaults for missing implicit config, got %v", err)
	}
	if cfg.Expand.Marker != "layers" {
		t.Errorf("expected default marker, got %q", cfg.Expand.Marker)
	}

	if _, err := LoadOrDefault(missing, true); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for explicit missing config, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LAYERED_EXPAND_IN_PLACE", "true")
	t.Setenv("LAYERED_EXPAND_NAMESPACE", "deps")
	t.Setenv("LAYERED_WATCH_DEBOUNCE", "2s")
	t.Setenv("LAYERED_WATCH_BURST", "not-a-number")
	t.Setenv("LAYERED_OBSERVABILITY_SAMPLE_RATE", "0")

	cfg, err := Load(writeConfig(t, "[watch]\nburst = 5\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Expand.InPlace || cfg.Expand.Namespace != "deps" {
		t.Errorf("env overrides not applied to expand: %+v", cfg.Expand)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.Burst != 5 {
		t.Errorf("invalid override must be ignored, got burst %d", cfg.Watch.Burst)
	}
	if cfg.Observability.SampleRate != 0 {
		t.Errorf("expected sample rate override 0, got %v", cfg.Observability.SampleRate)
	}
}
