package config

import (
	"time"
)

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "layered.toml"

type Config struct {
	Version       int           `toml:"version"`
	Paths         []string      `toml:"paths"`
	ProjectRoot   string        `toml:"project_root"`
	Exclude       Exclude       `toml:"exclude"`
	Expand        Expand        `toml:"expand"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Expand controls how layered modules are recognised and rewritten.
type Expand struct {
	Marker    string `toml:"marker"`
	DependsOn string `toml:"depends_on"`
	Namespace string `toml:"namespace"`
	OutputDir string `toml:"output_dir"`
	InPlace   bool   `toml:"in_place"`
}

type Output struct {
	SARIF   string `toml:"sarif"`
	DOT     string `toml:"dot"`
	Mermaid string `toml:"mermaid"`
	TSV     string `toml:"tsv"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Rate and Burst bound how often a changed file is re-expanded.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type Observability struct {
	MetricsAddr  string  `toml:"metrics_addr"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRate   float64 `toml:"sample_rate"`
	// SampleRateSet distinguishes an explicit 0 from an absent key.
	SampleRateSet bool `toml:"-"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
