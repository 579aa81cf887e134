// Package config provides configuration loading and access for the simulation.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "sensefield://config.schema.json"

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Terrain     TerrainConfig     `yaml:"terrain"`
	Propagation PropagationConfig `yaml:"propagation"`
	Senses      []SenseConfig     `yaml:"senses"`
	Actors      ActorsConfig      `yaml:"actors"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the visualiser.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"` // pixels per grid cell at zoom 1
}

// WorldConfig holds map dimensions.
type WorldConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Levels int   `yaml:"levels"`
	Seed   int64 `yaml:"seed"`
}

// TerrainConfig holds procedural terrain parameters. Thresholds are compared
// against opensimplex noise in [-1, 1].
type TerrainConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Scale            float64 `yaml:"scale"`
	RockThreshold    float64 `yaml:"rock_threshold"`
	CaveThreshold    float64 `yaml:"cave_threshold"`
	FoliageThreshold float64 `yaml:"foliage_threshold"`
	WaterThreshold   float64 `yaml:"water_threshold"`
	GlassThreshold   float64 `yaml:"glass_threshold"`
	Border           bool    `yaml:"border"`
}

// PropagationConfig holds parameters shared by all propagators.
type PropagationConfig struct {
	Epsilon           float64 `yaml:"epsilon"`            // strength below which cells are pruned
	MaxRadius         int     `yaml:"max_radius"`         // hard cap on any source radius
	Workers           int     `yaml:"workers"`            // 0 = runtime.NumCPU()
	ParallelThreshold int     `yaml:"parallel_threshold"` // below this many sources, compute on one goroutine
}

// SenseConfig describes how one sense kind propagates.
type SenseConfig struct {
	Kind         string  `yaml:"kind"`
	Variant      string  `yaml:"variant"`        // full | restricted
	Physics      string  `yaml:"physics"`        // linear | full
	DecayPerCell float64 `yaml:"decay_per_cell"` // linear physics only
	CellsPerUnit float64 `yaml:"cells_per_unit"` // full-strength physics only
	Metric       string  `yaml:"metric"`         // euclidean | chebyshev | manhattan
	Adjacency    string  `yaml:"adjacency"`      // eight | four
	Intensity    float64 `yaml:"intensity"`
	Angle        float64 `yaml:"angle"` // cone centre in degrees, relative to actor heading
	Span         float64 `yaml:"span"`  // cone width as a fraction of a circle, 0 = omnidirectional
	Flicker      float64 `yaml:"flicker"`
}

// ActorsConfig holds actor spawning parameters.
type ActorsConfig struct {
	Count  int      `yaml:"count"`
	Wander float64  `yaml:"wander"` // probability of moving each tick
	Kinds  []string `yaml:"kinds"`  // sense kinds assigned round-robin
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // ticks in the rolling perf window
	LogInterval         int `yaml:"log_interval"`          // ticks between perf log lines, 0 = off
	FieldLogInterval    int `yaml:"field_log_interval"`    // ticks between field log records
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Epsilon32  float32        // Propagation.Epsilon as float32
	Workers    int            // effective worker count
	SenseIndex map[string]int // kind -> index into Senses
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML data over the embedded defaults, validates the result and
// computes derived values.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		// Only overwrites fields present in data. Lists are replaced whole.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate checks the config against the embedded JSON schema.
func (c *Config) Validate() error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	doc, err := c.document()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Senses))
	for _, s := range c.Senses {
		if seen[s.Kind] {
			return fmt.Errorf("invalid config: sense %q configured twice", s.Kind)
		}
		seen[s.Kind] = true
	}
	for _, k := range c.Actors.Kinds {
		if !seen[k] {
			return fmt.Errorf("invalid config: actor kind %q has no sense entry", k)
		}
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("loading config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	return schema, nil
}

// document renders the config the way the schema sees it: YAML keys, JSON
// value types.
func (c *Config) document() (any, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("re-reading config: %w", err)
	}
	js, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("converting config to json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, fmt.Errorf("decoding config json: %w", err)
	}
	return doc, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Epsilon32 = float32(c.Propagation.Epsilon)

	c.Derived.Workers = c.Propagation.Workers
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.NumCPU()
	}

	c.Derived.SenseIndex = make(map[string]int, len(c.Senses))
	for i := range c.Senses {
		s := &c.Senses[i]
		if s.Variant == "" {
			s.Variant = "full"
		}
		if s.Physics == "" {
			s.Physics = "linear"
		}
		c.Derived.SenseIndex[s.Kind] = i
	}

	if len(c.Actors.Kinds) == 0 {
		for _, s := range c.Senses {
			c.Actors.Kinds = append(c.Actors.Kinds, s.Kind)
		}
	}
}

// Sense returns the configuration for a sense kind.
func (c *Config) Sense(kind string) (SenseConfig, bool) {
	i, ok := c.Derived.SenseIndex[kind]
	if !ok {
		return SenseConfig{}, false
	}
	return c.Senses[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
