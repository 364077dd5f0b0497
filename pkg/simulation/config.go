package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	golog "github.com/tochemey/goakt/v3/log"
	"gopkg.in/yaml.v3"

	"github.com/MurilloYonamine/go-boid-study/pkg/behavior"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

// ErrInvalidConfig is returned when a config passes the schema but its values don't make sense together.
var ErrInvalidConfig = errors.New("invalid config")

// UnitKind is one species of fish the spawner can create.
type UnitKind struct {
	Name  string  `json:"name" yaml:"name"`
	Mass  float64 `json:"mass" yaml:"mass"`
	Speed float64 `json:"speed" yaml:"speed"` // world units per second
}

type Config struct {
	// World Dimensions, used when no scene is loaded
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight"`

	// Population
	SpawnCount     int        `json:"spawnCount" yaml:"spawnCount"`
	SpawnMargin    float64    `json:"spawnMargin" yaml:"spawnMargin"`       // keeps the initial population away from the area edge
	IntruderOffset float64    `json:"intruderOffset" yaml:"intruderOffset"` // how far right of the area intruders appear
	Kinds          []UnitKind `json:"kinds" yaml:"kinds"`

	// Avoidance
	RepulsionStrength float64 `json:"repulsionStrength" yaml:"repulsionStrength"`
	DetectionRadius   float64 `json:"detectionRadius" yaml:"detectionRadius"`
	AvoidanceInterval float64 `json:"avoidanceInterval" yaml:"avoidanceInterval"` // seconds between recomputations

	// Steering
	DirectionSmoothing    float64 `json:"directionSmoothing" yaml:"directionSmoothing"`
	AutonomousAvoidWeight float64 `json:"autonomousAvoidWeight" yaml:"autonomousAvoidWeight"`
	NavigationAvoidWeight float64 `json:"navigationAvoidWeight" yaml:"navigationAvoidWeight"`
	BoundaryMargin        float64 `json:"boundaryMargin" yaml:"boundaryMargin"`

	// Navigation
	NavCellSize           float64 `json:"navCellSize" yaml:"navCellSize"`
	PathDesiredDistance   float64 `json:"pathDesiredDistance" yaml:"pathDesiredDistance"`
	TargetDesiredDistance float64 `json:"targetDesiredDistance" yaml:"targetDesiredDistance"`

	// Runtime
	Scene      string `json:"scene" yaml:"scene"` // empty means the bundled pond
	SpritesDir string `json:"spritesDir" yaml:"spritesDir"`
	ShowGizmos bool   `json:"showGizmos" yaml:"showGizmos"`
	Seed       uint64 `json:"seed" yaml:"seed"` // 0 picks a random seed
	LogLevel   string `json:"logLevel" yaml:"logLevel"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:     1280,
		WorldHeight:    720,
		SpawnCount:     10,
		SpawnMargin:    80,
		IntruderOffset: 100,
		Kinds: []UnitKind{
			{Name: "minnow", Mass: 0.5, Speed: 140},
			{Name: "carp", Mass: 1.0, Speed: 110},
			{Name: "pike", Mass: 3.0, Speed: 90},
		},
		RepulsionStrength:     behavior.DefaultRepulsionStrength,
		DetectionRadius:       behavior.DefaultDetectionRadius,
		AvoidanceInterval:     0.1,
		DirectionSmoothing:    0.1,
		AutonomousAvoidWeight: 0.5,
		NavigationAvoidWeight: 0.3,
		BoundaryMargin:        50,
		NavCellSize:           16,
		PathDesiredDistance:   10,
		TargetDesiredDistance: 10,
		SpritesDir:            "assets/sprites/fishes",
		LogLevel:              "info",
	}
}

// LoadConfig reads a JSON or YAML file (by extension), validates it against the
// embedded schema and merges it over DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	cfg, err := ParseConfig(b, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format ("json" or "yaml").
func ParseConfig(data []byte, format string) (*Config, error) {
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var doc interface{}
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode config json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if doc == nil {
		// an empty YAML document means "all defaults"
		doc = map[string]interface{}{}
	}

	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	switch format {
	case "json":
		err = json.Unmarshal(data, cfg)
	case "yaml":
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the rules the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		errs = append(errs, fmt.Errorf("world size %gx%g must be positive", c.WorldWidth, c.WorldHeight))
	}
	if len(c.Kinds) == 0 {
		errs = append(errs, errors.New("at least one unit kind is required"))
	}
	for i, k := range c.Kinds {
		if k.Mass <= 0 {
			errs = append(errs, fmt.Errorf("kind %d (%s) has non-positive mass", i, k.Name))
		}
	}
	if c.DetectionRadius <= 0 {
		errs = append(errs, fmt.Errorf("detection radius %g must be positive", c.DetectionRadius))
	}
	if c.NavCellSize <= 0 {
		errs = append(errs, fmt.Errorf("navigation cell size %g must be positive", c.NavCellSize))
	}
	if c.SpawnMargin*2 >= min(c.WorldWidth, c.WorldHeight) {
		errs = append(errs, fmt.Errorf("spawn margin %g leaves no room in a %gx%g world", c.SpawnMargin, c.WorldWidth, c.WorldHeight))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Avoidance returns the avoidance rule described by the config.
func (c *Config) Avoidance() behavior.Avoidance {
	return behavior.NewAvoidance(c.RepulsionStrength, c.DetectionRadius)
}

// Steering returns the steering weights described by the config.
func (c *Config) Steering() behavior.Steering {
	return behavior.Steering{
		Smoothing:             c.DirectionSmoothing,
		AutonomousAvoidWeight: c.AutonomousAvoidWeight,
		NavigationAvoidWeight: c.NavigationAvoidWeight,
		BoundaryMargin:        c.BoundaryMargin,
	}
}

// Level maps LogLevel onto the actor system log levels.
func (c *Config) Level() golog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return golog.DebugLevel
	case "warn":
		return golog.WarningLevel
	case "error":
		return golog.ErrorLevel
	default:
		return golog.InfoLevel
	}
}
