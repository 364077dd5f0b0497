package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	golog "github.com/tochemey/goakt/v3/log"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.SpawnCount)
	assert.Equal(t, 80.0, cfg.SpawnMargin)
	assert.Equal(t, 100.0, cfg.IntruderOffset)
	assert.Len(t, cfg.Kinds, 3)
	assert.Equal(t, 1.0, cfg.RepulsionStrength)
	assert.Equal(t, 60.0, cfg.DetectionRadius)
	assert.Equal(t, 0.1, cfg.AvoidanceInterval)
}

func TestLoadConfig_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := LoadConfig("testdata/pond.json")
	require.NoError(t, err)
	fromYAML, err := LoadConfig("testdata/pond.yaml")
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)

	assert.Equal(t, 25, fromJSON.SpawnCount)
	assert.Equal(t, 80.0, fromJSON.DetectionRadius)
	assert.Equal(t, 1.5, fromJSON.RepulsionStrength)
	assert.Equal(t, uint64(7), fromJSON.Seed)
	require.Len(t, fromJSON.Kinds, 2)
	assert.Equal(t, UnitKind{Name: "koi", Mass: 2, Speed: 80}, fromJSON.Kinds[1])

	// untouched fields keep their defaults
	assert.Equal(t, 80.0, fromJSON.SpawnMargin)
	assert.Equal(t, 0.5, fromJSON.AutonomousAvoidWeight)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("testdata/missing.json")
	assert.Error(t, err)

	_, err = LoadConfig("testdata/negative_radius.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	_, err = LoadConfig("testdata/typo.yaml")
	require.Error(t, err, "unknown keys are rejected")
}

func TestParseConfig(t *testing.T) {
	t.Run("empty yaml is all defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(""), "yaml")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := ParseConfig([]byte("a = 1"), "toml")
		assert.Error(t, err)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := ParseConfig([]byte("{"), "json")
		assert.Error(t, err)
	})

	t.Run("kind without mass", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"kinds":[{"name":"ghost","speed":1}]}`), "json")
		assert.Error(t, err)
	})

	t.Run("semantic check", func(t *testing.T) {
		_, err := ParseConfig([]byte("worldWidth: 100\nworldHeight: 100\nspawnMargin: 60\n"), "yaml")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kinds = nil
	cfg.DetectionRadius = 0

	err := cfg.Validate()

	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "unit kind")
	assert.Contains(t, err.Error(), "detection radius")
}

func TestConfig_Derived(t *testing.T) {
	cfg := DefaultConfig()

	avoid := cfg.Avoidance()
	assert.Equal(t, cfg.RepulsionStrength, avoid.RepulsionStrength)
	assert.Equal(t, cfg.DetectionRadius, avoid.DetectionRadius)

	steer := cfg.Steering()
	assert.Equal(t, 0.1, steer.Smoothing)
	assert.Equal(t, 0.5, steer.AutonomousAvoidWeight)
	assert.Equal(t, 0.3, steer.NavigationAvoidWeight)
	assert.Equal(t, 50.0, steer.BoundaryMargin)
}

func TestConfig_Level(t *testing.T) {
	tests := map[string]golog.Level{
		"debug": golog.DebugLevel,
		"info":  golog.InfoLevel,
		"WARN":  golog.WarningLevel,
		"error": golog.ErrorLevel,
		"":      golog.InfoLevel,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.Level(), in)
	}
}
