// Package config loads the tunables shared by the diorama scenes.
//
// Tunables live in a TOML document with one section per concern. Every
// key is optional; Load layers the file over Default so a config may set
// only the values it wants to change.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/sim"
	"github.com/taigrr/diorama/pkg/terrain"
)

// Config is the full set of scene tunables.
type Config struct {
	Physics Physics `toml:"physics"`
	Terrain Terrain `toml:"terrain"`
	Camera  Camera  `toml:"camera"`
	Display Display `toml:"display"`
}

// Physics tunes the rolling-ball simulation.
type Physics struct {
	// Gravity is the vertical acceleration applied to the ball.
	// Negative pulls down.
	Gravity       float64 `toml:"gravity"`
	ForceStrength float64 `toml:"force_strength"`
	JumpSpeed     float64 `toml:"jump_speed"`
	Friction      float64 `toml:"friction"`
	Elasticity    float64 `toml:"elasticity"`
}

// Terrain tunes the generated height field.
type Terrain struct {
	Width         int     `toml:"width"`
	Depth         int     `toml:"depth"`
	CellSize      float64 `toml:"cell_size"`
	RoadHalfWidth float64 `toml:"road_half_width"`
	BumpAmplitude float64 `toml:"bump_amplitude"`
	Seed          int64   `toml:"seed"`
}

// Camera tunes the orbit and follow cameras.
type Camera struct {
	FOVDegrees  float64 `toml:"fov_degrees"`
	MinDistance float64 `toml:"min_distance"`
	MaxDistance float64 `toml:"max_distance"`
	FollowRate  float64 `toml:"follow_rate"`
}

// Display tunes frame pacing and colors.
type Display struct {
	FPS int `toml:"fps"`

	// Background overrides a scene's clear color when it holds three
	// components in [0,1]. Empty keeps the scene default.
	Background []float64 `toml:"background"`
}

// Default returns the tunables the scenes ship with.
func Default() Config {
	t := terrain.DefaultConfig()
	return Config{
		Physics: Physics{
			Gravity:       -9.8,
			ForceStrength: 15,
			JumpSpeed:     8,
			Friction:      0.95,
			Elasticity:    0.8,
		},
		Terrain: Terrain{
			Width:         t.Width,
			Depth:         t.Depth,
			CellSize:      t.CellSize,
			RoadHalfWidth: t.RoadHalfWidth,
			BumpAmplitude: t.BumpAmplitude,
			Seed:          t.Seed,
		},
		Camera: Camera{
			FOVDegrees:  60,
			MinDistance: 0.5,
			MaxDistance: 100,
			FollowRate:  5,
		},
		Display: Display{
			FPS: 60,
		},
	}
}

// Load reads a TOML tunables file, layering it over Default. An empty
// path returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// TerrainConfig maps the terrain section onto the generator's config.
func (c Config) TerrainConfig() terrain.Config {
	return terrain.Config{
		Width:         c.Terrain.Width,
		Depth:         c.Terrain.Depth,
		CellSize:      c.Terrain.CellSize,
		RoadHalfWidth: c.Terrain.RoadHalfWidth,
		BumpAmplitude: c.Terrain.BumpAmplitude,
		Seed:          c.Terrain.Seed,
	}
}

// SimConfig assembles the rolling-ball world configuration. The terrain
// seed also drives entity placement so one seed reproduces a whole run.
func (c Config) SimConfig() sim.Config {
	return sim.Config{
		Terrain:        c.TerrainConfig(),
		Gravity:        math3d.V3(0, c.Physics.Gravity, 0),
		ForceStrength:  c.Physics.ForceStrength,
		JumpSpeed:      c.Physics.JumpSpeed,
		BallFriction:   c.Physics.Friction,
		BallElasticity: c.Physics.Elasticity,
		Seed:           c.Terrain.Seed,
	}
}

// FOVRadians converts the configured vertical field of view.
func (c Camera) FOVRadians() float64 {
	return c.FOVDegrees * math.Pi / 180
}

// HasBackground reports whether the config overrides the scene clear color.
func (d Display) HasBackground() bool {
	return len(d.Background) == 3
}

// BackgroundRGB returns the override clear color components.
func (d Display) BackgroundRGB() (r, g, b float64) {
	if !d.HasBackground() {
		return 0, 0, 0
	}
	return d.Background[0], d.Background[1], d.Background[2]
}
