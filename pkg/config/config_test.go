package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/taigrr/diorama/pkg/sim"
	"github.com/taigrr/diorama/pkg/terrain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diorama.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMirrorsSimDefaults(t *testing.T) {
	// The packaged defaults and the simulation's own defaults describe
	// the same run.
	got := Default().SimConfig()
	want := sim.DefaultConfig()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Default().SimConfig() = %+v, want %+v", got, want)
	}

	if tc := Default().TerrainConfig(); !reflect.DeepEqual(tc, terrain.DefaultConfig()) {
		t.Errorf("Default().TerrainConfig() = %+v, want %+v", tc, terrain.DefaultConfig())
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Load of a missing file should return an error")
	}
	// Callers still get usable defaults alongside the error.
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load on error = %+v, want defaults", cfg)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := writeConfig(t, `
[physics]
gravity = -20.0
jump_speed = 12.0

[terrain]
seed = 42

[display]
fps = 30
background = [0.1, 0.2, 0.3]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Physics.Gravity != -20 {
		t.Errorf("gravity = %v, want -20", cfg.Physics.Gravity)
	}
	if cfg.Physics.JumpSpeed != 12 {
		t.Errorf("jump_speed = %v, want 12", cfg.Physics.JumpSpeed)
	}
	if cfg.Terrain.Seed != 42 {
		t.Errorf("terrain seed = %v, want 42", cfg.Terrain.Seed)
	}
	if cfg.Display.FPS != 30 {
		t.Errorf("fps = %v, want 30", cfg.Display.FPS)
	}

	// Keys the file leaves out keep their defaults.
	def := Default()
	if cfg.Physics.ForceStrength != def.Physics.ForceStrength {
		t.Errorf("force_strength = %v, want default %v", cfg.Physics.ForceStrength, def.Physics.ForceStrength)
	}
	if cfg.Physics.Friction != def.Physics.Friction {
		t.Errorf("friction = %v, want default %v", cfg.Physics.Friction, def.Physics.Friction)
	}
	if cfg.Terrain.Width != def.Terrain.Width {
		t.Errorf("terrain width = %v, want default %v", cfg.Terrain.Width, def.Terrain.Width)
	}
	if cfg.Camera.FOVDegrees != def.Camera.FOVDegrees {
		t.Errorf("fov_degrees = %v, want default %v", cfg.Camera.FOVDegrees, def.Camera.FOVDegrees)
	}
}

func TestLoadSeedFlowsToSim(t *testing.T) {
	path := writeConfig(t, "[terrain]\nseed = 7\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	sc := cfg.SimConfig()
	if sc.Seed != 7 || sc.Terrain.Seed != 7 {
		t.Errorf("sim seed = %d, terrain seed = %d, want both 7", sc.Seed, sc.Terrain.Seed)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "[physics\ngravity = oops")
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed TOML should return an error")
	}
}

func TestFOVRadians(t *testing.T) {
	tests := []struct {
		degrees float64
		want    float64
	}{
		{60, math.Pi / 3},
		{90, math.Pi / 2},
		{180, math.Pi},
	}
	for _, tc := range tests {
		c := Camera{FOVDegrees: tc.degrees}
		if got := c.FOVRadians(); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("FOVRadians(%v) = %v, want %v", tc.degrees, got, tc.want)
		}
	}
}

func TestBackgroundOverride(t *testing.T) {
	d := Display{}
	if d.HasBackground() {
		t.Error("empty background should not report an override")
	}

	d = Display{Background: []float64{0.53, 0.81, 0.98}}
	if !d.HasBackground() {
		t.Fatal("three component background should report an override")
	}
	r, g, b := d.BackgroundRGB()
	if r != 0.53 || g != 0.81 || b != 0.98 {
		t.Errorf("BackgroundRGB() = %v,%v,%v, want 0.53,0.81,0.98", r, g, b)
	}
}
