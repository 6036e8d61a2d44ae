package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "solar" {
		t.Errorf("expected scenario solar, got %s", cfg.Scenario)
	}
	if cfg.G <= 0 {
		t.Error("g should be positive")
	}
	if cfg.Theta != DefaultTheta {
		t.Errorf("expected theta %v, got %v", DefaultTheta, cfg.Theta)
	}
	if !cfg.Substepping {
		t.Error("substepping should default on")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("scenario: binary\ntheta: 0.3\ntime_scale: 500\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scenario != "binary" || cfg.Theta != 0.3 || cfg.TimeScale != 500 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.G != DefaultG {
		t.Errorf("unset field should keep default, got g=%v", cfg.G)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.TimeScale = 123

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TimeScale != 123 {
		t.Errorf("round trip lost time_scale: %v", loaded.TimeScale)
	}
}

func TestBuildBodies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{
		{ID: "anchor", Mass: 1e30, Radius: 1000, Fixed: true},
		{ID: "probe", Mass: 1e3, Position: [3]float64{1e6, 0, 0}, Velocity: [3]float64{0, 1, 0}},
	}

	bodies, err := cfg.BuildBodies()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if !bodies[0].Fixed || bodies[1].Fixed {
		t.Error("fixed flag not carried over")
	}
	if bodies[1].Pos.X != 1e6 || bodies[1].Vel.Y != 1 {
		t.Errorf("state not carried over: %+v", bodies[1])
	}
}

func TestBuildBodiesRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{{ID: "bad", Mass: 0}}

	if _, err := cfg.BuildBodies(); err == nil {
		t.Error("expected error for zero mass")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("solar", "fast")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.TimeScale != 1000 {
		t.Errorf("expected time scale 1000, got %v", cfg.TimeScale)
	}

	if GetPreset("solar", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "fast") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("solar")) == 0 {
		t.Error("expected presets for solar")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}
