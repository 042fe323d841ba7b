package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubesim.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustLoad(t *testing.T, path string) *Config {
	t.Helper()
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDB, "")

	cfg := mustLoad(t, "")
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
	if cfg.Cube.TwistDuration != gocube.DefaultTwistDuration {
		t.Errorf("TwistDuration = %v", cfg.Cube.TwistDuration)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	cfg := mustLoad(t, writeConfig(t, `
log:
  level: debug
cube:
  twist_duration: 250ms
  shuffle_alphabet: RrUu
  seed: 12
server:
  addr: ":9000"
`))

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, untouched keys keep their defaults", cfg.Log.Format)
	}
	if cfg.Cube.TwistDuration != 250*time.Millisecond {
		t.Errorf("TwistDuration = %v", cfg.Cube.TwistDuration)
	}
	if cfg.Cube.ShuffleAlphabet != "RrUu" || cfg.Cube.Seed != 12 {
		t.Errorf("cube = %+v", cfg.Cube)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.StreamPath != "/ws" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeConfig(t, "database:\n  path: /tmp/from-file.db\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvDB, "")

	if got := mustLoad(t, "").Database.Path; got != "/tmp/from-file.db" {
		t.Errorf("Database.Path = %q, want the file's", got)
	}

	t.Setenv(EnvDB, "/tmp/from-env.db")
	if got := mustLoad(t, "").Database.Path; got != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want the environment's", got)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvDB, "")

	tests := map[string]string{
		"missing file":   filepath.Join(t.TempDir(), "missing.yaml"),
		"bad yaml shape": writeConfig(t, "cube: [not, a, map]"),
		"invalid value":  writeConfig(t, "interaction:\n  drag_speed: -1\n"),
	}
	for name, path := range tests {
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load succeeded", name)
		}
	}
}

func TestCubeOptions(t *testing.T) {
	cfg := Default()
	cfg.Cube.TwistDuration = 0
	cfg.Cube.Seed = 5

	a := gocube.NewCube(cfg.Cube.Options(nil)...)
	b := gocube.NewCube(cfg.Cube.Options(nil)...)
	if sa, sb := gocube.FormatTwists(a.Shuffle(10)), gocube.FormatTwists(b.Shuffle(10)); sa != sb {
		t.Errorf("seeded shuffles differ: %q vs %q", sa, sb)
	}

	a.Settle()
	if a.IsShuffling() {
		t.Error("zero duration settles immediately")
	}
}

func TestInteractionApply(t *testing.T) {
	c := gocube.NewCube()
	in := gocube.NewInteraction(c, gocube.NewProjector(c, gocube.DefaultCamera(), 100, 100))

	InteractionConfig{DragSpeed: 2}.Apply(in)
	if in.DragSpeed != 2 {
		t.Errorf("DragSpeed = %v", in.DragSpeed)
	}
	if in.DragThreshold != gocube.DefaultDragThreshold {
		t.Errorf("zero DragThreshold should keep the default, got %v", in.DragThreshold)
	}
}
