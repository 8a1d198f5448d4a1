package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mindcanvas/pkg/errors"
	"github.com/matzehuels/mindcanvas/pkg/route"
	"github.com/matzehuels/mindcanvas/pkg/rtl"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[layout]
branch_spacing = 100

[connection]
style = "organic"
segments = 6

[locale]
direction = "rtl"

[focus]
reduced_motion = true

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "1h"
`)

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.BranchSpacing != 100 {
		t.Errorf("BranchSpacing = %v, want 100", cfg.Layout.BranchSpacing)
	}
	if cfg.Layout.NodeSpacing != Default().Layout.NodeSpacing {
		t.Error("unset key did not keep its default")
	}
	if cfg.RouteStyle() != route.Organic {
		t.Errorf("RouteStyle() = %v", cfg.RouteStyle())
	}
	if cfg.Direction() != rtl.RTL {
		t.Errorf("Direction() = %v", cfg.Direction())
	}
	if !cfg.RouteOptions().ReducedMotion || cfg.FocusConfig().TransitionDuration() != 0 {
		t.Error("reduced motion did not reach route and focus options")
	}
	if ttl, _ := cfg.CacheTTL(); ttl != time.Hour {
		t.Errorf("CacheTTL() = %v, want 1h", ttl)
	}
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := Load(missing, true)
	if err != nil {
		t.Fatalf("Load(allowMissing) error: %v", err)
	}
	if cfg != Default() {
		t.Error("missing file did not yield defaults")
	}

	if _, err := Load(missing, false); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[layout\n"},
		{"unknown key", "[layout]\nbranch_spacng = 3\n"},
		{"unknown section", "[physics]\ngravity = 9.8\n"},
		{"bad style", "[connection]\nstyle = \"zigzag\"\n"},
		{"bad direction", "[locale]\ndirection = \"up\"\n"},
		{"zero spacing", "[layout]\nbranch_spacing = 0\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad ttl", "[cache]\nttl = \"forever\"\n"},
		{"opacity too high", "[focus]\ndim_opacity = 2.0\n"},
		{"negative threshold", "[virtualization]\nthreshold = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), false)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode("[viewport]\nmax_scale = 4.0\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport.MaxScale != 4 {
		t.Errorf("MaxScale = %v, want 4", cfg.Viewport.MaxScale)
	}
	if _, err := Decode("bogus = 1\n"); err == nil {
		t.Error("Decode() accepted unknown key")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := DefaultPath(), filepath.Join("/tmp/xdg", "mindcanvas", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
