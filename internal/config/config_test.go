package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var keys = []string{
	"ADDR", "MODEL_PATH", "MODEL_URL", "LABELS_PATH", "SIGNS_DIR", "DB_PATH", "STATIC_DIR",
	"ONNXRUNTIME_LIB", "MEDIAPIPE_SCRIPT", "PYTHON", "CAMERA_ID", "SMOOTHING_WINDOW",
	"LOG_LEVEL", "LOG_FILE",
}

// clearEnv unsets every key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "ADDR=:8080\nDB_PATH=data/samples.db\nCAMERA_ID=clip.mp4\nSMOOTHING_WINDOW=5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("environment should win over the file, got %q", cfg.Addr)
	}
	if cfg.DBPath != "data/samples.db" || cfg.Camera != "clip.mp4" || cfg.Window != 5 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ModelPath != Default().ModelPath {
		t.Errorf("unset keys should keep defaults, got %q", cfg.ModelPath)
	}
}

func TestLoad_BadWindow(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMOOTHING_WINDOW", "ten")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for non-numeric window")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty model path", func(c *Config) { c.ModelPath = "" }, "ModelPath"},
		{"bad model url", func(c *Config) { c.ModelURL = "not a url" }, "ModelURL"},
		{"zero window", func(c *Config) { c.Window = 0 }, "Window"},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name %s", err, tt.field)
			}
		})
	}

	t.Run("model url accepted", func(t *testing.T) {
		cfg := Default()
		cfg.ModelURL = "https://example.com/model.onnx"
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
