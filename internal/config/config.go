// Package config loads settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every setting shared by the mudra commands.
type Config struct {
	Addr       string `validate:"required"`
	ModelPath  string `validate:"required"`
	ModelURL   string `validate:"omitempty,url"`
	LabelsPath string `validate:"required"`
	SignsDir   string `validate:"required"`

	// DBPath enables the sample API when set.
	DBPath    string
	StaticDir string

	OnnxRuntimeLib  string
	MediaPipeScript string
	Python          string

	// Camera is a device index or a video file path.
	Camera string `validate:"required"`

	// Window is the smoothing window used by the live loop and WebSocket streams.
	Window int `validate:"gte=1"`

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:       ":5000",
		ModelPath:  "model/mp_hand_gesture.onnx",
		LabelsPath: "gesture.names",
		SignsDir:   "signs",
		Camera:     "0",
		Window:     10,
		LogLevel:   "info",
	}
}

// Load applies the given .env files (".env" when none are named) and then
// the process environment on top of Default. Missing files are ignored;
// variables already set in the environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Default()
	str(&cfg.Addr, "ADDR")
	str(&cfg.ModelPath, "MODEL_PATH")
	str(&cfg.ModelURL, "MODEL_URL")
	str(&cfg.LabelsPath, "LABELS_PATH")
	str(&cfg.SignsDir, "SIGNS_DIR")
	str(&cfg.DBPath, "DB_PATH")
	str(&cfg.StaticDir, "STATIC_DIR")
	str(&cfg.OnnxRuntimeLib, "ONNXRUNTIME_LIB")
	str(&cfg.MediaPipeScript, "MEDIAPIPE_SCRIPT")
	str(&cfg.Python, "PYTHON")
	str(&cfg.Camera, "CAMERA_ID")
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.LogFile, "LOG_FILE")

	if v, ok := os.LookupEnv("SMOOTHING_WINDOW"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("SMOOTHING_WINDOW: %w", err)
		}
		cfg.Window = n
	}

	return cfg, nil
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

var validate = validator.New()

// Validate checks the settings and names the first offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("config: %w", err)
}
