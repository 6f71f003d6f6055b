package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/gocad/internal/sketch"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Project ProjectConfig
	Sketch  SketchConfig
	Log     LogConfig
	Watch   WatchConfig
}

// ProjectConfig selects what the editor opens.
type ProjectConfig struct {
	Name      string
	Workbench string
	// Empty starts without the example sketch and extrusion
	Empty bool
}

// SketchConfig holds line tool settings.
type SketchConfig struct {
	SnapPrecision int `mapstructure:"snap_precision"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool
	Dir   string
}

// WatchConfig holds script watch settings.
type WatchConfig struct {
	Debounce time.Duration
}

// Load reads configuration from file and env. Env var overrides use prefix GOCAD_.
// An explicit path wins over GOCAD_CONFIG and the default location.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("project.name", "First Project")
	v.SetDefault("project.workbench", "Workbench 1")
	v.SetDefault("project.empty", false)
	v.SetDefault("sketch.snap_precision", sketch.DefaultSnapPrecision)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.dir", defaultDataDir())
	v.SetDefault("watch.debounce", 500*time.Millisecond)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("GOCAD_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "gocad"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("GOCAD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default file is fine, a broken or missing explicit one is not
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Sketch.SnapPrecision < 1 || c.Sketch.SnapPrecision > 12 {
		return Config{}, fmt.Errorf("sketch.snap_precision must be between 1 and 12, got %d", c.Sketch.SnapPrecision)
	}
	return c, nil
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gocad")
	}
	return filepath.Join(os.TempDir(), "gocad")
}
