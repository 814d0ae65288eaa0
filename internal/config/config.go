package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"jumpcut/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Activity controls loudness classification and mask padding.
type Activity struct {
	Threshold          float64 `toml:"threshold"`
	PaddingSeconds     float64 `toml:"padding_seconds"`
	FrameLengthSeconds float64 `toml:"frame_length_seconds"`
	// OutOfDataPolicy decides what happens to audio frames past the end of
	// the mask: "keep", "drop", or "error".
	OutOfDataPolicy string `toml:"out_of_data_policy"`
}

// Speed holds playback speeds for sounded and silent runs.
type Speed struct {
	Sounded float64 `toml:"sounded"`
	Silent  float64 `toml:"silent"`
}

// Expression bounds the setpts expressions handed to ffmpeg.
type Expression struct {
	MaxLength          int     `toml:"max_length"`
	MaxDepth           int     `toml:"max_depth"`
	Precision          int     `toml:"precision"`
	SeamOverlapSeconds float64 `toml:"seam_overlap_seconds"`
}

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	CachePath string `toml:"cache_path"`
}

// Tools names the external binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Cache toggles the loudness analysis cache.
type Cache struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for jumpcut.
//
// Configuration sections by subsystem:
//   - Activity: loudness threshold, padding, frame length
//   - Speed: playback speed per activity state
//   - Expression: ffmpeg expression limits and render seam overlap
//   - Paths: work, log, and cache locations
//   - Tools: ffmpeg and ffprobe binaries
//   - Cache: analysis cache toggle
//   - Logging: log format and level
type Config struct {
	Activity   Activity   `toml:"activity"`
	Speed      Speed      `toml:"speed"`
	Expression Expression `toml:"expression"`
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Cache      Cache      `toml:"cache"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("%w: parse config: %s", services.ErrConfiguration, strict.String())
			}
			return nil, "", false, fmt.Errorf("%w: parse config: %w", services.ErrConfiguration, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("jumpcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work and log directories and the cache parent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, c.Paths.LogDir}
	if c.Cache.Enabled {
		dirs = append(dirs, filepath.Dir(c.Paths.CachePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDataDir(elem ...string) string {
	base := "~/.local/share"
	if xdg, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(xdg) != "" {
		base = xdg
	}
	return filepath.Join(append([]string{base, "jumpcut"}, elem...)...)
}

func defaultCacheDir(elem ...string) string {
	base := "~/.cache"
	if xdg, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(xdg) != "" {
		base = xdg
	}
	return filepath.Join(append([]string{base, "jumpcut"}, elem...)...)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
