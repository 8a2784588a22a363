package utils

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for a run. Files may be YAML or JSON.
type Config struct {
	// Generations is how many steps `run` performs; 0 means run until stopped.
	Generations int `json:"generations" yaml:"generations"`

	// FrameRate is the pause between rendered generations.
	FrameRate time.Duration `json:"frame_rate" yaml:"frame_rate"`

	// Workers is the number of goroutines evaluating rows per step.
	Workers int `json:"workers" yaml:"workers"`

	UseMemoryPool bool `json:"use_memory_pool" yaml:"use_memory_pool"`

	// StopWhenStable ends a run early on extinction or a repeating pattern.
	StopWhenStable bool `json:"stop_when_stable" yaml:"stop_when_stable"`

	// HistorySize is how many past generations stagnation detection remembers.
	HistorySize int `json:"history_size" yaml:"history_size"`

	// LogLevel is "info", "debug" or "trace".
	LogLevel string `json:"log_level" yaml:"log_level"`

	AliveGlyph string `json:"alive_glyph" yaml:"alive_glyph"`
	DeadGlyph  string `json:"dead_glyph" yaml:"dead_glyph"`

	// RecordPath is the SQLite database runs are recorded to; empty disables recording.
	RecordPath string `json:"record_path,omitempty" yaml:"record_path,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Generations:    10,
		FrameRate:      150 * time.Millisecond,
		Workers:        runtime.NumCPU(),
		UseMemoryPool:  true,
		StopWhenStable: false,
		HistorySize:    5,
		LogLevel:       "info",
		AliveGlyph:     "██",
		DeadGlyph:      "  ",
	}
}

// LoadConfig loads configuration from a YAML or JSON file on top of the defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid config in file: %+v", filename)
	}

	return config, nil
}

// SaveConfig writes config to filename as YAML
func SaveConfig(filename string, config Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "[SaveConfig] failed to marshal config")
	}
	if err = os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "[SaveConfig] failed to write file: %+v", filename)
	}
	return nil
}

// Validate rejects values no run can use
func (c Config) Validate() error {
	switch {
	case c.Generations < 0:
		return errors.Errorf("generations must be >= 0, got %d", c.Generations)
	case c.FrameRate < 0:
		return errors.Errorf("frame_rate must be >= 0, got %s", c.FrameRate)
	case c.Workers < 1:
		return errors.Errorf("workers must be >= 1, got %d", c.Workers)
	case c.HistorySize < 0:
		return errors.Errorf("history_size must be >= 0, got %d", c.HistorySize)
	}
	return nil
}
