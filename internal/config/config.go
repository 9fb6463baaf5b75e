package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ligustah/memrun/internal/progress"
)

// DefaultPlaceholder is the token substituted with the memory file path in
// the target program's arguments.
const DefaultPlaceholder = "{{memfd}}"

// Config defines configuration for the memrun CLI.
type Config struct {
	Bucket      string `yaml:"bucket"`
	Object      string `yaml:"object"`
	Placeholder string `yaml:"placeholder"`
	ChunkSize   int64  `yaml:"chunk_size"`
	Concurrency int    `yaml:"concurrency"`
	Progress    bool   `yaml:"progress"`
}

// Default returns a Config with sensible defaults. Chunk size and
// concurrency default to zero, meaning "derive from the object size".
func Default() Config {
	return Config{
		Placeholder: DefaultPlaceholder,
	}
}

// yamlConfig is used for YAML unmarshaling with a human-readable chunk size.
type yamlConfig struct {
	Bucket      string `yaml:"bucket"`
	Object      string `yaml:"object"`
	Placeholder string `yaml:"placeholder"`
	ChunkSize   string `yaml:"chunk_size"`
	Concurrency int    `yaml:"concurrency"`
	Progress    bool   `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if yc.Object != "" {
		cfg.Object = yc.Object
	}
	if yc.Placeholder != "" {
		cfg.Placeholder = yc.Placeholder
	}
	if yc.ChunkSize != "" {
		size, err := progress.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.Concurrency != 0 {
		cfg.Concurrency = yc.Concurrency
	}
	cfg.Progress = yc.Progress

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables with the
// MEMRUN_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("MEMRUN_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("MEMRUN_OBJECT"); v != "" {
		c.Object = v
	}
	if v := os.Getenv("MEMRUN_PLACEHOLDER"); v != "" {
		c.Placeholder = v
	}
	if v := os.Getenv("MEMRUN_CHUNK_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse MEMRUN_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("MEMRUN_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MEMRUN_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("MEMRUN_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("config: bucket is required")
	}
	if c.Object == "" {
		return errors.New("config: object is required")
	}
	if c.Placeholder == "" {
		return errors.New("config: placeholder must not be empty")
	}
	if c.ChunkSize < 0 {
		return errors.New("config: chunk_size must not be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("config: concurrency must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.Object != "" {
		c.Object = override.Object
	}
	if override.Placeholder != "" {
		c.Placeholder = override.Placeholder
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.Concurrency != 0 {
		c.Concurrency = override.Concurrency
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}
