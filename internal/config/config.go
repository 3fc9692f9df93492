// Package config loads service configuration from environment
// variables, plus an optional YAML file for per-format handler
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/chunk"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/formats"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	DefaultTargetDepth   int
	DefaultMinChunkChars int
	DefaultMaxChunkChars int

	// Job state
	JobTTL time.Duration

	// Optional YAML file with handler priority/disable overrides.
	FormatsFile string
}

func Load() Config {
	chunkDef := chunk.DefaultOptions()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("XAF_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DefaultTargetDepth:   envInt("DEFAULT_TARGET_DEPTH", chunkDef.TargetDepth),
		DefaultMinChunkChars: envInt("DEFAULT_MIN_CHUNK_CHARS", chunkDef.MinChunkChars),
		DefaultMaxChunkChars: envInt("DEFAULT_MAX_CHUNK_CHARS", chunkDef.MaxChunkChars),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		FormatsFile: os.Getenv("XAF_FORMATS_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultTargetDepth <= 0 {
		cfg.DefaultTargetDepth = chunkDef.TargetDepth
	}
	if cfg.DefaultMinChunkChars <= 0 {
		cfg.DefaultMinChunkChars = chunkDef.MinChunkChars
	}
	if cfg.DefaultMaxChunkChars <= 0 {
		cfg.DefaultMaxChunkChars = chunkDef.MaxChunkChars
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("XAF_API_KEY is required")
	}
	if c.DefaultMinChunkChars >= c.DefaultMaxChunkChars {
		return fmt.Errorf("DEFAULT_MIN_CHUNK_CHARS (%d) must be below DEFAULT_MAX_CHUNK_CHARS (%d)",
			c.DefaultMinChunkChars, c.DefaultMaxChunkChars)
	}
	return nil
}

// ChunkOptions returns the configured default chunking options.
func (c Config) ChunkOptions() chunk.Options {
	return chunk.Options{
		TargetDepth:   c.DefaultTargetDepth,
		MinChunkChars: c.DefaultMinChunkChars,
		MaxChunkChars: c.DefaultMaxChunkChars,
	}
}

// formatsFile is the YAML shape of the handler overrides file:
//
//	formats:
//	  - id: generic-xml
//	    priority: -50
//	  - id: gpx
//	    disabled: true
type formatsFile struct {
	Formats []formats.Override `yaml:"formats"`
}

// LoadFormatOverrides reads handler overrides from the given YAML file.
// An empty path means no overrides.
func LoadFormatOverrides(path string) ([]formats.Override, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read formats file: %w", err)
	}
	var f formatsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse formats file %s: %w", path, err)
	}
	for _, o := range f.Formats {
		if o.ID == "" {
			return nil, fmt.Errorf("formats file %s: override with empty id", path)
		}
	}
	return f.Formats, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
