package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/datefilter/internal/compress"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix of every environment variable.
const envPrefix = "DATEFILTER"

// Config validation errors
var (
	ErrInvalidWorkers     = errors.New("workers must be positive")
	ErrInvalidMemoryLimit = errors.New("memory_limit must not be negative")
	ErrInvalidIOLimit     = errors.New("io_limit must not be negative")
	ErrInvalidLogFormat   = errors.New("log_format must be 'text' or 'json'")
	ErrInvalidVerbose     = errors.New("verbose must be between 0 and 2")
	ErrInvalidCompression = errors.New("compress must be none, lz4 or zstd")
	ErrInvalidOutputDir   = errors.New("output_dir cannot be empty")
)

// Config is the process configuration. Every field can be set through the
// environment; flags given on the command line take precedence.
type Config struct {
	MemoryLimit int64  `envconfig:"MEMORY_LIMIT" default:"0"`
	Workers     int    `envconfig:"WORKERS" default:"4"`
	IOLimit     int64  `envconfig:"IO_LIMIT" default:"0"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	Verbose     int    `envconfig:"VERBOSE" default:"0"`
	OutputDir   string `envconfig:"OUTPUT_DIR" default:"."`
	Compress    string `envconfig:"COMPRESS" default:"none"`
	MetricsFile string `envconfig:"METRICS_FILE"`

	S3Region   string `envconfig:"S3_REGION"`
	S3Endpoint string `envconfig:"S3_ENDPOINT"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioSecure    bool   `envconfig:"MINIO_SECURE" default:"true"`
}

// LoadConfig reads envFile into the environment, if it exists, and then
// processes the DATEFILTER_* variables.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if cfg.MemoryLimit < 0 {
		return ErrInvalidMemoryLimit
	}
	if cfg.IOLimit < 0 {
		return ErrInvalidIOLimit
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	if cfg.Verbose < 0 || cfg.Verbose > 2 {
		return ErrInvalidVerbose
	}
	if _, err := compress.ParseType(cfg.Compress); err != nil {
		return ErrInvalidCompression
	}
	if cfg.OutputDir == "" {
		return ErrInvalidOutputDir
	}
	return nil
}
