// Package config loads audit settings from defaults, an optional YAML file
// and the environment, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/acheong08/mavenlicenses/internal/bazel"
	"github.com/acheong08/mavenlicenses/internal/parser"
	"github.com/acheong08/mavenlicenses/internal/records"
	"github.com/acheong08/mavenlicenses/internal/registry"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "MAVENLICENSES_"

// Config holds everything the audit needs besides its positional arguments
type Config struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	Bazel BazelConfig `yaml:"bazel"`

	// Paths relative to the repository root
	LockfilePath     string `yaml:"lockfile"`
	SavedRecordsPath string `yaml:"saved_records"`

	FetchTimeout        time.Duration `yaml:"fetch_timeout"`
	DescriptorCacheSize int           `yaml:"descriptor_cache_size"`
}

// BazelConfig selects the build graph that is audited
type BazelConfig struct {
	Binary            string `yaml:"binary"`
	RootTarget        string `yaml:"root_target"`
	ThirdPartyPattern string `yaml:"third_party_pattern"`
	Repository        string `yaml:"repository"`
}

// Options converts the section into bazel client options
func (b BazelConfig) Options() bazel.Options {
	return bazel.Options{
		Binary:            b.Binary,
		RootTarget:        b.RootTarget,
		ThirdPartyPattern: b.ThirdPartyPattern,
		Repository:        b.Repository,
	}
}

// Default returns the built-in configuration
func Default() *Config {
	opts := bazel.DefaultOptions()
	return &Config{
		Env:      "production",
		LogLevel: "",
		Bazel: BazelConfig{
			Binary:            opts.Binary,
			RootTarget:        opts.RootTarget,
			ThirdPartyPattern: opts.ThirdPartyPattern,
			Repository:        opts.Repository,
		},
		LockfilePath:        parser.DefaultLockfilePath,
		SavedRecordsPath:    records.DefaultSavedPath,
		FetchTimeout:        registry.DefaultTimeout,
		DescriptorCacheSize: registry.DefaultCacheSize,
	}
}

// Load builds the configuration. path may be empty; a named file that does
// not exist is an error. A .env file in the working directory is honoured if
// present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Bazel.Binary = getEnv("BAZEL", c.Bazel.Binary)
	c.Bazel.RootTarget = getEnv("ROOT_TARGET", c.Bazel.RootTarget)
	c.Bazel.ThirdPartyPattern = getEnv("THIRD_PARTY_PATTERN", c.Bazel.ThirdPartyPattern)
	c.Bazel.Repository = getEnv("MAVEN_REPOSITORY", c.Bazel.Repository)
	c.LockfilePath = getEnv("LOCKFILE", c.LockfilePath)
	c.SavedRecordsPath = getEnv("SAVED_RECORDS", c.SavedRecordsPath)

	if raw := getEnv("FETCH_TIMEOUT", ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %sFETCH_TIMEOUT: %w", EnvPrefix, err)
		}
		c.FetchTimeout = d
	}

	if raw := getEnv("DESCRIPTOR_CACHE_SIZE", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %sDESCRIPTOR_CACHE_SIZE: %w", EnvPrefix, err)
		}
		c.DescriptorCacheSize = n
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Bazel.Binary == "":
		return fmt.Errorf("bazel binary is required")
	case c.Bazel.RootTarget == "":
		return fmt.Errorf("bazel root target is required")
	case c.Bazel.Repository == "":
		return fmt.Errorf("maven repository name is required")
	case c.LockfilePath == "":
		return fmt.Errorf("lockfile path is required")
	case c.SavedRecordsPath == "":
		return fmt.Errorf("saved records path is required")
	case c.FetchTimeout <= 0:
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	case c.DescriptorCacheSize <= 0:
		return fmt.Errorf("descriptor cache size must be positive, got %d", c.DescriptorCacheSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(EnvPrefix + key)); value != "" {
		return value
	}
	return defaultValue
}
