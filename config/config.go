// Package config loads and validates the imgsource configuration file.
//
// Configuration is a YAML document; command-line flags in cmd/imgsource
// override the file's server-level values. Storage credentials and the region
// are consumed once at client construction time; changing them requires a
// process restart.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pixfeed/imgsource/interfaces"
	"gopkg.in/yaml.v3"
)

// Lookup strategy selectors. An unset or unrecognized selector is a fatal
// configuration error surfaced before any storage call.
const (
	StrategyDirect   = "direct"
	StrategyDelegate = "delegate"
)

// Store backend selectors.
const (
	BackendS3   = "s3"
	BackendFile = "file"
	BackendIPFS = "ipfs"
)

// Config is the root configuration document.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Delegate DelegateConfig `yaml:"delegate"`
}

// StoreConfig selects and parameterizes the object store backend.
type StoreConfig struct {
	// Backend is one of "s3", "file", "ipfs".
	Backend string `yaml:"backend"`

	// Bucket is the default bucket objects are resolved in. A delegate
	// lookup may override it per resolution.
	Bucket string `yaml:"bucket"`

	// S3 connection settings.
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// Root is the base directory for the file backend.
	Root string `yaml:"root"`

	// IPFSAddr is the host:port of the IPFS API for the ipfs backend.
	IPFSAddr string `yaml:"ipfs_addr"`
}

// LookupConfig selects the identifier-to-key resolution strategy.
type LookupConfig struct {
	// Strategy is one of "direct", "delegate".
	Strategy string `yaml:"strategy"`
}

// DelegateConfig parameterizes the external key-resolution delegate. An empty
// Endpoint leaves the delegate disabled; delegate-strategy lookups then fail
// as unavailable at resolution time.
type DelegateConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for fatal errors. Strategy and backend
// selectors must hold recognized values; backend-specific settings must be
// present for the selected backend.
func (c *Config) Validate() error {
	switch c.Lookup.Strategy {
	case StrategyDirect, StrategyDelegate:
	case "":
		return fmt.Errorf("%w: lookup.strategy is not set", interfaces.ErrInvalidConfiguration)
	default:
		return fmt.Errorf("%w: unrecognized lookup.strategy %q", interfaces.ErrInvalidConfiguration, c.Lookup.Strategy)
	}

	switch c.Store.Backend {
	case BackendS3:
		if c.Store.Bucket == "" {
			return fmt.Errorf("%w: store.bucket is required for the s3 backend", interfaces.ErrInvalidConfiguration)
		}
	case BackendFile:
		if c.Store.Root == "" {
			return fmt.Errorf("%w: store.root is required for the file backend", interfaces.ErrInvalidConfiguration)
		}
	case BackendIPFS:
		if c.Store.IPFSAddr == "" {
			return fmt.Errorf("%w: store.ipfs_addr is required for the ipfs backend", interfaces.ErrInvalidConfiguration)
		}
	case "":
		return fmt.Errorf("%w: store.backend is not set", interfaces.ErrInvalidConfiguration)
	default:
		return fmt.Errorf("%w: unrecognized store.backend %q", interfaces.ErrInvalidConfiguration, c.Store.Backend)
	}

	return nil
}
