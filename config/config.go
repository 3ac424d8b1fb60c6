// ABOUTME: Client configuration stored at an XDG path
// ABOUTME: Handles entity service credentials, environment overrides, and device ID generation
package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/oklog/ulid/v2"
)

const (
	// AppName names the XDG subdirectory holding all local state.
	AppName = "funil"

	// FileName is the config file under the app directory.
	FileName = "config.json"

	// DefaultServer is the entity service a fresh install points at.
	DefaultServer = "http://localhost:8000"

	// DefaultTimeoutSeconds bounds every entity service call.
	DefaultTimeoutSeconds = 15
)

// Config stores entity service credentials and client settings.
type Config struct {
	Server         string `json:"server"`
	Token          string `json:"token,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	DeviceID       string `json:"device_id,omitempty"`
	CachePath      string `json:"cache_path,omitempty"`
}

// Dir returns the XDG-compliant directory for local state.
func Dir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Path returns the XDG-compliant path of the config file.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// Load reads config from the XDG data directory. Returns defaults when the
// file does not exist. Environment variables override file values:
// - FUNIL_SERVER
// - FUNIL_TOKEN
// - FUNIL_TIMEOUT (seconds)
// - FUNIL_DB (cache path).
func Load() (*Config, error) {
	path := Path()

	cfg := &Config{
		Server:         DefaultServer,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if server := os.Getenv("FUNIL_SERVER"); server != "" {
		cfg.Server = server
	}
	if token := os.Getenv("FUNIL_TOKEN"); token != "" {
		cfg.Token = token
	}
	if timeout := os.Getenv("FUNIL_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			cfg.TimeoutSeconds = secs
		}
	}
	if db := os.Getenv("FUNIL_DB"); db != "" {
		cfg.CachePath = db
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(Dir(), "cache.db")
	}
}

// Save persists config to the XDG data directory with user-only permissions.
func Save(cfg *Config) error {
	path := Path()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// IsConfigured checks whether both the server and the bearer token are set.
func (c *Config) IsConfigured() bool {
	return c.Server != "" && c.Token != ""
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GenerateDeviceID generates a new ULID identifying this install.
func GenerateDeviceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
