// Package config provides stackpatch user configuration management,
// including reading and writing the configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenEnvVar overrides the configured API token when set.
const TokenEnvVar = "STACKPATCH_API_TOKEN"

// DefaultApplyTo is the apply target used when none is configured.
const DefaultApplyTo = "base"

// UserConfig represents the per-user configuration
type UserConfig struct {
	URL             *string `json:"url,omitempty"`
	APIToken        *string `json:"apiToken,omitempty"`
	ApplyPatchTo    *string `json:"applyPatchTo,omitempty"`
	AlwaysFullStack *bool   `json:"alwaysFullStack,omitempty"`

	path string
}

// DefaultPath returns the location of the configuration file
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(configDir, "stackpatch", "config.json"), nil
}

// Load reads the configuration from the default path
func Load() (*UserConfig, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from a specific path.
// A missing file yields the default configuration.
func LoadFrom(path string) (*UserConfig, error) {
	config := &UserConfig{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		// Config doesn't exist - return default
		return config, nil
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// Save writes the configuration back to the path it was loaded from
func (c *UserConfig) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(c.path, configJSON, 0600)
}

// ServiceURL returns the review service URL without a trailing slash, or ""
// when not configured
func (c *UserConfig) ServiceURL() string {
	if c.URL == nil {
		return ""
	}
	return strings.TrimRight(*c.URL, "/")
}

// SetServiceURL updates the review service URL
func (c *UserConfig) SetServiceURL(url string) {
	c.URL = &url
}

// Token returns the API token, preferring the environment variable over the
// configured value
func (c *UserConfig) Token() string {
	if token := os.Getenv(TokenEnvVar); token != "" {
		return token
	}
	if c.APIToken != nil {
		return *c.APIToken
	}
	return ""
}

// SetToken updates the configured API token
func (c *UserConfig) SetToken(token string) {
	c.APIToken = &token
}

// ApplyTo returns the default apply target, or "base" if not set
func (c *UserConfig) ApplyTo() string {
	if c.ApplyPatchTo != nil && *c.ApplyPatchTo != "" {
		return *c.ApplyPatchTo
	}
	return DefaultApplyTo
}

// SetApplyTo updates the default apply target
func (c *UserConfig) SetApplyTo(target string) {
	c.ApplyPatchTo = &target
}

// IsAlwaysFullStack returns whether child revisions are patched without
// confirmation, or false by default
func (c *UserConfig) IsAlwaysFullStack() bool {
	return c.AlwaysFullStack != nil && *c.AlwaysFullStack
}

// SetAlwaysFullStack updates the persisted full-stack preference
func (c *UserConfig) SetAlwaysFullStack(always bool) {
	c.AlwaysFullStack = &always
}
