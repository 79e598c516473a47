package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the per-repository settings file read by the scan command
const ProjectFileName = ".umlparse.yaml"

// ProjectConfig represents a .umlparse.yaml file in a repository
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Language override applied to every scanned file; empty means detect per file
	Language string `yaml:"language,omitempty"`

	// Include holds base-name globs; Exclude uses gitignore syntax
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Scan settings
	Scan ScanConfig `yaml:"scan,omitempty"`
}

// ScanConfig holds batch analysis preferences
type ScanConfig struct {
	// Number of files analyzed in parallel
	Concurrency int `yaml:"concurrency,omitempty"`

	// Read files from the HEAD commit instead of the working tree
	Git bool `yaml:"git,omitempty"`

	// Skip files larger than this many bytes
	MaxFileBytes int64 `yaml:"max_file_bytes,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1.0",
		Include: []string{"*.java", "*.php", "*.py"},
		// gitignore syntax; bare names match at any depth
		Exclude: []string{
			"vendor",
			"node_modules",
			"__pycache__",
			"target",
			"build",
		},
		Scan: ScanConfig{
			Concurrency:  4,
			MaxFileBytes: 1 << 20,
		},
	}
}

// LoadProjectConfig loads a .umlparse.yaml from the given directory
func LoadProjectConfig(repoPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(repoPath, ProjectFileName)

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Also try .umlparse.yml
		configPath = filepath.Join(repoPath, ".umlparse.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return DefaultProjectConfig(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveProjectConfig saves the config to .umlparse.yaml
func SaveProjectConfig(repoPath string, cfg *ProjectConfig) error {
	configPath := filepath.Join(repoPath, ProjectFileName)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.Language != "" {
		c.Language = other.Language
	}

	if len(other.Include) > 0 {
		c.Include = other.Include
	}

	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}

	if other.Scan.Concurrency != 0 {
		c.Scan.Concurrency = other.Scan.Concurrency
	}

	if other.Scan.Git {
		c.Scan.Git = true
	}

	if other.Scan.MaxFileBytes != 0 {
		c.Scan.MaxFileBytes = other.Scan.MaxFileBytes
	}
}
