package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProjectConfig(t *testing.T) {
	cfg := DefaultProjectConfig()

	if cfg == nil {
		t.Fatal("DefaultProjectConfig() returned nil")
	}

	if cfg.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", cfg.Version)
	}
	if cfg.Language != "" {
		t.Errorf("Language = %s, want empty", cfg.Language)
	}

	// Check include patterns
	if len(cfg.Include) != 3 {
		t.Errorf("len(Include) = %d, want 3", len(cfg.Include))
	}

	// Check exclude patterns
	if len(cfg.Exclude) < 3 {
		t.Errorf("len(Exclude) = %d, want at least 3", len(cfg.Exclude))
	}

	if cfg.Scan.Concurrency != 4 {
		t.Errorf("Scan.Concurrency = %d, want 4", cfg.Scan.Concurrency)
	}
	if cfg.Scan.Git {
		t.Error("Scan.Git should default to false")
	}
	if cfg.Scan.MaxFileBytes != 1<<20 {
		t.Errorf("Scan.MaxFileBytes = %d, want %d", cfg.Scan.MaxFileBytes, 1<<20)
	}
}

func TestProjectConfig_Merge(t *testing.T) {
	base := DefaultProjectConfig()

	override := &ProjectConfig{
		Language: "python",
		Include:  []string{"src/*.py"},
		Exclude:  []string{"tests/"},
		Scan: ScanConfig{
			Concurrency:  8,
			Git:          true,
			MaxFileBytes: 4096,
		},
	}

	base.Merge(override)

	if base.Language != "python" {
		t.Errorf("Language = %s, want python", base.Language)
	}
	if len(base.Include) != 1 || base.Include[0] != "src/*.py" {
		t.Errorf("Include = %v, want [src/*.py]", base.Include)
	}
	if len(base.Exclude) != 1 || base.Exclude[0] != "tests/" {
		t.Errorf("Exclude = %v, want [tests/]", base.Exclude)
	}
	if base.Scan.Concurrency != 8 {
		t.Errorf("Scan.Concurrency = %d, want 8", base.Scan.Concurrency)
	}
	if !base.Scan.Git {
		t.Error("Scan.Git should be true after merge")
	}
	if base.Scan.MaxFileBytes != 4096 {
		t.Errorf("Scan.MaxFileBytes = %d, want 4096", base.Scan.MaxFileBytes)
	}
}

func TestProjectConfig_Merge_NilOverride(t *testing.T) {
	base := DefaultProjectConfig()
	originalVersion := base.Version

	base.Merge(nil)

	// Should not change anything
	if base.Version != originalVersion {
		t.Error("Merge(nil) should not change config")
	}
}

func TestProjectConfig_Merge_PartialOverride(t *testing.T) {
	base := DefaultProjectConfig()
	originalExclude := len(base.Exclude)

	// Only override concurrency
	override := &ProjectConfig{
		Scan: ScanConfig{
			Concurrency: 2,
		},
	}

	base.Merge(override)

	if base.Scan.Concurrency != 2 {
		t.Errorf("Scan.Concurrency = %d, want 2", base.Scan.Concurrency)
	}

	// Exclude should remain unchanged
	if len(base.Exclude) != originalExclude {
		t.Errorf("len(Exclude) = %d, want %d", len(base.Exclude), originalExclude)
	}
	if base.Scan.MaxFileBytes != 1<<20 {
		t.Errorf("Scan.MaxFileBytes = %d, want default", base.Scan.MaxFileBytes)
	}
}

func TestLoadProjectConfig_NoFile(t *testing.T) {
	// Use temp directory with no config file
	tmpDir := t.TempDir()

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	// Should return defaults
	if cfg.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", cfg.Version)
	}
}

func TestLoadProjectConfig_YamlFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".umlparse.yaml")

	yamlContent := `
version: "2.0"
language: java
include:
  - "src/*.java"
scan:
  concurrency: 2
  git: true
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Version != "2.0" {
		t.Errorf("Version = %s, want 2.0", cfg.Version)
	}
	if cfg.Language != "java" {
		t.Errorf("Language = %s, want java", cfg.Language)
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "src/*.java" {
		t.Errorf("Include = %v, want [src/*.java]", cfg.Include)
	}
	if cfg.Scan.Concurrency != 2 {
		t.Errorf("Scan.Concurrency = %d, want 2", cfg.Scan.Concurrency)
	}
	if !cfg.Scan.Git {
		t.Error("Scan.Git should be true")
	}

	// Unset keys keep their defaults
	if cfg.Scan.MaxFileBytes != 1<<20 {
		t.Errorf("Scan.MaxFileBytes = %d, want default", cfg.Scan.MaxFileBytes)
	}
	if len(cfg.Exclude) == 0 {
		t.Error("Exclude should keep defaults")
	}
}

func TestLoadProjectConfig_YmlFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".umlparse.yml")

	if err := os.WriteFile(configPath, []byte("language: php\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Language != "php" {
		t.Errorf("Language = %s, want php", cfg.Language)
	}
}

func TestSaveProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultProjectConfig()
	cfg.Language = "python"
	cfg.Scan.Concurrency = 16

	if err := SaveProjectConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveProjectConfig() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ProjectFileName)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if loaded.Language != "python" {
		t.Errorf("Language = %s, want python", loaded.Language)
	}
	if loaded.Scan.Concurrency != 16 {
		t.Errorf("Scan.Concurrency = %d, want 16", loaded.Scan.Concurrency)
	}
}

func TestLoadProjectConfig_InvalidYaml(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".umlparse.yaml")

	if err := os.WriteFile(configPath, []byte("language: [unclosed\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadProjectConfig(tmpDir)
	if err == nil {
		t.Error("LoadProjectConfig() should return error for invalid YAML")
	}
}
