// Package testutil provides shared fixtures for package tests
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ProjectFixture is the sample multi-language tree under testdata/
const ProjectFixture = "project"

// TestdataDir returns the absolute path of the repository's testdata directory
func TestdataDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("could not locate testutil source file")
	}
	// internal/testutil/testutil.go -> repository root
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata")
}

// ReadFixture returns the content of a file relative to testdata/
func ReadFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(TestdataDir(t), filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

// CopyFixture copies a testdata subtree into a fresh temporary directory and
// returns its path, so tests can modify or git-init it freely
func CopyFixture(t *testing.T, name string) string {
	t.Helper()

	src := filepath.Join(TestdataDir(t), name)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		t.Fatalf("failed to copy fixture %s: %v", name, err)
	}

	return dst
}
