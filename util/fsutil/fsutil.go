// Package fsutil provides filesystem helpers for writing generated
// scripts and configuration files.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir ensures a directory exists, creating it if necessary.
func EnsureDir(p string) error {
	s, err := os.Stat(p)
	if os.IsNotExist(err) {
		return os.MkdirAll(p, 0755)
	}
	if err != nil {
		return err
	}
	if !s.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", p)
	}
	return nil
}

// EnsurePath ensures the parent directory of a file path exists.
func EnsurePath(p string) error {
	return EnsureDir(filepath.Dir(p))
}

// WriteFile writes content to path, creating parent directories as
// needed. Executable selects script permissions.
func WriteFile(path, content string, executable bool) error {
	if err := EnsurePath(path); err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if executable {
		mode = 0755
	}
	return os.WriteFile(path, []byte(content), mode)
}

// Exists reports whether a path exists.
func Exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
