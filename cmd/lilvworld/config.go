package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gramotor/lilv-go/pkg/lilv"
)

// LoadConfig reads a world configuration JSON file and validates it. Unknown
// fields are rejected so typos do not silently produce an empty world.
func LoadConfig(path string) (lilv.Config, error) {
	absPath, err := SecurePath(path)
	if err != nil {
		return lilv.Config{}, fmt.Errorf("secure path: %w", err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304 -- absPath validated by SecurePath
	if err != nil {
		return lilv.Config{}, fmt.Errorf("read file: %w", err)
	}

	var cfg lilv.Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return lilv.Config{}, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return lilv.Config{}, err
	}
	return cfg, nil
}

// SecurePath resolves path against the working directory and rejects it
// unless the result stays inside that directory.
func SecurePath(path string) (string, error) {
	base, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(base, abs)
	}
	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(base, abs)
	if err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("path %q escapes working directory", path)
	}
	return abs, nil
}
