package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cifcommon/internal/spec"
)

const SupportedSchema = "v1"

// LoadBuildSpec reads a build spec YAML file.
func LoadBuildSpec(path string) (spec.File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return spec.File{}, err
	}
	cfg, err := ParseBuildSpec(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseBuildSpec decodes a build spec and validates schema_version, which
// defaults to the supported one when omitted.
func ParseBuildSpec(raw []byte) (spec.File, error) {
	var cfg spec.File
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, fmt.Errorf("build schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	return cfg, nil
}
