package config

import (
	"errors"
	"io/fs"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "CIF_"

type Settings struct {
	Spec        string `koanf:"spec"`    // build spec; empty means the built-in one
	Package     string `koanf:"package"` // package manifest
	Dir         string `koanf:"dir"`
	Shell       string `koanf:"shell"`
	DryRun      bool   `koanf:"dry_run"`
	MetricsFile string `koanf:"metrics_file"`
	LogLevel    string `koanf:"log_level"`
	LogJSON     bool   `koanf:"log_json"`
}

// LoadSettings merges YAML (if present) with env-vars
// (prefix `CIF_`, delimiter `__`, e.g. CIF_DRY_RUN=true).
func LoadSettings(path string) (Settings, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Settings{}, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey(EnvPrefix)), nil); err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return s, err
	}
	applyDefaults(&s)
	return s, nil
}

func applyDefaults(s *Settings) {
	if s.Package == "" {
		s.Package = "package.json"
	}
	if s.Shell == "" {
		s.Shell = "sh"
	}
	if s.Dir == "" {
		s.Dir = "."
	}
}

// envKey maps CIF_A__B to a.b. Path segments are lowercased, except the one
// right after a segment in mapKeys: that one is a user-chosen map key
// (CIF_ARGS__CHECK_FIELDS__searchProducts) and keeps its case.
func envKey(prefix string, mapKeys ...string) func(string) string {
	return func(s string) string {
		parts := strings.Split(strings.TrimPrefix(s, prefix), "__")
		for i, p := range parts {
			if i > 0 && slices.Contains(mapKeys, parts[i-1]) {
				continue
			}
			parts[i] = strings.ToLower(p)
		}
		return strings.Join(parts, "__")
	}
}
