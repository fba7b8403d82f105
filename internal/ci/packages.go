package ci

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Package struct {
	Name    string            `koanf:"name"`
	Version string            `koanf:"version"`
	Scripts map[string]string `koanf:"scripts"`
}

func (p Package) HasScript(name string) bool {
	_, ok := p.Scripts[name]
	return ok
}

// ParsePackage reads a package.json. Script names may contain dots, so keys
// are not split.
func ParsePackage(path string) (Package, error) {
	k := koanf.New("\x00")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return Package{}, err
	}
	var p Package
	if err := k.Unmarshal("", &p); err != nil {
		return p, err
	}
	return p, nil
}

// DefaultIgnore lists directory names FindPackages never descends into.
var DefaultIgnore = []string{"node_modules", "@adobe"}

// FindPackages returns every directory under root holding a package.json,
// skipping hidden entries and the ignored directory names.
func FindPackages(root string, ignore ...string) ([]string, error) {
	if len(ignore) == 0 {
		ignore = DefaultIgnore
	}
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || skip[name] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && name == "package.json" {
			found = append(found, filepath.Dir(path))
		}
		return nil
	})
	return found, err
}
