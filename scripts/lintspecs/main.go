package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cifcommon/internal/ci"
	"cifcommon/internal/config"
	"cifcommon/internal/pipeline"
)

// lintFile compiles a build spec against a package that defines every script,
// so no stage is skipped and every step is checked.
func lintFile(path string) error {
	file, err := config.LoadBuildSpec(path)
	if err != nil {
		return err
	}
	scripts := map[string]string{}
	for _, st := range file.Stages {
		if st.WhenScript != "" {
			scripts[st.WhenScript] = "true"
		}
	}
	_, err = pipeline.CompileSpec(file, pipeline.Options{
		Package: ci.Package{Scripts: scripts},
		Shell:   ci.Shell{DryRun: true},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func isSpec(name string) bool {
	return name == "build.yml" || name == "build.yaml" || strings.HasSuffix(name, ".cif.yml")
}

func main() {
	root := flag.String("root", ".", "root directory")
	flag.Parse()
	var files []string
	err := filepath.WalkDir(*root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			base := filepath.Base(path)
			if path != *root && (strings.HasPrefix(base, ".") || base == "node_modules" || base == "_examples") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSpec(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "walk:", err)
		os.Exit(1)
	}
	failed := false
	for _, p := range files {
		if err := lintFile(p); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	fmt.Printf("%d build specs ok\n", len(files))
}
