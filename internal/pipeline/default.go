package pipeline

import (
	_ "embed"

	"cifcommon/internal/config"
	"cifcommon/internal/spec"
)

//go:embed default_build.yml
var defaultBuild []byte

// DefaultSpec is the build used when no spec file is given: install, audit,
// unit tests and, when the package has a test-it script, integration tests
// deployed under a per-build suffix and removed afterwards.
func DefaultSpec() (spec.File, error) {
	return config.ParseBuildSpec(defaultBuild)
}
