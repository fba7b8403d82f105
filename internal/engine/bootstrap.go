package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"cifcommon/internal/ci"
	"cifcommon/internal/config"
	"cifcommon/internal/pipeline"
	"cifcommon/internal/telemetry"
)

type Config struct {
	Settings config.Settings
	Stdout   io.Writer
	Stderr   io.Writer
	// SkipContext leaves out the toolchain version banner.
	SkipContext bool
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	s := cfg.Settings
	sh := ci.Shell{
		Program: s.Shell,
		Dir:     s.Dir,
		Stdout:  cfg.Stdout,
		Stderr:  cfg.Stderr,
		DryRun:  s.DryRun,
	}

	// 1. package manifest
	pkg, err := ci.ParsePackage(sh.Path(s.Package))
	if err != nil {
		return nil, fmt.Errorf("package: %w", err)
	}

	// 2. environment snapshot
	env, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}

	// 3. build pipeline
	specPath := s.Spec
	if specPath != "" && !filepath.IsAbs(specPath) {
		specPath = sh.Path(specPath)
	}
	m := telemetry.New()
	runner, err := pipeline.Compile(specPath, pipeline.Options{
		Package: pkg,
		Env:     env,
		Shell:   sh,
		Metrics: m,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Engine{
		shell:       sh,
		runner:      runner,
		metrics:     m,
		metricsFile: s.MetricsFile,
		context:     !cfg.SkipContext,
	}, nil
}
