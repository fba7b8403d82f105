package engine

import (
	"context"
	"errors"
	"fmt"

	"cifcommon/internal/ci"
	"cifcommon/internal/logging"
	"cifcommon/internal/pipeline"
	"cifcommon/internal/telemetry"
)

type Engine struct {
	shell       ci.Shell
	runner      *pipeline.Runner
	metrics     *telemetry.Metrics
	metricsFile string
	context     bool
}

func (e *Engine) Stages() []string { return e.runner.Stages() }

// Run executes the build. Metrics are written even when the build fails.
func (e *Engine) Run(ctx context.Context) error {
	var err error
	if e.context {
		err = ci.PrintContext(ctx, e.shell)
	}
	if err == nil {
		err = e.runner.Run(ctx)
	}

	if e.metricsFile != "" {
		if werr := e.metrics.WriteTextfile(e.metricsFile); werr != nil {
			err = errors.Join(err, fmt.Errorf("metrics: %w", werr))
		} else {
			logging.L().Debug("metrics written", "path", e.metricsFile)
		}
	}
	if err != nil {
		logging.L().Error("build failed", "err", err)
		return err
	}
	logging.L().Info("build done", "stages", len(e.runner.Stages()))
	return nil
}
