package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cifcommon/internal/ci"
	"cifcommon/internal/logging"
	"cifcommon/internal/spec"
	"cifcommon/internal/telemetry"
)

type step struct {
	run      string
	checkout *spec.Checkout
	write    *spec.Write
	dir      string
	scope    ci.Scope
}

func (st step) exec(ctx context.Context, sh ci.Shell) error {
	switch {
	case st.checkout != nil:
		return ci.Checkout(ctx, sh, st.checkout.Repo, st.checkout.Branch, st.checkout.Folder)
	case st.write != nil:
		return ci.WriteFile(sh, st.write.File, st.write.Content)
	}
	return sh.Sh(ctx, st.run)
}

type stage struct {
	name    string
	skip    string // reason; empty means the stage runs
	env     [][2]string
	steps   []step
	finally []step
}

// Runner executes compiled stages one after another on a single shell.
type Runner struct {
	shell   ci.Shell
	metrics *telemetry.Metrics
	stages  []stage
}

func NewRunner(sh ci.Shell, m *telemetry.Metrics) *Runner {
	if m == nil {
		m = telemetry.New()
	}
	return &Runner{shell: sh, metrics: m}
}

func (r *Runner) addStage(s stage) { r.stages = append(r.stages, s) }

func (r *Runner) Metrics() *telemetry.Metrics { return r.metrics }

func (r *Runner) Stages() []string {
	names := make([]string, 0, len(r.stages))
	for _, s := range r.stages {
		names = append(names, s.name)
	}
	return names
}

func (r *Runner) out() io.Writer {
	if r.shell.Stdout == nil {
		return os.Stdout
	}
	return r.shell.Stdout
}

// Run executes the stages in order and stops at the first failing one.
func (r *Runner) Run(ctx context.Context) error {
	for _, s := range r.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runStage(ctx, s); err != nil {
			return fmt.Errorf("stage %q: %w", s.name, err)
		}
	}
	return nil
}

func (r *Runner) runStage(ctx context.Context, s stage) (err error) {
	if s.skip != "" {
		ci.Skipped(r.out(), s.name, s.skip)
		logging.L().Info("stage skipped", "stage", s.name, "reason", s.skip)
		r.metrics.ObserveStage(s.name, "skipped", 0)
		return nil
	}

	ci.Stage(r.out(), s.name)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
		}
		r.metrics.ObserveStage(s.name, outcome, time.Since(start))
		logging.L().Debug("stage finished", "stage", s.name, "outcome", outcome, "elapsed", time.Since(start))
	}()

	sh := r.shell
	for _, kv := range s.env {
		sh = sh.WithEnv(kv[0], kv[1])
	}

	started := false
	for _, st := range s.steps {
		started = true
		if err = r.runStep(ctx, sh, st); err != nil {
			break
		}
	}

	// teardown also runs after cancellation
	if started && len(s.finally) > 0 {
		cleanup := context.WithoutCancel(ctx)
		for _, st := range s.finally {
			if ferr := r.runStep(cleanup, sh, st); ferr != nil {
				err = errors.Join(err, fmt.Errorf("finally: %w", ferr))
			}
		}
	}
	return err
}

func (r *Runner) runStep(ctx context.Context, sh ci.Shell, st step) error {
	if st.dir != "" {
		return ci.Dir(sh, st.dir, func(sh ci.Shell) error { return r.runScoped(ctx, sh, st) })
	}
	return r.runScoped(ctx, sh, st)
}

func (r *Runner) runScoped(ctx context.Context, sh ci.Shell, st step) error {
	run := func() error {
		err := st.exec(ctx, sh)
		r.metrics.ObserveCommand(err)
		return err
	}
	if st.scope == nil {
		return run()
	}
	return ci.With(ctx, sh, st.scope, run)
}
