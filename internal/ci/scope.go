package ci

import (
	"context"
	"errors"
	"fmt"

	"cifcommon/internal/logging"
)

// Scope is an acquire/release pair, such as credentials that must only exist
// while some commands run.
type Scope interface {
	Acquire(ctx context.Context, sh Shell) error
	Release(ctx context.Context, sh Shell) error
}

// With runs fn inside scope. Release always runs, also when Acquire fails
// part way or ctx is cancelled, and its error is joined with fn's.
func With(ctx context.Context, sh Shell, scope Scope, fn func() error) (err error) {
	defer func() {
		if rerr := scope.Release(context.WithoutCancel(ctx), sh); rerr != nil {
			err = errors.Join(err, fmt.Errorf("release: %w", rerr))
		}
	}()
	if err := scope.Acquire(ctx, sh); err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	return fn()
}

// Dir runs fn with a shell working in dir.
func Dir(sh Shell, dir string, fn func(Shell) error) error {
	scoped := sh.InDir(dir)
	logging.L().Info("// Changed directory to: " + scoped.Dir)
	defer logging.L().Info("// Changed directory back to: " + sh.Dir)
	return fn(scoped)
}
