package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"cifcommon/internal/ci"
	"cifcommon/internal/config"
	"cifcommon/internal/spec"
	"cifcommon/internal/telemetry"
)

type Options struct {
	Package ci.Package
	Env     Lookup
	Shell   ci.Shell
	Metrics *telemetry.Metrics // a fresh set when nil
}

// Compile loads the build spec at path (the built-in one when empty) and
// compiles it.
func Compile(path string, opts Options) (*Runner, error) {
	var (
		file spec.File
		err  error
	)
	if path == "" {
		file, err = DefaultSpec()
	} else {
		file, err = config.LoadBuildSpec(path)
	}
	if err != nil {
		return nil, err
	}
	return CompileSpec(file, opts)
}

// CompileSpec validates file and resolves everything that does not depend
// on command results: skipped stages, credential scopes, stage environment.
// All problems are reported together.
func CompileSpec(file spec.File, opts Options) (*Runner, error) {
	if opts.Env == nil {
		opts.Env = config.EnvFrom(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.New()
	}

	var errs []error
	scopes := make(map[string]ci.Scope, len(file.Credentials))
	for name, c := range file.Credentials {
		params := make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			params[k] = expand(v, opts.Env)
		}
		s, err := ci.NewScope(c.Kind, params)
		if err != nil {
			errs = append(errs, fmt.Errorf("credentials %q: %w", name, err))
			continue
		}
		scopes[name] = s
	}

	r := NewRunner(opts.Shell, opts.Metrics)
	seen := map[string]bool{}
	for i, st := range file.Stages {
		if st.Name == "" {
			errs = append(errs, fmt.Errorf("stage #%d: missing name", i+1))
			continue
		}
		if seen[st.Name] {
			errs = append(errs, fmt.Errorf("stage %q: defined twice", st.Name))
			continue
		}
		seen[st.Name] = true

		s := stage{name: st.Name}
		if st.WhenScript != "" && !opts.Package.HasScript(st.WhenScript) {
			s.skip = fmt.Sprintf("package has no %q script", st.WhenScript)
		}

		keys := make([]string, 0, len(st.Env))
		for k := range st.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.env = append(s.env, [2]string{k, expand(st.Env[k], opts.Env)})
		}

		var err error
		if s.steps, err = compileSteps(st.Name, st.Steps, scopes, file.Credentials, opts.Env); err != nil {
			errs = append(errs, err)
		}
		if s.finally, err = compileSteps(st.Name, st.Finally, scopes, file.Credentials, opts.Env); err != nil {
			errs = append(errs, err)
		}
		r.addStage(s)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

func compileSteps(stageName string, steps []spec.Step, scopes map[string]ci.Scope, declared map[string]spec.Credential, env Lookup) ([]step, error) {
	var (
		out  []step
		errs []error
	)
	for i, s := range steps {
		st, err := compileAction(s, env)
		if err != nil {
			errs = append(errs, fmt.Errorf("stage %q step #%d: %w", stageName, i+1, err))
			continue
		}
		st.dir = s.Dir
		if s.Credentials != "" {
			if _, ok := declared[s.Credentials]; !ok {
				errs = append(errs, fmt.Errorf("stage %q step #%d: unknown credentials %q", stageName, i+1, s.Credentials))
				continue
			}
			// nil when the declaration itself is broken; reported above
			st.scope = scopes[s.Credentials]
		}
		out = append(out, st)
	}
	return out, errors.Join(errs...)
}

// compileAction resolves what a step does. Checkout and write fields may use
// ${...} placeholders; run commands are left to the shell.
func compileAction(s spec.Step, env Lookup) (step, error) {
	kinds := 0
	for _, set := range []bool{s.Run != "", s.Checkout != nil, s.Write != nil} {
		if set {
			kinds++
		}
	}
	switch {
	case kinds == 0:
		return step{}, errors.New("missing run, checkout or write")
	case kinds > 1:
		return step{}, errors.New("only one of run, checkout or write allowed")
	case s.Checkout != nil:
		if s.Checkout.Repo == "" {
			return step{}, errors.New("checkout: missing repo")
		}
		c := spec.Checkout{
			Repo:   expand(s.Checkout.Repo, env),
			Branch: expand(s.Checkout.Branch, env),
			Folder: expand(s.Checkout.Folder, env),
		}
		return step{checkout: &c}, nil
	case s.Write != nil:
		if s.Write.File == "" {
			return step{}, errors.New("write: missing file")
		}
		w := spec.Write{File: expand(s.Write.File, env), Content: expand(s.Write.Content, env)}
		return step{write: &w}, nil
	}
	return step{run: s.Run}, nil
}
