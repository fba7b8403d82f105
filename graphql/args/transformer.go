package args

import (
	"errors"
	"fmt"
)

// DefaultArgsKey is the key argument mappings are nested under when none is configured.
const DefaultArgsKey = "_args"

// Func normalizes one argument of the mapping it is given. It may read and
// write any key of the mapping, not just the one it is registered for
// (currentPage, for instance, is derived from offset).
type Func func(args map[string]any) error

// Field binds a Func to an argument name.
type Field struct {
	Name string
	Fn   Func
}

// Funcs is the ordered set of transformer functions. Functions run in slice
// order, so a field derived from another must come after it.
type Funcs []Field

// CheckFields maps a field group to the argument names that must be present
// whenever that group is transformed.
type CheckFields map[string][]string

type Transformer struct {
	funcs   Funcs
	checks  CheckFields
	argsKey string
}

// New validates the configuration and returns a Transformer. Every problem is
// reported at once; each one wraps ErrConfig.
func New(funcs Funcs, checks CheckFields, argsKey string) (*Transformer, error) {
	if argsKey == "" {
		argsKey = DefaultArgsKey
	}

	var errs []error
	seen := make(map[string]struct{}, len(funcs))
	for _, f := range funcs {
		switch {
		case f.Name == "":
			errs = append(errs, fmt.Errorf("%w: transformer with empty name", ErrConfig))
		case f.Fn == nil:
			errs = append(errs, fmt.Errorf("%w: transformer %q has no function", ErrConfig, f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: transformer %q registered twice", ErrConfig, f.Name))
		}
		seen[f.Name] = struct{}{}
	}

	cp := make(CheckFields, len(checks))
	for group, names := range checks {
		for _, name := range names {
			if _, ok := seen[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: field group %q requires %q which has no transformer",
					ErrConfig, group, name))
			}
		}
		cp[group] = append([]string(nil), names...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Transformer{
		funcs:   append(Funcs(nil), funcs...),
		checks:  cp,
		argsKey: argsKey,
	}, nil
}

func (t *Transformer) ArgsKey() string { return t.argsKey }

// Transform normalizes the argument mapping held directly by node. When
// fieldGroup names a configured group, its required arguments are added
// (as nil) before the functions run so they get their defaults. A node
// without an argument mapping is left alone.
func (t *Transformer) Transform(node any, fieldGroup string) error {
	container, ok := node.(map[string]any)
	if !ok || container == nil {
		return fmt.Errorf("%w: node is %T, want map[string]any", ErrInvalidContainer, node)
	}
	args, ok, err := t.lookup(container)
	if err != nil || !ok {
		return err
	}

	if fieldGroup != "" {
		for _, name := range t.checks[fieldGroup] {
			if _, present := args[name]; !present {
				args[name] = nil
			}
		}
	}
	return t.apply(args)
}

func (t *Transformer) lookup(container map[string]any) (map[string]any, bool, error) {
	raw, ok := container[t.argsKey]
	if !ok {
		return nil, false, nil
	}
	args, ok := raw.(map[string]any)
	if !ok || args == nil {
		return nil, false, fmt.Errorf("%w: %q is %T, want map[string]any", ErrInvalidContainer, t.argsKey, raw)
	}
	return args, true, nil
}

// apply runs the registered functions for the keys present when it is called.
// Keys a function adds along the way do not trigger further functions.
func (t *Transformer) apply(args map[string]any) error {
	present := make(map[string]struct{}, len(args))
	for k := range args {
		present[k] = struct{}{}
	}
	for _, f := range t.funcs {
		if _, ok := present[f.Name]; !ok {
			continue
		}
		if err := f.Fn(args); err != nil {
			return &FieldError{Field: f.Name, Err: err}
		}
	}
	return nil
}
