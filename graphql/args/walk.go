package args

import (
	"fmt"
	"reflect"
)

// TransformRecursive walks root depth first and normalizes every argument
// mapping it finds, without field-group checks. Maps and []any are
// descended into, including the argument mappings themselves; other values
// are skipped. A node that is already on the current path is not entered
// again, so cyclic graphs terminate.
func (t *Transformer) TransformRecursive(root any) error {
	switch root.(type) {
	case map[string]any, []any:
	default:
		return fmt.Errorf("%w: root is %T, want map[string]any or []any", ErrInvalidContainer, root)
	}
	w := walker{t: t, path: map[nodeID]struct{}{}}
	return w.visit(root)
}

type nodeID struct {
	ptr uintptr
	len int
}

type walker struct {
	t    *Transformer
	path map[nodeID]struct{}
}

func (w *walker) enter(v any) (nodeID, bool) {
	rv := reflect.ValueOf(v)
	id := nodeID{ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		// slices of different length can share a backing array
		id.len = rv.Len()
	}
	if id.ptr == 0 {
		return id, false
	}
	if _, onPath := w.path[id]; onPath {
		return id, false
	}
	w.path[id] = struct{}{}
	return id, true
}

func (w *walker) visit(node any) error {
	switch n := node.(type) {
	case map[string]any:
		id, ok := w.enter(n)
		if !ok {
			return nil
		}
		defer delete(w.path, id)

		args, found, err := w.t.lookup(n)
		if err != nil {
			return err
		}
		if found {
			if err := w.t.apply(args); err != nil {
				return err
			}
		}
		for _, child := range n {
			if err := w.visit(child); err != nil {
				return err
			}
		}
	case []any:
		id, ok := w.enter(n)
		if !ok {
			return nil
		}
		defer delete(w.path, id)

		for _, child := range n {
			if err := w.visit(child); err != nil {
				return err
			}
		}
	}
	return nil
}
