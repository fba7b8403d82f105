package args

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Argument names used by the pagination functions.
const (
	OffsetArg      = "offset"
	LimitArg       = "limit"
	CurrentPageArg = "currentPage"
)

var ErrNotNumeric = errors.New("value is not numeric")

type PaginationDefaults struct {
	Offset int `koanf:"default_offset"`
	Limit  int `koanf:"default_limit"`
}

func DefaultPaginationDefaults() PaginationDefaults {
	return PaginationDefaults{Offset: 0, Limit: 10}
}

// Pagination returns the offset, limit and currentPage functions, in that order.
func Pagination(d PaginationDefaults) Funcs {
	return Funcs{
		{Name: OffsetArg, Fn: Offset(d.Offset)},
		{Name: LimitArg, Fn: Limit(d.Limit)},
		{Name: CurrentPageArg, Fn: CurrentPage},
	}
}

func DefaultPagination() Funcs { return Pagination(DefaultPaginationDefaults()) }

// Offset replaces a missing, nil, zero, negative or NaN offset with def.
func Offset(def int) Func {
	return func(args map[string]any) error {
		v, ok := args[OffsetArg]
		if !ok || v == nil {
			args[OffsetArg] = def
			return nil
		}
		n, err := toFloat(v)
		if err != nil {
			return fmt.Errorf("%s: %w", OffsetArg, err)
		}
		if n <= 0 || math.IsNaN(n) {
			args[OffsetArg] = def
		}
		return nil
	}
}

// Limit replaces a negative limit with def. Missing or zero limits are kept.
func Limit(def int) Func {
	return func(args map[string]any) error {
		v, ok := args[LimitArg]
		if !ok || v == nil {
			return nil
		}
		n, err := toFloat(v)
		if err != nil {
			return fmt.Errorf("%s: %w", LimitArg, err)
		}
		if n < 0 {
			args[LimitArg] = def
		}
		return nil
	}
}

// CurrentPage mirrors the offset argument into currentPage.
func CurrentPage(args map[string]any) error {
	args[CurrentPageArg] = args[OffsetArg]
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, n.String())
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
