package site

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/toctree"
)

// ParseToctreeOptions reads alternating key/value arguments as passed from a
// template call: maxdepth, titles_only, collapse and includehidden.
func ParseToctreeOptions(kv ...any) (toctree.Options, error) {
	var opts toctree.Options
	if len(kv)%2 != 0 {
		return opts, errors.ValidationError("toctree options must be key/value pairs").
			WithContext("count", len(kv)).Build()
	}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return opts, errors.ValidationError("toctree option key must be a string").
				WithContext("key", fmt.Sprint(kv[i])).Build()
		}
		var err error
		switch key {
		case "maxdepth":
			opts.MaxDepth, err = asInt(kv[i+1])
		case "titles_only":
			opts.TitlesOnly, err = asBool(kv[i+1])
		case "collapse":
			opts.Collapse, err = asBool(kv[i+1])
		case "includehidden":
			opts.IncludeHidden, err = asBool(kv[i+1])
		default:
			return opts, errors.ValidationError("unknown toctree option").WithContext("key", key).Build()
		}
		if err != nil {
			return opts, errors.WrapError(err, errors.CategoryValidation, "invalid toctree option value").
				WithContext("key", key).Build()
		}
	}
	return opts, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func asBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
