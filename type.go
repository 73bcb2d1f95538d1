// File: lixenwraith/nsconfig/type.go
package nsconfig

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// scalar resolves path for the typed accessors. Sections are not values:
// a child namespace, a stored map or list fails with ErrNotScalar, and the
// empty placeholder of an unknown path fails with ErrPathNotFound.
func (n *Namespace) scalar(path string) (any, error) {
	val, found, err := n.lookup(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	switch v := val.(type) {
	case *Namespace:
		return nil, fmt.Errorf("%w: %s is namespace %s", ErrNotScalar, path, v.Name())
	case map[string]any:
		return nil, fmt.Errorf("%w: %s is a section", ErrNotScalar, path)
	case []any:
		return nil, fmt.Errorf("%w: %s is a list", ErrNotScalar, path)
	}
	return val, nil
}

// String returns the value at path as text. Numbers are formatted, TOML and
// YAML timestamps use RFC 3339, and a stored null reads as "".
func (n *Namespace) String(path string) (string, error) {
	val, err := n.scalar(path)
	if err != nil {
		return "", err
	}

	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(val)
	switch {
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), nil
	case rv.CanUint():
		return strconv.FormatUint(rv.Uint(), 10), nil
	case rv.CanFloat():
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("cannot convert %T at %s to string", val, path)
}

// Int64 returns the value at path as an integer. Floats are truncated,
// strings are parsed with base prefixes ("0x10"), booleans give 0 or 1.
func (n *Namespace) Int64(path string) (int64, error) {
	val, err := n.scalar(path)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case nil:
		return 0, fmt.Errorf("value at %s is null", path)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return floatToInt64(path, v.String())
	case string:
		if i, err := strconv.ParseInt(v, 0, 64); err == nil {
			return i, nil
		}
		return floatToInt64(path, v)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	rv := reflect.ValueOf(val)
	switch {
	case rv.CanInt():
		return rv.Int(), nil
	case rv.CanUint():
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("value %d at %s overflows int64", rv.Uint(), path)
		}
		return int64(rv.Uint()), nil
	case rv.CanFloat():
		return int64(rv.Float()), nil
	}
	return 0, fmt.Errorf("cannot convert %T at %s to int64", val, path)
}

func floatToInt64(path, s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q at %s to int64: %w", s, path, err)
	}
	return int64(f), nil
}

// Bool returns the value at path as a boolean. Numbers are true when non-zero.
func (n *Namespace) Bool(path string) (bool, error) {
	val, err := n.scalar(path)
	if err != nil {
		return false, err
	}

	switch v := val.(type) {
	case nil:
		return false, fmt.Errorf("value at %s is null", path)
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q at %s to bool: %w", v, path, err)
		}
		return b, nil
	}

	f, err := n.Float64(path)
	if err != nil {
		return false, fmt.Errorf("cannot convert %T at %s to bool", val, path)
	}
	return f != 0, nil
}

// Float64 returns the value at path as a float.
func (n *Namespace) Float64(path string) (float64, error) {
	val, err := n.scalar(path)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case nil:
		return 0, fmt.Errorf("value at %s is null", path)
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q at %s to float64: %w", v, path, err)
		}
		return f, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	rv := reflect.ValueOf(val)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), nil
	case rv.CanUint():
		return float64(rv.Uint()), nil
	case rv.CanFloat():
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("cannot convert %T at %s to float64", val, path)
}
