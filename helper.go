// File: lixenwraith/nsconfig/helper.go
package nsconfig

import (
	"fmt"
	"strings"
)

// GetPath resolves a dot-separated path, descending through child namespaces
// and plain maps. Defaults declared along the way are materialized. A path
// that leads nowhere yields an empty map, like Get.
func (n *Namespace) GetPath(path string) (any, error) {
	value, found, err := n.lookup(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return make(map[string]any), nil
	}
	return value, nil
}

// lookup walks path from n and reports whether anything was found.
func (n *Namespace) lookup(path string) (any, bool, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, false, err
	}

	var current any = n
	for i, segment := range segments {
		switch node := current.(type) {
		case *Namespace:
			value, found, err := node.getOrDefault(segment)
			if err != nil {
				return nil, false, err
			}
			if !found {
				return nil, false, nil
			}
			current = value
		case map[string]any:
			value, exists := node[segment]
			if !exists {
				return nil, false, nil
			}
			current = value
		default:
			return nil, false, fmt.Errorf("%w: %q at segment %q (type %T)",
				ErrNotTraversable, path, segments[i-1], current)
		}
	}

	return current, true, nil
}

// SetPath writes value at a dot-separated path. Child namespaces on the path
// are followed; the remaining segments become plain nested maps stored in the
// deepest namespace reached.
func (n *Namespace) SetPath(path string, value any) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	current := n
	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]
		next, found, err := current.getOrDefault(segment)
		if err != nil {
			return err
		}

		if child, ok := next.(*Namespace); ok {
			current = child
			continue
		}

		section, isMap := next.(map[string]any)
		if !found || !isMap {
			section = make(map[string]any)
		}
		setNestedValue(section, strings.Join(segments[i+1:], "."), value)
		return current.Set(segment, section)
	}

	return current.Set(segments[len(segments)-1], value)
}

// Flatten returns every leaf of the tree below n, mounted namespaces
// included, keyed by dot-notation path.
func (n *Namespace) Flatten() (map[string]any, error) {
	snapshot, err := n.Snapshot()
	if err != nil {
		return nil, err
	}
	return flattenMap(snapshot, ""), nil
}

// splitPath splits a dotted path, rejecting empty segments.
func splitPath(path string) ([]string, error) {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}

	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("invalid config path %q: empty segment", path)
		}
	}
	return segments, nil
}

// flattenMap converts a nested map[string]any to a flat map[string]any with dot-notation paths.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		// Empty sections are kept as leaves so they stay visible
		if nestedMap, isMap := value.(map[string]any); isMap && len(nestedMap) > 0 {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}

// setNestedValue sets a value in a nested map using a dot-notation path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]

		if nextMap, isMap := current[segment].(map[string]any); isMap {
			current = nextMap
			continue
		}

		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// isValidKeySegment checks if a single path segment is a valid bare key
// (ASCII letters, digits, underscores and dashes).
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
