// FILE: lixenwraith/nsconfig/decode.go
package nsconfig

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the tree below n, mounted namespaces included, into target.
// An optional dotted basePath selects a section; a missing section decodes
// as empty. Declared defaults are materialized first so they take part.
// The namespace tag name (default "toml") maps fields.
func (n *Namespace) Scan(target any, basePath ...string) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	path := ""
	if len(basePath) > 0 {
		path = basePath[0]
	}

	if err := n.materializeDefaults(); err != nil {
		return err
	}

	snapshot, err := n.Snapshot()
	if err != nil {
		return err
	}

	// Navigate to basePath section
	sectionData := navigateToPath(snapshot, path)

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		if sectionData == nil {
			sectionMap = make(map[string]any) // Empty section
		} else {
			return fmt.Errorf("path %q refers to non-map value (type %T)", path, sectionData)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          n.tagName,
		WeaklyTypedInput: true,
		DecodeHook:       getDecodeHook(),
		ZeroFields:       true,
		Metadata:         nil,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", path, err)
	}

	return nil
}

// materializeDefaults resolves every declared default below n that has not
// been read yet.
func (n *Namespace) materializeDefaults() error {
	if err := n.ensureLoaded(); err != nil {
		return err
	}

	for key := range n.definitions {
		if _, _, err := n.getOrDefault(key); err != nil {
			return err
		}
	}

	for _, value := range n.data {
		if child, ok := value.(*Namespace); ok && child.parent == n {
			if err := child.materializeDefaults(); err != nil {
				return err
			}
		}
	}
	for _, child := range n.mounts {
		if err := child.materializeDefaults(); err != nil {
			return err
		}
	}

	return nil
}

// getDecodeHook returns the composite decode hook for all type conversions.
// JSON numbers are settled first so the string hooks only see real text.
func getDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		jsonNumberHookFunc(),
		stringToParsedHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// jsonNumberHookFunc turns the json.Number values kept by JSONStore into
// int64 or float64.
func jsonNumberHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		num, ok := data.(json.Number)
		if !ok || t.Kind() == reflect.String {
			return data, nil
		}
		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		return num.Float64()
	}
}

// stringParsers covers setting types without a text unmarshaler. Each
// returns a value of the keyed type.
var stringParsers = map[reflect.Type]func(string) (any, error){
	reflect.TypeOf(net.IPNet{}): func(s string) (any, error) {
		_, ipnet, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		return *ipnet, nil
	},
	reflect.TypeOf(url.URL{}): func(s string) (any, error) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		return *u, nil
	},
}

// stringToParsedHookFunc applies stringParsers to fields of those types or
// pointers to them.
func stringToParsedHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		target := t
		if t.Kind() == reflect.Ptr {
			target = t.Elem()
		}
		parse, ok := stringParsers[target]
		if !ok {
			return data, nil
		}

		parsed, err := parse(reflect.ValueOf(data).String())
		if err != nil {
			return nil, err
		}
		if t.Kind() != reflect.Ptr {
			return parsed, nil
		}
		ptr := reflect.New(target)
		ptr.Elem().Set(reflect.ValueOf(parsed))
		return ptr.Interface(), nil
	}
}

// navigateToPath traverses nested map to reach the specified path
func navigateToPath(nested map[string]any, path string) any {
	if path == "" {
		return nested
	}

	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return nested
	}

	segments := strings.Split(path, ".")
	current := any(nested)

	for _, segment := range segments {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		value, exists := currentMap[segment]
		if !exists {
			return nil
		}
		current = value
	}

	return current
}
