package nsconfig

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// RegisterDefaults declares default rules from a struct. Each exported leaf
// field becomes a DefaultTo rule holding the field's value; nested structs
// become nested namespaces, reusing children that already exist. The struct
// tag named by WithTagName (default "toml") gives the key, "-" skips a field.
// prefix is a dotted path of namespaces below n to register into.
func (n *Namespace) RegisterDefaults(prefix string, defaults any) error {
	v := reflect.ValueOf(defaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("RegisterDefaults requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterDefaults requires a struct or struct pointer, got %T", defaults)
	}

	target := n
	if prefix = strings.Trim(prefix, "."); prefix != "" {
		for _, segment := range strings.Split(prefix, ".") {
			child, err := target.childNamespace(segment)
			if err != nil {
				return err
			}
			target = child
		}
	}

	var errors []string
	if err := target.registerFields(v, "", &errors); err != nil {
		return err
	}

	if len(errors) > 0 {
		return fmt.Errorf("failed to register %d field(s): %s", len(errors), strings.Join(errors, "; "))
	}

	return nil
}

// childNamespace returns the child under name, nesting a new one when absent.
func (n *Namespace) childNamespace(name string) (*Namespace, error) {
	if err := n.ensureLoaded(); err != nil {
		return nil, err
	}
	if child, ok := n.mounts[name]; ok {
		return child, nil
	}
	if child, ok := n.data[name].(*Namespace); ok {
		return child, nil
	}
	return n.Namespace(name)
}

// registerFields walks the fields of v. Field problems are collected in
// errors; a returned error means a namespace could not be loaded.
func (n *Namespace) registerFields(v reflect.Value, fieldPath string, errors *[]string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(n.tagName)
		if tag == "-" {
			continue
		}

		key := field.Name
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				key = parts[0]
			}
		}

		if !isValidKeySegment(key) {
			*errors = append(*errors, fmt.Sprintf("field %s%s: invalid key %q", fieldPath, field.Name, key))
			continue
		}

		if isSection(fieldValue) {
			nestedValue := fieldValue
			if fieldValue.Kind() == reflect.Ptr {
				if fieldValue.IsNil() {
					// Skip nil pointers, as their paths aren't well-defined defaults.
					continue
				}
				nestedValue = fieldValue.Elem()
			}

			child, err := n.childNamespace(key)
			if err != nil {
				return err
			}
			if err := child.registerFields(nestedValue, fieldPath+field.Name+".", errors); err != nil {
				return err
			}
			continue
		}

		if err := n.Value(key, DefaultValue(fieldValue.Interface())); err != nil {
			return err
		}
	}

	return nil
}

var leafStructTypes = map[reflect.Type]bool{
	reflect.TypeOf(time.Time{}): true,
	reflect.TypeOf(url.URL{}):   true,
	reflect.TypeOf(net.IPNet{}): true,
}

// isSection reports whether a field maps to a nested namespace rather than a value.
func isSection(v reflect.Value) bool {
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && !leafStructTypes[t]
}
