// FILE: lixenwraith/nsconfig/value.go
package nsconfig

// DefaultFunc produces the value of a key the first time it is read while absent.
type DefaultFunc func() any

// ValueDefinition holds the declared rules for a single key.
type ValueDefinition struct {
	Default DefaultFunc
}

// ValueOption configures a ValueDefinition
type ValueOption func(*ValueDefinition)

// DefaultTo sets the producer of the key's default value. The producer runs at
// most once per namespace; its result is stored like a written value.
func DefaultTo(fn DefaultFunc) ValueOption {
	return func(d *ValueDefinition) {
		d.Default = fn
	}
}

// DefaultValue is DefaultTo for a constant.
func DefaultValue(value any) ValueOption {
	return DefaultTo(func() any { return value })
}
