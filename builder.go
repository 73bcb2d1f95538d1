// File: lixenwraith/nsconfig/builder.go
package nsconfig

import (
	"fmt"
	"log/slog"
	"os"
)

// mountSpec is a namespace queued for mounting at Build
type mountSpec struct {
	name      string
	namespace *Namespace
}

// Builder provides a fluent interface for building a namespace tree
type Builder struct {
	name     string
	file     string
	store    FileStore
	fs       Filesystem
	opts     []Option
	defaults any
	prefix   string
	args     []string
	mounts   []mountSpec
	err      error
}

// NewBuilder creates a new builder for a root namespace called name
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
		args: os.Args[1:],
	}
}

// WithFile sets the backing file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFormat forces the file format instead of detecting it from the extension
func (b *Builder) WithFormat(format string) *Builder {
	store, err := StoreForFormat(format)
	if err != nil {
		b.err = err
		return b
	}
	b.store = store
	return b
}

// WithStore sets a custom file store
func (b *Builder) WithStore(store FileStore) *Builder {
	b.store = store
	return b
}

func (b *Builder) WithFilesystem(fs Filesystem) *Builder {
	b.fs = fs
	b.opts = append(b.opts, WithFilesystem(fs))
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.opts = append(b.opts, WithLogger(logger))
	return b
}

// WithTagName sets the struct tag used for defaults and scanning
func (b *Builder) WithTagName(tag string) *Builder {
	b.opts = append(b.opts, WithTagName(tag))
	return b
}

// WithAutoSave persists every Set to the owning file
func (b *Builder) WithAutoSave() *Builder {
	b.opts = append(b.opts, WithAutoSave())
	return b
}

// WithDefaults sets the struct containing default values
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithPrefix sets the namespace path defaults are registered under and scanned from
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithArgs sets the command-line arguments consulted by file discovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithMount mounts a separately backed namespace under name
func (b *Builder) WithMount(name string, ns *Namespace) *Builder {
	b.mounts = append(b.mounts, mountSpec{name: name, namespace: ns})
	return b
}

// WithFileDiscovery searches for the backing file. An explicit WithFile wins.
// Candidates are checked on the builder's filesystem unless opts names one.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if b.file != "" {
		return b
	}
	if opts.Filesystem == nil {
		opts.Filesystem = b.fs
	}
	b.file = DiscoverFile(opts, b.args)
	return b
}

// Build creates the namespace with all specified options. Registering
// defaults or mounts touches the root, so a broken backing file surfaces here.
func (b *Builder) Build() (*Namespace, error) {
	if b.err != nil {
		return nil, b.err
	}

	opts := make([]Option, 0, len(b.opts)+2)
	if b.file != "" {
		opts = append(opts, WithFile(b.file))
	}
	if b.store != nil {
		opts = append(opts, WithStore(b.store))
	}
	opts = append(opts, b.opts...)

	ns := New(b.name, opts...)

	if b.defaults != nil {
		if err := ns.RegisterDefaults(b.prefix, b.defaults); err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
	}

	for _, m := range b.mounts {
		if err := ns.Mount(m.name, m.namespace); err != nil {
			return nil, fmt.Errorf("failed to mount %q: %w", m.name, err)
		}
	}

	return ns, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Namespace {
	ns, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return ns
}

// BuildAndScan builds the namespace and decodes it into the target struct pointer.
// The prefix used for defaults is the base path for scanning.
func (b *Builder) BuildAndScan(target any) (*Namespace, error) {
	ns, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := ns.Scan(target, b.prefix); err != nil {
		return nil, fmt.Errorf("failed to scan final config into target: %w", err)
	}

	return ns, nil
}
