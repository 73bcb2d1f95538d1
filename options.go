// FILE: lixenwraith/nsconfig/options.go
package nsconfig

import "log/slog"

// Option configures a Namespace at construction.
type Option func(*Namespace)

// WithFile backs the namespace with the file at path.
func WithFile(path string) Option {
	return func(n *Namespace) {
		n.file = path
	}
}

// WithStore sets the codec for the backing file. Without it the store is
// chosen from the file extension.
func WithStore(store FileStore) Option {
	return func(n *Namespace) {
		n.store = store
	}
}

func WithFilesystem(fs Filesystem) Option {
	return func(n *Namespace) {
		if fs != nil {
			n.fs = fs
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Namespace) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithTagName sets the struct tag used by Scan and RegisterDefaults
func WithTagName(tag string) Option {
	return func(n *Namespace) {
		if tag != "" {
			n.tagName = tag
		}
	}
}

// WithAutoSave writes the owning file after every Set.
func WithAutoSave() Option {
	return func(n *Namespace) {
		n.autoSave = true
	}
}
