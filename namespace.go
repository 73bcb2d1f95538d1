// FILE: lixenwraith/nsconfig/namespace.go
package nsconfig

import (
	"fmt"
	"log/slog"
	"sort"
)

// DefaultTagName is the struct tag read by Scan and RegisterDefaults.
const DefaultTagName = "toml"

var discardLogger = slog.New(slog.DiscardHandler)

// Namespace is a node of the configuration tree. It owns a key/value store,
// optionally loaded on first access from a backing file, plus any nested or
// mounted child namespaces.
//
// Nested children live inside the parent's store and are serialized with it.
// Mounted children carry their own file and are only tracked by the tree.
//
// A Namespace is not safe for concurrent use.
type Namespace struct {
	name   string
	parent *Namespace // non-owning, used for naming and save routing only
	file   string

	store    FileStore
	fs       Filesystem
	logger   *slog.Logger
	tagName  string
	autoSave bool

	data        map[string]any
	mounts      map[string]*Namespace
	definitions map[string]*ValueDefinition
	loaded      bool
	loadErr     error
}

// New creates a free-standing namespace. Passing WithFile makes it file-backed;
// the file is not touched until the first access.
func New(name string, opts ...Option) *Namespace {
	n := &Namespace{
		name:        name,
		fs:          OSFilesystem{},
		logger:      discardLogger,
		tagName:     DefaultTagName,
		mounts:      make(map[string]*Namespace),
		definitions: make(map[string]*ValueDefinition),
	}

	for _, opt := range opts {
		opt(n)
	}

	// An unknown extension leaves the store to be sniffed from the content at load
	if n.file != "" && n.store == nil {
		n.store = storeForExtension(n.file)
	}

	return n
}

// NewJSON creates an unnamed namespace backed by a JSON file.
func NewJSON(path string, opts ...Option) *Namespace {
	return New("", append([]Option{WithFile(path), WithStore(JSONStore{})}, opts...)...)
}

// NewTOML creates an unnamed namespace backed by a TOML file.
func NewTOML(path string, opts ...Option) *Namespace {
	return New("", append([]Option{WithFile(path), WithStore(TOMLStore{})}, opts...)...)
}

// NewYAML creates an unnamed namespace backed by a YAML file.
func NewYAML(path string, opts ...Option) *Namespace {
	return New("", append([]Option{WithFile(path), WithStore(YAMLStore{})}, opts...)...)
}

// Name returns the dotted path of the namespace from the root of its tree.
func (n *Namespace) Name() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Name() + "." + n.name
}

// BaseName returns the name the namespace is attached under in its parent.
func (n *Namespace) BaseName() string {
	return n.name
}

func (n *Namespace) Parent() *Namespace {
	return n.parent
}

// File returns the backing file path, or "" for in-memory namespaces.
func (n *Namespace) File() string {
	return n.file
}

// Store returns the file store used for the backing file, nil when not file-backed.
func (n *Namespace) Store() FileStore {
	return n.store
}

// Loaded reports whether the store has been materialized.
func (n *Namespace) Loaded() bool {
	return n.loaded
}

// IsChild reports whether the namespace has been nested or mounted into another.
func (n *Namespace) IsChild() bool {
	return n.parent != nil
}

// IncludeInParent reports whether the namespace's data belongs in its parent's
// serialized form. Only nested children qualify; mounted children persist to
// their own file.
func (n *Namespace) IncludeInParent() bool {
	return n.IsChild() && n.file == ""
}

// Get returns the value stored under key. Children resolve to their
// *Namespace. An absent key with a declared default has the default produced
// and stored. Any other absent key yields a new empty map that is not
// retained, so chained lookups of unknown sections do not fail.
func (n *Namespace) Get(key string) (any, error) {
	value, found, err := n.getOrDefault(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return make(map[string]any), nil
	}
	return value, nil
}

// getOrDefault resolves key and materializes a declared default in the same step.
func (n *Namespace) getOrDefault(key string) (any, bool, error) {
	if err := n.ensureLoaded(); err != nil {
		return nil, false, err
	}

	if child, ok := n.mounts[key]; ok {
		return child, true, nil
	}

	if value, ok := n.data[key]; ok {
		return value, true, nil
	}

	if def, ok := n.definitions[key]; ok && def.Default != nil {
		value := def.Default()
		n.data[key] = value
		return value, true, nil
	}

	return nil, false, nil
}

// Set stores value under key, bypassing any declared default. A child
// namespace held under key is detached. With auto-save enabled the owning
// file is written afterwards.
func (n *Namespace) Set(key string, value any) error {
	if err := n.ensureLoaded(); err != nil {
		return err
	}

	n.release(key)
	n.data[key] = value

	if n.autoSave {
		return n.Save()
	}
	return nil
}

// Namespace creates a nested child under name, replacing any previous child.
// A plain map already stored under name, such as a section read from the
// backing file, seeds the child's data.
func (n *Namespace) Namespace(name string) (*Namespace, error) {
	if err := n.ensureLoaded(); err != nil {
		return nil, err
	}

	section, _ := n.data[name].(map[string]any)
	n.release(name)

	child := New(name,
		WithFilesystem(n.fs),
		WithLogger(n.logger),
		WithTagName(n.tagName),
	)
	child.parent = n
	child.autoSave = n.autoSave
	child.data = make(map[string]any, len(section))
	for k, v := range section {
		child.data[k] = v
	}
	child.loaded = true

	n.data[name] = child
	return child, nil
}

// Mount attaches an externally constructed namespace under name, replacing
// whatever was stored there. The child keeps its own file; it is never written
// into this namespace's data. A child already attached elsewhere is moved.
func (n *Namespace) Mount(name string, child *Namespace) error {
	if child == nil {
		return fmt.Errorf("cannot mount nil namespace at %q", name)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("cannot mount %q at %q: it is %s or one of its ancestors",
				child.Name(), name, n.Name())
		}
	}
	if err := n.ensureLoaded(); err != nil {
		return err
	}

	if child.parent != nil {
		child.parent.detach(child)
	}
	n.release(name)

	child.parent = n
	child.name = name
	n.mounts[name] = child

	n.logger.Debug("mounted config namespace",
		"namespace", child.Name(),
		"file", child.file,
	)
	return nil
}

// Value declares the rules for a key, currently its default producer.
func (n *Namespace) Value(name string, opts ...ValueOption) error {
	if err := n.ensureLoaded(); err != nil {
		return err
	}

	def := &ValueDefinition{}
	for _, opt := range opts {
		opt(def)
	}
	n.definitions[name] = def
	return nil
}

// ToMap flattens the namespace into plain nested maps. Nested children are
// inlined, mounted children are left out. The result shares no maps or
// lists with the stored data.
func (n *Namespace) ToMap() (map[string]any, error) {
	return n.toMap(false)
}

// Snapshot is ToMap with mounted children inlined as well, giving a view of
// the whole tree below n.
func (n *Namespace) Snapshot() (map[string]any, error) {
	return n.toMap(true)
}

func (n *Namespace) toMap(withMounts bool) (map[string]any, error) {
	if err := n.ensureLoaded(); err != nil {
		return nil, err
	}

	result := make(map[string]any, len(n.data))
	for key, value := range n.data {
		child, ok := value.(*Namespace)
		if !ok {
			result[key] = copyValue(value)
			continue
		}
		if !child.IncludeInParent() {
			continue
		}
		childMap, err := child.toMap(withMounts)
		if err != nil {
			return nil, err
		}
		result[key] = childMap
	}

	if withMounts {
		for name, child := range n.mounts {
			childMap, err := child.toMap(true)
			if err != nil {
				return nil, fmt.Errorf("failed to read mounted namespace %q: %w", child.Name(), err)
			}
			result[name] = childMap
		}
	}

	return result, nil
}

// Keys returns the sorted names of stored values and mounted children.
func (n *Namespace) Keys() ([]string, error) {
	if err := n.ensureLoaded(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(n.data)+len(n.mounts))
	for key := range n.data {
		keys = append(keys, key)
	}
	for name := range n.mounts {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}

// release empties the slot under name. Each name holds one thing: a value,
// a nested child or a mounted child. A child namespace removed this way
// becomes free-standing.
func (n *Namespace) release(name string) {
	if child, ok := n.mounts[name]; ok {
		delete(n.mounts, name)
		child.parent = nil
	}
	if child, ok := n.data[name].(*Namespace); ok && child.parent == n {
		child.parent = nil
	}
	delete(n.data, name)
}

// detach removes child from wherever n holds it.
func (n *Namespace) detach(child *Namespace) {
	if n.mounts[child.name] == child {
		delete(n.mounts, child.name)
	}
	if existing, ok := n.data[child.name].(*Namespace); ok && existing == child {
		delete(n.data, child.name)
	}
	child.parent = nil
}

// copyValue duplicates plain maps and lists so results handed out by ToMap
// do not alias the stored data.
func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = copyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	default:
		return value
	}
}
