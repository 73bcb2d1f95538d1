// File: lixenwraith/nsconfig/convenience.go
package nsconfig

import (
	"fmt"
	"io"
	"strings"
)

// Open creates a root namespace backed by path, with the format taken from
// the extension. The file is read on first access.
func Open(name, path string, opts ...Option) *Namespace {
	return New(name, append([]Option{WithFile(path)}, opts...)...)
}

// MustGet is like GetPath but panics on error
func (n *Namespace) MustGet(path string) any {
	value, err := n.GetPath(path)
	if err != nil {
		panic(fmt.Sprintf("config lookup %q failed: %v", path, err))
	}
	return value
}

// Dump writes the whole tree below n, mounted namespaces included, to w in
// the namespace's file format (JSON when not file-backed).
func (n *Namespace) Dump(w io.Writer) error {
	snapshot, err := n.Snapshot()
	if err != nil {
		return err
	}

	store := n.store
	if store == nil {
		store = JSONStore{}
	}

	out, err := store.Encode(snapshot)
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}

// Debug returns a formatted listing of n and every namespace mounted below
// it, including mounts under nested children: a header with the backing
// file, then the flattened values each one persists.
func (n *Namespace) Debug() string {
	var b strings.Builder
	n.debug(&b)
	return b.String()
}

func (n *Namespace) debug(b *strings.Builder) {
	name := n.Name()
	if name == "" {
		name = "(root)"
	}
	file := n.file
	if file == "" {
		file = "-"
	}
	b.WriteString(fmt.Sprintf("%s [file: %s]\n", name, file))

	data, err := n.ToMap()
	if err != nil {
		b.WriteString(fmt.Sprintf("  error: %v\n", err))
		return
	}

	flat := flattenMap(data, "")
	for _, path := range sortedKeys(flat) {
		b.WriteString(fmt.Sprintf("  %s = %v\n", path, flat[path]))
	}

	for _, child := range n.mountedChildren() {
		child.debug(b)
	}
}
