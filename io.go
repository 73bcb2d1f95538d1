// File: lixenwraith/nsconfig/io.go
package nsconfig

import (
	"errors"
	"io/fs"
	"sort"
)

// ensureLoaded materializes the store on first access. The outcome of the
// first attempt, including a failure, is kept for the namespace's lifetime.
func (n *Namespace) ensureLoaded() error {
	if n.loaded {
		return nil
	}
	if n.loadErr != nil {
		return n.loadErr
	}

	data, err := n.loadData()
	if err != nil {
		n.loadErr = err
		return err
	}

	n.data = data
	n.loaded = true
	return nil
}

// loadData reads the backing file. A missing file means no settings yet.
func (n *Namespace) loadData() (map[string]any, error) {
	if n.file == "" {
		return make(map[string]any), nil
	}

	if !n.fs.FileExists(n.file) {
		n.logger.Debug("config file not found, starting empty",
			"namespace", n.Name(),
			"file", n.file,
		)
		return make(map[string]any), nil
	}

	raw, err := n.fs.ReadFile(n.file)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Removed between the existence check and the read
			return nil, newNotFoundLoadError(n.file, err)
		case errors.Is(err, fs.ErrPermission):
			return nil, newPermissionLoadError(n.file, err)
		}
		return nil, err
	}

	if n.store == nil {
		n.store = storeForData(raw)
		n.logger.Debug("config format detected from content",
			"namespace", n.Name(),
			"file", n.file,
			"format", n.store.Format(),
		)
	}

	data, err := n.store.Decode(raw)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[string]any)
	}

	n.logger.Debug("loaded config namespace",
		"namespace", n.Name(),
		"file", n.file,
		"format", n.store.Format(),
		"keys", len(data),
	)
	return data, nil
}

// Save writes the namespace to its backing file. Nested namespaces are saved
// through the nearest file-backed ancestor. A root without a file has nothing
// to write. Encoding and write errors are returned unchanged.
func (n *Namespace) Save() error {
	if n.file == "" {
		if n.parent != nil {
			return n.parent.Save()
		}
		return nil
	}

	data, err := n.ToMap()
	if err != nil {
		return err
	}

	store := n.store
	if store == nil {
		// Never read from disk, so nothing to match
		store = JSONStore{}
	}

	raw, err := store.Encode(data)
	if err != nil {
		return err
	}

	if err := n.fs.WriteFile(n.file, raw); err != nil {
		return err
	}

	n.logger.Debug("saved config namespace",
		"namespace", n.Name(),
		"file", n.file,
		"bytes", len(raw),
	)
	return nil
}

// SaveAll saves this namespace and every mounted namespace below it.
// Namespaces that were never loaded hold nothing new and are skipped.
func (n *Namespace) SaveAll() error {
	if !n.loaded {
		return nil
	}

	var saveErrors []error
	if n.file != "" {
		if err := n.Save(); err != nil {
			saveErrors = append(saveErrors, err)
		}
	}

	saveErrors = append(saveErrors, n.saveMounted())
	return errors.Join(saveErrors...)
}

// saveMounted saves every namespace mounted below n.
func (n *Namespace) saveMounted() error {
	var saveErrors []error
	for _, child := range n.mountedChildren() {
		if err := child.SaveAll(); err != nil {
			saveErrors = append(saveErrors, err)
		}
	}
	return errors.Join(saveErrors...)
}

// mountedChildren returns the namespaces mounted on n and on its nested
// children, in name order. Mounts of mounts are not included.
func (n *Namespace) mountedChildren() []*Namespace {
	var children []*Namespace
	for _, name := range sortedKeys(n.mounts) {
		children = append(children, n.mounts[name])
	}
	for _, key := range sortedKeys(n.data) {
		if child, ok := n.data[key].(*Namespace); ok && child.parent == n {
			children = append(children, child.mountedChildren()...)
		}
	}
	return children
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
