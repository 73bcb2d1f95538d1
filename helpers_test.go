// FILE: lixenwraith/nsconfig/helpers_test.go
package nsconfig

import (
	"errors"
	"io/fs"
)

// memFS is an in-memory Filesystem that can inject read and write failures.
type memFS struct {
	files    map[string][]byte
	readErrs map[string]error
	writeErr error
	reads    map[string]int
	writes   map[string]int
}

func newMemFS() *memFS {
	return &memFS{
		files:    make(map[string][]byte),
		readErrs: make(map[string]error),
		reads:    make(map[string]int),
		writes:   make(map[string]int),
	}
}

// FileExists also reports paths with an injected read error, so the failure
// happens between the existence check and the read.
func (m *memFS) FileExists(path string) bool {
	if _, ok := m.readErrs[path]; ok {
		return true
	}
	_, ok := m.files[path]
	return ok
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.reads[path]++
	if err, ok := m.readErrs[path]; ok {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(path string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = append([]byte(nil), data...)
	m.writes[path]++
	return nil
}

var errDiskFailure = errors.New("disk failure")
