// FILE: lixenwraith/nsconfig/errors.go
package nsconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad matches every *LoadError via errors.Is.
	ErrLoad = errors.New("config load failed")

	// ErrPathNotFound is returned by typed accessors when nothing is stored at a path
	ErrPathNotFound = errors.New("path not found")

	// ErrNotTraversable is returned when a dotted path descends into a scalar value
	ErrNotTraversable = errors.New("path descends into a non-map value")

	// ErrNotScalar is returned by typed accessors when a path holds a section
	ErrNotScalar = errors.New("path holds a section, not a value")

	// ErrUnknownFormat is returned for unsupported file store formats
	ErrUnknownFormat = errors.New("unknown config format")
)

// LoadError reports a backing file that exists but could not be read during
// the lazy load of a namespace. It is the only error kind the namespace core
// produces on its own.
type LoadError struct {
	Path string
	Msg  string
	Err  error
}

func (e *LoadError) Error() string {
	return e.Msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports ErrLoad as a match so callers can test the kind without errors.As.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// newNotFoundLoadError keeps the filesystem message so the path stays visible.
func newNotFoundLoadError(path string, err error) *LoadError {
	return &LoadError{Path: path, Msg: err.Error(), Err: err}
}

func newPermissionLoadError(path string, err error) *LoadError {
	return &LoadError{
		Path: path,
		Msg:  fmt.Sprintf("Unable to open %s for reading", path),
		Err:  err,
	}
}
