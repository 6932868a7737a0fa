package wire

import (
	"errors"
	"fmt"
)

// ErrNilExtension is returned when an Extension value has no delegate.
var ErrNilExtension = errors.New("wire: nil extension")

// UnsupportedValueError indicates a value that is not a Scalar, List, Map or
// Extension and has no native conversion.
type UnsupportedValueError struct {
	// Path locates the value inside the payload, e.g. "attributes.records[2]".
	// Empty for the top-level value.
	Path string

	// Type is the Go type of the offending value.
	Type string
}

func (e *UnsupportedValueError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("wire: unsupported value of type %s", e.Type)
	}
	return fmt.Sprintf("wire: unsupported value of type %s at %s", e.Type, e.Path)
}

// ExtensionError wraps an error returned by an Extension delegate.
type ExtensionError struct {
	// Path locates the extension; empty at the top level.
	Path string
	Err  error
}

func (e *ExtensionError) Error() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("wire: extension at %s: %v", path, e.Err)
}

func (e *ExtensionError) Unwrap() error {
	return e.Err
}

// childPath joins a parent path and a key the way UnsupportedValueError
// reports locations.
func childPath(parent string, key string, positional bool) string {
	if positional {
		return parent + "[" + key + "]"
	}
	if parent == "" {
		return key
	}
	return parent + "." + key
}
