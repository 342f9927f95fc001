package pods

import (
	"errors"
	"fmt"
)

// Standard errors returned by the pods package.
var (
	// ErrNotAbsolute indicates a path argument that must be absolute was not.
	ErrNotAbsolute = errors.New("path is not absolute")

	// ErrDuplicateGroup indicates a pod group was registered twice under one name.
	ErrDuplicateGroup = errors.New("pod group already registered")

	// ErrGroupNotFound indicates no pod group exists for the requested pod.
	ErrGroupNotFound = errors.New("pod group not found")

	// ErrUnknownSubgroup indicates an unrecognized fixed subgroup key.
	ErrUnknownSubgroup = errors.New("unrecognized subgroup key")
)

// PathError represents an error associated with a file path.
type PathError struct {
	Op   string // Operation that failed (resolve, add, lookup, etc.)
	Path string // Offending path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new PathError.
func NewPathError(op, path string, err error) *PathError {
	return &PathError{Op: op, Path: path, Err: err}
}

// GroupError represents an error associated with a pod group or subgroup key.
type GroupError struct {
	Name string // Pod name or subgroup key
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *GroupError) Error() string {
	return fmt.Sprintf("group %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *GroupError) Unwrap() error {
	return e.Err
}

// IsNotAbsolute returns true if the error indicates a non-absolute path argument.
func IsNotAbsolute(err error) bool {
	return errors.Is(err, ErrNotAbsolute)
}

// IsDuplicateGroup returns true if the error indicates a duplicate pod group.
func IsDuplicateGroup(err error) bool {
	return errors.Is(err, ErrDuplicateGroup)
}

// IsGroupNotFound returns true if the error indicates a missing pod group.
func IsGroupNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound)
}
