package memfs

import (
	"errors"
	"io/fs"
)

// kindError is a sentinel that also classifies as a more general error,
// so callers can match either with errors.Is.
type kindError struct {
	msg  string
	base error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.base }

// Error kinds reported by FileSystem operations
var (
	// ErrInvalidType is returned when a node is a file where a directory is
	// required, or the other way around
	ErrInvalidType = errors.New("invalid node type")

	// ErrPermissionDenied is returned when the parent directory of a new
	// entry does not grant write. Matches fs.ErrPermission.
	ErrPermissionDenied error = &kindError{"permission denied", fs.ErrPermission}

	// ErrFileNotFound is returned when a path component does not exist.
	// Matches fs.ErrNotExist.
	ErrFileNotFound error = &kindError{"file not found", fs.ErrNotExist}

	// ErrFileExists is returned when create or mkdir targets an existing name.
	// Matches fs.ErrExist.
	ErrFileExists error = &kindError{"file exists", fs.ErrExist}

	// ErrDirectoryNotEmpty is returned by rmdir on a directory with entries
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrInvalidFileDescriptor is returned for handles that are not open.
	// Matches fs.ErrClosed.
	ErrInvalidFileDescriptor error = &kindError{"invalid file descriptor", fs.ErrClosed}

	// ErrSeekOutOfRange is returned when a seek resolves outside [0, size].
	// It is classified as ErrInvalidType.
	ErrSeekOutOfRange error = &kindError{"seek out of range", ErrInvalidType}

	// ErrTooManyOpenFiles is returned when every handle up to the configured
	// maximum is in use
	ErrTooManyOpenFiles = errors.New("too many open files")
)

// FDError records an error and the operation and handle that caused it
type FDError struct {
	Op  string
	FD  FD
	Err error
}

func (e *FDError) Error() string {
	return e.Op + " fd " + e.FD.String() + ": " + e.Err.Error()
}

func (e *FDError) Unwrap() error { return e.Err }
