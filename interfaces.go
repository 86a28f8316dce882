package memfs

import "github.com/hanwen/go-fuse/v2/fuse"

// FileSystem is the in-process API of the namespace. Every operation either
// fully succeeds or returns an error and leaves state unchanged.
type FileSystem interface {
	// Create adds an empty file at path with perm and opens it
	Create(path string, perm Permission) (FD, error)
	// Open opens an existing file with its cursor at 0
	Open(path string) (FD, error)
	// Close releases fd; it may be handed out again by a later open
	Close(fd FD) error

	// Read copies bytes starting at the cursor into buf and returns the count.
	// The cursor is not advanced.
	Read(fd FD, buf []byte) (int, error)
	// Write appends p to the file regardless of the cursor
	Write(fd FD, p []byte) (int, error)
	// Seek moves the cursor and returns its new absolute position
	Seek(fd FD, whence Whence) (int64, error)

	// Mkdir adds an empty ReadWrite directory at path
	Mkdir(path string) error
	// MkdirPerm adds an empty directory at path with perm
	MkdirPerm(path string, perm Permission) error
	// Rmdir removes the empty directory at path
	Rmdir(path string) error

	// Stat returns a snapshot of the attributes of the node at path
	Stat(path string) (fuse.Attr, error)
	// ReadDir lists the directory at path sorted by name
	ReadDir(path string) ([]DirEntry, error)
}
