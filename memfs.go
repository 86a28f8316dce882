// Package memfs contains core domain types and interfaces for the memfs
// in-memory namespace: permissions, seek arithmetic, descriptor handles and
// the error kinds every operation reports.
package memfs

import "strconv"

// FD is an open-file handle. Valid handles are positive and unique among the
// descriptors currently open on a FileSystem.
type FD uint64

func (fd FD) String() string {
	return strconv.FormatUint(uint64(fd), 10)
}

// NodeType valid types are FileNodeType "file", DirNodeType "dir"
type NodeType string

const (
	FileNodeType NodeType = "file"
	DirNodeType  NodeType = "dir"
)

// DirEntry describes one child of a directory
type DirEntry struct {
	Name string
	Type NodeType
	Perm Permission
	Size uint64
}

// IsDir reports whether the entry is a directory
func (e DirEntry) IsDir() bool {
	return e.Type == DirNodeType
}
