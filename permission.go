package memfs

import (
	"fmt"
	"strings"
)

// Permission is the tri-state access tag carried by every node.
// It is fixed when the node is created.
type Permission uint8

const (
	Read Permission = iota + 1
	Write
	ReadWrite
)

// CanRead reports whether p allows reading
func (p Permission) CanRead() bool {
	return p == Read || p == ReadWrite
}

// CanWrite reports whether p allows writing, which for a directory means
// creating entries inside it
func (p Permission) CanWrite() bool {
	return p == Write || p == ReadWrite
}

// Valid reports whether p is one of the three defined tags
func (p Permission) Valid() bool {
	return p >= Read && p <= ReadWrite
}

// Mode returns the rw bits for p applied to user, group and other.
// Directories additionally get execute wherever read is granted so the
// resulting mode looks like a traversable directory.
func (p Permission) Mode(dir bool) uint32 {
	var m uint32
	if p.CanRead() {
		m |= 0o444
		if dir {
			m |= 0o111
		}
	}
	if p.CanWrite() {
		m |= 0o222
	}
	return m
}

func (p Permission) String() string {
	switch p {
	case Read:
		return "r"
	case Write:
		return "w"
	case ReadWrite:
		return "rw"
	default:
		return fmt.Sprintf("Permission(%d)", uint8(p))
	}
}

// ParsePermission accepts the short ("r", "w", "rw") and long ("read",
// "write", "readwrite", "read-write") spellings, case-insensitively.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "read":
		return Read, nil
	case "w", "write":
		return Write, nil
	case "rw", "readwrite", "read-write", "read_write":
		return ReadWrite, nil
	}
	return 0, fmt.Errorf("unknown permission %q", s)
}
