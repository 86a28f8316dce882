package filesystem

import (
	"os"
	"sync"
	"time"

	"github.com/brettbedarf/memfs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Inode holds the attributes shared by every node kind. The permission tag
// is immutable; everything else in fuseAttr is protected by mu.
type Inode struct {
	// Low-level fuse attributes; Only access directly if handling locks manually
	fuseAttr *fuse.Attr
	perm     memfs.Permission
	mu       sync.RWMutex
}

func NewInode(attr *fuse.Attr, perm memfs.Permission) *Inode {
	return &Inode{
		fuseAttr: attr,
		perm:     perm,
	}
}

// Perm returns the node's permission tag
func (n *Inode) Perm() memfs.Permission {
	return n.perm
}

// Ino returns the inode number; it never changes after creation
func (n *Inode) Ino() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.fuseAttr.Ino
}

// CopyAttr returns a thread-safe copy of the inode's attributes
func (n *Inode) CopyAttr() fuse.Attr {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return *n.fuseAttr
}

// Touch sets modification and change times to now
func (n *Inode) Touch(now time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	setMtime(n.fuseAttr, now)
}

func setMtime(attr *fuse.Attr, now time.Time) {
	attr.Mtime = uint64(now.Unix())
	attr.Mtimensec = uint32(now.Nanosecond())
	attr.Ctime = attr.Mtime
	attr.Ctimensec = attr.Mtimensec
}

// newDefaultAttr returns the default attributes for a new node of the given
// type and permission
func newDefaultAttr(ino uint64, dir bool, perm memfs.Permission) *fuse.Attr {
	now := time.Now()
	mode := uint32(fuse.S_IFREG)
	if dir {
		mode = fuse.S_IFDIR
	}
	nlink := uint32(1)
	if dir {
		// "." plus the entry in its parent
		nlink = 2
	}
	return &fuse.Attr{
		Ino:   ino,
		Mode:  mode | perm.Mode(dir),
		Nlink: nlink,
		Owner: fuse.Owner{
			Uid: uint32(os.Getuid()),
			Gid: uint32(os.Getgid()),
		},
		Atime:     uint64(now.Unix()),
		Mtime:     uint64(now.Unix()),
		Ctime:     uint64(now.Unix()),
		Atimensec: uint32(now.Nanosecond()),
		Mtimensec: uint32(now.Nanosecond()),
		Ctimensec: uint32(now.Nanosecond()),
		Blksize:   4096,
	}
}
