// Package filesystem implements the in-memory namespace: a tree of directory
// and file nodes, an arena holding file contents and a descriptor table of
// open files.
package filesystem

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/internal/util"
	"github.com/google/uuid"
	"github.com/hanwen/go-fuse/v2/fuse"
)

type FileSystem struct {
	cfg     *config.Config
	id      string        // Mount session id
	root    *Node         // Root of node tree; always a ReadWrite directory
	lastIno atomic.Uint64 // Last Attr.Ino assigned; incremented when new nodes are created
	arena   *Arena        // File contents by FileID
	fds     *FDTable      // Open descriptors by handle
}

var _ memfs.FileSystem = (*FileSystem)(nil)

// Mount creates an empty namespace: a root directory with ReadWrite
// permission and no open descriptors. A nil cfg uses the defaults.
func Mount(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	maxFH := cfg.MaxFH
	if maxFH < 1 {
		maxFH = config.DefaultMaxFH
	}

	rootAttr := newDefaultAttr(fuse.FUSE_ROOT_ID, true, memfs.ReadWrite)
	root := NewDirNode("", NewInode(rootAttr, memfs.ReadWrite))

	fsys := &FileSystem{
		cfg:   cfg,
		id:    uuid.NewString(),
		root:  root,
		arena: NewArena(),
		fds:   NewFDTable(maxFH),
	}
	fsys.lastIno.Store(fuse.FUSE_ROOT_ID)

	fsys.logger("Mount").Info().Int("maxFH", maxFH).Msg("Filesystem mounted")
	return fsys
}

// ID returns the mount session id
func (fsys *FileSystem) ID() string {
	return fsys.id
}

// OpenCount returns the number of open descriptors
func (fsys *FileSystem) OpenCount() int {
	return fsys.fds.Len()
}

func (fsys *FileSystem) logger(op string) util.Logger {
	return util.GetLogger("FS."+op).With().Str("mount", fsys.cfg.Name).Str("id", fsys.id).Logger()
}

// Create adds an empty file at path with perm and returns a descriptor
// opened on it. The parent directory must grant write and the name must not
// be taken.
func (fsys *FileSystem) Create(path string, perm memfs.Permission) (memfs.FD, error) {
	logger := fsys.logger("Create")
	logger.Trace().Str("path", path).Stringer("perm", perm).Msg("Create called")

	if !perm.Valid() {
		err := pathErr("create", path, fmt.Errorf("%w: permission %s", memfs.ErrInvalidType, perm))
		logger.Debug().Err(err).Msg("Rejected create")
		return 0, err
	}

	parent, name, err := fsys.resolveParent("create", path)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected create")
		return 0, err
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	if err := fsys.checkInsertLocked("create", path, parent, name); err != nil {
		logger.Debug().Err(err).Msg("Rejected create")
		return 0, err
	}

	id, _ := fsys.arena.Alloc()
	of, err := fsys.fds.Open(id, path)
	if err != nil {
		// nothing was linked yet; drop the payload so the tree is unchanged
		fsys.arena.Free(id)
		logger.Debug().Err(err).Str("path", path).Msg("Rejected create")
		return 0, pathErr("create", path, err)
	}

	attr := newDefaultAttr(fsys.lastIno.Add(1), false, perm)
	node := NewFileNode(name, NewInode(attr, perm), id)
	parent.addChildLocked(node)
	parent.Touch(time.Now())

	logger.Debug().Str("path", path).Stringer("fd", of.fd).Uint64("fileID", uint64(id)).Msg("Created file")
	return of.fd, nil
}

// Mkdir adds an empty ReadWrite directory at path
func (fsys *FileSystem) Mkdir(path string) error {
	return fsys.mkdir("mkdir", path, memfs.ReadWrite)
}

// MkdirPerm adds an empty directory at path carrying perm
func (fsys *FileSystem) MkdirPerm(path string, perm memfs.Permission) error {
	return fsys.mkdir("mkdir", path, perm)
}

func (fsys *FileSystem) mkdir(op, path string, perm memfs.Permission) error {
	logger := fsys.logger("Mkdir")
	logger.Trace().Str("path", path).Stringer("perm", perm).Msg("Mkdir called")

	if !perm.Valid() {
		err := pathErr(op, path, fmt.Errorf("%w: permission %s", memfs.ErrInvalidType, perm))
		logger.Debug().Err(err).Msg("Rejected mkdir")
		return err
	}

	parent, name, err := fsys.resolveParent(op, path)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected mkdir")
		return err
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	if err := fsys.checkInsertLocked(op, path, parent, name); err != nil {
		logger.Debug().Err(err).Msg("Rejected mkdir")
		return err
	}

	attr := newDefaultAttr(fsys.lastIno.Add(1), true, perm)
	parent.addChildLocked(NewDirNode(name, NewInode(attr, perm)))
	parent.Touch(time.Now())

	logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// checkInsertLocked validates that name can be added to parent.
// Caller must hold parent.mu.Lock().
func (fsys *FileSystem) checkInsertLocked(op, path string, parent *Node, name string) error {
	// parent may have been removed between resolution and locking
	if parent.removedLocked() {
		return pathErr(op, path, memfs.ErrFileNotFound)
	}
	if name == "" {
		return pathErr(op, path, memfs.ErrFileNotFound)
	}
	if _, exists := parent.GetChild(name); exists {
		return pathErr(op, path, memfs.ErrFileExists)
	}
	if !parent.Perm().CanWrite() {
		return pathErr(op, path, memfs.ErrPermissionDenied)
	}
	return nil
}

// Rmdir removes the directory at path. It must exist and have no entries.
func (fsys *FileSystem) Rmdir(path string) error {
	logger := fsys.logger("Rmdir")
	logger.Trace().Str("path", path).Msg("Rmdir called")

	parent, name, err := fsys.resolveParent("rmdir", path)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected rmdir")
		return err
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	target, ok := parent.GetChild(name)
	if !ok || parent.removedLocked() {
		err := pathErr("rmdir", path, memfs.ErrFileNotFound)
		logger.Debug().Err(err).Msg("Rejected rmdir")
		return err
	}
	if !target.IsDir() {
		err := pathErr("rmdir", path, memfs.ErrInvalidType)
		logger.Debug().Err(err).Msg("Rejected rmdir")
		return err
	}

	target.mu.Lock()
	defer target.mu.Unlock()

	if n := target.ChildCount(); n > 0 {
		err := pathErr("rmdir", path, memfs.ErrDirectoryNotEmpty)
		logger.Debug().Err(err).Int("entries", n).Msg("Rejected rmdir")
		return err
	}

	parent.removeChildLocked(target)
	parent.Touch(time.Now())

	logger.Debug().Str("path", path).Msg("Removed directory")
	return nil
}

// Open returns a new descriptor on the file at path with its cursor at 0.
// Every descriptor on the same file shares its contents.
func (fsys *FileSystem) Open(path string) (memfs.FD, error) {
	logger := fsys.logger("Open")
	logger.Trace().Str("path", path).Msg("Open called")

	if len(splitPath(path)) == 0 {
		err := pathErr("open", path, memfs.ErrFileNotFound)
		logger.Debug().Err(err).Msg("Rejected open")
		return 0, err
	}

	node, err := fsys.resolve("open", path)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected open")
		return 0, err
	}
	if node.IsDir() {
		err := pathErr("open", path, memfs.ErrInvalidType)
		logger.Debug().Err(err).Msg("Rejected open")
		return 0, err
	}

	of, err := fsys.fds.Open(node.fileID, path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Rejected open")
		return 0, pathErr("open", path, err)
	}

	logger.Debug().Str("path", path).Stringer("fd", of.fd).Msg("Opened file")
	return of.fd, nil
}

// Close releases fd
func (fsys *FileSystem) Close(fd memfs.FD) error {
	logger := fsys.logger("Close")
	logger.Trace().Stringer("fd", fd).Msg("Close called")

	of, ok := fsys.fds.Close(fd)
	if !ok {
		err := &memfs.FDError{Op: "close", FD: fd, Err: memfs.ErrInvalidFileDescriptor}
		logger.Debug().Err(err).Msg("Rejected close")
		return err
	}

	logger.Debug().Stringer("fd", fd).Str("path", of.path).Msg("Closed file")
	return nil
}

// fileCtx looks up fd and its payload and acquires the locks for mode.
// Caller is responsible for closing the context when done `defer ctx.Close()`.
func (fsys *FileSystem) fileCtx(op string, fd memfs.FD, mode lockMode) (*FileContext, error) {
	of, ok := fsys.fds.Get(fd)
	if !ok {
		return nil, &memfs.FDError{Op: op, FD: fd, Err: memfs.ErrInvalidFileDescriptor}
	}
	p, ok := fsys.arena.Get(of.id)
	if !ok {
		return nil, &memfs.FDError{Op: op, FD: fd, Err: memfs.ErrInvalidType}
	}
	return newFileContext(of, p, mode), nil
}

// Read copies up to len(buf) bytes starting at the cursor and returns how
// many were copied. Reading at or past the end returns 0 without error.
// The cursor does not move; use Seek.
func (fsys *FileSystem) Read(fd memfs.FD, buf []byte) (int, error) {
	logger := fsys.logger("Read")
	logger.Trace().Stringer("fd", fd).Int("len", len(buf)).Msg("Read called")

	ctx, err := fsys.fileCtx("read", fd, lockRead)
	defer ctx.Close()
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected read")
		return 0, err
	}

	n := ctx.ReadAt(buf, ctx.Pos())
	logger.Trace().Stringer("fd", fd).Int64("pos", ctx.Pos()).Int("n", n).Msg("Read done")
	return n, nil
}

// Write appends p to the file behind fd. The cursor is not consulted.
func (fsys *FileSystem) Write(fd memfs.FD, p []byte) (int, error) {
	logger := fsys.logger("Write")
	logger.Trace().Stringer("fd", fd).Int("len", len(p)).Msg("Write called")

	ctx, err := fsys.fileCtx("write", fd, lockAppend)
	defer ctx.Close()
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected write")
		return 0, err
	}

	n := ctx.Append(p)
	logger.Trace().Stringer("fd", fd).Int("n", n).Int64("size", ctx.Size()).Msg("Write done")
	return n, nil
}

// Seek moves the cursor of fd to the position whence designates and returns
// it. Positions past the end of the file or before its start are rejected
// and leave the cursor where it was.
func (fsys *FileSystem) Seek(fd memfs.FD, whence memfs.Whence) (int64, error) {
	logger := fsys.logger("Seek")
	logger.Trace().Stringer("fd", fd).Stringer("whence", whence).Msg("Seek called")

	ctx, err := fsys.fileCtx("seek", fd, lockRead)
	defer ctx.Close()
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected seek")
		return 0, err
	}

	pos, err := whence.Resolve(ctx.Pos(), ctx.Size())
	if err != nil {
		err = &memfs.FDError{Op: "seek", FD: fd, Err: err}
		logger.Debug().Err(err).Msg("Rejected seek")
		return 0, err
	}
	ctx.SetPos(pos)
	return pos, nil
}

// Stat returns a snapshot of the attributes of the node at path. Files report
// their content length as Size, directories their entry count.
func (fsys *FileSystem) Stat(path string) (fuse.Attr, error) {
	node, err := fsys.resolve("stat", path)
	if err != nil {
		fsys.logger("Stat").Debug().Err(err).Msg("Rejected stat")
		return fuse.Attr{}, err
	}
	return fsys.attrOf(node), nil
}

func (fsys *FileSystem) attrOf(node *Node) fuse.Attr {
	attr := node.CopyAttr()
	if node.IsDir() {
		attr.Size = uint64(node.ChildCount())
		return attr
	}
	if p, ok := fsys.arena.Get(node.fileID); ok {
		size, mtime := p.Snapshot()
		attr.Size = uint64(size)
		attr.Blocks = (attr.Size + 511) / 512
		if mtime.After(time.Unix(int64(attr.Mtime), int64(attr.Mtimensec))) {
			setMtime(&attr, mtime)
		}
	}
	return attr
}

// ReadDir lists the entries of the directory at path ordered by name
func (fsys *FileSystem) ReadDir(path string) ([]memfs.DirEntry, error) {
	logger := fsys.logger("ReadDir")

	node, err := fsys.resolve("readdir", path)
	if err != nil {
		logger.Debug().Err(err).Msg("Rejected readdir")
		return nil, err
	}
	if !node.IsDir() {
		err := pathErr("readdir", path, memfs.ErrInvalidType)
		logger.Debug().Err(err).Msg("Rejected readdir")
		return nil, err
	}

	children := node.SortedChildren()
	entries := make([]memfs.DirEntry, 0, len(children))
	for _, ch := range children {
		entries = append(entries, memfs.DirEntry{
			Name: ch.Name(),
			Type: ch.Type(),
			Perm: ch.Perm(),
			Size: fsys.attrOf(ch).Size,
		})
	}
	return entries, nil
}
