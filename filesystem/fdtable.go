package filesystem

import (
	"sync"
	"sync/atomic"

	"github.com/brettbedarf/memfs"
	"github.com/puzpuzpuz/xsync/v4"
)

// OpenFile is a descriptor table entry: the arena id of the file it was
// opened on plus a private cursor.
type OpenFile struct {
	fd   memfs.FD
	id   FileID
	path string     // path at open time; informational only
	mu   sync.Mutex // protects pos
	pos  int64
}

// FD returns the descriptor's handle
func (of *OpenFile) FD() memfs.FD { return of.fd }

// FileID returns the arena id of the underlying file
func (of *OpenFile) FileID() FileID { return of.id }

// Path returns the path the descriptor was opened with
func (of *OpenFile) Path() string { return of.path }

// Pos returns the current cursor
func (of *OpenFile) Pos() int64 {
	of.mu.Lock()
	defer of.mu.Unlock()
	return of.pos
}

// FDTable maps handles to open files. Handles are allocated from a
// monotonically increasing counter starting at 1 that wraps at maxFH, skipping
// handles that are still open, so a live handle is never handed out twice.
type FDTable struct {
	maxFH  uint64
	lastFD atomic.Uint64
	open   *xsync.Map[memfs.FD, *OpenFile]
}

func NewFDTable(maxFH int) *FDTable {
	if maxFH < 1 {
		maxFH = 1
	}
	return &FDTable{
		maxFH: uint64(maxFH),
		open:  xsync.NewMap[memfs.FD, *OpenFile](),
	}
}

// advance returns the next candidate handle in [1, maxFH]
func (t *FDTable) advance() memfs.FD {
	for {
		cur := t.lastFD.Load()
		next := cur + 1
		if next > t.maxFH {
			next = 1
		}
		if t.lastFD.CompareAndSwap(cur, next) {
			return memfs.FD(next)
		}
	}
}

// Open allocates a handle for a new descriptor on id with its cursor at 0
func (t *FDTable) Open(id FileID, path string) (*OpenFile, error) {
	of := &OpenFile{id: id, path: path}
	for range t.maxFH {
		if uint64(t.open.Size()) >= t.maxFH {
			break
		}
		fd := t.advance()
		of.fd = fd
		// only one LoadOrStore can claim a free handle
		if _, loaded := t.open.LoadOrStore(fd, of); !loaded {
			return of, nil
		}
	}
	return nil, memfs.ErrTooManyOpenFiles
}

// Get returns the open file for fd
func (t *FDTable) Get(fd memfs.FD) (*OpenFile, bool) {
	return t.open.Load(fd)
}

// Close removes fd and returns the entry it held
func (t *FDTable) Close(fd memfs.FD) (*OpenFile, bool) {
	return t.open.LoadAndDelete(fd)
}

// Len returns the number of open descriptors
func (t *FDTable) Len() int {
	return t.open.Size()
}

// CountFile returns how many open descriptors refer to id
func (t *FDTable) CountFile(id FileID) int {
	n := 0
	t.open.Range(func(_ memfs.FD, of *OpenFile) bool {
		if of.id == id {
			n++
		}
		return true
	})
	return n
}
