package filesystem

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
)

// FileID identifies a file payload in the Arena. It is stable for the life of
// the file and shared by the tree node and every descriptor opened on it.
type FileID uint64

// Payload is the byte contents of one file. mu must be held for the duration
// of a single read or write and never across calls; the *Locked methods
// expect the caller to hold it.
type Payload struct {
	mu    sync.RWMutex
	data  []byte
	mtime time.Time
}

// lenLocked returns the payload size. Caller must hold mu.
func (p *Payload) lenLocked() int64 {
	return int64(len(p.data))
}

// appendLocked appends b and records the modification time.
// Caller must hold mu.Lock().
func (p *Payload) appendLocked(b []byte, now time.Time) int {
	p.data = append(p.data, b...)
	p.mtime = now
	return len(b)
}

// readAtLocked copies min(len(buf), size-off) bytes from off into buf.
// An offset at or beyond the end reads nothing. Caller must hold mu.
func (p *Payload) readAtLocked(buf []byte, off int64) int {
	if off < 0 || off >= int64(len(p.data)) {
		return 0
	}
	return copy(buf, p.data[off:])
}

// Snapshot returns the size and modification time
func (p *Payload) Snapshot() (size int64, mtime time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lenLocked(), p.mtime
}

// Arena owns every file payload, indexed by FileID
type Arena struct {
	lastID   atomic.Uint64
	payloads *xsync.Map[FileID, *Payload]
}

func NewArena() *Arena {
	return &Arena{payloads: xsync.NewMap[FileID, *Payload]()}
}

// Alloc registers a new empty payload and returns its id
func (a *Arena) Alloc() (FileID, *Payload) {
	id := FileID(a.lastID.Add(1))
	p := &Payload{mtime: time.Now()}
	a.payloads.Store(id, p)
	return id, p
}

// Get returns the payload for id
func (a *Arena) Get(id FileID) (*Payload, bool) {
	return a.payloads.Load(id)
}

// Free drops the payload for id. Descriptors still referring to it will
// report an invalid type on their next access.
func (a *Arena) Free(id FileID) {
	a.payloads.Delete(id)
}

// Len returns the number of live payloads
func (a *Arena) Len() int {
	return a.payloads.Size()
}
