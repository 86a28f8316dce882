package filesystem

import "time"

// FileContext wraps an open descriptor and its payload with the locks a
// single I/O call needs.
// Calling FileContext.Close() unwinds all unlocking callbacks in reverse order.
// Do NOT invoke any locking methods on the raw OpenFile or Payload while
// this context is active. Use only the helpers below.
//
// NOTE: FileContext itself is **not** thread-safe meaning references
// to it should not be shared between goroutines
type FileContext struct {
	of       *OpenFile
	payload  *Payload
	closeFns []func()
}

// lockMode selects which locks a FileContext acquires
type lockMode uint8

const (
	// lockRead holds the cursor and the payload read-lock
	lockRead lockMode = iota
	// lockAppend holds only the payload write-lock; appends ignore the cursor
	lockAppend
)

// newFileContext acquires the locks for mode. The cursor lock is always
// taken before the payload lock.
func newFileContext(of *OpenFile, p *Payload, mode lockMode) *FileContext {
	ctx := &FileContext{of: of, payload: p}
	switch mode {
	case lockRead:
		of.mu.Lock()
		ctx.AddClose(of.mu.Unlock)
		p.mu.RLock()
		ctx.AddClose(p.mu.RUnlock)
	case lockAppend:
		p.mu.Lock()
		ctx.AddClose(p.mu.Unlock)
	}
	return ctx
}

// Pos returns the cursor. Requires lockRead.
func (ctx *FileContext) Pos() int64 {
	return ctx.of.pos
}

// SetPos moves the cursor. Requires lockRead.
func (ctx *FileContext) SetPos(pos int64) {
	ctx.of.pos = pos
}

// Size returns the payload length
func (ctx *FileContext) Size() int64 {
	return ctx.payload.lenLocked()
}

// ReadAt copies from the payload at off into buf. Requires lockRead.
func (ctx *FileContext) ReadAt(buf []byte, off int64) int {
	return ctx.payload.readAtLocked(buf, off)
}

// Append adds b to the end of the payload. Requires lockAppend.
func (ctx *FileContext) Append(b []byte) int {
	return ctx.payload.appendLocked(b, time.Now())
}

// AddClose pushes a cleanup callback (e.g., unlock) onto the end of the stack.
func (ctx *FileContext) AddClose(fn func()) {
	ctx.closeFns = append(ctx.closeFns, fn)
}

// Close unwinds all cleanup callbacks in reverse order.
// Safe to call even if ctx is nil or no locks were acquired; it is
// a no-op in those cases, so you can `defer ctx.Close()` unconditionally.
//
// Example:
//
//	ctx, err := fs.fileCtx("read", fd, lockRead)
//	defer ctx.Close()
func (ctx *FileContext) Close() {
	if ctx == nil {
		return
	}
	for i := len(ctx.closeFns) - 1; i >= 0; i-- {
		ctx.closeFns[i]()
	}
	ctx.closeFns = nil
}
