package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileContext_CloseUnwindsInReverse(t *testing.T) {
	t.Parallel()

	var order []int
	ctx := &FileContext{}
	ctx.AddClose(func() { order = append(order, 1) })
	ctx.AddClose(func() { order = append(order, 2) })
	ctx.AddClose(func() { order = append(order, 3) })

	ctx.Close()
	assert.Equal(t, []int{3, 2, 1}, order)

	ctx.Close()
	assert.Len(t, order, 3, "second close must be a no-op")
}

func TestFileContext_NilClose(t *testing.T) {
	t.Parallel()

	var ctx *FileContext
	assert.NotPanics(t, ctx.Close)
}

func TestFileContext_ReleasesLocks(t *testing.T) {
	t.Parallel()

	arena := NewArena()
	id, p := arena.Alloc()
	of := &OpenFile{fd: 1, id: id}

	ctx := newFileContext(of, p, lockAppend)
	assert.Equal(t, 3, ctx.Append([]byte("abc")))
	ctx.Close()

	ctx = newFileContext(of, p, lockRead)
	assert.Equal(t, int64(3), ctx.Size())
	ctx.SetPos(1)
	buf := make([]byte, 5)
	n := ctx.ReadAt(buf, ctx.Pos())
	ctx.Close()
	assert.Equal(t, []byte("bc"), buf[:n])

	// both locks must be free again
	require.True(t, of.mu.TryLock())
	of.mu.Unlock()
	require.True(t, p.mu.TryLock())
	p.mu.Unlock()
	assert.Equal(t, int64(1), of.Pos())
}

func TestArena(t *testing.T) {
	t.Parallel()

	arena := NewArena()
	id1, p1 := arena.Alloc()
	id2, _ := arena.Alloc()
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, arena.Len())

	got, ok := arena.Get(id1)
	require.True(t, ok)
	assert.Same(t, p1, got)

	arena.Free(id1)
	_, ok = arena.Get(id1)
	assert.False(t, ok)
	assert.Equal(t, 1, arena.Len())
}

func TestPayload_ReadAt(t *testing.T) {
	t.Parallel()

	p := &Payload{data: []byte("hello")}
	buf := make([]byte, 3)

	assert.Equal(t, 3, p.readAtLocked(buf, 0))
	assert.Equal(t, []byte("hel"), buf)
	assert.Equal(t, 2, p.readAtLocked(buf, 3))
	assert.Equal(t, 0, p.readAtLocked(buf, 5))
	assert.Equal(t, 0, p.readAtLocked(buf, 99))
	assert.Equal(t, 0, p.readAtLocked(buf, -1))

	size, _ := p.Snapshot()
	assert.Equal(t, int64(5), size)
}
