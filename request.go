package memfs

// OpKind names a FileSystem operation in a script
type OpKind string

const (
	CreateOp OpKind = "create"
	OpenOp   OpKind = "open"
	CloseOp  OpKind = "close"
	ReadOp   OpKind = "read"
	WriteOp  OpKind = "write"
	SeekOp   OpKind = "seek"
	MkdirOp  OpKind = "mkdir"
	RmdirOp  OpKind = "rmdir"
	StatOp   OpKind = "stat"
	LsOp     OpKind = "ls"
)

// OpRequest is one scripted call against a FileSystem. It should be passed
// from entrypoints (i.e. cli, script files) to the runner.
type OpRequest struct {
	ID   string
	Kind OpKind
	Path string
	// Perm applies to create and mkdir
	Perm Permission
	// Handle names the descriptor: create/open bind it, I/O ops and close use it
	Handle string
	// Data is the payload for write
	Data []byte
	// Whence is the seek target
	Whence Whence
	// Len is the read buffer size
	Len int
}

// UsesHandle reports whether the op reads a previously bound handle
func (k OpKind) UsesHandle() bool {
	switch k {
	case CloseOp, ReadOp, WriteOp, SeekOp:
		return true
	}
	return false
}

// BindsHandle reports whether the op produces a new handle
func (k OpKind) BindsHandle() bool {
	return k == CreateOp || k == OpenOp
}
