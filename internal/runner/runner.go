// Package runner executes scripted requests against a memfs.FileSystem.
package runner

import (
	"context"
	"fmt"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/internal/util"
)

// Result is the outcome of one request. Only the fields relevant to the
// request's kind are set.
type Result struct {
	Request *memfs.OpRequest
	FD      memfs.FD         // create, open and the ops using a handle
	N       int              // bytes read or written
	Data    []byte           // bytes read
	Pos     int64            // cursor after seek
	Attr    *fuse.Attr       // stat
	Entries []memfs.DirEntry // ls
	Err     error
}

// Runner binds handle names from a script to descriptors and dispatches
// each request to the filesystem. It is not safe for concurrent use.
type Runner struct {
	fsys        memfs.FileSystem
	handles     map[string]memfs.FD
	StopOnError bool
	logger      util.Logger
}

func New(fsys memfs.FileSystem) *Runner {
	return &Runner{
		fsys:    fsys,
		handles: make(map[string]memfs.FD),
		logger:  util.GetLogger("Runner"),
	}
}

// Handle returns the descriptor currently bound to name
func (r *Runner) Handle(name string) (memfs.FD, bool) {
	fd, ok := r.handles[name]
	return fd, ok
}

// Run executes reqs in order and returns one Result per executed request.
// With StopOnError set it returns after the first failed request. A
// cancelled ctx stops the run before the next request.
func (r *Runner) Run(ctx context.Context, reqs []*memfs.OpRequest) ([]Result, error) {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := r.Exec(req)
		results = append(results, res)
		if res.Err != nil && r.StopOnError {
			r.logger.Debug().Str("id", req.ID).Msg("Stopping after failed request")
			break
		}
	}
	return results, nil
}

// Exec executes a single request
func (r *Runner) Exec(req *memfs.OpRequest) Result {
	logger := r.logger.With().Str("id", req.ID).Str("op", string(req.Kind)).Logger()
	logger.Trace().Str("path", req.Path).Str("fd", req.Handle).Msg("Exec called")

	res := Result{Request: req}

	if req.Kind.UsesHandle() {
		fd, ok := r.handles[req.Handle]
		if !ok {
			res.Err = fmt.Errorf("handle %q: %w", req.Handle, memfs.ErrInvalidFileDescriptor)
			logger.Debug().Err(res.Err).Msg("Unbound handle")
			return res
		}
		res.FD = fd
	}

	switch req.Kind {
	case memfs.CreateOp:
		res.FD, res.Err = r.fsys.Create(req.Path, req.Perm)
	case memfs.OpenOp:
		res.FD, res.Err = r.fsys.Open(req.Path)
	case memfs.CloseOp:
		if res.Err = r.fsys.Close(res.FD); res.Err == nil {
			delete(r.handles, req.Handle)
		}
	case memfs.ReadOp:
		buf := make([]byte, req.Len)
		res.N, res.Err = r.fsys.Read(res.FD, buf)
		res.Data = buf[:res.N]
	case memfs.WriteOp:
		res.N, res.Err = r.fsys.Write(res.FD, req.Data)
	case memfs.SeekOp:
		res.Pos, res.Err = r.fsys.Seek(res.FD, req.Whence)
	case memfs.MkdirOp:
		res.Err = r.fsys.MkdirPerm(req.Path, req.Perm)
	case memfs.RmdirOp:
		res.Err = r.fsys.Rmdir(req.Path)
	case memfs.StatOp:
		var attr fuse.Attr
		if attr, res.Err = r.fsys.Stat(req.Path); res.Err == nil {
			res.Attr = &attr
		}
	case memfs.LsOp:
		res.Entries, res.Err = r.fsys.ReadDir(req.Path)
	default:
		res.Err = fmt.Errorf("unknown op %q", req.Kind)
	}

	if req.Kind.BindsHandle() && res.Err == nil {
		r.handles[req.Handle] = res.FD
	}

	if res.Err != nil {
		logger.Debug().Err(res.Err).Msg("Request failed")
	} else {
		logger.Debug().Msg("Request succeeded")
	}
	return res
}
