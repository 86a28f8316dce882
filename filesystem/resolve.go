package filesystem

import (
	"io/fs"
	"strings"

	"github.com/brettbedarf/memfs"
)

// splitPath strips a single leading separator and splits the rest on "/".
// The root ("" or "/") has no components. Repeated separators are not
// collapsed: "a//b" yields an empty middle component that will fail lookup.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func pathErr(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// walk descends from the root through parts. Every node passed through must
// be a directory; the node reached last may be of either kind.
func (fsys *FileSystem) walk(op, path string, parts []string) (*Node, error) {
	cur := fsys.root
	for _, name := range parts {
		if !cur.IsDir() {
			return nil, pathErr(op, path, memfs.ErrInvalidType)
		}
		child, ok := cur.GetChild(name)
		if !ok {
			return nil, pathErr(op, path, memfs.ErrFileNotFound)
		}
		cur = child
	}
	return cur, nil
}

// resolveParent walks every component but the last and returns the
// directory that holds (or would hold) the final name. The final name itself
// is not looked up; the caller decides whether it must be present or absent.
func (fsys *FileSystem) resolveParent(op, path string) (*Node, string, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, "", pathErr(op, path, memfs.ErrFileNotFound)
	}
	parent, err := fsys.walk(op, path, parts[:len(parts)-1])
	if err != nil {
		return nil, "", err
	}
	if !parent.IsDir() {
		return nil, "", pathErr(op, path, memfs.ErrInvalidType)
	}
	return parent, parts[len(parts)-1], nil
}

// resolve returns the node at path. The root is returned for "" and "/".
func (fsys *FileSystem) resolve(op, path string) (*Node, error) {
	return fsys.walk(op, path, splitPath(path))
}
