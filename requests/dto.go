package requests

import "github.com/brettbedarf/memfs"

// OpRequestDTO is the YAML/JSON representation of [memfs.OpRequest]
//
// Example:
//
//   - op: create
//     path: /notes.txt
//     perm: rw
//     fd: notes
//   - op: write
//     fd: notes
//     data: "hello"
//   - op: seek
//     fd: notes
//     seek: {whence: start, offset: 0}
//   - op: read
//     fd: notes
//     len: 5
type OpRequestDTO struct {
	ID     *string      `yaml:"id,omitempty" json:"id,omitempty"` // Optional request id; a uuid is generated when absent
	Op     memfs.OpKind `yaml:"op" json:"op"`
	Path   string       `yaml:"path,omitempty" json:"path,omitempty"`
	Perm   *string      `yaml:"perm,omitempty" json:"perm,omitempty"` // r, w or rw (Default rw)
	Handle *string      `yaml:"fd,omitempty" json:"fd,omitempty"`     // Handle name; create/open default to the path
	Data   *string      `yaml:"data,omitempty" json:"data,omitempty"`
	Seek   *SeekDTO     `yaml:"seek,omitempty" json:"seek,omitempty"`
	Len    *int         `yaml:"len,omitempty" json:"len,omitempty"` // Read buffer size (Default 4096)
}

// SeekDTO is the YAML/JSON representation of [memfs.Whence]
type SeekDTO struct {
	Whence string `yaml:"whence,omitempty" json:"whence,omitempty"` // start, current or end (Default start)
	Offset int64  `yaml:"offset" json:"offset"`
}
