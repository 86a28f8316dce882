package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/internal/util"
)

// DefaultReadLen is the read buffer size used when a read op omits len
const DefaultReadLen = 4096

var knownOps = map[memfs.OpKind]bool{
	memfs.CreateOp: true,
	memfs.OpenOp:   true,
	memfs.CloseOp:  true,
	memfs.ReadOp:   true,
	memfs.WriteOp:  true,
	memfs.SeekOp:   true,
	memfs.MkdirOp:  true,
	memfs.RmdirOp:  true,
	memfs.StatOp:   true,
	memfs.LsOp:     true,
}

// LoadScriptFile reads and decodes an op script. The format is chosen by
// extension: .yaml/.yml or .json.
func LoadScriptFile(path string) ([]*memfs.OpRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalScript(data, filepath.Ext(path))
}

// UnmarshalScript decodes a list of op DTOs in the format named by ext and
// converts them to requests with defaults applied
func UnmarshalScript(data []byte, ext string) ([]*memfs.OpRequest, error) {
	var dtos []OpRequestDTO

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal script: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("failed to unmarshal script: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown script file extension: %q", ext)
	}

	reqs := make([]*memfs.OpRequest, 0, len(dtos))
	for i, dto := range dtos {
		req, err := ConvertOpDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// ConvertOpDTO validates dto and converts it to a request with defaults applied
func ConvertOpDTO(dto OpRequestDTO) (*memfs.OpRequest, error) {
	kind := memfs.OpKind(strings.ToLower(string(dto.Op)))
	if !knownOps[kind] {
		return nil, fmt.Errorf("unknown op %q", dto.Op)
	}

	req := &memfs.OpRequest{
		ID:   util.ValueOrDefault(dto.ID, uuid.NewString()),
		Kind: kind,
		Path: dto.Path,
		Len:  util.ValueOrDefault(dto.Len, DefaultReadLen),
	}

	perm, err := memfs.ParsePermission(util.ValueOrDefault(dto.Perm, "rw"))
	if err != nil {
		return nil, err
	}
	req.Perm = perm

	switch {
	case kind.BindsHandle():
		req.Handle = util.ValueOrDefault(dto.Handle, dto.Path)
	case kind.UsesHandle():
		if dto.Handle == nil || *dto.Handle == "" {
			return nil, fmt.Errorf("%s requires fd", kind)
		}
		req.Handle = *dto.Handle
	}

	if dto.Data != nil {
		req.Data = []byte(*dto.Data)
	}
	if kind == memfs.SeekOp {
		if dto.Seek == nil {
			return nil, fmt.Errorf("seek requires seek target")
		}
		mode, err := memfs.ParseSeekMode(dto.Seek.Whence)
		if err != nil {
			return nil, err
		}
		req.Whence = memfs.Whence{Mode: mode, Offset: dto.Seek.Offset}
	}
	if req.Len < 0 {
		return nil, fmt.Errorf("len must not be negative, got %d", req.Len)
	}

	return req, nil
}
