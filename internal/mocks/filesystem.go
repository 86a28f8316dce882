package mocks

import (
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/mock"

	"github.com/brettbedarf/memfs"
)

// MockFileSystem implements memfs.FileSystem for testing across packages
type MockFileSystem struct {
	mock.Mock
}

func (m *MockFileSystem) Create(path string, perm memfs.Permission) (memfs.FD, error) {
	args := m.Called(path, perm)
	return args.Get(0).(memfs.FD), args.Error(1)
}

func (m *MockFileSystem) Open(path string) (memfs.FD, error) {
	args := m.Called(path)
	return args.Get(0).(memfs.FD), args.Error(1)
}

func (m *MockFileSystem) Close(fd memfs.FD) error {
	return m.Called(fd).Error(0)
}

func (m *MockFileSystem) Read(fd memfs.FD, buf []byte) (int, error) {
	args := m.Called(fd, buf)

	// Handle function return types so tests can fill buf
	if fn, ok := args.Get(0).(func(memfs.FD, []byte) int); ok {
		return fn(fd, buf), args.Error(1)
	}

	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(int), args.Error(1)
}

func (m *MockFileSystem) Write(fd memfs.FD, p []byte) (int, error) {
	args := m.Called(fd, p)
	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(int), args.Error(1)
}

func (m *MockFileSystem) Seek(fd memfs.FD, whence memfs.Whence) (int64, error) {
	args := m.Called(fd, whence)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileSystem) Mkdir(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockFileSystem) MkdirPerm(path string, perm memfs.Permission) error {
	return m.Called(path, perm).Error(0)
}

func (m *MockFileSystem) Rmdir(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockFileSystem) Stat(path string) (fuse.Attr, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return fuse.Attr{}, args.Error(1)
	}
	return args.Get(0).(fuse.Attr), args.Error(1)
}

func (m *MockFileSystem) ReadDir(path string) ([]memfs.DirEntry, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]memfs.DirEntry), args.Error(1)
}

var _ memfs.FileSystem = (*MockFileSystem)(nil)
