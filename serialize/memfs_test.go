package serialize

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path"
	"time"
)

// memFS is an in-memory FileSystem that counts open handles.
type memFS struct {
	files    map[string][]byte
	dirs     map[string]bool
	open     int
	failWith error
}

func newMemFS() *memFS {
	return &memFS{files: map[string][]byte{}, dirs: map[string]bool{".": true, "/": true}}
}

type memInfo struct {
	name string
	size int64
	dir  bool
}

func (m memInfo) Name() string       { return m.name }
func (m memInfo) Size() int64        { return m.size }
func (m memInfo) Mode() fs.FileMode  { return 0o644 }
func (m memInfo) ModTime() time.Time { return time.Time{} }
func (m memInfo) IsDir() bool        { return m.dir }
func (m memInfo) Sys() any           { return nil }

func (m *memFS) Stat(name string) (fs.FileInfo, error) {
	if data, ok := m.files[name]; ok {
		return memInfo{name: path.Base(name), size: int64(len(data))}, nil
	}
	if m.dirs[name] {
		return memInfo{name: path.Base(name), dir: true}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *memFS) MkdirAll(p string, perm fs.FileMode) error {
	for p != "." && p != "/" && p != "" {
		m.dirs[p] = true
		p = path.Dir(p)
	}
	return nil
}

func (m *memFS) Open(name string) (io.ReadCloser, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	m.open++
	return &memHandle{fs: m, Reader: bytes.NewReader(data)}, nil
}

func (m *memFS) Create(name string) (io.WriteCloser, error) {
	if !m.dirs[path.Dir(name)] {
		return nil, fs.ErrNotExist
	}
	m.open++
	return &memHandle{fs: m, name: name}, nil
}

func (m *memFS) Remove(name string) error {
	if _, ok := m.files[name]; !ok {
		return fs.ErrNotExist
	}
	delete(m.files, name)
	return nil
}

type memHandle struct {
	*bytes.Reader
	fs   *memFS
	name string
	buf  bytes.Buffer
}

func (h *memHandle) Write(p []byte) (int, error) {
	if h.fs.failWith != nil {
		return 0, h.fs.failWith
	}
	return h.buf.Write(p)
}

func (h *memHandle) Close() error {
	h.fs.open--
	if h.name != "" {
		h.fs.files[h.name] = h.buf.Bytes()
	}
	return nil
}

var errDiskFull = errors.New("disk full")
