package filesystem

import (
	"io/fs"
	"path"
	"path/filepath"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return false }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

// MemoryFileSystem is an in-memory FileReader. Safe for concurrent use.
// Paths are compared after filepath.ToSlash and path.Clean, so "a\\b.sql"
// and "a/b.sql" name the same file.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

// AddFile stores content at name, replacing any existing file.
func (m *MemoryFileSystem) AddFile(name string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[normalize(name)] = append([]byte(nil), content...)
}

// ReadFile returns a copy of the file content.
func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[normalize(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), content...), nil
}

func (m *MemoryFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[normalize(name)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return &memoryFileInfo{name: path.Base(normalize(name)), size: int64(len(content))}, nil
}

func normalize(name string) string {
	return path.Clean(filepath.ToSlash(name))
}
