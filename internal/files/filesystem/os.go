package filesystem

import (
	"errors"
	"io/fs"
	"os"
)

// OSFileSystem reads files from disk.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem reader.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// ReadFile returns the contents of path. Directories are rejected.
func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	return os.ReadFile(path)
}

// Stat returns file information for path.
func (p *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
