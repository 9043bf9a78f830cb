// Package filesystem provides file readers for scripts and packages.
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for testing
//
// Both satisfy sqlaction.FileReader and report missing files with errors
// that match fs.ErrNotExist.
package filesystem
