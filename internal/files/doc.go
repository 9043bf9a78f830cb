// Package files holds file access abstractions.
//
// The filesystem sub-package implements sqlaction.FileReader for the OS
// and for in-memory fixtures used in tests.
package files
