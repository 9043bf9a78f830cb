// Package toolchain discovers the external executables sqlaction shells out to.
package toolchain

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// EnvSQLPackagePath overrides discovery with an explicit executable path.
const EnvSQLPackagePath = "SQLPACKAGE_PATH"

// Locator implements sqlaction.ToolLocator.
//
// Search order:
//  1. the path configured with WithConfiguredPath
//  2. $SQLPACKAGE_PATH
//  3. sqlpackage on $PATH
//  4. the dotnet global tools directory (~/.dotnet/tools)
//  5. on Windows, %ProgramFiles%\Microsoft SQL Server\<version>\DAC\bin, newest version first
//
// The first hit is cached for the lifetime of the Locator.
type Locator struct {
	configured string

	getenv   func(string) string
	lookPath func(string) (string, error)
	stat     func(string) (fs.FileInfo, error)
	readDir  func(string) ([]fs.DirEntry, error)
	homeDir  func() (string, error)
	goos     string

	mu     sync.Mutex
	cached string
}

// Option configures a Locator.
type Option func(*Locator)

// WithConfiguredPath adds a project-configured executable path to the search.
func WithConfiguredPath(path string) Option {
	return func(l *Locator) {
		l.configured = path
	}
}

// NewLocator creates a Locator that inspects the real host.
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		readDir:  os.ReadDir,
		homeDir:  os.UserHomeDir,
		goos:     runtime.GOOS,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SQLPackagePath returns the absolute path of the SqlPackage executable.
func (l *Locator) SQLPackagePath(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != "" {
		return l.cached, nil
	}

	if l.configured != "" {
		if !l.isFile(l.configured) {
			return "", fmt.Errorf("%w: configured path %s is not a file", sqlaction.ErrToolNotFound, l.configured)
		}
		return l.remember(l.configured), nil
	}

	if explicit := l.getenv(EnvSQLPackagePath); explicit != "" {
		if !l.isFile(explicit) {
			return "", fmt.Errorf("%w: $%s points to %s which is not a file", sqlaction.ErrToolNotFound, EnvSQLPackagePath, explicit)
		}
		return l.remember(explicit), nil
	}

	var searched []string

	for _, name := range []string{"sqlpackage", "SqlPackage"} {
		if path, err := l.lookPath(name); err == nil {
			return l.remember(path), nil
		}
	}
	searched = append(searched, "$PATH")

	if home, err := l.homeDir(); err == nil && home != "" {
		candidate := filepath.Join(home, ".dotnet", "tools", l.executableName("sqlpackage"))
		if l.isFile(candidate) {
			return l.remember(candidate), nil
		}
		searched = append(searched, candidate)
	}

	if l.goos == "windows" {
		for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			base := l.getenv(env)
			if base == "" {
				continue
			}
			root := filepath.Join(base, "Microsoft SQL Server")
			for _, version := range l.versionDirs(root) {
				candidate := filepath.Join(root, version, "DAC", "bin", "SqlPackage.exe")
				if l.isFile(candidate) {
					return l.remember(candidate), nil
				}
			}
			searched = append(searched, root)
		}
	}

	return "", fmt.Errorf("%w: searched %s; install it with 'dotnet tool install -g microsoft.sqlpackage' or set $%s",
		sqlaction.ErrToolNotFound, strings.Join(searched, ", "), EnvSQLPackagePath)
}

func (l *Locator) remember(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	l.cached = path
	return path
}

func (l *Locator) isFile(path string) bool {
	info, err := l.stat(path)
	return err == nil && !info.IsDir()
}

func (l *Locator) executableName(name string) string {
	if l.goos == "windows" {
		return name + ".exe"
	}
	return name
}

// versionDirs lists numeric subdirectories of root, highest version first.
func (l *Locator) versionDirs(root string) []string {
	entries, err := l.readDir(root)
	if err != nil {
		return nil
	}

	type versioned struct {
		name    string
		version int
	}
	var dirs []versioned
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		dirs = append(dirs, versioned{name: e.Name(), version: v})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].version > dirs[j].version })

	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.name
	}
	return names
}
