package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/vvka-141/sqlaction/internal/cli"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func main() {
	os.Exit(run(os.Stderr, cli.Execute))
}

// run executes the command tree and returns the process exit code.
// A panic is reported with its stack and exits with ExitPanic.
func run(stderr io.Writer, execute func() error) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "panic: %v\n%s\n", r, debug.Stack())
			code = sqlaction.ExitPanic
		}
	}()
	return sqlaction.ExitCodeForError(execute())
}
