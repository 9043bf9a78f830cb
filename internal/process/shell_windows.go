//go:build windows

package process

import (
	"context"
	"os/exec"
	"syscall"
)

// shellCommand passes the command line to cmd.exe untouched; Go's default
// argument quoting would escape the embedded double quotes.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "cmd.exe")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: `cmd.exe /S /C "` + command + `"`,
	}
	return cmd
}
