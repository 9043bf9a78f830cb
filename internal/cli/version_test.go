package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// withBuildInfo sets the ldflags variables for one test.
func withBuildInfo(t *testing.T, v, c, d string) {
	t.Helper()
	origV, origC, origD := version, commit, date
	t.Cleanup(func() { version, commit, date = origV, origC, origD })
	version, commit, date = v, c, d
}

func TestResolveVersionInfo(t *testing.T) {
	t.Run("ldflags win", func(t *testing.T) {
		withBuildInfo(t, "1.4.0", "abc1234", "2026-01-02")
		v, c, d := resolveVersionInfo()
		assert.Equal(t, "1.4.0", v)
		assert.Equal(t, "abc1234", c)
		assert.Equal(t, "2026-01-02", d)
	})

	t.Run("dev build falls back to build info", func(t *testing.T) {
		withBuildInfo(t, "dev", "unknown", "unknown")
		v, _, _ := resolveVersionInfo()
		assert.NotEmpty(t, v)
	})
}

func TestPrintVersionInfo(t *testing.T) {
	withBuildInfo(t, "1.4.0", "abc1234", "2026-01-02")
	var out, decor bytes.Buffer

	printVersionInfo(&out, &decor)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1, "stdout carries only the version line")
	assert.True(t, strings.HasPrefix(lines[0], "sqlaction 1.4.0 (abc1234, 2026-01-02) "))
	assert.Contains(t, decor.String(), banner)
}

func TestVersionCommand(t *testing.T) {
	withBuildInfo(t, "1.4.0", "abc1234", "2026-01-02")
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { versionCmd.SetOut(nil); versionCmd.SetErr(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "sqlaction 1.4.0")
}
