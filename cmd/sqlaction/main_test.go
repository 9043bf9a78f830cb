package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, sqlaction.ExitSuccess},
		{"wrapped sentinel", fmt.Errorf("script deployment failed: %w", sqlaction.ErrFileAccess), sqlaction.ExitFileAccessError},
		{"unclassified", errors.New("boom"), sqlaction.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(&stderr, func() error { return tt.err })

			assert.Equal(t, tt.want, code)
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRun_Panic(t *testing.T) {
	var stderr bytes.Buffer
	code := run(&stderr, func() error { panic("dispatcher exploded") })

	assert.Equal(t, sqlaction.ExitPanic, code)
	assert.Contains(t, stderr.String(), "panic: dispatcher exploded")
	assert.Contains(t, stderr.String(), "goroutine")
}
