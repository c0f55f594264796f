package logger_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/qeb/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)

	lg.Info("some message")
	lg.Warn("some warning")
	lg.Error(os.ErrPermission)
	lg.Error(nil)

	output := buf.String()
	assert.Contains(t, output, "level=INFO")
	assert.Contains(t, output, "some message")
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, "some warning")
	assert.Contains(t, output, "level=ERROR")
	assert.Contains(t, output, "permission denied")
	assert.Equal(t, 3, strings.Count(output, "\n"))
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	lg := logger.NewWithWriter(&first)
	lg.Info("one")
	lg.SetOutput(&second)
	lg.Info("two")

	assert.Contains(t, first.String(), "one")
	assert.NotContains(t, first.String(), "two")
	assert.Contains(t, second.String(), "two")
}

func TestNew(t *testing.T) {
	assert.NotNil(t, logger.New())
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "StandardError",
			err:      errors.New("simple error"),
			expected: "Error: simple error",
		},
		{
			name:     "Nil",
			err:      nil,
			expected: "",
		},
		{
			name: "WrappedChain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			expected: "Error: outer layer\n\n  Caused by:\n" +
				"    → middle layer\n" +
				"    → root cause",
		},
		{
			name: "MultilineCause",
			err:  zerr.Wrap(errors.New("loaderX: parse error\n  check syntax"), "query engine build failed"),
			expected: "Error: query engine build failed\n\n  Caused by:\n" +
				"    → loaderX: parse error\n" +
				"        check syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logger.FormatError(tt.err))
		})
	}
}
