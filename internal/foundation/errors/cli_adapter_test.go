package errors

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "config error", err: ConfigError("DOCS_PAT environment variable not set").Build(), expected: 1},
		{name: "filesystem error", err: FileSystemError("cannot write").Build(), expected: 1},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		err     error
		want    string
	}{
		{name: "nil error", err: nil, want: ""},
		{
			name: "config error shows message",
			err:  ConfigError("DOCS_PAT environment variable not set").Build(),
			want: "Error: DOCS_PAT environment variable not set",
		},
		{
			name: "wrapped config error shows message",
			err:  fmt.Errorf("startup: %w", ConfigError("bad config").Build()),
			want: "Error: bad config",
		},
		{
			name: "runtime error shows message",
			err:  RuntimeError("run canceled").Build(),
			want: "Error: run canceled",
		},
		{
			name: "internal error hidden in non-verbose mode",
			err:  InternalError("internal issue").Build(),
			want: "Internal error occurred (use -v for details)",
		},
		{
			name:    "internal error shown in verbose mode",
			verbose: true,
			err:     InternalError("internal issue").Build(),
			want:    "Error: [internal:fatal] internal issue",
		},
		{
			name: "unclassified error",
			err:  &customError{msg: "unknown error"},
			want: "Error: unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.Default())
			assert.Equal(t, tt.want, adapter.FormatError(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	code := -1
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("DOCS_PAT environment variable not set").Build())

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: DOCS_PAT environment variable not set\n", out.String())

	code = -1
	adapter.HandleError(nil)
	assert.Equal(t, -1, code, "nil error must not exit")
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil))).WithOutput(&out)

	assert.Equal(t, 0, adapter.Report(nil))
	assert.Empty(t, out.String())

	assert.Equal(t, 1, adapter.Report(RuntimeError("run canceled").Build()))
	assert.Equal(t, "Error: run canceled\n", out.String())
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
