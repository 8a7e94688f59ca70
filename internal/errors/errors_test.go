package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryValidation, SeverityFatal, "invalid package name"),
			expected: "validation: invalid package name",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("permission denied"), CategoryIO, SeverityFatal, "read failed"),
			expected: "io: read failed: permission denied",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.err.Error())
		})
	}
}

func TestError_WithContext(t *testing.T) {
	err := NotFound("source directory", "/tmp/missing").WithContext("package", "a")

	require.NotNil(t, err.Context)
	assert.Equal(t, "/tmp/missing", err.Context["path"])
	assert.Equal(t, "a", err.Context["package"])
}

func TestIsCategory_ThroughWrapping(t *testing.T) {
	parseErr := Parse("docs/index.md", stderrors.New("unterminated"))
	wrapped := fmt.Errorf("overlay package a: %w", parseErr)

	assert.True(t, IsCategory(wrapped, CategoryParse))
	assert.False(t, IsCategory(wrapped, CategoryIO))
	assert.False(t, IsCategory(stderrors.New("plain"), CategoryParse))
	assert.Equal(t, CategoryParse, GetCategory(wrapped))
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestError_IsMatchesCategorySentinel(t *testing.T) {
	err := fmt.Errorf("pack: %w", Validation("name", "bad name"))

	assert.True(t, stderrors.Is(err, &Error{Category: CategoryValidation}))
	assert.False(t, stderrors.Is(err, &Error{Category: CategoryNotFound}))
}

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := IO("write archive", "/out/a.whl", cause)

	assert.ErrorIs(t, err, cause)
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, 0, a.ExitCodeFor(nil))
	assert.Equal(t, 2, a.ExitCodeFor(Validation("name", "bad")))
	assert.Equal(t, 3, a.ExitCodeFor(Parse("x.md", nil)))
	assert.Equal(t, 4, a.ExitCodeFor(NotFound("source directory", "/x")))
	assert.Equal(t, 5, a.ExitCodeFor(IO("read", "/x", stderrors.New("boom"))))
	assert.Equal(t, 1, a.ExitCodeFor(stderrors.New("plain")))
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)
	err := NotFound("source directory", "/tmp/docs")

	assert.Equal(t, "source directory not found: /tmp/docs", quiet.FormatError(err))
	assert.Equal(t, "not_found: source directory not found", verbose.FormatError(err))
	assert.Equal(t, "Error: plain", quiet.FormatError(stderrors.New("plain")))
}

func TestCLIErrorAdapter_LogIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	a := NewCLIErrorAdapter(false, logger)

	a.Log(Parse("pkg-a/index.md", stderrors.New("unterminated")))

	out := buf.String()
	assert.Contains(t, out, "category=parse")
	assert.Contains(t, out, "path=pkg-a/index.md")
	assert.Contains(t, out, "cause=unterminated")
}
