package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("file", ".ue4build.json").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.Equal(t, ".ue4build.json", err.Context()["file"])
	})

	t.Run("Default severity", func(t *testing.T) {
		err := NewError(CategoryTool, "tool failed").Build()
		assert.Equal(t, SeverityError, err.Severity())
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("stage prepare: %w", BuildError("stage failed").Build())

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryBuild))
		assert.False(t, HasCategory(err, CategoryTool))
		assert.False(t, IsClassified(errors.New("plain")))
		assert.False(t, HasCategory(errors.New("plain"), CategoryBuild))
	})
}

func TestErrorBuilder_WrapKeepsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, CategoryFileSystem, "copy failed").
		WithContext("path", "/tmp/out").
		Build()

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "[filesystem:error] copy failed: permission denied")
}

func TestClassifiedError_Is(t *testing.T) {
	a := FileSystemError("copy failed").Build()
	b := FileSystemError("copy failed").WithContext("path", "x").Build()
	c := ToolError("copy failed").Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}
