package veloxq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/veloxq"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := veloxq.NewNotFoundError("film")
		assert.Equal(t, "veloxq: film not found", err.Error())
		assert.Equal(t, "film", err.Label())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := veloxq.NewNotFoundError("actor")
		assert.True(t, errors.Is(err, veloxq.ErrNotFound))
		assert.True(t, veloxq.IsNotFound(err))
		assert.True(t, veloxq.IsNotFound(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, veloxq.IsNotFound(veloxq.ErrNotFound))
		assert.False(t, veloxq.IsNotFound(errors.New("other error")))
		assert.False(t, veloxq.IsNotFound(nil))
	})
}

func TestBuildError(t *testing.T) {
	err := &veloxq.BuildError{Err: veloxq.ErrNoSource}
	assert.Equal(t, "veloxq: building query: veloxq: no source declared", err.Error())
	assert.True(t, errors.Is(err, veloxq.ErrNoSource))
	assert.True(t, veloxq.IsBuildError(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, veloxq.IsBuildError(veloxq.ErrNoSource))
	assert.False(t, veloxq.IsBuildError(nil))
}

func TestIsNotSelected(t *testing.T) {
	assert.True(t, veloxq.IsNotSelected(veloxq.ErrNotSelected))
	assert.True(t, veloxq.IsNotSelected(fmt.Errorf("decode: %w", veloxq.ErrNotSelected)))
	assert.False(t, veloxq.IsNotSelected(veloxq.ErrNotFound))
	assert.False(t, veloxq.IsNotSelected(nil))
}

func TestIsUnsupported(t *testing.T) {
	assert.True(t, veloxq.IsUnsupported(fmt.Errorf("%w: distinct on", veloxq.ErrUnsupported)))
	assert.False(t, veloxq.IsUnsupported(veloxq.ErrNotFound))
	assert.False(t, veloxq.IsUnsupported(nil))
}
