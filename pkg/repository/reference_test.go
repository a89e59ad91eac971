package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/repository"
)

func TestParseReference(t *testing.T) {
	ref, err := repository.ParseReference("x")
	require.NoError(t, err)
	assert.Equal(t, repository.Reference{Name: "x", Tag: "latest"}, ref)

	ref, err = repository.ParseReference("x:y")
	require.NoError(t, err)
	assert.Equal(t, repository.Reference{Name: "x", Tag: "y"}, ref)

	_, err = repository.ParseReference("x:y:z")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrReferenceParse)
}
