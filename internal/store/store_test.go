package store_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalstore "github.com/zfsoci/zedstore/internal/store"
	"github.com/zfsoci/zedstore/pkg/pathspec"
)

// fakeExecutor stands in for both the dataset and runc subprocess
// boundaries, succeeding every invocation with empty output.
type fakeExecutor struct{}

func (fakeExecutor) Run(context.Context, string, []string, io.Reader, io.Writer) error {
	return nil
}

func TestOpenWiresEveryComponent(t *testing.T) {
	root := pathspec.Root(t.TempDir())

	s, err := internalstore.Open(context.Background(), internalstore.Config{
		Root:            root,
		DatasetRootZFS:  "rpool/zedstore",
		DatasetExecutor: fakeExecutor{},
		RuncExecutor:    fakeExecutor{},
	})
	require.NoError(t, err)

	assert.Equal(t, root, s.Root)
	assert.NotNil(t, s.Dataset)
	assert.NotNil(t, s.Graph)
	assert.NotNil(t, s.Layers)
	assert.NotNil(t, s.Images)
	assert.NotNil(t, s.Distribution)
	assert.NotNil(t, s.Runtime)

	images, err := s.Distribution.ListImages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, images)
}
