package imagestore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zfsoci/zedstore/pkg/imagestore"
	"github.com/zfsoci/zedstore/pkg/layer"
	"github.com/zfsoci/zedstore/pkg/ociimage"
)

func TestImageHelpers(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l1 := layer.Layer{DiffID: repeatHex("1"), BlobID: repeatHex("2"), Size: 10}
	l2 := layer.Layer{DiffID: repeatHex("3"), BlobID: repeatHex("4"), Size: 20, ParentNodeID: l1.NodeID}

	cfg, err := ociimage.NewConfig(ociimage.ConfigSpec{
		DiffIDs: nil,
		Created: created,
	})
	require.NoError(t, err)

	img := &imagestore.Image{
		Config: cfg,
		Layers: []layer.Layer{l1, l2},
	}

	assert.Equal(t, l2, img.TopLayer())
	assert.Equal(t, l2.DiffDigest(), img.Digest())
	assert.Equal(t, int64(30), img.Size())
	assert.Equal(t, created, img.Created())
}
