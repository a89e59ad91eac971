package imagestore_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/zfsoci/zedstore/pkg/archive"
	"github.com/zfsoci/zedstore/pkg/clock"
	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/imagestore"
	"github.com/zfsoci/zedstore/pkg/layer"
	layermocks "github.com/zfsoci/zedstore/pkg/layer/mocks"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/pathspec"
)

func fixedLayer() layer.Layer {
	return layer.Layer{
		DiffID:    repeatHex("a"),
		BlobID:    repeatHex("b"),
		NodeID:    "node1",
		Size:      100,
		MediaType: archive.MediaTypeForCodec(archive.CodecGzip),
	}
}

func repeatHex(s string) string {
	out := make([]byte, 0, 64)
	for len(out) < 64 {
		out = append(out, s...)
	}
	return string(out[:64])
}

func TestStoreCreateWritesConfigAndManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := fixedLayer()
	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewFromSource(gomock.Any(), gomock.Any(), (*layer.Layer)(nil), archive.CodecGzip).Return(l, nil)

	root := pathspec.Root(t.TempDir())
	mclock := clock.NewMock()
	store := imagestore.NewStore(layers, root, mclock)

	img, desc, err := store.Create(context.Background(), imagestore.CreateSpec{
		Repository:    "hello",
		Tag:           "latest",
		SourceArchive: bytes.NewReader([]byte("tar bytes")),
		Codec:         archive.CodecGzip,
	})
	require.NoError(t, err)

	assert.Equal(t, ociimage.MediaTypeManifest, desc.MediaType)
	assert.Equal(t, "latest", desc.Annotations[ociimage.RefNameAnnotation])
	assert.Equal(t, img.ManifestID, desc.Digest)

	assert.Equal(t, []string{"PATH=/usr/sbin:/usr/bin:/sbin:/bin"}, img.Config.Config.Config.Env)
	assert.Equal(t, []string{"/bin/sh"}, img.Config.Config.Config.Cmd)
	assert.Len(t, img.Config.Config.RootFS.DiffIDs, 1)
	assert.Equal(t, l.DiffDigest(), img.Config.Config.RootFS.DiffIDs[0])
	require.Len(t, img.Config.Config.History, 2)
	assert.False(t, img.Config.Config.History[0].EmptyLayer)
	assert.True(t, img.Config.Config.History[1].EmptyLayer)

	_, err = os.Stat(root.ConfigFile(img.ConfigID))
	require.NoError(t, err)
	_, err = os.Stat(root.ManifestFile(img.ManifestID))
	require.NoError(t, err)
}

func TestStoreLoadReconstructsImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := fixedLayer()
	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewFromSource(gomock.Any(), gomock.Any(), (*layer.Layer)(nil), archive.CodecGzip).Return(l, nil)
	layers.EXPECT().ByDiffID(l.DiffID).Return(l, nil)

	root := pathspec.Root(t.TempDir())
	store := imagestore.NewStore(layers, root, clock.NewMock())

	created, _, err := store.Create(context.Background(), imagestore.CreateSpec{
		Repository:    "hello",
		Tag:           "latest",
		SourceArchive: bytes.NewReader(nil),
		Codec:         archive.CodecGzip,
	})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(root.LayersDir(), 0o755))
	require.NoError(t, os.WriteFile(root.LayerBlobFile(l.BlobDigest()), []byte("blob"), 0o644))

	loaded, err := store.Load(context.Background(), created.ManifestID)
	require.NoError(t, err)
	assert.Equal(t, created.ManifestID, loaded.ManifestID)
	assert.Equal(t, created.ConfigID, loaded.ConfigID)
	require.Len(t, loaded.Layers, 1)
	assert.Equal(t, l.BlobID, loaded.Layers[0].BlobID)
	assert.Equal(t, "latest", loaded.TagName)
}

func TestStoreRemoveRefusesWhenTopLayerIsParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := fixedLayer()
	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().IsParent(l).Return(true, nil)

	root := pathspec.Root(t.TempDir())
	store := imagestore.NewStore(layers, root, clock.NewMock())

	err := store.Remove(context.Background(), &imagestore.Image{
		ManifestID: digest.FromBytes([]byte("m")),
		ConfigID:   digest.FromBytes([]byte("c")),
		Layers:     []layer.Layer{l},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrImageInUse)
}

func TestStoreRemoveDeletesFilesAndLayers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := fixedLayer()
	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().IsParent(l).Return(false, nil)
	layers.EXPECT().Remove(gomock.Any(), l).Return(nil)

	root := pathspec.Root(t.TempDir())
	manifestID := digest.FromBytes([]byte("manifest"))
	configID := digest.FromBytes([]byte("config"))
	require.NoError(t, os.MkdirAll(root.ManifestsDir(), 0o755))
	require.NoError(t, os.MkdirAll(root.ConfigsDir(), 0o755))
	require.NoError(t, os.WriteFile(root.ManifestFile(manifestID), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(root.ConfigFile(configID), []byte("{}"), 0o644))

	store := imagestore.NewStore(layers, root, clock.NewMock())
	err := store.Remove(context.Background(), &imagestore.Image{
		ManifestID: manifestID,
		ConfigID:   configID,
		Layers:     []layer.Layer{l},
	})
	require.NoError(t, err)

	_, err = os.Stat(root.ManifestFile(manifestID))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(root.ConfigFile(configID))
	assert.True(t, os.IsNotExist(err))
}
