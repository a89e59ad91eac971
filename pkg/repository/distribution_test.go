package repository_test

import (
	"context"
	"os"
	"testing"

	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/imagestore"
	imagestoremocks "github.com/zfsoci/zedstore/pkg/imagestore/mocks"
	"github.com/zfsoci/zedstore/pkg/layer"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/repository"
)

func TestDistributionCreateAndGetImageByAllResolutionPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := pathspec.Root(t.TempDir())
	images := imagestoremocks.NewMockStore(ctrl)

	id := digest.FromBytes([]byte("manifest-a"))
	img := &imagestore.Image{ManifestID: id, Layers: []layer.Layer{{DiffID: "diff", BlobID: "blob"}}}
	desc := imgspecv1.Descriptor{
		MediaType: ociimage.MediaTypeManifest,
		Digest:    id,
		Annotations: map[string]string{
			ociimage.RefNameAnnotation: "latest",
		},
	}
	images.EXPECT().Create(gomock.Any(), gomock.Any()).Return(img, desc, nil)
	images.EXPECT().Load(gomock.Any(), id).Return(img, nil).AnyTimes()

	dist, err := repository.NewDistribution(context.Background(), root, images)
	require.NoError(t, err)

	created, err := dist.CreateImage(context.Background(), "hello:latest", imagestore.CreateSpec{})
	require.NoError(t, err)
	assert.Equal(t, id, created.ManifestID)

	_, err = os.Stat(root.RepositoryIndexFile("hello"))
	require.NoError(t, err)
	_, err = os.Stat(root.DistributionFile())
	require.NoError(t, err)

	byFullID, err := dist.GetImage(context.Background(), id.Encoded())
	require.NoError(t, err)
	assert.Equal(t, id, byFullID.ManifestID)

	byShortID, err := dist.GetImage(context.Background(), id.Encoded()[:12])
	require.NoError(t, err)
	assert.Equal(t, id, byShortID.ManifestID)

	byName, err := dist.GetImage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ManifestID)

	byNameTag, err := dist.GetImage(context.Background(), "hello:latest")
	require.NoError(t, err)
	assert.Equal(t, id, byNameTag.ManifestID)

	_, err = dist.GetImage(context.Background(), "hello:dev")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrImageUnknown)
}

func TestDistributionRemoveImageLeavesIndexUntouchedOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := pathspec.Root(t.TempDir())
	images := imagestoremocks.NewMockStore(ctrl)

	id := digest.FromBytes([]byte("manifest-b"))
	img := &imagestore.Image{ManifestID: id, Layers: []layer.Layer{{DiffID: "diff", BlobID: "blob"}}}
	desc := imgspecv1.Descriptor{
		MediaType: ociimage.MediaTypeManifest,
		Digest:    id,
		Annotations: map[string]string{
			ociimage.RefNameAnnotation: "latest",
		},
	}
	images.EXPECT().Create(gomock.Any(), gomock.Any()).Return(img, desc, nil)
	images.EXPECT().Load(gomock.Any(), id).Return(img, nil).AnyTimes()
	images.EXPECT().Remove(gomock.Any(), img).Return(
		errdefs.AsConflict(errdefs.ErrImageInUse, assert.AnError))

	dist, err := repository.NewDistribution(context.Background(), root, images)
	require.NoError(t, err)
	_, err = dist.CreateImage(context.Background(), "hello:latest", imagestore.CreateSpec{})
	require.NoError(t, err)

	err = dist.RemoveImage(context.Background(), "hello:latest")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrImageInUse)

	again, err := dist.GetImage(context.Background(), "hello:latest")
	require.NoError(t, err)
	assert.Equal(t, id, again.ManifestID)
}

func TestDistributionRemoveImageDropsEmptyRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := pathspec.Root(t.TempDir())
	images := imagestoremocks.NewMockStore(ctrl)

	id := digest.FromBytes([]byte("manifest-c"))
	img := &imagestore.Image{ManifestID: id, Layers: []layer.Layer{{DiffID: "diff", BlobID: "blob"}}}
	desc := imgspecv1.Descriptor{
		MediaType: ociimage.MediaTypeManifest,
		Digest:    id,
		Annotations: map[string]string{
			ociimage.RefNameAnnotation: "latest",
		},
	}
	images.EXPECT().Create(gomock.Any(), gomock.Any()).Return(img, desc, nil)
	images.EXPECT().Load(gomock.Any(), id).Return(img, nil).AnyTimes()
	images.EXPECT().Remove(gomock.Any(), img).Return(nil)

	dist, err := repository.NewDistribution(context.Background(), root, images)
	require.NoError(t, err)
	_, err = dist.CreateImage(context.Background(), "hello:latest", imagestore.CreateSpec{})
	require.NoError(t, err)

	require.NoError(t, dist.RemoveImage(context.Background(), "hello:latest"))

	_, err = os.Stat(root.RepositoryIndexFile("hello"))
	assert.True(t, os.IsNotExist(err))

	summaries, err := dist.ListImages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestDistributionTagImageAddsDescriptorToTargetRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := pathspec.Root(t.TempDir())
	images := imagestoremocks.NewMockStore(ctrl)

	id := digest.FromBytes([]byte("manifest-d"))
	img := &imagestore.Image{ManifestID: id, Layers: []layer.Layer{{DiffID: "diff", BlobID: "blob"}}}
	desc := imgspecv1.Descriptor{
		MediaType: ociimage.MediaTypeManifest,
		Digest:    id,
		Annotations: map[string]string{
			ociimage.RefNameAnnotation: "latest",
		},
	}
	images.EXPECT().Create(gomock.Any(), gomock.Any()).Return(img, desc, nil)
	images.EXPECT().Load(gomock.Any(), id).Return(img, nil).AnyTimes()

	dist, err := repository.NewDistribution(context.Background(), root, images)
	require.NoError(t, err)
	_, err = dist.CreateImage(context.Background(), "hello:latest", imagestore.CreateSpec{})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(root.ManifestsDir(), 0o755))
	require.NoError(t, os.WriteFile(root.ManifestFile(id), []byte("{}"), 0o644))

	tagged, err := dist.TagImage(context.Background(), "hello:latest", "hello:v1")
	require.NoError(t, err)
	assert.Equal(t, id, tagged.ManifestID)

	byNewTag, err := dist.GetImage(context.Background(), "hello:v1")
	require.NoError(t, err)
	assert.Equal(t, id, byNewTag.ManifestID)

	summaries, err := dist.ListImages(context.Background())
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}
