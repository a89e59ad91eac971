package container_test

import (
	"context"
	"os"
	"testing"

	godigest "github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/zfsoci/zedstore/pkg/clock"
	"github.com/zfsoci/zedstore/pkg/container"
	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/imagestore"
	"github.com/zfsoci/zedstore/pkg/layer"
	layermocks "github.com/zfsoci/zedstore/pkg/layer/mocks"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	repositorymocks "github.com/zfsoci/zedstore/pkg/repository/mocks"
	"github.com/zfsoci/zedstore/pkg/runc"
	runcmocks "github.com/zfsoci/zedstore/pkg/runc/mocks"
)

func fixedImage(t *testing.T) (*imagestore.Image, layer.Layer) {
	t.Helper()
	top := layer.Layer{DiffID: repeatHex("a"), BlobID: repeatHex("b"), NodeID: "node-top"}
	cfg, err := ociimage.NewConfig(ociimage.ConfigSpec{
		Cmd:     []string{"/bin/sh"},
		Env:     []string{"PATH=/usr/sbin:/usr/bin:/sbin:/bin"},
		Cwd:     "/",
		DiffIDs: []godigest.Digest{top.DiffDigest()},
	})
	require.NoError(t, err)
	img := &imagestore.Image{
		ManifestID: digest.FromBytes([]byte("manifest-hello")),
		Config:     cfg,
		Layers:     []layer.Layer{top},
	}
	return img, top
}

func repeatHex(s string) string {
	out := make([]byte, 0, 64)
	for len(out) < 64 {
		out = append(out, s...)
	}
	return string(out[:64])
}

func TestRuntimeCreateContainerPersistsAndInvokesRunc(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	img, top := fixedImage(t)
	scratch := layer.Layer{NodeID: "node-scratch", ParentNodeID: top.NodeID}

	images := repositorymocks.NewMockDistribution(ctrl)
	images.EXPECT().GetImage(gomock.Any(), "hello:latest").Return(img, nil)

	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewScratch(gomock.Any(), top).Return(scratch, nil)
	layers.EXPECT().Path(scratch).Return("/var/lib/zedstore/graph/node-scratch", nil)

	runner := runcmocks.NewMockRunner(ctrl)
	runner.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	root := pathspec.Root(t.TempDir())
	rt, err := container.NewRuntime(context.Background(), root, images, layers, runner, clock.NewMock())
	require.NoError(t, err)

	created, err := rt.CreateContainer(context.Background(), container.CreateSpec{ImageRef: "hello:latest"})
	require.NoError(t, err)

	assert.Len(t, created.RuntimeID, 12)
	assert.Equal(t, created.RuntimeID, created.Name)
	assert.Equal(t, []string{"/bin/sh"}, created.RuntimeSpec.Process.Args)
	assert.Equal(t, "/var/lib/zedstore/graph/node-scratch", created.RuntimeSpec.Root.Path)
	assert.Equal(t, created.RuntimeID, created.RuntimeSpec.Hostname)

	_, err = os.Stat(root.ContainerMetadataFile(created.ID))
	require.NoError(t, err)
	_, err = os.Stat(root.ContainerConfigFile(created.ID))
	require.NoError(t, err)
	_, err = os.Stat(root.RuntimeListFile())
	require.NoError(t, err)
}

func TestRuntimeCreateContainerHonorsCommandOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	img, top := fixedImage(t)
	scratch := layer.Layer{NodeID: "node-scratch2", ParentNodeID: top.NodeID}

	images := repositorymocks.NewMockDistribution(ctrl)
	images.EXPECT().GetImage(gomock.Any(), "hello").Return(img, nil)

	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewScratch(gomock.Any(), top).Return(scratch, nil)
	layers.EXPECT().Path(scratch).Return("/mnt/scratch", nil)

	runner := runcmocks.NewMockRunner(ctrl)
	runner.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	root := pathspec.Root(t.TempDir())
	rt, err := container.NewRuntime(context.Background(), root, images, layers, runner, clock.NewMock())
	require.NoError(t, err)

	created, err := rt.CreateContainer(context.Background(), container.CreateSpec{
		ImageRef: "hello",
		Name:     "my-box",
		Command:  []string{"/bin/sh", "-c", "echo ok"},
	})
	require.NoError(t, err)
	assert.Equal(t, "my-box", created.Name)
	assert.Equal(t, []string{"/bin/sh", "-c", "echo ok"}, created.RuntimeSpec.Process.Args)
}

func TestRuntimeRemoveContainerRequiresExitedOrForce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	img, top := fixedImage(t)
	scratch := layer.Layer{NodeID: "node-scratch3", ParentNodeID: top.NodeID}

	images := repositorymocks.NewMockDistribution(ctrl)
	images.EXPECT().GetImage(gomock.Any(), "hello:latest").Return(img, nil)

	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewScratch(gomock.Any(), top).Return(scratch, nil)
	layers.EXPECT().Path(scratch).Return("/mnt/scratch", nil)

	runner := runcmocks.NewMockRunner(ctrl)
	runner.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	runner.EXPECT().State(gomock.Any(), gomock.Any()).Return(runc.State{Status: runc.StatusRunning}, nil).AnyTimes()

	root := pathspec.Root(t.TempDir())
	rt, err := container.NewRuntime(context.Background(), root, images, layers, runner, clock.NewMock())
	require.NoError(t, err)

	created, err := rt.CreateContainer(context.Background(), container.CreateSpec{ImageRef: "hello:latest"})
	require.NoError(t, err)

	err = rt.RemoveContainer(context.Background(), created.ID, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrContainerRunning)
}

func TestRuntimeRemoveContainerWithForceDeletesScratchAndFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	img, top := fixedImage(t)
	scratch := layer.Layer{NodeID: "node-scratch4", ParentNodeID: top.NodeID}

	images := repositorymocks.NewMockDistribution(ctrl)
	images.EXPECT().GetImage(gomock.Any(), "hello:latest").Return(img, nil)

	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewScratch(gomock.Any(), top).Return(scratch, nil)
	layers.EXPECT().Path(scratch).Return("/mnt/scratch", nil)
	layers.EXPECT().Remove(gomock.Any(), scratch).Return(nil)

	runner := runcmocks.NewMockRunner(ctrl)
	runner.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	runner.EXPECT().State(gomock.Any(), gomock.Any()).Return(runc.State{Status: runc.StatusRunning}, nil).AnyTimes()
	runner.EXPECT().Delete(gomock.Any(), gomock.Any(), true).Return(nil)

	root := pathspec.Root(t.TempDir())
	rt, err := container.NewRuntime(context.Background(), root, images, layers, runner, clock.NewMock())
	require.NoError(t, err)

	created, err := rt.CreateContainer(context.Background(), container.CreateSpec{ImageRef: "hello:latest"})
	require.NoError(t, err)

	require.NoError(t, rt.RemoveContainer(context.Background(), created.ID, true))

	_, err = os.Stat(root.ContainerDir(created.ID))
	assert.True(t, os.IsNotExist(err))

	list, err := rt.ListContainers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRuntimeGetContainerResolvesByShortIDAndName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	img, top := fixedImage(t)
	scratch := layer.Layer{NodeID: "node-scratch5", ParentNodeID: top.NodeID}

	images := repositorymocks.NewMockDistribution(ctrl)
	images.EXPECT().GetImage(gomock.Any(), "hello:latest").Return(img, nil)

	layers := layermocks.NewMockStore(ctrl)
	layers.EXPECT().NewScratch(gomock.Any(), top).Return(scratch, nil)
	layers.EXPECT().Path(scratch).Return("/mnt/scratch", nil)

	runner := runcmocks.NewMockRunner(ctrl)
	runner.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	runner.EXPECT().State(gomock.Any(), gomock.Any()).Return(runc.State{}, assert.AnError).AnyTimes()

	root := pathspec.Root(t.TempDir())
	rt, err := container.NewRuntime(context.Background(), root, images, layers, runner, clock.NewMock())
	require.NoError(t, err)

	created, err := rt.CreateContainer(context.Background(), container.CreateSpec{ImageRef: "hello:latest", Name: "web"})
	require.NoError(t, err)

	byShort, err := rt.GetContainer(context.Background(), created.RuntimeID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byShort.ID)

	byName, err := rt.GetContainer(context.Background(), "web")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, container.StatusExited, byName.Status)
}
