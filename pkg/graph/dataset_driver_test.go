package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	datasetmocks "github.com/zfsoci/zedstore/pkg/dataset/mocks"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/graph"
	"github.com/zfsoci/zedstore/pkg/idgen"
	"github.com/zfsoci/zedstore/pkg/pathspec"
)

const fixedNodeID = "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1"

func fixedGenerator() *idgen.Generator {
	return idgen.NewFromSource(newRepeatingReader(0xa1))
}

type repeatingReader struct{ b byte }

func newRepeatingReader(b byte) *repeatingReader { return &repeatingReader{b: b} }

func (r *repeatingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
	}
	return len(p), nil
}

func TestDatasetDriverCreateRootNode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := datasetmocks.NewMockService(ctrl)
	root := pathspec.Root("/var/lib/zedstore")
	drv := graph.NewDatasetDriver(svc, root, "rpool/zedstore", fixedGenerator())

	baseID := idgen.Short(fixedNodeID)
	gomock.InOrder(
		svc.EXPECT().Create(gomock.Any(), "rpool/zedstore/"+baseID, gomock.Any()).Return(nil),
		svc.EXPECT().Create(gomock.Any(), "rpool/zedstore/"+baseID+"/"+fixedNodeID, gomock.Any()).Return(nil),
	)

	nodeID, err := drv.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, fixedNodeID, nodeID)

	path, err := drv.Path(nodeID)
	require.NoError(t, err)
	assert.Equal(t, root.NodeMountPath(nodeID), path)
}

func TestDatasetDriverCommitSetsSnapshotNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := datasetmocks.NewMockService(ctrl)
	root := pathspec.Root("/var/lib/zedstore")
	drv := graph.NewDatasetDriver(svc, root, "rpool/zedstore", fixedGenerator())

	baseID := idgen.Short(fixedNodeID)
	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	nodeID, err := drv.Create(context.Background(), "")
	require.NoError(t, err)

	nodeDS := "rpool/zedstore/" + baseID + "/" + nodeID
	base := "rpool/zedstore/" + baseID
	svc.EXPECT().SetReadonly(gomock.Any(), nodeDS, true).Return(nil)
	svc.EXPECT().Snapshot(gomock.Any(), base, nodeID, true).Return(nil)
	svc.EXPECT().Snapshot(gomock.Any(), nodeDS, nodeID, false).Return(nil)

	snap, err := drv.Commit(context.Background(), nodeID)
	require.NoError(t, err)
	assert.Equal(t, nodeDS+"@"+nodeID, snap)

	node, err := drv.Node(nodeID)
	require.NoError(t, err)
	assert.True(t, node.Committed)
	assert.Equal(t, base+"@"+nodeID, node.BaseSnapshotName)
}

func TestDatasetDriverRemoveFailsWhenNodeHasChildren(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := datasetmocks.NewMockService(ctrl)
	root := pathspec.Root("/var/lib/zedstore")
	drv := graph.NewDatasetDriver(svc, root, "rpool/zedstore", idgen.New())

	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	rootID, err := drv.Create(context.Background(), "")
	require.NoError(t, err)

	svc.EXPECT().SetReadonly(gomock.Any(), gomock.Any(), true).Return(nil)
	svc.EXPECT().Snapshot(gomock.Any(), gomock.Any(), rootID, true).Return(nil)
	svc.EXPECT().Snapshot(gomock.Any(), gomock.Any(), rootID, false).Return(nil)
	_, err = drv.Commit(context.Background(), rootID)
	require.NoError(t, err)

	svc.EXPECT().Clone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, err = drv.Create(context.Background(), rootID)
	require.NoError(t, err)

	err = drv.Remove(context.Background(), rootID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrNodeInUse)
}

func TestDatasetDriverCreateChildRequiresCommittedParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := datasetmocks.NewMockService(ctrl)
	root := pathspec.Root("/var/lib/zedstore")
	drv := graph.NewDatasetDriver(svc, root, "rpool/zedstore", idgen.New())

	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	rootID, err := drv.Create(context.Background(), "")
	require.NoError(t, err)

	_, err = drv.Create(context.Background(), rootID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrConflict)
}

func TestDatasetDriverUnknownNodeNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := datasetmocks.NewMockService(ctrl)
	drv := graph.NewDatasetDriver(svc, pathspec.Root("/var/lib/zedstore"), "rpool/zedstore", idgen.New())

	_, err := drv.Path("does-not-exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}
