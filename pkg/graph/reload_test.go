package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/zfsoci/zedstore/pkg/dataset"
	datasetmocks "github.com/zfsoci/zedstore/pkg/dataset/mocks"
	"github.com/zfsoci/zedstore/pkg/graph"
	"github.com/zfsoci/zedstore/pkg/idgen"
	"github.com/zfsoci/zedstore/pkg/pathspec"
)

func usedValue(n int64) dataset.Value {
	return dataset.Value{Int64: &n, Present: true}
}

func pathValue(p string) dataset.Value {
	return dataset.Value{Path: p, Text: p, Present: true}
}

func textValue(s string) dataset.Value {
	return dataset.Value{Text: s, Present: true}
}

// TestDatasetDriverReloadReconstructsNodeTable exercises spec.md §4.2's
// reload protocol: a root node and its committed child are reconstructed
// from dataset listings alone, and a malformed name is ignored.
func TestDatasetDriverReloadReconstructsNodeTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const rootID = "b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2"
	const childID = "c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3"
	baseID := idgen.Short(rootID)
	base := "rpool/zedstore/" + baseID
	rootDS := base + "/" + rootID
	childDS := base + "/" + childID

	svc := datasetmocks.NewMockService(ctrl)
	svc.EXPECT().List(gomock.Any(), "rpool/zedstore", true, dataset.KindAll, gomock.Any()).Return([]dataset.Entry{
		{Name: base, Properties: map[string]dataset.Value{"mountpoint": textValue("none")}},
		{Name: rootDS, Properties: map[string]dataset.Value{
			"mountpoint": pathValue("/var/lib/zedstore/graph/" + rootID),
			"used":       usedValue(1024),
		}},
		{Name: childDS, Properties: map[string]dataset.Value{
			"mountpoint": pathValue("/var/lib/zedstore/graph/" + childID),
			"used":       usedValue(2048),
			"origin":     textValue(rootDS + "@" + rootID),
		}},
		{Name: base + "@" + rootID},
		{Name: rootDS + "@" + rootID},
		{Name: "rpool/zedstore/not-a-valid-name"},
	}, nil)

	drv := graph.NewDatasetDriver(svc, pathspec.Root("/var/lib/zedstore"), "rpool/zedstore", idgen.New())
	require.NoError(t, drv.Reload(context.Background()))

	rootNode, err := drv.Node(rootID)
	require.NoError(t, err)
	assert.True(t, rootNode.Committed)
	assert.Equal(t, rootDS+"@"+rootID, rootNode.NodeSnapshotName)
	assert.Equal(t, int64(1024), rootNode.SizeBytes)
	assert.True(t, rootNode.IsRoot())

	childNode, err := drv.Node(childID)
	require.NoError(t, err)
	assert.Equal(t, rootID, childNode.ParentID)
	assert.False(t, childNode.Committed)
	assert.Equal(t, int64(2048), childNode.SizeBytes)

	children, err := drv.Children(rootID)
	require.NoError(t, err)
	assert.Equal(t, []string{childID}, children)

	_, err = drv.Node("not-a-valid-name")
	require.Error(t, err)
}
