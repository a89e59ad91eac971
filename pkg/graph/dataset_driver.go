package graph

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/zfsoci/zedstore/pkg/archive"
	"github.com/zfsoci/zedstore/pkg/dataset"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/idgen"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/util/xio"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

var (
	baseIDPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)
	nodeIDPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// datasetDriver implements Driver over a dataset.Service, following the
// naming discipline of spec.md §4.2: a fixed root dataset, per-chain base
// datasets named by a 12-hex chain prefix, per-node datasets beneath the
// base, and the two commit-time snapshots described on Node.
type datasetDriver struct {
	svc     dataset.Service
	root    pathspec.Root
	rootZFS string
	ids     *idgen.Generator
	nodes   *xsync.MapOf[string, Node]
}

// NewDatasetDriver returns a Driver backed by svc, rooted at rootZFS (e.g.
// "rpool/zedstore") for dataset names and root.GraphRoot() for mountpoints.
func NewDatasetDriver(svc dataset.Service, root pathspec.Root, rootZFS string, ids *idgen.Generator) Driver {
	if ids == nil {
		ids = idgen.New()
	}
	return &datasetDriver{
		svc:     svc,
		root:    root,
		rootZFS: rootZFS,
		ids:     ids,
		nodes:   xsync.NewMapOf[string, Node](),
	}
}

func (d *datasetDriver) baseDataset(baseID string) string {
	return d.rootZFS + "/" + baseID
}

func (d *datasetDriver) nodeDataset(baseID, nodeID string) string {
	return d.baseDataset(baseID) + "/" + nodeID
}

func (d *datasetDriver) mountPath(nodeID string) string {
	return d.root.NodeMountPath(nodeID)
}

func (d *datasetDriver) lookup(nodeID string) (Node, error) {
	node, ok := d.nodes.Load(nodeID)
	if !ok {
		return Node{}, errdefs.AsNotFound(errdefs.ErrLayerUnknown, fmt.Errorf("graph node %q not found", nodeID))
	}
	return node, nil
}

func (d *datasetDriver) Create(ctx context.Context, parentNodeID string) (string, error) {
	nodeID, err := d.ids.Hex256()
	if err != nil {
		return "", errdefs.NewE(errdefs.ErrSystem, err)
	}

	if parentNodeID == "" {
		baseID := idgen.Short(nodeID)
		base := d.baseDataset(baseID)
		if err := d.svc.Create(ctx, base, dataset.CreateOptions{Mountpoint: "none", Compression: true}); err != nil {
			return "", errdefs.NewE(errdefs.ErrDatasetServiceFailure, fmt.Errorf("create base dataset %s: %w", base, err))
		}
		mount := d.mountPath(nodeID)
		nodeDS := d.nodeDataset(baseID, nodeID)
		if err := d.svc.Create(ctx, nodeDS, dataset.CreateOptions{Mountpoint: mount}); err != nil {
			return "", errdefs.NewE(errdefs.ErrDatasetServiceFailure, fmt.Errorf("create node dataset %s: %w", nodeDS, err))
		}
		d.nodes.Store(nodeID, Node{NodeID: nodeID, BaseID: baseID, MountPath: mount})
		xlog.C(ctx).Debugf("graph: created root node %s (base %s)", nodeID, baseID)
		return nodeID, nil
	}

	parent, err := d.lookup(parentNodeID)
	if err != nil {
		return "", err
	}
	if !parent.Committed {
		return "", errdefs.NewE(errdefs.ErrConflict, fmt.Errorf("graph node %q is not committed, cannot clone", parentNodeID))
	}
	mount := d.mountPath(nodeID)
	nodeDS := d.nodeDataset(parent.BaseID, nodeID)
	if err := d.svc.Clone(ctx, nodeDS, parent.NodeSnapshotName, mount); err != nil {
		return "", errdefs.NewE(errdefs.ErrDatasetServiceFailure, fmt.Errorf("clone %s from %s: %w", nodeDS, parent.NodeSnapshotName, err))
	}
	d.nodes.Store(nodeID, Node{
		NodeID:    nodeID,
		BaseID:    parent.BaseID,
		ParentID:  parentNodeID,
		MountPath: mount,
		SizeBytes: parent.SizeBytes,
	})
	xlog.C(ctx).Debugf("graph: created child node %s from parent %s", nodeID, parentNodeID)
	return nodeID, nil
}

func (d *datasetDriver) Commit(ctx context.Context, nodeID string) (string, error) {
	node, err := d.lookup(nodeID)
	if err != nil {
		return "", err
	}
	nodeDS := d.nodeDataset(node.BaseID, nodeID)
	if err := d.svc.SetReadonly(ctx, nodeDS, true); err != nil {
		return "", errdefs.NewE(errdefs.ErrDatasetServiceFailure, err)
	}
	base := d.baseDataset(node.BaseID)
	if err := d.svc.Snapshot(ctx, base, nodeID, true); err != nil {
		return "", errdefs.NewE(errdefs.ErrDatasetServiceFailure, err)
	}
	if err := d.svc.Snapshot(ctx, nodeDS, nodeID, false); err != nil {
		return "", errdefs.NewE(errdefs.ErrDatasetServiceFailure, err)
	}
	node.Committed = true
	node.BaseSnapshotName = base + "@" + nodeID
	node.NodeSnapshotName = nodeDS + "@" + nodeID
	d.nodes.Store(nodeID, node)
	return node.NodeSnapshotName, nil
}

func (d *datasetDriver) Save(ctx context.Context, nodeID string, path string) error {
	node, err := d.lookup(nodeID)
	if err != nil {
		return err
	}
	if !node.Committed {
		return errdefs.NewE(errdefs.ErrConflict, fmt.Errorf("graph node %q is not committed", nodeID))
	}

	if strings.HasSuffix(path, ".tar") {
		if !node.IsRoot() {
			return errdefs.Newf(errdefs.ErrUnsupported, "tar save of non-root graph node %q", nodeID)
		}
		f, err := os.Create(path) //nolint:gosec // path is operator-controlled, per spec.md §4.2 save(node_id, file_path)
		if err != nil {
			return errdefs.NewE(errdefs.ErrSystem, err)
		}
		defer f.Close()
		return archive.Pack(ctx, node.MountPath, f)
	}

	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	defer f.Close()

	if node.IsRoot() {
		return d.svc.Send(ctx, f, node.BaseSnapshotName, "", true)
	}
	parent, err := d.lookup(node.ParentID)
	if err != nil {
		return err
	}
	return d.svc.Send(ctx, f, node.BaseSnapshotName, parent.BaseSnapshotName, true)
}

func (d *datasetDriver) AddFile(ctx context.Context, nodeID string, source string, dest string) error {
	node, err := d.lookup(nodeID)
	if err != nil {
		return err
	}
	target := filepath.Join(node.MountPath, dest)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	src, err := os.Open(source) //nolint:gosec
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return d.refreshSize(nodeID)
}

func (d *datasetDriver) AddTar(ctx context.Context, nodeID string, r io.Reader, dest string) (int64, error) {
	node, err := d.lookup(nodeID)
	if err != nil {
		return 0, err
	}
	target := node.MountPath
	if dest != "" {
		target = filepath.Join(node.MountPath, dest)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return 0, errdefs.NewE(errdefs.ErrSystem, err)
		}
	}
	// AddTar's source may be a slow or stalled stream (a load/import piping
	// from the CLI, or a future network source); wrap it so a canceled ctx
	// unblocks Unpack's read loop promptly instead of waiting on r itself.
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	cancelable := xio.NewCanceledReadCloser(ctx, rc)
	defer cancelable.Close()

	n, err := archive.Unpack(ctx, cancelable, target)
	if err != nil {
		return 0, errdefs.NewE(errdefs.ErrArchiveFailure, err)
	}
	if err := d.refreshSize(nodeID); err != nil {
		return n, err
	}
	return n, nil
}

func (d *datasetDriver) refreshSize(nodeID string) error {
	node, err := d.lookup(nodeID)
	if err != nil {
		return err
	}
	size, err := archive.DirSize(node.MountPath)
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	node.SizeBytes = size
	d.nodes.Store(nodeID, node)
	return nil
}

func (d *datasetDriver) Children(nodeID string) ([]string, error) {
	var children []string
	d.nodes.Range(func(id string, n Node) bool {
		if n.ParentID == nodeID {
			children = append(children, id)
		}
		return true
	})
	return children, nil
}

func (d *datasetDriver) IsParent(nodeID string) (bool, error) {
	children, err := d.Children(nodeID)
	if err != nil {
		return false, err
	}
	return len(children) > 0, nil
}

func (d *datasetDriver) Path(nodeID string) (string, error) {
	node, err := d.lookup(nodeID)
	if err != nil {
		return "", err
	}
	return node.MountPath, nil
}

func (d *datasetDriver) Size(nodeID string) (int64, error) {
	node, err := d.lookup(nodeID)
	if err != nil {
		return 0, err
	}
	return node.SizeBytes, nil
}

func (d *datasetDriver) Node(nodeID string) (Node, error) {
	return d.lookup(nodeID)
}

func (d *datasetDriver) Remove(ctx context.Context, nodeID string) error {
	node, err := d.lookup(nodeID)
	if err != nil {
		return err
	}
	isParent, err := d.IsParent(nodeID)
	if err != nil {
		return err
	}
	if isParent {
		return errdefs.AsConflict(errdefs.ErrNodeInUse, fmt.Errorf("graph node %q has children", nodeID))
	}

	nodeDS := d.nodeDataset(node.BaseID, nodeID)
	if node.Committed {
		if err := d.svc.Destroy(ctx, node.NodeSnapshotName, true, false); err != nil {
			xlog.C(ctx).Warnf("graph: could not destroy node snapshot %s: %v", node.NodeSnapshotName, err)
		}
		if err := d.svc.Destroy(ctx, node.BaseSnapshotName, true, false); err != nil {
			xlog.C(ctx).Warnf("graph: could not destroy base snapshot %s: %v", node.BaseSnapshotName, err)
		}
	}
	if err := d.svc.Destroy(ctx, nodeDS, false, false); err != nil {
		return errdefs.NewE(errdefs.ErrDatasetServiceFailure, fmt.Errorf("destroy node dataset %s: %w", nodeDS, err))
	}
	_ = os.RemoveAll(node.MountPath)

	if node.IsRoot() {
		base := d.baseDataset(node.BaseID)
		if err := d.svc.Destroy(ctx, base, false, false); err != nil {
			xlog.C(ctx).Warnf("graph: could not destroy base dataset %s: %v", base, err)
		}
	}
	d.nodes.Delete(nodeID)
	return nil
}

// Reload rebuilds the node table by scanning every dataset and snapshot
// under the root, per spec.md §4.2's reload protocol: datasets whose name
// doesn't match "base/node" (12-hex / 64-hex) are ignored, and origin
// properties attach clones to their parent.
func (d *datasetDriver) Reload(ctx context.Context) error {
	entries, err := d.svc.List(ctx, d.rootZFS, true, dataset.KindAll, []string{"name", "origin", "mountpoint", "used", "type"})
	if err != nil {
		return errdefs.NewE(errdefs.ErrDatasetServiceFailure, err)
	}

	fresh := xsync.NewMapOf[string, Node]()
	snapshots := map[string]bool{}

	for _, e := range entries {
		rel := strings.TrimPrefix(e.Name, d.rootZFS+"/")
		if rel == e.Name {
			continue // not under root
		}
		if strings.Contains(rel, "@") {
			snapshots[e.Name] = true
			continue
		}
		parts := strings.Split(rel, "/")
		if len(parts) != 2 {
			continue
		}
		baseID, nodeID := parts[0], parts[1]
		if !baseIDPattern.MatchString(baseID) || !nodeIDPattern.MatchString(nodeID) {
			continue
		}

		node := Node{NodeID: nodeID, BaseID: baseID, MountPath: d.mountPath(nodeID)}
		if mp, ok := e.Properties["mountpoint"]; ok && mp.Present {
			node.MountPath = mp.Path
		}
		if used, ok := e.Properties["used"]; ok && used.Present && used.Int64 != nil {
			node.SizeBytes = *used.Int64
		}
		if origin, ok := e.Properties["origin"]; ok && origin.Present && origin.Text != "" {
			originBase := d.baseDataset(baseID)
			if strings.HasPrefix(origin.Text, originBase+"/") {
				rest := strings.TrimPrefix(origin.Text, originBase+"/")
				if at := strings.Index(rest, "@"); at >= 0 {
					node.ParentID = rest[:at]
				}
			}
		}
		fresh.Store(nodeID, node)
	}

	fresh.Range(func(id string, node Node) bool {
		nodeDS := d.nodeDataset(node.BaseID, id)
		nodeSnap := nodeDS + "@" + id
		baseSnap := d.baseDataset(node.BaseID) + "@" + id
		if snapshots[nodeSnap] {
			node.Committed = true
			node.NodeSnapshotName = nodeSnap
			if snapshots[baseSnap] {
				node.BaseSnapshotName = baseSnap
			}
			fresh.Store(id, node)
		}
		return true
	})

	d.nodes = fresh
	return nil
}

