// Package graph is the copy-on-write graph driver: it owns a collection of
// nodes (writable dataset trees) keyed by random node-id, each with an
// optional parent-node-id, and provides the create/commit/save/remove
// primitives the layer store builds on, per spec.md §4.2. The naming
// discipline and operation sequencing are grounded on
// solaris_oci/oci/graph/zfs_driver.py.
package graph

import (
	"context"
	"io"
)

// Node is one entry in the graph's node table, per spec.md §3's Node entity.
type Node struct {
	// NodeID is the random 256-bit hex id.
	NodeID string
	// BaseID is the first 12 hex characters of the chain's founding node id.
	BaseID string
	// ParentID is the parent node's id, or "" for a chain root.
	ParentID string
	// Committed is true once Commit has run; the dataset is then readonly.
	Committed bool
	// MountPath is the node's mounted directory.
	MountPath string
	// SizeBytes is the materialized tree size, refreshed by AddFile/AddTar.
	SizeBytes int64
	// BaseSnapshotName is "base@node_id", the recursive snapshot taken on
	// commit; used as the unit of a native send.
	BaseSnapshotName string
	// NodeSnapshotName is "base/node_id@node_id", the node-scoped snapshot
	// used as a clone source for children.
	NodeSnapshotName string
}

// IsRoot reports whether n is the founding node of its chain.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// Driver owns the node table and the datasets backing it. Implementations
// must be safe for sequential use by a single CLI invocation; spec.md §5
// does not require concurrent-goroutine safety within one process.
type Driver interface {
	// Create allocates a new node. If parentNodeID is "", a fresh chain root
	// is created; otherwise the new node clones parentNodeID's committed
	// node-scoped snapshot. Returns the new node's id.
	Create(ctx context.Context, parentNodeID string) (string, error)
	// Commit marks nodeID readonly and takes its base and node-scoped
	// snapshots, returning the node-scoped snapshot name.
	Commit(ctx context.Context, nodeID string) (string, error)
	// Save serializes nodeID's committed state to path. A ".tar" suffix packs
	// the mounted directory (root nodes only); any other suffix performs a
	// native dataset send, incremental from the parent when one exists.
	Save(ctx context.Context, nodeID string, path string) error
	// AddFile copies the single regular file at source into nodeID's
	// mounted tree at dest (relative to the mount root). Directories are
	// not copied.
	AddFile(ctx context.Context, nodeID string, source string, dest string) error
	// AddTar unpacks r into nodeID's mounted tree at dest.
	AddTar(ctx context.Context, nodeID string, r io.Reader, dest string) (int64, error)
	// Children returns the ids of nodes whose parent is nodeID.
	Children(nodeID string) ([]string, error)
	// IsParent reports whether nodeID has any children.
	IsParent(nodeID string) (bool, error)
	// Path returns nodeID's mounted directory.
	Path(nodeID string) (string, error)
	// Size returns nodeID's materialized tree size in bytes.
	Size(nodeID string) (int64, error)
	// Node returns a copy of nodeID's table entry.
	Node(nodeID string) (Node, error)
	// Remove destroys nodeID's snapshots and dataset and unmounts its
	// directory. Fails with ErrNodeInUse if nodeID has any children. When
	// nodeID is a chain root, the base dataset is destroyed too.
	Remove(ctx context.Context, nodeID string) error
	// Reload rebuilds the in-memory node table from on-disk dataset state,
	// per spec.md §4.2's reload protocol.
	Reload(ctx context.Context) error
}
