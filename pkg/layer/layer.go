// Package layer owns layers: immutable content-addressed blobs paired with
// their in-graph diff (a graph node) and parent layer, per spec.md §4.3.
// Grounded on solaris_oci/oci/image/layer.py's create/commit/compress/move
// sequence, restructured around the graph driver's node-id arena instead of
// a Layer↔GraphNode object cycle, per spec.md §9's "model as an arena" note.
package layer

import (
	"context"
	"io"

	godigest "github.com/opencontainers/go-digest"

	"github.com/zfsoci/zedstore/pkg/archive"
)

// Layer is a content-addressed blob paired with the graph node that
// materializes it, per spec.md §3's Layer entity.
type Layer struct {
	// DiffID is the sha256 (bare hex) of the uncompressed diff archive.
	DiffID string
	// BlobID is the sha256 (bare hex) of the compressed archive stored
	// under layers/. Empty for a scratch layer, which has no blob.
	BlobID string
	// NodeID is the graph node this layer materializes.
	NodeID string
	// ParentNodeID is the parent layer's NodeID, or "" for a root layer.
	ParentNodeID string
	// Size is the compressed blob's size in bytes. Zero for a scratch layer.
	Size int64
	// MediaType is the OCI layer media type matching the blob's codec.
	MediaType string
}

// DiffDigest returns "sha256:<diff_id>".
func (l Layer) DiffDigest() godigest.Digest {
	return godigest.NewDigestFromEncoded(godigest.SHA256, l.DiffID)
}

// BlobDigest returns "sha256:<blob_id>", or "" if the layer has no blob.
func (l Layer) BlobDigest() godigest.Digest {
	if l.BlobID == "" {
		return ""
	}
	return godigest.NewDigestFromEncoded(godigest.SHA256, l.BlobID)
}

// IsScratch reports whether l is a writable scratch layer with no blob, per
// spec.md §4.6.
func (l Layer) IsScratch() bool {
	return l.BlobID == ""
}

// Store owns the layers/ content store and the graph nodes backing each
// layer's diff.
type Store interface {
	// NewFromSource materializes a layer by unpacking sourceArchive into a
	// fresh graph node cloned from parent (or a chain root if parent is the
	// zero Layer), committing it, and compressing+hashing the result into
	// layers/<blob_id>.
	NewFromSource(ctx context.Context, sourceArchive io.Reader, parent *Layer, codec archive.Codec) (Layer, error)
	// NewScratch allocates a writable clone of parent's node with no blob,
	// for a container's root filesystem, per spec.md §4.6.
	NewScratch(ctx context.Context, parent Layer) (Layer, error)
	// Remove destroys l's graph node and unlinks its blob. Fails with
	// ErrLayerInUse if the node has children.
	Remove(ctx context.Context, l Layer) error
	// Size returns the materialized tree size of l's graph node.
	Size(l Layer) (int64, error)
	// IsParent reports whether any other layer's node descends from l's node.
	IsParent(l Layer) (bool, error)
	// Path returns l's graph node's mounted directory.
	Path(l Layer) (string, error)
	// ByDiffID locates the layer whose graph node was committed with the
	// given diff-id, used when loading an image from its config's
	// rootfs.diff_ids, per spec.md §4.4's load protocol.
	ByDiffID(diffID string) (Layer, error)
}
