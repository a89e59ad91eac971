package layer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maypok86/otter"
	godigest "github.com/opencontainers/go-digest"

	"github.com/zfsoci/zedstore/pkg/archive"
	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/graph"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

// meta is the sidecar record persisted alongside each blob under layers/,
// grounded on the teacher's layerdb.go per-chainid metadata files
// (diffid/size/cacheid/parent), restated here as one JSON record per blob.
type meta struct {
	DiffID       string `json:"diff_id"`
	NodeID       string `json:"node_id"`
	ParentNodeID string `json:"parent_node_id,omitempty"`
	Size         int64  `json:"size"`
	MediaType    string `json:"media_type"`
}

type store struct {
	graph graph.Driver
	root  pathspec.Root
	cache otter.Cache[string, Layer]
}

// NewStore returns a Store backed by drv and rooted at root, following
// spec.md §4.3. A small in-process cache (github.com/maypok86/otter,
// following teacher xcache.NewMemory's construction) avoids re-scanning
// layers/*.meta.json on every ByDiffID lookup within one invocation.
func NewStore(drv graph.Driver, root pathspec.Root) (Store, error) {
	cache, err := otter.MustBuilder[string, Layer](1024).WithTTL(time.Hour).Build()
	if err != nil {
		return nil, errdefs.NewE(errdefs.ErrSystem, err)
	}
	return &store{graph: drv, root: root, cache: cache}, nil
}

func (s *store) NewFromSource(ctx context.Context, sourceArchive io.Reader, parent *Layer, codec archive.Codec) (Layer, error) {
	parentNodeID := ""
	if parent != nil {
		parentNodeID = parent.NodeID
	}

	nodeID, err := s.graph.Create(ctx, parentNodeID)
	if err != nil {
		return Layer{}, err
	}
	if _, err := s.graph.AddTar(ctx, nodeID, sourceArchive, ""); err != nil {
		_ = s.graph.Remove(ctx, nodeID)
		return Layer{}, err
	}
	if _, err := s.graph.Commit(ctx, nodeID); err != nil {
		return Layer{}, err
	}
	mountPath, err := s.graph.Path(nodeID)
	if err != nil {
		return Layer{}, err
	}

	diffFile, err := os.CreateTemp("", "zedstore-diff-*.tar")
	if err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}
	defer func() {
		diffFile.Close()
		os.Remove(diffFile.Name())
	}()
	if err := archive.Pack(ctx, mountPath, diffFile); err != nil {
		return Layer{}, err
	}
	if _, err := diffFile.Seek(0, io.SeekStart); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}
	diffDigest, err := digest.FromReader(diffFile)
	if err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrArchiveFailure, err)
	}
	if _, err := diffFile.Seek(0, io.SeekStart); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}

	blobFile, err := os.CreateTemp("", "zedstore-blob-*")
	if err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}
	defer func() {
		blobFile.Close()
		os.Remove(blobFile.Name())
	}()
	wc, err := archive.Compress(blobFile, codec, true)
	if err != nil {
		return Layer{}, err
	}
	if _, err := io.Copy(wc, diffFile); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrCompressionFailure, err)
	}
	if err := wc.Close(); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrCompressionFailure, err)
	}
	info, err := blobFile.Stat()
	if err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}
	if _, err := blobFile.Seek(0, io.SeekStart); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}
	blobDigest, err := digest.FromReader(blobFile)
	if err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrArchiveFailure, err)
	}

	if err := os.MkdirAll(s.root.LayersDir(), 0o755); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}
	blobPath := s.root.LayerBlobFile(blobDigest)
	if err := os.Rename(blobFile.Name(), blobPath); err != nil {
		return Layer{}, errdefs.NewE(errdefs.ErrSystem, err)
	}

	l := Layer{
		DiffID:       digest.Hex(diffDigest),
		BlobID:       digest.Hex(blobDigest),
		NodeID:       nodeID,
		ParentNodeID: parentNodeID,
		Size:         info.Size(),
		MediaType:    archive.MediaTypeForCodec(codec),
	}
	if err := s.writeMeta(blobDigest, l); err != nil {
		return Layer{}, err
	}
	s.cache.Set(l.DiffID, l)
	xlog.C(ctx).Debugf("layer: created %s (node %s, parent %s)", digest.Short(l.BlobID), nodeID, parentNodeID)
	return l, nil
}

func (s *store) writeMeta(blobDigest godigest.Digest, l Layer) error {
	m := meta{
		DiffID:       l.DiffID,
		NodeID:       l.NodeID,
		ParentNodeID: l.ParentNodeID,
		Size:         l.Size,
		MediaType:    l.MediaType,
	}
	b, err := json.Marshal(m)
	if err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.WriteFile(s.root.LayerMetadataFile(blobDigest), b, 0o644); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}

func (s *store) NewScratch(ctx context.Context, parent Layer) (Layer, error) {
	nodeID, err := s.graph.Create(ctx, parent.NodeID)
	if err != nil {
		return Layer{}, err
	}
	return Layer{NodeID: nodeID, ParentNodeID: parent.NodeID}, nil
}

func (s *store) Remove(ctx context.Context, l Layer) error {
	if err := s.graph.Remove(ctx, l.NodeID); err != nil {
		if errors.Is(err, errdefs.ErrNodeInUse) {
			return errdefs.AsConflict(errdefs.ErrLayerInUse, fmt.Errorf("layer %s is in use", digest.Short(l.BlobID)))
		}
		return err
	}
	if l.IsScratch() {
		return nil
	}
	blobDigest := digest.FromHex(l.BlobID)
	_ = os.Remove(s.root.LayerBlobFile(blobDigest))
	_ = os.Remove(s.root.LayerMetadataFile(blobDigest))
	if l.DiffID != "" {
		s.cache.Delete(l.DiffID)
	}
	return nil
}

func (s *store) Size(l Layer) (int64, error) {
	return s.graph.Size(l.NodeID)
}

func (s *store) IsParent(l Layer) (bool, error) {
	return s.graph.IsParent(l.NodeID)
}

func (s *store) Path(l Layer) (string, error) {
	return s.graph.Path(l.NodeID)
}

func (s *store) ByDiffID(diffID string) (Layer, error) {
	if l, ok := s.cache.Get(diffID); ok {
		return l, nil
	}

	entries, err := os.ReadDir(s.root.LayersDir())
	if err != nil {
		return Layer{}, errdefs.AsNotFound(errdefs.ErrLayerUnknown, err)
	}
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		path := filepath.Join(s.root.LayersDir(), entry.Name())
		b, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			continue
		}
		var m meta
		if err := json.Unmarshal(b, &m); err != nil {
			continue
		}
		if m.DiffID != diffID {
			continue
		}
		blobID := strings.TrimSuffix(entry.Name(), ".meta.json")
		l := Layer{
			DiffID:       m.DiffID,
			BlobID:       blobID,
			NodeID:       m.NodeID,
			ParentNodeID: m.ParentNodeID,
			Size:         m.Size,
			MediaType:    m.MediaType,
		}
		s.cache.Set(diffID, l)
		return l, nil
	}
	return Layer{}, errdefs.AsNotFound(errdefs.ErrLayerUnknown, fmt.Errorf("no layer with diff-id %s", diffID))
}
