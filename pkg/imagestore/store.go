package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/containerd/platforms"
	godigest "github.com/opencontainers/go-digest"
	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/smallnest/deepcopy"

	"github.com/zfsoci/zedstore/pkg/archive"
	"github.com/zfsoci/zedstore/pkg/clock"
	"github.com/zfsoci/zedstore/pkg/digest"
	"github.com/zfsoci/zedstore/pkg/errdefs"
	"github.com/zfsoci/zedstore/pkg/layer"
	"github.com/zfsoci/zedstore/pkg/ociimage"
	"github.com/zfsoci/zedstore/pkg/pathspec"
	"github.com/zfsoci/zedstore/pkg/xlog"
)

// CreateSpec carries the inputs to Create, per spec.md §4.4's create
// protocol given (repository, tag, source_archive_path, runtime_config_json).
type CreateSpec struct {
	Repository    string
	Tag           string
	SourceArchive io.Reader
	Codec         archive.Codec

	// Platform, Env, Cmd, Cwd are pulled from the supplied runtime spec; a
	// zero Env, Cmd or Cwd triggers the spec.md §4.4 step 3 defaults. Platform
	// is normalized and has no default.
	Platform imgspecv1.Platform
	Env      []string
	Cmd      []string
	Cwd      string
}

// Store assembles, persists, and retires images.
type Store interface {
	// Create builds a single-layer image from spec per spec.md §4.4 steps
	// 1-6 and returns it alongside the manifest descriptor a repository
	// index entry is built from (step 7 is the repository's to perform).
	Create(ctx context.Context, spec CreateSpec) (*Image, imgspecv1.Descriptor, error)
	// Load reconstructs an Image from a persisted manifest-id, per spec.md
	// §4.4's load protocol.
	Load(ctx context.Context, manifestID godigest.Digest) (*Image, error)
	// Remove retires an image: refuses if its top layer is a parent (an
	// image derived from it exists), else removes layers top-down (each
	// layer's removal silently skipped if it still has children from
	// another image), then the config and manifest files.
	Remove(ctx context.Context, img *Image) error
}

type store struct {
	layers layer.Store
	root   pathspec.Root
	clock  clock.Clock
}

// NewStore returns a Store backed by layers and rooted at root.
func NewStore(layers layer.Store, root pathspec.Root, clk clock.Clock) Store {
	if clk == nil {
		clk = clock.New()
	}
	return &store{layers: layers, root: root, clock: clk}
}

func (s *store) Create(ctx context.Context, spec CreateSpec) (*Image, imgspecv1.Descriptor, error) {
	now := s.clock.Now()

	l, err := s.layers.NewFromSource(ctx, spec.SourceArchive, nil, spec.Codec)
	if err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}

	history := []imgspecv1.History{
		ociimage.NewAddFileHistory(now, l.DiffID),
		ociimage.NewCmdHistory(now, cmdOrDefault(spec.Cmd)),
	}

	cfg, err := ociimage.NewConfig(ociimage.ConfigSpec{
		Platform: normalizePlatform(spec.Platform),
		Env:      spec.Env,
		Cmd:      spec.Cmd,
		Cwd:      spec.Cwd,
		DiffIDs:  []godigest.Digest{l.DiffDigest()},
		History:  history,
		Created:  now,
	})
	if err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}
	configPayload, err := cfg.Payload()
	if err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}
	configID := digest.FromBytes(configPayload)
	if err := s.writeFile(s.root.ConfigsDir(), s.root.ConfigFile(configID), configPayload); err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}

	layerDescriptor := imgspecv1.Descriptor{
		MediaType: l.MediaType,
		Digest:    l.BlobDigest(),
		Size:      l.Size,
	}
	configDescriptor := imgspecv1.Descriptor{
		MediaType: ociimage.MediaTypeConfig,
		Digest:    configID,
		Size:      int64(len(configPayload)),
	}
	manifest, err := ociimage.NewManifest(configDescriptor, []imgspecv1.Descriptor{layerDescriptor}, map[string]string{
		ociimage.RefNameAnnotation: spec.Tag,
	})
	if err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}
	manifestPayload, err := manifest.Payload()
	if err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}
	manifestID := digest.FromBytes(manifestPayload)
	if err := s.writeFile(s.root.ManifestsDir(), s.root.ManifestFile(manifestID), manifestPayload); err != nil {
		return nil, imgspecv1.Descriptor{}, err
	}

	img := &Image{
		ManifestID:     manifestID,
		ConfigID:       configID,
		Manifest:       manifest,
		Config:         cfg,
		Layers:         []layer.Layer{l},
		RepositoryName: spec.Repository,
		TagName:        spec.Tag,
	}
	manifestDescriptor := imgspecv1.Descriptor{
		MediaType:   ociimage.MediaTypeManifest,
		Digest:      manifestID,
		Size:        int64(len(manifestPayload)),
		Annotations: map[string]string{ociimage.RefNameAnnotation: spec.Tag},
	}
	xlog.C(ctx).Debugf("imagestore: created %s (%s:%s)", img.ShortID(), spec.Repository, spec.Tag)
	return img, manifestDescriptor, nil
}

func (s *store) Load(ctx context.Context, manifestID godigest.Digest) (*Image, error) {
	manifestPayload, err := os.ReadFile(s.root.ManifestFile(manifestID)) //nolint:gosec
	if err != nil {
		return nil, errdefs.AsNotFound(errdefs.ErrImageUnknown, err)
	}
	var manifest ociimage.DeserializedManifest
	if err := manifest.UnmarshalJSON(manifestPayload); err != nil {
		return nil, err
	}

	configDigest := manifest.Config().Digest
	configPayload, err := os.ReadFile(s.root.ConfigFile(configDigest)) //nolint:gosec
	if err != nil {
		return nil, errdefs.AsNotFound(errdefs.ErrImageUnknown, err)
	}
	var cfg ociimage.DeserializedConfig
	if err := cfg.UnmarshalJSON(configPayload); err != nil {
		return nil, err
	}

	diffIDs := cfg.DiffIDs()
	manifestLayers := manifest.Layers()
	if len(diffIDs) != len(manifestLayers) {
		return nil, errdefs.AsDataLoss(errdefs.ErrDanglingReference,
			errors.New("imagestore: config diff-id count does not match manifest layer count"))
	}

	layers := make([]layer.Layer, len(diffIDs))
	for i, diffDigest := range diffIDs {
		l, err := s.layers.ByDiffID(diffDigest.Encoded())
		if err != nil {
			return nil, err
		}
		if l.BlobDigest() != manifestLayers[i].Digest {
			return nil, errdefs.AsDataLoss(errdefs.ErrDigestMismatch,
				errors.New("imagestore: layer blob digest does not match manifest descriptor"))
		}
		if _, err := os.Stat(s.root.LayerBlobFile(l.BlobDigest())); err != nil {
			return nil, errdefs.AsNotFound(errdefs.ErrMissingBlob,
				fmt.Errorf("imagestore: layer blob %s: %w", digest.Short(l.BlobDigest()), err))
		}
		layers[i] = l
	}

	img := &Image{
		ManifestID: manifestID,
		ConfigID:   configDigest,
		Manifest:   &manifest,
		Config:     &cfg,
		Layers:     layers,
		TagName:    manifest.RefName(),
	}
	return deepcopy.Copy(img), nil
}

func (s *store) Remove(ctx context.Context, img *Image) error {
	if isParent, err := s.layers.IsParent(img.TopLayer()); err != nil {
		return err
	} else if isParent {
		return errdefs.AsConflict(errdefs.ErrImageInUse,
			errors.New("imagestore: image has a derived image"))
	}

	for i := len(img.Layers) - 1; i >= 0; i-- {
		if err := s.layers.Remove(ctx, img.Layers[i]); err != nil {
			if errors.Is(err, errdefs.ErrLayerInUse) {
				xlog.C(ctx).Debugf("imagestore: layer %s still referenced, leaving in place", digest.Short(img.Layers[i].BlobID))
				continue
			}
			return err
		}
	}
	if err := os.Remove(s.root.ConfigFile(img.ConfigID)); err != nil && !os.IsNotExist(err) {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.Remove(s.root.ManifestFile(img.ManifestID)); err != nil && !os.IsNotExist(err) {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}

func (s *store) writeFile(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errdefs.NewE(errdefs.ErrSystem, err)
	}
	return nil
}

func cmdOrDefault(cmd []string) []string {
	if len(cmd) == 0 {
		return ociimage.DefaultCmd
	}
	return cmd
}

func normalizePlatform(p imgspecv1.Platform) imgspecv1.Platform {
	return platforms.Normalize(p)
}
